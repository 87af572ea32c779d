package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/cli"
)

func newRecordCommand() *cobra.Command {
	var cards int
	var date dateFlag
	command := &cobra.Command{
		Use:   "record",
		Short: "Record a completed study session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			at := date.at(time.Now(), s.tracker.Location())
			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).Record(ctx, cards, at)
		},
	}
	command.Flags().IntVar(&cards, "cards", 0, "number of cards reviewed in the session")
	command.Flags().Var(&date, "date", "date of the session in YYYY-MM-DD (default today)")
	if err := command.MarkFlagRequired("cards"); err != nil {
		panic(fmt.Errorf("MarkFlagRequired(cards) > %w", err))
	}
	return command
}

func newVisitCommand() *cobra.Command {
	var date dateFlag
	command := &cobra.Command{
		Use:   "visit",
		Short: "Mark a day as visited without recording cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			at := date.at(time.Now(), s.tracker.Location())
			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).Visit(ctx, at)
		},
	}
	command.Flags().Var(&date, "date", "date to mark in YYYY-MM-DD (default today)")
	return command
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streaks and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).Stats(time.Now())
		},
	}
}

func newHeatmapCommand() *cobra.Command {
	var days int
	command := &cobra.Command{
		Use:   "heatmap",
		Short: "Show the activity heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			if days <= 0 {
				days = s.cfg.Activity.HeatmapDays
			}
			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).Heatmap(time.Now(), days)
		},
	}
	command.Flags().IntVar(&days, "days", 0, "number of days to show (default activity.heatmap_days)")
	return command
}

func newAchievementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievement progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).Achievements(ctx, time.Now())
		},
	}
}
