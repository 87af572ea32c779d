package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/cli"
	"github.com/at-ishikawa/studytracker/internal/statistics"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze study activity over time",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	return cmd
}

func newAnalyzeReportCommand() *cobra.Command {
	var year, month int
	var yearly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of study activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			granularity := statistics.Monthly
			if yearly {
				granularity = statistics.Yearly
			}
			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).AnalyzeReport(granularity, year, month)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().BoolVar(&yearly, "yearly", false, "Group by year instead of month")

	return cmd
}
