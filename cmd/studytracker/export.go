package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/cli"
	"github.com/at-ishikawa/studytracker/internal/datasync"
)

func newExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the activity log",
	}
	exportCmd.AddCommand(newExportYAMLCommand(), newExportReportCommand())
	return exportCmd
}

func newExportYAMLCommand() *cobra.Command {
	var outputDir string
	command := &cobra.Command{
		Use:   "yaml",
		Short: "Export the activity log to activity.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			if outputDir == "" {
				outputDir = s.cfg.Outputs.ReportDirectory
			}
			sink := datasync.NewYAMLActivitySink(outputDir)
			return cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout()).ExportYAML(sink)
		},
	}
	command.Flags().StringVar(&outputDir, "output", "", "output directory (default outputs.report_directory)")
	return command
}

func newExportReportCommand() *cobra.Command {
	var outputDir string
	var withPDF bool
	command := &cobra.Command{
		Use:   "report",
		Short: "Write a Markdown activity report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			if outputDir == "" {
				outputDir = s.cfg.Outputs.ReportDirectory
			}
			activityCLI := cli.NewActivityCLI(s.tracker, s.book, cmd.OutOrStdout())
			_, err = activityCLI.ExportReport(ctx, time.Now(), outputDir, s.cfg.Templates.ReportTemplate, withPDF)
			return err
		},
	}
	command.Flags().StringVar(&outputDir, "output", "", "output directory (default outputs.report_directory)")
	command.Flags().BoolVar(&withPDF, "pdf", false, "also convert the report to PDF")
	return command
}
