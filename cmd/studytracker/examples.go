package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/cli"
	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/example"
	"github.com/at-ishikawa/studytracker/internal/inference"
)

func newExamplesCommand() *cobra.Command {
	var count int
	var usageContext string
	command := &cobra.Command{
		Use:   "examples WORD",
		Short: "Generate example sentences for a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if count <= 0 {
				count = cfg.Examples.Count
			}

			client, err := newExampleClient(cfg)
			if err != nil {
				return err
			}
			if closer, ok := client.(io.Closer); ok {
				defer func() { _ = closer.Close() }()
			}

			generator := example.NewGenerator(client, slog.Default(), generatorOptions(cfg)...)
			return cli.RunExamples(cmd.Context(), cmd.OutOrStdout(), generator, args[0], count, usageContext)
		},
	}
	command.Flags().IntVar(&count, "count", 0, "number of examples (default examples.count)")
	command.Flags().StringVar(&usageContext, "context", "", "topic or situation the examples should fit")
	return command
}

// newExampleClient returns nil without an API key, which makes the generator use fallback examples.
func newExampleClient(cfg *config.Config) (inference.Client, error) {
	client, err := example.NewClient(cfg)
	if errors.Is(err, example.ErrMissingAPIKey) {
		slog.Warn("no API key is configured, using fallback examples")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func generatorOptions(cfg *config.Config) []example.GeneratorOption {
	if cfg.Examples.CacheDirectory == "" {
		return nil
	}
	return []example.GeneratorOption{example.WithFileCache(example.NewFileCache(cfg.Examples.CacheDirectory))}
}
