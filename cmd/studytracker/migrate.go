package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/cli"
	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/datasync"
	"github.com/at-ishikawa/studytracker/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCmd.AddCommand(newMigrateStoreCommand())

	return migrateCmd
}

func newMigrateStoreCommand() *cobra.Command {
	var from, to Backend
	var opts datasync.MigrateOptions
	command := &cobra.Command{
		Use:   "store",
		Short: "Copy the activity log and achievements between storage backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return fmt.Errorf("--from and --to must be different backends")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			source, closeSource, err := openStore(ctx, cfg, from)
			if err != nil {
				return err
			}
			defer func() { _ = closeSource.Close() }()
			destination, closeDestination, err := openStore(ctx, cfg, to)
			if err != nil {
				return err
			}
			defer func() { _ = closeDestination.Close() }()

			migrator := datasync.NewMigrator(source, destination, cfg.Activity.StorageKey, cmd.OutOrStdout())
			return cli.RunMigration(ctx, cmd.OutOrStdout(), migrator, from.String(), to.String(), opts)
		},
	}
	command.Flags().Var(&from, "from", fmt.Sprintf("source backend. Possible values are %s", joinBackends()))
	command.Flags().Var(&to, "to", fmt.Sprintf("destination backend. Possible values are %s", joinBackends()))
	command.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would be copied without writing")
	command.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace payloads that already exist in the destination")
	for _, name := range []string{"from", "to"} {
		if err := command.MarkFlagRequired(name); err != nil {
			panic(fmt.Errorf("MarkFlagRequired(%s) > %w", name, err))
		}
	}
	return command
}

func openStore(ctx context.Context, cfg *config.Config, backend Backend) (storage.Store, io.Closer, error) {
	backendCfg := *cfg
	backendCfg.Storage.Backend = string(backend)
	store, closer, err := storage.New(ctx, &backendCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("storage.New(%s) > %w", backend, err)
	}
	return store, closer, nil
}
