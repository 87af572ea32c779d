package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/achievement"
	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/bootstrap"
	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/example"
	"github.com/at-ishikawa/studytracker/internal/inference"
	"github.com/at-ishikawa/studytracker/internal/server"
	"github.com/at-ishikawa/studytracker/internal/storage"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "studytracker-server",
		Short:         "Study activity HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	return rootCmd
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	app := bootstrap.New()

	store, closer, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage.New() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error {
		return closer.Close()
	})

	httpServer, err := newHTTPServer(ctx, cfg, app, store)
	if err != nil {
		return errors.Join(err, app.Shutdown())
	}
	slog.Info("starting server", slog.String("addr", httpServer.Addr))
	return app.Serve(ctx, httpServer)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, app *bootstrap.App, store storage.Store) (*http.Server, error) {
	loc, err := cfg.Activity.Location()
	if err != nil {
		return nil, fmt.Errorf("cfg.Activity.Location() > %w", err)
	}
	tracker := activity.NewTracker(store,
		activity.WithStorageKey(cfg.Activity.StorageKey),
		activity.WithLocation(loc),
		activity.WithWeekStart(cfg.Activity.WeekStartDay()),
	)
	result := tracker.Load(ctx)
	slog.Info("loaded the activity log",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("status", string(result.Status)),
		slog.Int("days", result.Days),
	)

	client, err := newExampleClient(cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := client.(io.Closer); ok {
		app.AddShutdownHook(func(context.Context) error {
			return c.Close()
		})
	}

	handler, err := server.NewActivityHandler(
		tracker,
		achievement.NewBook(store, cfg.Activity.StorageKey, slog.Default()),
		example.NewGenerator(client, slog.Default(), generatorOptions(cfg)...),
		server.WithHeatmapDays(cfg.Activity.HeatmapDays),
	)
	if err != nil {
		return nil, fmt.Errorf("server.NewActivityHandler() > %w", err)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.NewHTTPHandler(handler, cfg.Server.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// newExampleClient returns nil without an API key, which makes the generator use fallback examples.
func newExampleClient(cfg *config.Config) (inference.Client, error) {
	client, err := example.NewClient(cfg)
	if errors.Is(err, example.ErrMissingAPIKey) {
		slog.Warn("no API key is configured, /api/examples returns fallback examples")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("example.NewClient() > %w", err)
	}
	return client, nil
}

func generatorOptions(cfg *config.Config) []example.GeneratorOption {
	if cfg.Examples.CacheDirectory == "" {
		return nil
	}
	return []example.GeneratorOption{example.WithFileCache(example.NewFileCache(cfg.Examples.CacheDirectory))}
}
