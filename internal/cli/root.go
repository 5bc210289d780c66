// Package cli wires the zoo command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zoohousing/internal/catalog"
	"zoohousing/internal/config"
	"zoohousing/internal/core"
	"zoohousing/internal/logging"
	"zoohousing/internal/observability/metrics"
	"zoohousing/pkg/domain"
)

// App carries state shared by subcommands once the root command initialises.
type App struct {
	ConfigPath string
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Service    *core.Service

	source catalog.Source
}

// RootCommand creates and returns the root command.
func RootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zoo",
		Short:         "Find enclosures able to house new animals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(
		evaluateCommand(app),
		explainCommand(app),
		serveCommand(app),
		catalogCommand(app),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.initialize(cmd.Context())
	}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return app.Close()
	}
	return rootCmd
}

// initialize loads configuration, logging, metrics and the catalog snapshot.
func (app *App) initialize(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if app.Config == nil {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		app.Config = cfg
	}
	if app.Logger == nil {
		logger, err := logging.New(app.Config.Log.Level, app.Config.Log.Development)
		if err != nil {
			return err
		}
		app.Logger = logger
	}
	if app.Registry == nil {
		app.Registry = prometheus.NewRegistry()
	}
	rec, err := metrics.NewEvaluationMetrics(app.Registry)
	if err != nil {
		return err
	}

	cat, src, err := catalog.Load(ctx, app.Config.Catalog)
	app.source = src
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	app.Logger.Info("catalog loaded",
		zap.String("source", src.Name()),
		zap.Int("species", len(cat.ListSpecies())),
		zap.Int("enclosures", len(cat.ListEnclosures())))

	opts := []core.ServiceOption{core.WithLogger(app.Logger), core.WithMetrics(rec)}
	if app.Config.Cache.Enabled {
		opts = append(opts, core.WithResultCache(app.Config.Cache.TTL))
	}
	app.Service, err = core.NewService(cat, opts...)
	return err
}

// Close releases the catalog source and flushes the logger.
func (app *App) Close() error {
	var errs []error
	if closer, ok := app.source.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	app.source = nil
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
	return errors.Join(errs...)
}

// ExitMessage returns the text printed for a failed command.
func ExitMessage(err error) string {
	var evalErr domain.EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Message()
	}
	return err.Error()
}
