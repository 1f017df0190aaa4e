// Package cli implements the medalcast command line: the same forecasts as
// the HTTP API, computed in-process against a local dataset and model
// directory.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/medalcast/internal/app"
	"github.com/okian/medalcast/internal/config"
	"github.com/okian/medalcast/pkg/logger"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Flags holds persistent flags. Empty values defer to configuration.
// Strategy is passed through to each forecast call.
type Flags struct {
	ConfigFile string
	DataPath   string
	DataSource string
	Table      string
	ModelsDir  string
	Strategy   string
	Format     string
	LogLevel   string
}

type serviceKey struct{}

// NewRootCmd creates an isolated root command.
func NewRootCmd() *cobra.Command {
	flags := &Flags{Format: FormatTable, LogLevel: "warn"}

	cmd := &cobra.Command{
		Use:   "medalcast",
		Short: "Forecast Olympic medal counts",
		Long: `medalcast forecasts gold, silver and bronze counts for countries,
athletes and sports from historical results.

A trained model artifact is used when one is present in the models
directory; otherwise the forecast falls back to smoothing over past games.`,
		PersistentPreRunE: createSetup(flags),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&flags.DataPath, "data", "", "Medal dataset (CSV file or SQLite database)")
	pf.StringVar(&flags.DataSource, "source", "", "Dataset kind: csv or sqlite")
	pf.StringVar(&flags.Table, "table", "", "SQLite table holding medal rows")
	pf.StringVar(&flags.ModelsDir, "models", "", "Directory of model artifacts")
	pf.StringVarP(&flags.Strategy, "strategy", "s", "", "Smoothing strategy: ma or es")
	pf.StringVarP(&flags.Format, "format", "o", FormatTable, "Output format: table or json")
	pf.StringVar(&flags.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		createCountryCmd(flags),
		createTopCmd(flags),
		createAthletesCmd(flags),
		createSportsCmd(flags),
		createHistoryCmd(flags),
		createCountriesCmd(flags),
		createModelsCmd(flags),
	)
	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// createSetup loads configuration, applies flag overrides, initializes
// logging to stderr and stores the service in the command context.
func createSetup(flags *Flags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if flags.Format != FormatTable && flags.Format != FormatJSON {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, flags.Format)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := config.LoadFrom(ctx, flags.ConfigFile)
		if err != nil {
			return err
		}
		applyOverrides(cfg, flags)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
			return err
		}
		if err := logger.SetLevelString(flags.LogLevel); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFlag, err)
		}

		svc, err := service.FromConfig(cfg, logger.Named("cli"))
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(ctx, serviceKey{}, svc))
		return nil
	}
}

func applyOverrides(cfg *config.Config, flags *Flags) {
	if flags.DataPath != "" {
		cfg.DataPath = flags.DataPath
	}
	if flags.DataSource != "" {
		cfg.DataSource = flags.DataSource
	}
	if flags.Table != "" {
		cfg.SQLiteTable = flags.Table
	}
	if flags.ModelsDir != "" {
		cfg.ModelsDir = flags.ModelsDir
	}
}

func serviceFrom(cmd *cobra.Command) *service.Service {
	svc, _ := cmd.Context().Value(serviceKey{}).(*service.Service)
	return svc
}
