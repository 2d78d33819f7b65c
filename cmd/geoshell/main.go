package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"geoshell/internal/app"
	"geoshell/internal/platform/config"
	"geoshell/internal/platform/logger"
	"geoshell/internal/platform/metrics"
)

// options holds the persistent flags. Flags that are set override the
// loaded configuration.
type options struct {
	configPath string
	logLevel   string
	driver     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "geoshell",
		Short: "Administer a Mondial-style geographic database",
		Long: `geoshell is an interactive shell over a geographic database.

Guests may query continents, countries and cities within a query quota.
Signed-in administrators may also rebalance religions, transfer cities and
adjust populations. Commands are read one per line from standard input.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "geoshell.yaml", "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "database driver: postgres, pgx or memory")

	root.AddCommand(newMigrateCmd(opts), newAuditCmd(opts))
	return root
}

// loadConfig applies flag overrides on top of file and environment.
func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runShell(cmd *cobra.Command, opts *options) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	m := metrics.New()

	ctx := cmd.Context()
	a, err := app.Open(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				log.Warn("metrics textfile not written", "path", cfg.Metrics.Textfile, "error", werr)
			}
		}()
	}

	log.Info("shell starting", "driver", cfg.Database.Driver)
	return a.Shell(cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
}
