package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"mcpsettings/internal/app"
	"mcpsettings/internal/config"
	"mcpsettings/internal/infra/telemetry"
)

type cliOptions struct {
	configPath     string
	dataDir        string
	secretsBackend string
	logLevel       string
	jsonOutput     bool
	logger         *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "mcpsettingsctl",
		Short:         "Manage MCP server settings from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyRootFlagBindings(cmd, &opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override the data directory")
	root.PersistentFlags().StringVar(&opts.secretsBackend, "secrets", "", "override the secret backend (keychain or none)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log to stderr at this level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newListCmd(&opts),
		newGetCmd(&opts),
		newAddCmd(&opts),
		newAddTemplateCmd(&opts),
		newUpdateCmd(&opts),
		newToggleCmd(&opts, true),
		newToggleCmd(&opts, false),
		newRemoveCmd(&opts),
		newClearCmd(&opts),
		newTemplatesCmd(&opts),
		newProvidersCmd(&opts),
		newModelCmd(&opts),
		newImportCmd(&opts),
		newExportCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) error {
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != "log-level" || err != nil {
			return
		}
		var logger *zap.Logger
		logger, err = app.NewDevelopmentLogger(opts.logLevel)
		if err == nil {
			opts.logger = logger
		}
	})
	if err != nil {
		return usageErrorf("%v", err)
	}
	return nil
}

// openApp loads the config, applies flag overrides and opens the stores. The
// returned cleanup closes them.
func openApp(opts *cliOptions) (*app.Application, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, usageErrorf("%v", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.secretsBackend != "" {
		cfg.Secrets.Backend = opts.secretsBackend
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return nil, nil, usageErrorf("%v", err)
		}
	}
	return app.InitializeApplication(cfg, app.LoggingConfig{
		Logger: opts.logger,
		Source: telemetry.LogSourceCLI,
	})
}

// withApp runs fn against an opened application and closes it afterwards.
func withApp(opts *cliOptions, fn func(*app.Application) error) error {
	application, cleanup, err := openApp(opts)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(application)
}
