// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/internal/config"
	"fjacquet/bank-import/internal/container"
	"fjacquet/bank-import/internal/logging"
)

var (
	// Log is the shared logger for commands. It is replaced by the
	// configured logger once the configuration is loaded.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// ConfigFile is the value of --config.
	ConfigFile string

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-import",
		Short: "Import bank CSV exports into a categorized SQLite ledger",
		Long: `bank-import reads CSV exports from several banks, normalizes each row using
a per-institution map, classifies it with bank category mappings and regex
rules, and stores it in a local SQLite database for reporting.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}
)

// Init registers the persistent flags shared by all commands.
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&ConfigFile, "config", "", "Config file (default searches ./config.yaml, ./.bank-import, $HOME/.bank-import)")
	flags.String("db", "finance.db", "SQLite database path")
	flags.String("maps", "maps.json", "Institution map file (JSON or YAML)")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}

func setup(cmd *cobra.Command, _ []string) error {
	envFile, envErr := config.LoadEnv()

	cfg, err := config.Load(config.Options{ConfigFile: ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	Log = config.NewLogger(cfg)
	if envErr != nil {
		Log.WithError(envErr).Warn("Failed to load .env file", logging.F(logging.FieldFile, envFile))
	} else if envFile != "" {
		Log.Debug("Loaded environment file", logging.F(logging.FieldFile, envFile))
	}

	AppContainer, err = container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.FlushMetrics(); err != nil {
		Log.WithError(err).Warn("Failed to write metrics file")
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close application resources")
	}
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return AppContainer
}
