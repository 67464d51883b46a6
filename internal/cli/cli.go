// Package cli implements the command-line interface for retail-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/config"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Per-connection overrides
	sourceHost     string
	sourcePort     int
	sourceUser     string
	sourcePassword string
	sourceDatabase string
	targetHost     string
	targetPort     int
	targetUser     string
	targetPassword string
	targetDatabase string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-etl",
		Short: "Centralise multinational retail data into a star schema",
		Long: `retail-etl extracts retail sales data scattered across a legacy
PostgreSQL database, a store REST API, a PDF document, object storage
and a JSON feed, cleans each dataset, and loads the result into a
single PostgreSQL star schema ready for analysis.

Connection details and document locations are read from a YAML config
file. Run 'retail-etl run' for the full pipeline, then 'retail-etl
report' to execute the analytical query catalog.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.PersistentFlags().StringVar(&sourceHost, "source-host", "",
		"source database host")
	rootCmd.PersistentFlags().IntVar(&sourcePort, "source-port", 0,
		"source database port")
	rootCmd.PersistentFlags().StringVar(&sourceUser, "source-user", "",
		"source database user")
	rootCmd.PersistentFlags().StringVar(&sourcePassword, "source-password", "",
		"source database password")
	rootCmd.PersistentFlags().StringVar(&sourceDatabase, "source-database", "",
		"source database name")
	rootCmd.PersistentFlags().StringVar(&targetHost, "target-host", "",
		"target database host")
	rootCmd.PersistentFlags().IntVar(&targetPort, "target-port", 0,
		"target database port")
	rootCmd.PersistentFlags().StringVar(&targetUser, "target-user", "",
		"target database user")
	rootCmd.PersistentFlags().StringVar(&targetPassword, "target-password", "",
		"target database password")
	rootCmd.PersistentFlags().StringVar(&targetDatabase, "target-database", "",
		"target database name")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(queriesCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	applyDBOverrides(&cfg.Source,
		sourceHost, sourcePort, sourceUser, sourcePassword, sourceDatabase)
	applyDBOverrides(&cfg.Target,
		targetHost, targetPort, targetUser, targetPassword, targetDatabase)

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// applyDBOverrides overlays non-empty flag values onto a connection config.
func applyDBOverrides(db *config.DBConfig, host string, port int, user, password, database string) {
	if host != "" {
		db.Host = host
	}
	if port > 0 {
		db.Port = port
	}
	if user != "" {
		db.User = user
	}
	if password != "" {
		db.Password = password
	}
	if database != "" {
		db.Database = database
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
