// Command schemactl runs and inspects schema bootstrap outside the server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
)

var (
	envFile  string
	logLevel string
)

var log = logging.GetPackageLogger("schemactl")

var rootCmd = &cobra.Command{
	Use:           "schemactl",
	Short:         "Schema relationship and synchronization tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := os.Setenv("ENV_FILE", envFile); err != nil {
				return err
			}
		}
		logging.SetLevel(logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "f", "", "path to a .env file read before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		logging.Sync()
		os.Exit(1)
	}
}

// connect loads the configuration and opens the database it names.
func connect() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if !rootCmd.PersistentFlags().Changed("log-level") {
		logging.SetLevel(cfg.LogLevel)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
