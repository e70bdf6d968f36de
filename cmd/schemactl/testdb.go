package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

var testdbCmd = &cobra.Command{
	Use:   "testdb",
	Short: "Run a throwaway database container until interrupted",
	Long: `Starts the database image named by DB_IMAGE with the DB_* variables from the
environment (or the --env-file) and prints the connection settings to use with
migrate. The container is removed on SIGINT or SIGTERM.

example
  DB_IMAGE=postgres:17 schemactl testdb -f ./test.env`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			log.Infof("Loading environment variables from %s", envFile)
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load environment variables: %w", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		defer stop()

		db, err := testutil.StartDatabase(ctx, nil)
		if err != nil {
			return err
		}
		defer db.Terminate(nil)

		cfg := db.Config
		fmt.Fprintf(cmd.OutOrStdout(), "DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
			cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

		<-ctx.Done()
		log.Info("Terminating test database")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testdbCmd)
}
