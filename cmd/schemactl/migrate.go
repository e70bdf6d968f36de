package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
)

var (
	migrateForce bool
	migrateAlter bool
	migrateLock  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply relationships and synchronize every table",
	Long: `Applies the relationships declared by the feature modules and synchronizes
the tables of every entity type. Malformed or missing join tables are recreated.
A base table failure exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		opts := bootstrap.Options{
			Sync:         database.SyncOptions{Force: cfg.SyncForce, Alter: cfg.SyncAlter},
			AdvisoryLock: cfg.SyncAdvisoryLock,
			Schema:       cfg.DBSchema,
		}
		if cmd.Flags().Changed("force") {
			opts.Sync.Force = migrateForce
		}
		if cmd.Flags().Changed("alter") {
			opts.Sync.Alter = migrateAlter
		}
		if cmd.Flags().Changed("lock") {
			opts.AdvisoryLock = migrateLock
		}

		result, err := bootstrap.Run(cmd.Context(), db, opts)
		if result != nil && result.Report != nil {
			writeReport(cmd.OutOrStdout(), result.Report)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nRelationships: %d/%d applied\n", result.Summary.Applied, result.Summary.Total)
		if tolerated := result.Report.Tolerated(); tolerated != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Tolerated: %v\n", tolerated)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "drop and rebuild every join table (default SYNC_FORCE)")
	migrateCmd.Flags().BoolVar(&migrateAlter, "alter", true, "add missing columns, indexes and constraints (default SYNC_ALTER)")
	migrateCmd.Flags().BoolVar(&migrateLock, "lock", false, "hold a postgres advisory lock while synchronizing (default SYNC_ADVISORY_LOCK)")
	rootCmd.AddCommand(migrateCmd)
}

func writeReport(w io.Writer, report *database.SyncReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Entity", "Table", "Join", "State", "Repaired", "Error"})
	for _, e := range report.Entities {
		table.Append([]string{e.Entity, e.Table, yesNo(e.Join), string(e.State), yesNo(e.Repaired), e.Error})
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
