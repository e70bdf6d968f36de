package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [table...]",
	Short: "List tables and their columns as the synchronizer sees them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		in := database.NewIntrospector(db, cfg.DBSchema)
		tables := args
		if len(tables) == 0 {
			tables = in.Tables(cmd.Context())
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Table", "Exists", "Columns"})
		table.SetAutoWrapText(false)
		for _, name := range tables {
			exists := in.TableExists(cmd.Context(), name)
			table.Append([]string{name, yesNo(exists), strings.Join(in.Columns(cmd.Context(), name), ", ")})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
