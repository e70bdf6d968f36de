package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"
)

var (
	relationsOutput  string
	relationsModules []string
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List declared relationships in application order",
	Long: `Collects and applies the relationships of every feature module against the
configured database's entity descriptors, without touching any table, and lists
them with their owning module and applied state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		result, err := bootstrap.Relate(db, bootstrap.Options{})
		if err != nil {
			return err
		}
		return writeRelations(cmd.OutOrStdout(), services.DescribeRelationships(result, relationsModules), relationsOutput)
	},
}

func init() {
	relationsCmd.Flags().StringVarP(&relationsOutput, "output", "o", "table", "output format (table, yaml, json)")
	relationsCmd.Flags().StringSliceVarP(&relationsModules, "module", "m", nil, "only list relationships owned by these modules")
	rootCmd.AddCommand(relationsCmd)
}

func writeRelations(w io.Writer, result services.RelationshipsResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Module", "Kind", "Source", "Target", "Alias", "Foreign Key", "Through", "Applied"})
		for _, r := range result.Relationships {
			applied := yesNo(r.Field != "")
			if r.Error != "" {
				applied = "failed"
			}
			table.Append([]string{r.OwningModule, r.Kind.String(), r.SourceType, r.TargetType, r.Alias, r.ForeignKey, r.Through, applied})
		}
		table.Render()
		_, err := fmt.Fprintf(w, "%d/%d applied\n", result.Applied, result.Total)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
