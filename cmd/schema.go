package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentic-research/doxmd/api"
	"github.com/agentic-research/doxmd/internal/entity"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the fields every entity kind exposes to templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "KIND\tFIELD\tACCESS\tSOURCE\tNESTED")
		for _, k := range entity.Kinds() {
			for _, f := range k.Fields() {
				nested := ""
				if f.Access == api.Child {
					nested = f.Nested
					if f.Cardinality == api.Many {
						nested = "[]" + nested
					}
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.Name(), f.Identifier, f.Access, f.Source, nested)
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
