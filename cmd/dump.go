package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/selector"
)

var (
	dumpKind  string
	dumpQuery string
)

func init() {
	dumpCmd.Flags().StringVarP(&dumpKind, "kind", "k", "all", "Selection to dump: functions, enums, structs or all")
	dumpCmd.Flags().StringVarP(&dumpQuery, "query", "q", "", "JSONPath applied to the dump (e.g. $.functions[*].name)")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump [input.xml]",
	Short: "Print the resolved entities of a Doxygen XML document as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mergeInput(args)
		sel, err := newSelector(cfg)
		if err != nil {
			return err
		}

		data, err := dumpSelection(sel, dumpKind)
		if err != nil {
			return err
		}

		var out any = data
		if dumpQuery != "" {
			x, err := jp.ParseString(dumpQuery)
			if err != nil {
				return fmt.Errorf("invalid jsonpath '%s': %w", dumpQuery, err)
			}
			out = x.Get(data)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), oj.JSON(out, &oj.Options{Indent: 2, Sort: true}))
		return err
	},
}

// dumpSelection exports the requested selections keyed by name.
func dumpSelection(sel *selector.Selector, kind string) (map[string]any, error) {
	names := []string{"functions", "enums", "structs"}
	if kind != "all" {
		names = []string{kind}
	}

	out := make(map[string]any, len(names))
	for _, name := range names {
		var list []any
		switch name {
		case "functions", "enums":
			views, err := sel.Select(name)
			if err != nil {
				return nil, err
			}
			for _, v := range views.([]*entity.View) {
				m, err := entity.Export(v)
				if err != nil {
					return nil, err
				}
				list = append(list, m)
			}
		case "structs":
			structs, err := sel.SelectStructs()
			if err != nil {
				return nil, err
			}
			for _, s := range structs {
				m, err := entity.ExportStruct(s)
				if err != nil {
					return nil, err
				}
				list = append(list, m)
			}
		default:
			return nil, fmt.Errorf("%w: %q", selector.ErrUnknownSelection, name)
		}
		if list == nil {
			list = []any{}
		}
		out[name] = list
	}
	return out, nil
}
