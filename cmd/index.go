package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/doxmd/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index [input.xml] [output.db]",
	Short: "Store the entities of a Doxygen XML document in a SQLite database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mergeInput(args)
		output := args[1]

		sel, err := newSelector(cfg)
		if err != nil {
			return err
		}

		_ = os.Remove(output) // Overwrite
		w, err := index.NewWriter(output, slog.Default())
		if err != nil {
			return err
		}

		start := time.Now()
		if err := w.AddSelection(sel); err != nil {
			_ = w.Abort()
			_ = os.Remove(output)
			return err
		}
		rows := w.Count()
		if err := w.Close(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d entities into %s in %v.\n", rows, output, time.Since(start).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
