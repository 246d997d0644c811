package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/doxmd/internal/watch"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().AddFlagSet(renderCmd.Flags())
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Delay before re-rendering after a change")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [input.xml] [output.md]",
	Short: "Re-render whenever the XML input, template or examples change",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mergeInput(args)
		if len(args) > 1 {
			renderFlags.Output = args[1]
		}
		cfg.Merge(&renderFlags)
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Render once up front so a broken input is reported immediately.
		if err := renderOnce(cfg, cmd.OutOrStdout()); err != nil {
			return err
		}

		paths := []string{filepath.Dir(cfg.Input)}
		if cfg.Template != "" {
			paths = append(paths, cfg.Template)
		}
		if cfg.Examples.Dir != "" {
			paths = append(paths, cfg.Examples.Dir)
		}
		output, _ := filepath.Abs(cfg.Output)

		w, err := watch.New(watch.Config{
			Paths:         paths,
			DebounceDelay: watchDebounce,
			Ignore: func(p string) bool {
				abs, _ := filepath.Abs(p)
				return abs == output
			},
			Logger: slog.Default(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("watching for changes", "input", cfg.Input, "output", cfg.Output)
		return w.Run(ctx, func(changed []string) error {
			return renderOnce(cfg, cmd.OutOrStdout())
		})
	},
}
