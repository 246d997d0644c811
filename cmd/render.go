package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentic-research/doxmd/internal/config"
	"github.com/agentic-research/doxmd/internal/examples"
	"github.com/agentic-research/doxmd/internal/render"
)

var renderFlags config.Config

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.Template, "template", "t", "", "Template file (default: built-in layout)")
	f.BoolVar(&renderFlags.GitHub, "github", false, "Enable GitHub-flavoured output in templates")
	f.StringSliceVar(&renderFlags.Typedefs, "typedef", nil, "Compound names documented as typedefs (repeatable)")
	f.StringVar(&renderFlags.RefSuffix, "ref-suffix", "", "Suffix turning an innerclass refid into a file name")
	f.StringVar(&renderFlags.Examples.Dir, "examples", "", "Directory of example sources exposed to templates")
	f.StringVar(&renderFlags.Examples.Pattern, "examples-pattern", "", "Glob selecting example sources (default *.c)")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [input.xml] [output.md]",
	Short: "Render a template against the entities of a Doxygen XML document",
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
		return renderOnce(cfg, cmd.OutOrStdout())
	},
}

// renderOnce performs one complete generation run.
func renderOnce(c *config.Config, stdout io.Writer) error {
	sel, err := newSelector(c)
	if err != nil {
		return err
	}

	found, err := examples.Discover(c.Examples.Dir, c.Examples.Pattern)
	if err != nil {
		return err
	}
	opts := render.Options{
		GitHub:   c.GitHub,
		Examples: examples.Index(found),
		Logger:   slog.Default(),
	}

	var r *render.Renderer
	if c.Template == "" {
		r, err = render.New("default.md.tmpl", render.DefaultTemplate, sel, opts)
	} else {
		r, err = render.NewFromFile(c.Template, sel, opts)
	}
	if err != nil {
		return err
	}

	if c.Output == "-" {
		return r.Execute(stdout)
	}
	if err := r.RenderFile(c.Output); err != nil {
		return fmt.Errorf("%s: %w", c.Input, err)
	}
	return nil
}
