package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
	"github.com/codeWuws/th-governance-web-sub002/pkg/sink"
)

const defaultPreviewLimit = 20

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		tf     transformFlags
		limit  int
		offset int
		width  int
	)

	cmd := &cobra.Command{
		Use:   "preview [input]",
		Short: "Print the first rows as a terminal table",
		Long: `Print the first rows of the table in the terminal.

Values merged across a record's rows are printed once. Use 'browse' to page
through large tables interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, opts, err := c.buildTable(cmd, args, &tf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sink.RenderText(t, opts.Formatter(),
				sink.WithTextOffset(offset),
				sink.WithTextLimit(limit),
				sink.WithTextWidth(width),
				sink.WithTextColor()))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultPreviewLimit, "rows to print (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&width, "width", 0, "maximum table width (0 for unbounded)")

	return cmd
}

// buildTable reads the input and transforms it with the shared flags. The
// returned options have their defaults applied.
func (c *CLI) buildTable(cmd *cobra.Command, args []string, tf *transformFlags) (grid.Table, pipeline.Options, error) {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return grid.Table{}, pipeline.Options{}, err
	}
	opts, err := tf.options(cmd, cfg)
	if err != nil {
		return grid.Table{}, opts, err
	}

	input, location, err := c.readInput(cmd, args, tf.noCache)
	if err != nil {
		return grid.Table{}, opts, err
	}
	opts.Source = location
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return grid.Table{}, opts, err
	}

	runner, err := c.newRunner(ctx, tf.noCache)
	if err != nil {
		return grid.Table{}, opts, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	t, err := runner.Transform(ctx, input, opts)
	return t, opts, err
}
