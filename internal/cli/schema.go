package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
	"github.com/codeWuws/th-governance-web-sub002/pkg/sink"
)

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	var (
		tf     transformFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "schema [input]",
		Short: "Print the column tree",
		Long: `Print the column tree derived from the input.

The text format is an indented outline; dot and svg draw the tree with
Graphviz, one node per column labelled with its title and path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return fmt.Errorf("invalid schema format: %s (must be 'text', 'dot' or 'svg')", format)
			}
			t, opts, err := c.buildTable(cmd, args, &tf)
			if err != nil {
				return err
			}

			var data []byte
			if format == "text" {
				data = []byte(sink.SchemaText(t.Columns))
			} else if data, err = pipeline.RenderFormat(cmd.Context(), t, format, opts); err != nil {
				return err
			}

			paths, err := writeArtifacts(cmd.OutOrStdout(), map[string][]byte{format: data}, []string{format}, output, "")
			if err != nil {
				return err
			}
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "schema format: text, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
