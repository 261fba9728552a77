package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
	"github.com/codeWuws/th-governance-web-sub002/pkg/source"
)

// flattenOpts holds the output flags of the flatten command.
type flattenOpts struct {
	output   string // output file, base path for several formats, "-" for stdout
	formats  string // comma-separated formats
	collapse bool
	sheet    string
	title    string
}

// flattenCommand creates the flatten command.
func (c *CLI) flattenCommand() *cobra.Command {
	var (
		tf   transformFlags
		opts flattenOpts
	)

	cmd := &cobra.Command{
		Use:   "flatten [input]",
		Short: "Turn JSON records into a table",
		Long: `Turn JSON records into a table.

The input is a file, an http(s) URL or "-" for standard input (the default).
It may be an array of records, an envelope object holding one, or a single
record; --select picks the records with a JSONPath expression instead.

With one format and no --output the table is written to standard output.
With several formats each one is written next to the base path, e.g.
"-f csv,html -o orders" writes orders.csv and orders.html.

Results are cached locally for faster subsequent runs.`,
		Example: `  gridshape flatten orders.json -f csv
  gridshape flatten https://api.example.com/orders --select '$.data.items' -f xlsx -o orders.xlsx
  cat orders.json | gridshape flatten -f html,csv -o report --locale de`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts, err := tf.options(cmd, cfg)
			if err != nil {
				return err
			}
			popts.Formats = parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(popts.Formats); err != nil {
				return err
			}
			if len(popts.Formats) > 1 && opts.output == "-" {
				return fmt.Errorf("cannot write %d formats to stdout", len(popts.Formats))
			}
			popts.Collapse = opts.collapse
			popts.Sheet = opts.sheet
			popts.Title = opts.title
			return c.runFlatten(cmd, args, popts, tf.noCache, opts.output)
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), csv, html, xlsx, text, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.collapse, "collapse", false, "csv: write merged values only on the first row")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "xlsx: worksheet name")
	cmd.Flags().StringVar(&opts.title, "title", "", "html: write a full document with this title")

	return cmd
}

// runFlatten reads the input, runs the pipeline and writes the artifacts.
func (c *CLI) runFlatten(cmd *cobra.Command, args []string, opts pipeline.Options, noCache bool, output string) error {
	ctx := cmd.Context()
	input, location, err := c.readInput(cmd, args, noCache)
	if err != nil {
		return err
	}
	opts.Source = location

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, input, opts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(cmd.OutOrStdout(), result.Artifacts, opts.Formats, output, location)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	printSuccess("Flattened %s", location)
	printStats(result.Stats.Records, result.Stats.Rows, result.Stats.Columns, result.CacheInfo.TableHit)
	for _, p := range paths {
		printFile(p)
	}
	if location != source.Stdin {
		fmt.Fprintln(statusOut)
		printNextStep("Browse rows", appName+" browse "+location)
	}
	return nil
}

// writeArtifacts writes one artifact per format and returns the files
// written. A single format without an output path goes to stdout.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if len(formats) == 1 && (output == "" || output == "-") {
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	if len(formats) == 1 {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + pipeline.Extension(format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path for several formats. Without an
// output a file input keeps its path minus the extension; stdin and URLs
// use inputBase. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if source.Kind(input) == "file" {
			return strings.TrimSuffix(input, filepath.Ext(input))
		}
		return inputBase(input)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || ext == pipeline.Extension(pipeline.FormatText) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
