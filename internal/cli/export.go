package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/export"
	_ "github.com/codeWuws/th-governance-web-sub002/pkg/export/all"
	"github.com/codeWuws/th-governance-web-sub002/pkg/source"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	kind      string
	dsn       string
	table     string
	database  string
	batchSize int
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		tf   transformFlags
		opts exportOpts
	)

	cmd := &cobra.Command{
		Use:   "export [input]",
		Short: "Load the table into a database",
		Long: `Load the table into SQLite, PostgreSQL or MongoDB.

SQL backends create the table when it is missing and append one row per
table row. Column names are the column paths with "." replaced by "__",
preceded by _source (record index) and _index (element index). MongoDB
receives one document per row, nested like the input.

The table name defaults to the input file name.`,
		Example: `  gridshape export orders.json --kind sqlite --dsn orders.db
  gridshape export orders.json --kind postgres --dsn postgres://localhost/shop --table orders
  gridshape export orders.json --kind mongo --dsn mongodb://localhost:27017 --database shop`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				return fmt.Errorf("--dsn is required")
			}
			name := opts.table
			if name == "" {
				location := ""
				if len(args) > 0 {
					location = args[0]
				}
				name = tableName(location)
			}

			t, popts, err := c.buildTable(cmd, args, &tf)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			exp, err := export.New(ctx, export.Config{
				Kind:      opts.kind,
				DSN:       opts.dsn,
				Database:  opts.database,
				BatchSize: opts.batchSize,
				Locale:    popts.Locale,
			})
			if err != nil {
				return err
			}
			defer exp.Close()

			prog := newProgress(c.Logger)
			sp := startSpinner(ctx, fmt.Sprintf("Exporting %d rows to %s...", len(t.Rows), opts.kind))
			n, err := exp.Export(ctx, name, t)
			if err != nil {
				sp.fail("Export failed")
				return err
			}
			sp.stop()
			prog.done("exported", "rows", n, "kind", opts.kind, "table", name)
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVar(&opts.kind, "kind", "sqlite", "backend: "+strings.Join(export.Kinds(), ", "))
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "connection string or SQLite file path")
	cmd.Flags().StringVar(&opts.table, "table", "", "table or collection name")
	cmd.Flags().StringVar(&opts.database, "database", "", "MongoDB database (default gridshape)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", export.DefaultBatchSize, "rows per statement")

	return cmd
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// tableName derives a table name from an input location: its lower-cased
// base name with every run of other characters replaced by "_". Names that
// would start with a digit get a leading "t_". Stdin maps to "records".
func tableName(location string) string {
	if source.Kind(location) == "stdin" {
		return "records"
	}
	name := strings.Trim(nonIdent.ReplaceAllString(inputBase(location), "_"), "_")
	if name == "" {
		return "records"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	if len(name) > 63 {
		name = name[:63]
	}
	return strings.ToLower(name)
}
