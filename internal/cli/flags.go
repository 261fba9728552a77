package cli

import (
	"maps"

	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/config"
	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
)

// transformFlags holds the flags shared by every command that builds a
// table. Unset flags fall back to the config file.
type transformFlags struct {
	selector    string
	maxDepth    int
	labels      string // TOML label file
	locale      string
	emptyArrays string
	noCache     bool
	refresh     bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selector, "select", "", "JSONPath selecting the records (e.g. $.data.items)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", pipeline.DefaultMaxDepth, "nesting levels expanded into columns")
	cmd.Flags().StringVar(&f.labels, "labels", "", "TOML file mapping column paths to titles")
	cmd.Flags().StringVar(&f.locale, "locale", "", "locale for yes/no words (default en)")
	cmd.Flags().StringVar(&f.emptyArrays, "empty-arrays", "", "empty object arrays: keep (default) or drop")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options merges the flags over cfg. A flag wins only when it was set on
// the command line.
func (f *transformFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Select:      cfg.Select,
		MaxDepth:    cfg.MaxDepth,
		EmptyArrays: cfg.EmptyArrays,
		Labels:      cfg.Labels,
		Locale:      cfg.Locale,
		Refresh:     f.refresh,
	}

	changed := cmd.Flags().Changed
	if changed("select") {
		opts.Select = f.selector
	}
	if changed("max-depth") {
		opts.MaxDepth = pipeline.Depth(f.maxDepth)
	}
	if changed("locale") {
		opts.Locale = f.locale
	}
	if changed("empty-arrays") {
		opts.EmptyArrays = f.emptyArrays
	}
	if f.labels != "" {
		labels, err := config.LoadLabels(f.labels)
		if err != nil {
			return opts, err
		}
		merged := make(map[string]string, len(cfg.Labels)+len(labels))
		maps.Copy(merged, cfg.Labels)
		maps.Copy(merged, labels)
		opts.Labels = merged
	}
	return opts, nil
}
