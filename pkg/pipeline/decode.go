package pipeline

import (
	"context"
	"time"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
)

// Decode parses input and returns its records. With a selector the
// matches are the records (a single matched array is unwrapped); without
// one the document's records are found by [jsonvalue.Records].
func Decode(ctx context.Context, input []byte, opts Options) ([]jsonvalue.Object, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, opts.Source)
	start := time.Now()

	records, err := decode(input, opts.Select)

	hooks.OnDecodeComplete(ctx, opts.Source, len(records), time.Since(start), err)
	return records, err
}

func decode(input []byte, selector string) ([]jsonvalue.Object, error) {
	if selector != "" {
		matches, err := jsonvalue.Select(input, selector)
		if err != nil {
			return nil, err
		}
		return jsonvalue.ObjectsOf(matches)
	}

	doc, err := jsonvalue.Parse(input)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Records(doc)
}
