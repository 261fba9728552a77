package grid

import "strings"

// ApplyMerges returns a copy of rows annotated with merge spans.
//
// Rows are grouped into blocks of consecutive rows with the same Source.
// In a block of k > 1 rows, every leaf column outside the block's fanned
// array paths is replicated, so its first row gets Head(k) and the rest
// Suppressed. Columns under a fanned path get no span. A group column takes
// the span its leaves agree on in that row and none when they differ.
// Blocks never merge with each other, whatever their values.
//
// Cells maps are shared with the input; Spans maps are fresh.
func ApplyMerges(columns []Column, rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Spans = make(map[string]Span)
		out[i] = r
	}

	leaves := LeafPaths(columns)
	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) && out[end].Source == out[start].Source {
			end++
		}
		if k := end - start; k > 1 {
			mergeBlock(columns, leaves, out[start:end])
		}
		start = end
	}
	return out
}

func mergeBlock(columns []Column, leaves []string, block []Row) {
	fanned := make(map[string]struct{})
	for _, r := range block {
		for _, p := range r.Fanned {
			fanned[p] = struct{}{}
		}
	}

	k := len(block)
	for _, path := range leaves {
		if underAny(path, fanned) {
			continue
		}
		block[0].Spans[path] = Head(k)
		for i := 1; i < k; i++ {
			block[i].Spans[path] = Suppressed
		}
	}

	for _, r := range block {
		for _, c := range columns {
			groupSpan(c, r.Spans)
		}
	}
}

// groupSpan records the span shared by every leaf under c and returns it.
// The second result is false when the leaves disagree.
func groupSpan(c Column, spans map[string]Span) (Span, bool) {
	if !c.IsGroup() {
		return spans[c.Path], true
	}

	var shared Span
	agree := true
	for i, ch := range c.Children {
		s, ok := groupSpan(ch, spans)
		if !ok || (i > 0 && s != shared) {
			agree = false
			continue
		}
		shared = s
	}
	if !agree {
		return NotMerged, false
	}
	if shared.IsMerged() {
		spans[c.Path] = shared
	}
	return shared, true
}

func underAny(path string, prefixes map[string]struct{}) bool {
	for p := range prefixes {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}
