package grid

import (
	"maps"
	"slices"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// Column is a node of the column tree. Leaf columns render one value per
// row; group columns (non-empty Children) only head their children.
type Column struct {
	// Path is the dot-joined key sequence from the record root, e.g. "tags.t".
	Path string `json:"path"`

	// Title is the display label. Defaults to Path when no label is known.
	Title string `json:"title"`

	// Children are the nested columns of a group, each with a full Path.
	Children []Column `json:"children,omitempty"`
}

// IsGroup reports whether c has child columns.
func (c Column) IsGroup() bool { return len(c.Children) > 0 }

// Leaves returns the leaf columns under c in display order. A leaf column
// returns itself.
func (c Column) Leaves() []Column {
	if !c.IsGroup() {
		return []Column{c}
	}
	var out []Column
	for _, ch := range c.Children {
		out = append(out, ch.Leaves()...)
	}
	return out
}

// Depth returns the number of header levels c occupies.
func (c Column) Depth() int {
	d := 0
	for _, ch := range c.Children {
		d = max(d, ch.Depth())
	}
	return d + 1
}

// LabelFunc resolves a column path to a display title. The boolean result
// reports whether a label was found.
type LabelFunc func(path string) (string, bool)

// Labels returns a LabelFunc backed by a static path → title map.
func Labels(m map[string]string) LabelFunc {
	return func(path string) (string, bool) {
		t, ok := m[path]
		return t, ok
	}
}

func (f LabelFunc) title(path string) string {
	if f != nil {
		if t, ok := f(path); ok && t != "" {
			return t
		}
	}
	return path
}

// BuildColumns derives the column tree for records.
//
// Keys are the union over all records at each level, in lexicographic
// order. A key whose first non-null sample is a non-empty object or an
// object array becomes a group when depth allows and at least one child
// column exists; everything else is a leaf. Nested levels are expanded
// while the current depth is below maxDepth, so maxDepth 0 yields only
// top-level leaves. Negative depths are treated as 0.
//
// The result depends only on the input; calling BuildColumns twice on the
// same records yields identical trees.
func BuildColumns(records []jsonvalue.Object, labelOf LabelFunc, maxDepth int) []Column {
	return buildColumns(records, "", 0, max(maxDepth, 0), labelOf)
}

func buildColumns(records []jsonvalue.Object, prefix string, depth, maxDepth int, labelOf LabelFunc) []Column {
	if len(records) == 0 {
		return nil
	}

	var cols []Column
	for _, key := range unionKeys(records) {
		path := joinPath(prefix, key)
		col := Column{Path: path, Title: labelOf.title(path)}

		if depth < maxDepth {
			switch sample := sampleValue(records, key); {
			case sample.IsObject():
				col.Children = buildColumns(objectsAt(records, key), path, depth+1, maxDepth, labelOf)
			case sample.IsObjectArray():
				col.Children = buildColumns(elementsAt(records, key), path, depth+1, maxDepth, labelOf)
			}
		}
		cols = append(cols, col)
	}
	return cols
}

func unionKeys(records []jsonvalue.Object) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// sampleValue returns the first value at key that carries shape: not null
// and not an empty array. A zero Value (null) means no record has one.
func sampleValue(records []jsonvalue.Object, key string) jsonvalue.Value {
	for _, r := range records {
		v, ok := r[key]
		if !ok || v.IsNull() || (v.IsArray() && v.Len() == 0) {
			continue
		}
		return v
	}
	return jsonvalue.Null()
}

func objectsAt(records []jsonvalue.Object, key string) []jsonvalue.Object {
	var out []jsonvalue.Object
	for _, r := range records {
		if v := r[key]; v.IsObject() {
			out = append(out, v.Fields())
		}
	}
	return out
}

// elementsAt flattens every record's array at key into one sample set.
func elementsAt(records []jsonvalue.Object, key string) []jsonvalue.Object {
	var out []jsonvalue.Object
	for _, r := range records {
		for _, e := range r[key].Elems() {
			if e.IsObject() {
				out = append(out, e.Fields())
			}
		}
	}
	return out
}

// LeafPaths returns the paths of every leaf column in display order.
func LeafPaths(cols []Column) []string {
	var out []string
	for _, c := range cols {
		for _, l := range c.Leaves() {
			out = append(out, l.Path)
		}
	}
	return out
}

// HeaderDepth returns the number of header rows needed to draw cols.
func HeaderDepth(cols []Column) int {
	d := 0
	for _, c := range cols {
		d = max(d, c.Depth())
	}
	return d
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
