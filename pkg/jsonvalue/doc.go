// Package jsonvalue provides a discriminated JSON value type and the helpers
// that turn raw input into records for the grid transform.
//
// # Values
//
// [Value] is a tagged union over the six JSON kinds. Inspection is explicit
// ([Value.Kind], [Value.IsObjectArray]) rather than type-switching on
// interface{} trees, which keeps the transform in [grid] free of reflection.
//
//	v := jsonvalue.Obj(jsonvalue.Object{
//	    "id":   jsonvalue.String("a"),
//	    "tags": jsonvalue.Array(jsonvalue.Obj(jsonvalue.Object{"t": jsonvalue.String("x")})),
//	})
//	v.Fields()["tags"].IsObjectArray() // true
//
// Numbers are stored as literal text. Integers keep every digit; other
// numbers use the shortest form that round-trips.
//
// # Decoding
//
// [Parse] decodes a document with ojg. [Select] evaluates a JSONPath
// expression first, for inputs that wrap their records in an envelope:
//
//	values, err := jsonvalue.Select(data, "$.data.items")
//	records, err := jsonvalue.ObjectsOf(values)
//
// [Records] applies the default extraction rules to a whole document.
//
// [grid]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid
package jsonvalue
