package jsonvalue

import (
	errs "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
)

// Records extracts the record list from a decoded document.
//
// Extraction rules:
//   - A root array yields its object elements; null elements are skipped.
//   - A root object holding an object-array field yields that field's
//     elements (envelope pattern, e.g. {"total": 2, "items": [...]}). When
//     several such fields exist the first key in sorted order wins.
//   - Any other root object is a single record.
//
// A root scalar, or an array element that is neither an object nor null,
// is an INVALID_RECORD error.
func Records(doc Value) ([]Object, error) {
	switch doc.Kind() {
	case KindArray:
		return ObjectsOf(doc.Elems())
	case KindObject:
		fields := doc.Fields()
		for _, k := range fields.Keys() {
			if f := fields[k]; f.IsObjectArray() {
				return ObjectsOf(f.Elems())
			}
		}
		return []Object{fields}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidRecord, "document root is a %s, want an object or an array of objects", doc.Kind())
	}
}

// ObjectsOf returns the objects in values, skipping nulls.
func ObjectsOf(values []Value) ([]Object, error) {
	out := make([]Object, 0, len(values))
	for i, v := range values {
		switch v.Kind() {
		case KindNull:
			continue
		case KindObject:
			out = append(out, v.Fields())
		default:
			return nil, errs.New(errs.ErrCodeInvalidRecord, "record %d is a %s, want an object", i, v.Kind())
		}
	}
	return out, nil
}
