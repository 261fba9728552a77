package jsonvalue

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Object is a JSON object. Key order carries no meaning; callers that need a
// stable order use [Object.Keys].
type Object map[string]Value

// Keys returns the object's keys sorted lexicographically.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Value is an immutable JSON value. The zero Value is null.
//
// Numbers keep the literal text they were decoded from so that large
// integers and decimal fractions display exactly as written.
type Value struct {
	kind Kind
	b    bool
	s    string
	arr  []Value
	obj  Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value from its JSON literal, e.g. "42" or "1.5e3".
func Number(lit string) Value { return Value{kind: KindNumber, s: lit} }

// Int returns a number value for i.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// Float returns a number value for f using the shortest representation that
// round-trips.
func Float(f float64) Value {
	if f >= 1e21 || f <= -1e21 {
		return Number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value holding elems.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Obj returns an object value wrapping o.
func Obj(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsArray reports whether v is an array of any element kind.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsObjectArray reports whether v is a non-empty array whose elements are
// all objects. Arrays like this fan out into sibling rows.
func (v Value) IsObjectArray() bool {
	if v.kind != KindArray || len(v.arr) == 0 {
		return false
	}
	for _, e := range v.arr {
		if e.kind != KindObject {
			return false
		}
	}
	return true
}

// IsScalar reports whether v is null, a boolean, a number or a string.
func (v Value) IsScalar() bool {
	return v.kind != KindArray && v.kind != KindObject
}

// Bool returns the boolean held by v, or false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Literal returns the JSON literal of a number, or the raw text of a string.
// Other kinds return "".
func (v Value) Literal() string {
	if v.kind == KindNumber || v.kind == KindString {
		return v.s
	}
	return ""
}

// Elems returns the elements of an array. The slice must not be modified.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Fields returns the members of an object. The map must not be modified.
func (v Value) Fields() Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Equal reports whether v and w hold the same JSON value. Numbers compare
// by literal text.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == w.b
	case KindNumber, KindString:
		return v.s == w.s
	case KindArray:
		return slices.EqualFunc(v.arr, w.arr, Value.Equal)
	case KindObject:
		if len(v.obj) != len(w.obj) {
			return false
		}
		for k, x := range v.obj {
			y, ok := w.obj[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the compact JSON encoding of v, except that strings are
// returned without quotes.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

// MarshalJSON implements json.Marshaler. Object members are written in key
// order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		b, _ := json.Marshal(v.s)
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.encode(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			buf.Write(b)
			buf.WriteByte(':')
			v.obj[k].encode(buf)
		}
		buf.WriteByte('}')
	}
}
