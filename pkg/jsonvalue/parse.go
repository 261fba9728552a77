package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	errs "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
)

// Parse decodes a single JSON document into a Value. Number literals are
// kept as written, so 1.50 stays "1.50".
func Parse(data []byte) (Value, error) {
	if err := oj.Validate(data); err != nil {
		return Value{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse json")
	}
	doc, err := decodeLiteral(data)
	if err != nil {
		return Value{}, err
	}
	return FromAny(doc)
}

// decodeLiteral decodes data into a generic tree holding json.Number
// leaves. oj reports syntax errors with line and column but converts
// decimals to float64, so callers validate or parse with oj first.
func decodeLiteral(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse json")
	}
	return doc, nil
}

// FromAny converts a generic decoded JSON tree (as produced by encoding/json
// or ojg) into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return floatValue(float64(t))
	case float64:
		return floatValue(t)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case map[string]any:
		obj := make(Object, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = v
		}
		return Obj(obj), nil
	case Value:
		return t, nil
	case fmt.Stringer:
		// Arbitrary-precision numbers from decoders that do not fit int64.
		if lit := t.String(); isNumberLiteral(lit) {
			return Number(lit), nil
		}
		return Value{}, errs.New(errs.ErrCodeInvalidInput, "unsupported json type %T", x)
	default:
		return Value{}, errs.New(errs.ErrCodeInvalidInput, "unsupported json type %T", x)
	}
}

func isNumberLiteral(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, errs.New(errs.ErrCodeInvalidInput, "non-finite number %v", f)
	}
	return Float(f), nil
}

// CompileSelector parses a JSONPath expression such as "$.data.items".
func CompileSelector(expr string) (jp.Expr, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSelector, err, "invalid selector %q", expr)
	}
	return x, nil
}

// Select decodes data and evaluates the JSONPath expression expr against it.
// When the expression matches exactly one array, the array's elements are
// returned; otherwise every match is returned in document order.
//
// Filters compare numbers as oj parses them; the matched values are read
// from a literal-preserving decode of the same document.
func Select(data []byte, expr string) ([]Value, error) {
	x, err := CompileSelector(expr)
	if err != nil {
		return nil, err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse json")
	}
	lit, err := decodeLiteral(data)
	if err != nil {
		return nil, err
	}

	locs := x.Locate(doc, 0)
	matches := make([]any, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, loc.First(lit))
	}
	if len(matches) == 1 {
		if arr, ok := matches[0].([]any); ok {
			matches = arr
		}
	}

	out := make([]Value, 0, len(matches))
	for _, m := range matches {
		v, err := FromAny(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// UnmarshalJSON implements json.Unmarshaler. Number literals are kept as
// written.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	out, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
