// Package metadata implements P, the metadata evaluator: dotted-path
// lookups into a read-only JSON document, truthy coercion, and
// materialisation of JSON leaves as literal expression nodes. Grounded
// on spec §4.P; the insertion-order-preserving object decoding follows
// original_source/crates/swc_macro_condition_transform/src/meta_data.rs's
// ToSwcAst trait, which explicitly preserves JSON object key order.
package metadata

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"macroshake/internal/ast"
)

// Value is a decoded JSON value. Objects retain their original
// insertion order via ObjectKeys/ObjectVals (encoding/json's map[string]any
// does not), matching the "insertion order of the JSON object is
// preserved in output" requirement of spec §4.P.
type Value struct {
	Kind       Kind
	Bool       bool
	Num        float64
	Str        string
	Arr        []Value
	ObjectKeys []string
	ObjectVals map[string]Value
}

type Kind int

const (
	Absent Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

// Metadata wraps a decoded JSON document and exposes query/evaluate
// per spec §4.P.
type Metadata struct {
	root Value
}

// Parse decodes raw JSON into a Metadata document, preserving object
// key order.
func Parse(raw []byte) (*Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return &Metadata{root: v}, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Value{Kind: Null}, nil
	case bool:
		return Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		f, _ := t.Float64()
		return Value{Kind: Number, Num: f}, nil
	case float64:
		return Value{Kind: Number, Num: t}, nil
	case string:
		return Value{Kind: String, Str: t}, nil
	case json.Delim:
		switch t {
		case '[':
			var arr []Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Value{Kind: Array, Arr: arr}, nil
		case '{':
			keys := []string{}
			vals := map[string]Value{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key := kt.(string)
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, exists := vals[key]; !exists {
					keys = append(keys, key)
				}
				vals[key] = v
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Value{Kind: Object, ObjectKeys: keys, ObjectVals: vals}, nil
		}
	}
	return Value{}, nil
}

// Query navigates a dot-separated path through nested objects,
// returning the referenced value or an Absent-kind Value on the first
// missing segment or non-object intermediate. Numeric/array indexing
// is not supported, per spec §3.
func (m *Metadata) Query(path string) Value {
	cur := m.root
	if path == "" {
		return cur
	}
	for _, seg := range strings.Split(path, ".") {
		if cur.Kind != Object {
			return Value{Kind: Absent}
		}
		v, ok := cur.ObjectVals[seg]
		if !ok {
			return Value{Kind: Absent}
		}
		cur = v
	}
	return cur
}

// Truthy implements the §3 coercion table: booleans are themselves;
// strings/arrays/objects are truthy iff non-empty; numbers are truthy
// iff non-zero-and-finite; null and absent are falsy.
func Truthy(v Value) bool {
	switch v.Kind {
	case Bool:
		return v.Bool
	case Number:
		return v.Num != 0 && !isNaNOrInf(v.Num)
	case String:
		return v.Str != ""
	case Array:
		return len(v.Arr) > 0
	case Object:
		return len(v.ObjectKeys) > 0
	default: // Null, Absent
		return false
	}
}

func isNaNOrInf(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Evaluate queries path and applies Truthy — §4.P's evaluate(path).
func (m *Metadata) Evaluate(path string) bool {
	return Truthy(m.Query(path))
}

// ToLiteral materialises a decoded JSON value as a literal expression
// node per §4.P's to-literal mapping. Every generated node carries the
// range {-1, -1} so downstream tooling never treats it as
// source-mappable.
func ToLiteral(v Value) ast.Node {
	syn := ast.Range{Lo: -1, Hi: -1}
	switch v.Kind {
	case Null, Absent:
		return &ast.NullLit{Range: syn}
	case Bool:
		return &ast.BoolLit{Value: v.Bool, Range: syn}
	case Number:
		return &ast.NumberLit{Value: v.Num, Range: syn}
	case String:
		return &ast.StringLit{Value: v.Str, Range: syn}
	case Array:
		elems := make([]ast.Node, len(v.Arr))
		for i, e := range v.Arr {
			elems[i] = ToLiteral(e)
		}
		return &ast.ArrayLit{Elems: elems, Range: syn}
	case Object:
		props := make([]*ast.Property, len(v.ObjectKeys))
		for i, k := range v.ObjectKeys {
			props[i] = &ast.Property{
				KeyName:   k,
				KeyQuoted: true,
				Value:     ToLiteral(v.ObjectVals[k]),
				Range:     syn,
			}
		}
		return &ast.ObjectLit{Props: props, Range: syn}
	default:
		return &ast.NullLit{Range: syn}
	}
}

// StringDefaultLiteral wraps a raw default attribute value as a
// string-literal expression node — the spec's normative resolution
// (§9) of the ambiguity the Rust reference left open between
// string-literal and raw-source interpretations.
func StringDefaultLiteral(s string) ast.Node {
	return &ast.StringLit{Value: s, Range: ast.Range{Lo: -1, Hi: -1}}
}

// FormatCanonicalNumber renders a float64 the way R canonicalises
// numeric module-table keys: no trailing ".0".
func FormatCanonicalNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return strings.TrimSuffix(s, ".0")
}
