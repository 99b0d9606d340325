package cir

import (
	"fmt"
	"strconv"
)

// ValueKind tags which alternative of the property-value union is held.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueBinding
	ValueArray
	ValueObject
	ValueToken
)

// Value is the tagged union a compiled property resolves to: one of
// {string, number, bool, binding(var_name), array, object, token-reference}
// per SPEC_FULL.md §3. A zero Value is the empty string.
type Value struct {
	Kind   ValueKind
	Str    string  // String, Binding (var name), Token (token expression)
	Num    float64 // Number
	Bool   bool    // Bool
	Array  []Value // Array
	Object []Property
}

func String(s string) Value  { return Value{Kind: ValueString, Str: s} }
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }
func Bool(b bool) Value      { return Value{Kind: ValueBool, Bool: b} }

// Binding wraps a variable name referenced with `{var_name}` syntax.
func Binding(varName string) Value { return Value{Kind: ValueBinding, Str: varName} }

// Token wraps an unresolved design-token expression (`token("color.primary")`
// or `{colors.primary}`) that the compiler left textually intact. Per
// §4.1 the runtime treats an unknown token as a raw string — Token values
// round-trip through AsString unchanged.
func Token(expr string) Value { return Value{Kind: ValueToken, Str: expr} }

func Array(values ...Value) Value { return Value{Kind: ValueArray, Array: values} }
func Object(props ...Property) Value {
	return Value{Kind: ValueObject, Object: props}
}

// AsString renders the value's textual form, used when resolving styles
// and bound text content. Numbers format without a trailing ".0" when
// integral, matching how a compiler would echo a pixel count.
func (v Value) AsString() string {
	switch v.Kind {
	case ValueString, ValueBinding, ValueToken:
		return v.Str
	case ValueNumber:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// AsNumber returns the value coerced to a float64 and whether the
// coercion succeeded. Strings are parsed if they look numeric (allowing
// a trailing "px" unit, the compiler's shorthand for pixel lengths).
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case ValueString, ValueToken:
		return parseLength(v.Str)
	default:
		return 0, false
	}
}

func parseLength(s string) (float64, bool) {
	trimmed := s
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == 'x' || trimmed[len(trimmed)-1] == 'p') {
		trimmed = trimmed[:len(trimmed)-1]
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsBool returns the value's truthiness.
func (v Value) AsBool() bool {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueNumber:
		return v.Num != 0
	case ValueString, ValueToken:
		return v.Str != "" && v.Str != "false" && v.Str != "0"
	default:
		return false
	}
}

// IsBinding reports whether this value is a `{var_name}` reference rather
// than a literal, i.e. whether rendering it requires a reactive-state
// lookup.
func (v Value) IsBinding() bool { return v.Kind == ValueBinding }

func (v Value) String() string {
	return fmt.Sprintf("Value{kind=%d, %s}", v.Kind, v.AsString())
}
