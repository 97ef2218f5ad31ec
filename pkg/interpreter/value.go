package interpreter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Category is one of the six value kinds every frame region and specialized
// instruction is parameterized over.
type Category uint8

const (
	CatInt32 Category = iota
	CatInt64
	CatFloat32
	CatFloat64
	CatBool
	CatRef
)

// Categories lists every category in frame region order.
var Categories = [...]Category{CatInt32, CatInt64, CatFloat32, CatFloat64, CatBool, CatRef}

func (c Category) String() string {
	switch c {
	case CatInt32:
		return "int32"
	case CatInt64:
		return "int64"
	case CatFloat32:
		return "float32"
	case CatFloat64:
		return "float64"
	case CatBool:
		return "bool"
	case CatRef:
		return "ref"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// IsNumeric reports whether arithmetic and ordering are defined for c.
func (c Category) IsNumeric() bool {
	return c <= CatFloat64
}

// IsInteger reports whether c is one of the two integer categories.
func (c Category) IsInteger() bool {
	return c == CatInt32 || c == CatInt64
}

// ParseCategory accepts both the Go spelling ("int32") and the short names
// used by the resolver ("int", "long", "float", "double").
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "int32", "int":
		return CatInt32, nil
	case "int64", "long":
		return CatInt64, nil
	case "float32", "float":
		return CatFloat32, nil
	case "float64", "double":
		return CatFloat64, nil
	case "bool", "boolean":
		return CatBool, nil
	case "ref", "any":
		return CatRef, nil
	default:
		return 0, fmt.Errorf("unknown category: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value is a tagged union; only the field selected by Cat is meaningful.
type Value struct {
	Cat  Category
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	Bool bool
	Ref  any
}

func Int32Value(v int32) Value { return Value{Cat: CatInt32, I32: v} }
func Int64Value(v int64) Value { return Value{Cat: CatInt64, I64: v} }
func Float32Value(v float32) Value { return Value{Cat: CatFloat32, F32: v} }
func Float64Value(v float64) Value { return Value{Cat: CatFloat64, F64: v} }
func BoolValue(v bool) Value { return Value{Cat: CatBool, Bool: v} }
func RefValue(v any) Value { return Value{Cat: CatRef, Ref: v} }

// Zero returns the default of a category: 0, 0, 0.0, 0.0, false or null.
func Zero(c Category) Value {
	return Value{Cat: c}
}

// Any returns the active field boxed as a Go value.
func (v Value) Any() any {
	switch v.Cat {
	case CatInt32:
		return v.I32
	case CatInt64:
		return v.I64
	case CatFloat32:
		return v.F32
	case CatFloat64:
		return v.F64
	case CatBool:
		return v.Bool
	default:
		return v.Ref
	}
}

// String renders the value the way the print hook shows it.
func (v Value) String() string {
	switch v.Cat {
	case CatInt32:
		return strconv.FormatInt(int64(v.I32), 10)
	case CatInt64:
		return strconv.FormatInt(v.I64, 10)
	case CatFloat32:
		return strconv.FormatFloat(float64(v.F32), 'g', -1, 32)
	case CatFloat64:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case CatBool:
		return strconv.FormatBool(v.Bool)
	default:
		return refString(v.Ref)
	}
}

func refString(r any) string {
	switch x := r.(type) {
	case nil:
		return "null"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("<%T>", r)
	}
}

// Equal compares two values of the same category. Floats follow IEEE rules
// (NaN is unequal to itself); refs compare by identity, strings by content.
// Equal never panics.
func (v Value) Equal(o Value) bool {
	if v.Cat != o.Cat {
		return false
	}
	switch v.Cat {
	case CatInt32:
		return v.I32 == o.I32
	case CatInt64:
		return v.I64 == o.I64
	case CatFloat32:
		return v.F32 == o.F32
	case CatFloat64:
		return v.F64 == o.F64
	case CatBool:
		return v.Bool == o.Bool
	default:
		return refEqual(v.Ref, o.Ref)
	}
}

func refEqual(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
