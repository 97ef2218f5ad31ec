package interpreter

import (
	"context"
	"fmt"
	"io"
	"math"
)

// HostFunc is a host-provided operation an Await suspends on. It may block;
// it must return promptly once ctx is done.
type HostFunc func(ctx context.Context, args []Value) (Value, error)

// Await evaluates Args left to right, then suspends the invocation until Fn
// returns. It is the only instruction that blocks on the host. If the host
// abandons the invocation, the fault wraps the context's error.
type Await struct {
	Name   string
	Fn     HostFunc
	Args   []Instruction
	Result Category
	StackInfo
}

func (a *Await) Execute(ctx *Context, reg *Register) error {
	args := make([]Value, 0, len(a.Args))
	for _, arg := range a.Args {
		if err := Exec(arg, ctx, reg); err != nil {
			return err
		}
		args = append(args, reg.Value())
	}
	goctx := ctx.HostContext()
	if err := goctx.Err(); err != nil {
		return hostFault(err)
	}
	v, err := a.Fn(goctx, args)
	if err != nil {
		return hostFault(fmt.Errorf("%s: %w", a.Name, err))
	}
	if v.Cat != a.Result {
		return faultf(TypeMismatch, "%s returned %s, expected %s", a.Name, v.Cat, a.Result)
	}
	reg.Set(v)
	return nil
}

// Print evaluates Value and writes its string form and a newline to the
// invocation's output. The value stays in the register.
type Print struct {
	Value Instruction
	StackInfo
}

func (p *Print) Execute(ctx *Context, reg *Register) error {
	if err := Exec(p.Value, ctx, reg); err != nil {
		return err
	}
	if _, err := io.WriteString(ctx.Output(), reg.Value().String()+"\n"); err != nil {
		return hostFault(err)
	}
	return nil
}

// StringConcat evaluates A then B, both string Refs, and writes A+B.
type StringConcat struct {
	A, B Instruction
	StackInfo
}

func (s *StringConcat) Execute(ctx *Context, reg *Register) error {
	if err := Exec(s.A, ctx, reg); err != nil {
		return err
	}
	a, ok := reg.Ref().(string)
	if !ok {
		return mismatch("string", reg.Ref())
	}
	if err := Exec(s.B, ctx, reg); err != nil {
		return err
	}
	b, ok := reg.Ref().(string)
	if !ok {
		return mismatch("string", reg.Ref())
	}
	reg.SetRef(a + b)
	return nil
}

// Convert evaluates Value and converts it to category To. Numeric targets
// accept any numeric source; float to integer conversions saturate and map
// NaN to zero. A Ref target produces the value's string form.
type Convert struct {
	Value Instruction
	To    Category
	StackInfo
}

func (c *Convert) Execute(ctx *Context, reg *Register) error {
	if err := Exec(c.Value, ctx, reg); err != nil {
		return err
	}
	v, err := ConvertValue(reg.Value(), c.To)
	if err != nil {
		return err
	}
	reg.Set(v)
	return nil
}

// ConvertValue applies the conversion rules of Convert.
func ConvertValue(v Value, to Category) (Value, error) {
	if to == CatRef {
		return RefValue(v.String()), nil
	}
	if v.Cat == to {
		return v, nil
	}
	if !v.Cat.IsNumeric() || !to.IsNumeric() {
		return Value{}, faultf(TypeMismatch, "cannot convert %s to %s", v.Cat, to)
	}
	switch v.Cat {
	case CatInt32:
		return fromInt(int64(v.I32), to), nil
	case CatInt64:
		return fromInt(v.I64, to), nil
	case CatFloat32:
		return fromFloat(float64(v.F32), to), nil
	default:
		return fromFloat(v.F64, to), nil
	}
}

func fromInt(n int64, to Category) Value {
	switch to {
	case CatInt32:
		return Int32Value(int32(n))
	case CatInt64:
		return Int64Value(n)
	case CatFloat32:
		return Float32Value(float32(n))
	default:
		return Float64Value(float64(n))
	}
}

func fromFloat(f float64, to Category) Value {
	switch to {
	case CatInt32:
		return Int32Value(int32(saturate(f, math.MinInt32, math.MaxInt32)))
	case CatInt64:
		switch {
		case math.IsNaN(f):
			return Int64Value(0)
		case f >= math.MaxInt64:
			return Int64Value(math.MaxInt64)
		case f <= math.MinInt64:
			return Int64Value(math.MinInt64)
		}
		return Int64Value(int64(f))
	case CatFloat32:
		return Float32Value(float32(f))
	default:
		return Float64Value(f)
	}
}

func saturate(f, lo, hi float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < lo:
		return lo
	case f > hi:
		return hi
	}
	return f
}
