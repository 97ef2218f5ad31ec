package interpreter_test

import (
	"errors"
	"testing"
	"vjpl/pkg/interpreter"
)

var nosite = interpreter.StackInfo{}

func i32(n int32) interpreter.Instruction {
	return interpreter.NewLiteral(interpreter.Int32Value(n), nosite)
}

func boolean(b bool) interpreter.Instruction {
	return interpreter.NewLiteral(interpreter.BoolValue(b), nosite)
}

func str(s string) interpreter.Instruction {
	return interpreter.NewLiteral(interpreter.RefValue(s), nosite)
}

func get32(depth, index int) interpreter.Instruction {
	return interpreter.NewGet(interpreter.CatInt32, depth, index, nosite)
}

func set32(depth, index int, value interpreter.Instruction) interpreter.Instruction {
	return interpreter.NewSet(interpreter.CatInt32, depth, index, value, nosite)
}

// inc32 is slot += 1 on the int32 region of the current frame.
func inc32(index int) interpreter.Instruction {
	return set32(0, index, &interpreter.Plus[int32, interpreter.Int32]{Left: get32(0, index), Right: i32(1)})
}

func binary(t *testing.T, op interpreter.Operation, c interpreter.Category, l, r interpreter.Instruction) interpreter.Instruction {
	t.Helper()
	in, err := interpreter.NewBinary(op, c, l, r, nosite)
	if err != nil {
		t.Fatalf("NewBinary(%s, %s): %v", op, c, err)
	}
	return in
}

// tracer records its name before delegating, to observe evaluation order.
type tracer struct {
	name  string
	trace *[]string
	inner interpreter.Instruction
	interpreter.StackInfo
}

func (p *tracer) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	*p.trace = append(*p.trace, p.name)
	return p.inner.Execute(ctx, reg)
}

func run(in interpreter.Instruction, ctx *interpreter.Context) (interpreter.Value, error) {
	var reg interpreter.Register
	err := interpreter.Exec(in, ctx, &reg)
	return reg.Value(), err
}

func expectFault(t *testing.T, err error, kind interpreter.FaultKind, description string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected %s, got no error", description, kind)
		return
	}
	var f *interpreter.Fault
	if !errors.As(err, &f) {
		t.Errorf("%s: expected *Fault, got %T (%v)", description, err, err)
		return
	}
	if f.Kind != kind {
		t.Errorf("%s: expected %s, got %s", description, kind, f.Kind)
	}
}
