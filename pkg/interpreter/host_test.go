package interpreter_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
	"vjpl/pkg/interpreter"
)

func double(_ context.Context, args []interpreter.Value) (interpreter.Value, error) {
	return interpreter.Int32Value(args[0].I32 * 2), nil
}

func blockUntilDone(ctx context.Context, _ []interpreter.Value) (interpreter.Value, error) {
	<-ctx.Done()
	return interpreter.Value{}, ctx.Err()
}

func TestAwait(t *testing.T) {
	in := &interpreter.Await{Name: "double", Fn: double, Args: []interpreter.Instruction{i32(21)}, Result: interpreter.CatInt32}
	got, err := run(in, interpreter.NewContext(nil, interpreter.Totals{}))
	if err != nil || got.I32 != 42 {
		t.Errorf("expected 42, got %s (%v)", got, err)
	}

	wrong := &interpreter.Await{Name: "double", Fn: double, Args: []interpreter.Instruction{i32(1)}, Result: interpreter.CatInt64}
	_, err = run(wrong, interpreter.NewContext(nil, interpreter.Totals{}))
	expectFault(t, err, interpreter.TypeMismatch, "result category")
}

func TestAwaitHostFailure(t *testing.T) {
	errBoom := errors.New("boom")
	fn := &interpreter.Func{
		Name: "main",
		Body: &interpreter.Await{
			Name: "explode",
			Fn: func(context.Context, []interpreter.Value) (interpreter.Value, error) {
				return interpreter.Value{}, errBoom
			},
			StackInfo: interpreter.StackInfo{Name: "explode", Line: 2, Col: 3},
		},
	}

	_, _, err := interpreter.Invoke(context.Background(), fn, nil)
	expectFault(t, err, interpreter.HostFault, "host error")
	if !errors.Is(err, errBoom) || !errors.Is(err, interpreter.ErrHost) {
		t.Errorf("fault should wrap both the host error and ErrHost, got %v", err)
	}
}

func TestAwaitAbandoned(t *testing.T) {
	fn := &interpreter.Func{
		Name: "main",
		Body: &interpreter.Await{Name: "wait", Fn: blockUntilDone, Result: interpreter.CatRef},
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := interpreter.Invoke(canceled, fn, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	deadline, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stop()
	_, _, err = interpreter.Invoke(deadline, fn, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	expectFault(t, err, interpreter.HostFault, "abandoned await")
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	fn := &interpreter.Func{
		Name: "main",
		Body: &interpreter.Block{Body: []interpreter.Instruction{
			&interpreter.Print{Value: &interpreter.StringConcat{A: str("hello, "), B: str("world")}},
			&interpreter.Print{Value: i32(3)},
			&interpreter.Print{Value: interpreter.NewLiteral(interpreter.RefValue(nil), nosite)},
		}},
	}

	if _, _, err := interpreter.Invoke(context.Background(), fn, nil, interpreter.WithWriter(&out)); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hello, world\n3\nnull\n" {
		t.Errorf("unexpected output %q", got)
	}

	_, err := run(&interpreter.StringConcat{A: str("a"), B: i32(1)}, interpreter.NewContext(nil, interpreter.Totals{}))
	expectFault(t, err, interpreter.TypeMismatch, "concat with int")
}

func TestInvoke(t *testing.T) {
	fn := &interpreter.Func{
		Name:   "twice",
		Params: []interpreter.Param{{Cat: interpreter.CatInt64, Index: 0}},
		Totals: interpreter.Totals{Int64: 1},
		Body: &interpreter.Multiply[int64, interpreter.Int64]{
			Left:  interpreter.NewGet(interpreter.CatInt64, 0, 0, nosite),
			Right: interpreter.NewLiteral(interpreter.Int64Value(2), nosite),
		},
	}

	got, top, err := interpreter.Invoke(context.Background(), fn, []interpreter.Value{interpreter.Int64Value(21)})
	if err != nil || got.I64 != 42 {
		t.Fatalf("expected 42, got %s (%v)", got, err)
	}
	if top.CurrentMem().Int64s[0] != 21 {
		t.Errorf("argument should be stored in the top frame")
	}

	if _, _, err := interpreter.Invoke(context.Background(), fn, nil); err == nil {
		t.Error("expected arity error")
	}
	if _, _, err := interpreter.Invoke(context.Background(), fn, []interpreter.Value{interpreter.Int32Value(1)}); err == nil {
		t.Error("expected argument category error")
	}
}

func TestMaxSteps(t *testing.T) {
	fn := &interpreter.Func{
		Name: "spin",
		Body: &interpreter.While{Cond: boolean(true)},
	}
	_, _, err := interpreter.Invoke(context.Background(), fn, nil, interpreter.WithMaxSteps(10))
	if !errors.Is(err, interpreter.ErrMaxStepsExceeded) {
		t.Errorf("expected ErrMaxStepsExceeded, got %v", err)
	}
}

func TestConcurrentInvocations(t *testing.T) {
	// sum(n) = 0 + 1 + ... + n-1, with n in int32 slot 2.
	fn := &interpreter.Func{
		Name:   "sum",
		Params: []interpreter.Param{{Cat: interpreter.CatInt32, Index: 2}},
		Totals: interpreter.Totals{Int32: 3},
		Body: &interpreter.Block{Body: []interpreter.Instruction{
			&interpreter.For{
				Init: []interpreter.Instruction{set32(0, 0, i32(0))},
				Cond: lt32(t, get32(0, 0), get32(0, 2)),
				Incr: []interpreter.Instruction{inc32(0)},
				Body: []interpreter.Instruction{
					set32(0, 1, &interpreter.Plus[int32, interpreter.Int32]{Left: get32(0, 1), Right: get32(0, 0)}),
				},
			},
			get32(0, 1),
		}},
	}

	inv := interpreter.NewInvocation(context.Background(), interpreter.WithMaxSteps(1000))
	var wg sync.WaitGroup
	for n := int32(1); n <= 32; n++ {
		wg.Add(1)
		go func(n int32) {
			defer wg.Done()
			got, _, err := inv.Call(fn, interpreter.Int32Value(n))
			if err != nil {
				t.Errorf("sum(%d): %v", n, err)
				return
			}
			if want := n * (n - 1) / 2; got.I32 != want {
				t.Errorf("sum(%d): expected %d, got %d", n, want, got.I32)
			}
		}(n)
	}
	wg.Wait()
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		from        interpreter.Value
		to          interpreter.Category
		expected    interpreter.Value
		description string
	}{
		{interpreter.Int32Value(7), interpreter.CatInt64, interpreter.Int64Value(7), "widen"},
		{interpreter.Int64Value(1 << 40), interpreter.CatInt32, interpreter.Int32Value(0), "narrow truncates"},
		{interpreter.Float64Value(3.9), interpreter.CatInt32, interpreter.Int32Value(3), "float toward zero"},
		{interpreter.Float64Value(-3.9), interpreter.CatInt64, interpreter.Int64Value(-3), "negative float toward zero"},
		{interpreter.Float64Value(1e20), interpreter.CatInt32, interpreter.Int32Value(math.MaxInt32), "saturate high"},
		{interpreter.Float32Value(-1e20), interpreter.CatInt64, interpreter.Int64Value(math.MinInt64), "saturate low"},
		{interpreter.Float64Value(math.NaN()), interpreter.CatInt32, interpreter.Int32Value(0), "NaN"},
		{interpreter.Int32Value(5), interpreter.CatFloat64, interpreter.Float64Value(5), "int to double"},
		{interpreter.Float32Value(2.5), interpreter.CatRef, interpreter.RefValue("2.5"), "to string"},
		{interpreter.BoolValue(true), interpreter.CatRef, interpreter.RefValue("true"), "bool to string"},
		{interpreter.BoolValue(true), interpreter.CatBool, interpreter.BoolValue(true), "identity"},
	}

	for _, test := range tests {
		got, err := interpreter.ConvertValue(test.from, test.to)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.description, err)
			continue
		}
		if !got.Equal(test.expected) {
			t.Errorf("%s: expected %s, got %s", test.description, test.expected, got)
		}
	}

	_, err := interpreter.ConvertValue(interpreter.BoolValue(true), interpreter.CatInt32)
	expectFault(t, err, interpreter.TypeMismatch, "bool to int")
	_, err = interpreter.ConvertValue(interpreter.RefValue("1"), interpreter.CatFloat64)
	expectFault(t, err, interpreter.TypeMismatch, "string to double")
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected interpreter.Category
	}{
		{"int32", interpreter.CatInt32},
		{"int", interpreter.CatInt32},
		{"long", interpreter.CatInt64},
		{"Float", interpreter.CatFloat32},
		{"double", interpreter.CatFloat64},
		{"boolean", interpreter.CatBool},
		{"ref", interpreter.CatRef},
	}

	for _, test := range tests {
		got, err := interpreter.ParseCategory(test.input)
		if err != nil || got != test.expected {
			t.Errorf("ParseCategory(%q): expected %s, got %s (%v)", test.input, test.expected, got, err)
		}
	}
	if _, err := interpreter.ParseCategory("string"); err == nil {
		t.Error("expected error for unknown category")
	}
}
