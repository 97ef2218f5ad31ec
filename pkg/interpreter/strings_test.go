package interpreter_test

import (
	"math"
	"testing"
	"vjpl/pkg/interpreter"
)

func stringCall(t *testing.T, op interpreter.StringOp, value interpreter.Instruction, args ...interpreter.Instruction) interpreter.Instruction {
	t.Helper()
	in, err := interpreter.NewStringCall(op, value, args, nosite)
	if err != nil {
		t.Fatalf("NewStringCall(%s): %v", op, err)
	}
	return in
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		description string
		op          interpreter.StringOp
		value       string
		args        []interpreter.Instruction
		expected    interpreter.Value
	}{
		{"length", interpreter.StrLength, "hello", nil, interpreter.Int32Value(5)},
		{"length counts characters", interpreter.StrLength, "héllo", nil, interpreter.Int32Value(5)},
		{"indexOf", interpreter.StrIndexOf, "hello", []interpreter.Instruction{str("ll")}, interpreter.Int32Value(2)},
		{"indexOf after multibyte", interpreter.StrIndexOf, "héllo", []interpreter.Instruction{str("l")}, interpreter.Int32Value(2)},
		{"indexOf missing", interpreter.StrIndexOf, "hello", []interpreter.Instruction{str("z")}, interpreter.Int32Value(-1)},
		{"substring", interpreter.StrSubstring, "héllo", []interpreter.Instruction{i32(1), i32(4)}, interpreter.RefValue("éll")},
		{"empty substring", interpreter.StrSubstring, "abc", []interpreter.Instruction{i32(3), i32(3)}, interpreter.RefValue("")},
		{"trim", interpreter.StrTrim, " \t a b \n", nil, interpreter.RefValue("a b")},
		{"startsWith", interpreter.StrStartsWith, "hello", []interpreter.Instruction{str("he")}, interpreter.BoolValue(true)},
		{"endsWith", interpreter.StrEndsWith, "hello", []interpreter.Instruction{str("he")}, interpreter.BoolValue(false)},
		{"contains", interpreter.StrContains, "hello", []interpreter.Instruction{str("ell")}, interpreter.BoolValue(true)},
		{"toBool ignores case", interpreter.StrToBool, "TrUe", nil, interpreter.BoolValue(true)},
		{"toBool anything else", interpreter.StrToBool, "yes", nil, interpreter.BoolValue(false)},
		{"toInt", interpreter.StrToInt, "-42", nil, interpreter.Int32Value(-42)},
		{"toLong", interpreter.StrToLong, "9000000000", nil, interpreter.Int64Value(9000000000)},
		{"toFloat", interpreter.StrToFloat, "1.5", nil, interpreter.Float32Value(1.5)},
		{"toDouble", interpreter.StrToDouble, "-0.25", nil, interpreter.Float64Value(-0.25)},
	}

	for _, test := range tests {
		got, err := run(stringCall(t, test.op, str(test.value), test.args...), interpreter.NewContext(nil, interpreter.Totals{}))
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.description, err)
			continue
		}
		if got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.description, test.expected, got)
		}
	}
}

func TestStringParseNaN(t *testing.T) {
	got, err := run(stringCall(t, interpreter.StrToDouble, str("NaN")), interpreter.NewContext(nil, interpreter.Totals{}))
	if err != nil || got.Cat != interpreter.CatFloat64 || !math.IsNaN(got.F64) {
		t.Errorf("expected NaN double, got %s (%v)", got, err)
	}
}

func TestStringMethodFaults(t *testing.T) {
	tests := []struct {
		description string
		in          func(t *testing.T) interpreter.Instruction
		kind        interpreter.FaultKind
	}{
		{"receiver is not a string", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrLength, i32(3))
		}, interpreter.TypeMismatch},
		{"null receiver", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrTrim, interpreter.NewLiteral(interpreter.RefValue(nil), nosite))
		}, interpreter.TypeMismatch},
		{"argument of the wrong category", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrContains, str("abc"), i32(1))
		}, interpreter.TypeMismatch},
		{"substring past the end", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrSubstring, str("abc"), i32(1), i32(4))
		}, interpreter.IndexOutOfRange},
		{"substring reversed", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrSubstring, str("abc"), i32(2), i32(1))
		}, interpreter.IndexOutOfRange},
		{"toInt overflow", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrToInt, str("3000000000"))
		}, interpreter.TypeMismatch},
		{"toDouble garbage", func(t *testing.T) interpreter.Instruction {
			return stringCall(t, interpreter.StrToDouble, str("1.2.3"))
		}, interpreter.TypeMismatch},
	}

	for _, test := range tests {
		_, err := run(test.in(t), interpreter.NewContext(nil, interpreter.Totals{}))
		expectFault(t, err, test.kind, test.description)
	}
}

func TestStringArgumentOrder(t *testing.T) {
	var trace []string
	in := stringCall(t, interpreter.StrSubstring,
		&tracer{name: "value", trace: &trace, inner: str("abcdef")},
		&tracer{name: "from", trace: &trace, inner: i32(1)},
		&tracer{name: "to", trace: &trace, inner: i32(3)},
	)
	got, err := run(in, interpreter.NewContext(nil, interpreter.Totals{}))
	if err != nil || got.Ref != "bc" {
		t.Errorf("expected bc, got %s (%v)", got, err)
	}
	expected := []string{"value", "from", "to"}
	for i := range expected {
		if i >= len(trace) || trace[i] != expected[i] {
			t.Errorf("expected evaluation order %v, got %v", expected, trace)
			break
		}
	}
}

func TestNewStringCallRejects(t *testing.T) {
	if _, err := interpreter.NewStringCall("reverse", str("a"), nil, nosite); err == nil {
		t.Error("expected an error for an unknown method")
	}
	if _, err := interpreter.NewStringCall(interpreter.StrSubstring, str("a"), []interpreter.Instruction{i32(0)}, nosite); err == nil {
		t.Error("expected an error for a missing argument")
	}
}
