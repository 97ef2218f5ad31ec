package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"vjpl/internal/runner"
	"vjpl/pkg/color"
	"vjpl/pkg/interpreter"
)

const square = `functions:
  main:
    params: [{type: int32, index: 0}]
    totals: {int32: 2}
    vars:
      - {name: n, type: int32, index: 0}
      - {name: sq, type: int32, index: 1}
    body:
      - op: set
        type: int32
        index: 1
        value:
          op: multiply
          type: int32
          left: {op: get, type: int32, index: 0}
          right: {op: get, type: int32, index: 0}
      - op: await
        host: sleep
        type: int32
        args: [{op: literal, type: int32, const: 1}]
      - op: print
        value: {op: tostring, value: {op: get, type: int32, index: 1}}
      - op: return
        value: {op: get, type: int32, index: 1}
`

const modZero = `functions:
  main:
    body:
      - op: mod
        type: int32
        left: {op: literal, type: int32, const: 7}
        right: {op: literal, type: int32, const: 0}
`

const stall = `functions:
  main:
    body:
      - op: await
        host: sleep
        type: int32
        args: [{op: literal, type: int32, const: 5000}]
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunParallel(t *testing.T) {
	var out bytes.Buffer
	r := runner.Runner{
		NoColor:     true,
		Parallel:    3,
		ProgramFile: write(t, "square.yaml", square),
		Args:        []string{"7"},
		Out:         &out,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	output := out.String()
	if n := strings.Count(output, "49\n"); n != 6 {
		t.Errorf("expected three prints and three results, got %d in:\n%s", n, output)
	}
	if n := strings.Count(output, "=> 49"); n != 3 {
		t.Errorf("expected three results, got %d in:\n%s", n, output)
	}
}

func TestRunDumpAndJSONLog(t *testing.T) {
	var out bytes.Buffer
	jsonLog := filepath.Join(t.TempDir(), "records.json")
	r := runner.Runner{
		NoColor:     true,
		Dump:        true,
		JSONLog:     jsonLog,
		ProgramFile: write(t, "square.yaml", square),
		Args:        []string{"4"},
		Out:         &out,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "n: 4\nsq: 16\n") {
		t.Errorf("expected frame dump, got:\n%s", out.String())
	}

	data, err := os.ReadFile(jsonLog)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"Invocation finished"`) || !strings.Contains(string(data), `"result":"16"`) {
		t.Errorf("unexpected JSON records:\n%s", data)
	}
}

func TestRunConfigDefaults(t *testing.T) {
	var out bytes.Buffer
	r := runner.Runner{
		NoColor:     true,
		ConfigFile:  write(t, "vjpl.yaml", "parallel: 2\nargs: [\"3\"]\n"),
		ProgramFile: write(t, "square.yaml", square),
		Out:         &out,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "=> 9"); n != 2 {
		t.Errorf("expected two results from config defaults, got %d in:\n%s", n, out.String())
	}
}

func TestRunFault(t *testing.T) {
	var out bytes.Buffer
	r := runner.Runner{
		NoColor:     true,
		ProgramFile: write(t, "mod.yaml", modZero),
		Out:         &out,
	}
	err := r.Run(context.Background())
	if !errors.Is(err, interpreter.ErrArithmetic) {
		t.Fatalf("expected arithmetic fault, got %v", err)
	}
	if !strings.Contains(out.String(), "ArithmeticFault") || !strings.Contains(out.String(), "  at main.mod (4:9)") {
		t.Errorf("unexpected fault report:\n%s", out.String())
	}
}

func TestRunTimeoutWarns(t *testing.T) {
	var out, warnings bytes.Buffer
	r := runner.Runner{
		NoColor:     true,
		Timeout:     20 * time.Millisecond,
		ProgramFile: write(t, "stall.yaml", stall),
		Out:         &out,
		Err:         &warnings,
	}
	err := r.Run(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(warnings.String(), "invocations abandoned after the 20ms timeout") {
		t.Errorf("expected a timeout warning, got %q", warnings.String())
	}
	if !strings.Contains(out.String(), "HostFault") {
		t.Errorf("expected the abandoned invocation to be reported, got:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		runner      runner.Runner
		contains    string
		description string
	}{
		{runner.Runner{ProgramFile: "absent.yaml"}, "loading program", "missing program"},
		{runner.Runner{Entry: "other"}, "entry function", "unknown entry"},
		{runner.Runner{}, "expected 1 arguments", "missing argument"},
		{runner.Runner{Args: []string{"seven"}}, "argument 0", "bad argument"},
		{runner.Runner{ConfigFile: "absent.yaml"}, "reading config", "missing config"},
	}
	squareFile := write(t, "square.yaml", square)
	for _, test := range tests {
		r := test.runner
		r.NoColor = true
		r.Out = &bytes.Buffer{}
		if r.ProgramFile == "" {
			r.ProgramFile = squareFile
		}
		err := r.Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), test.contains) {
			t.Errorf("%s: expected error containing %q, got %v", test.description, test.contains, err)
		}
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		cat      interpreter.Category
		input    string
		expected interpreter.Value
	}{
		{interpreter.CatInt32, "-12", interpreter.Int32Value(-12)},
		{interpreter.CatInt64, "9000000000", interpreter.Int64Value(9000000000)},
		{interpreter.CatFloat32, "1.5", interpreter.Float32Value(1.5)},
		{interpreter.CatFloat64, "2.25", interpreter.Float64Value(2.25)},
		{interpreter.CatBool, "true", interpreter.BoolValue(true)},
		{interpreter.CatRef, "hello", interpreter.RefValue("hello")},
	}
	for _, test := range tests {
		got, err := runner.ParseArg(test.cat, test.input)
		if err != nil || !got.Equal(test.expected) {
			t.Errorf("%s %q: expected %s, got %s (%v)", test.cat, test.input, test.expected, got, err)
		}
	}

	if _, err := runner.ParseArg(interpreter.CatInt32, "3000000000"); err == nil {
		t.Error("expected int32 overflow error")
	}
}

func TestRenderError(t *testing.T) {
	defer color.EnableColor(color.IsColorEnabled())
	color.EnableColor(false)

	plain := runner.RenderError(errors.New("boom"))
	if plain != "boom" {
		t.Errorf("expected plain error, got %q", plain)
	}

	fault := &interpreter.Fault{
		Kind:    interpreter.HostFault,
		Message: "sleep",
		Cause:   context.Canceled,
		Stack:   []interpreter.StackInfo{{Owner: "main", Name: "await", Line: 3, Col: 5}, {Owner: "main", Name: "main"}},
	}
	expected := "HostFault: sleep: context canceled\n  at main.await (3:5)\n  at main"
	if got := runner.RenderError(fault); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
