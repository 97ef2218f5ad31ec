package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
	"vjpl/internal/config"
	"vjpl/internal/logger"
	"vjpl/pkg/color"
	"vjpl/pkg/interpreter"
	"vjpl/pkg/program"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	Help        bool          // Show help message
	Verbose     bool          // Enable verbose output
	NoColor     bool          // Disable colored output
	Dump        bool          // Print the entry function's top frame after each invocation
	Journal     bool          // Copy invocation records to the systemd journal
	ConfigFile  string        // Path to a YAML config file
	JSONLog     string        // Path to a JSON record file
	Entry       string        // Function to run instead of the program's entry
	Parallel    int           // Number of concurrent invocations
	MaxSteps    int           // Loop iteration cap per invocation, 0 for unlimited
	Timeout     time.Duration // Abandon invocations still running after this long
	ProgramFile string        // Path to the program document
	Args        []string      // Entry function arguments
	Out         io.Writer     // Program and result output, stdout when nil
	Err         io.Writer     // Warnings, stderr when nil
}

// Result is the outcome of one invocation.
type Result struct {
	ID    string
	Value interpreter.Value
	Top   *interpreter.Context
	Err   error
}

// Run loads the program, executes the entry function Parallel times
// concurrently and reports each result. The first invocation to fail
// abandons the others at their next suspension point.
func (opts *Runner) Run(ctx context.Context) error {
	if err := opts.merge(); err != nil {
		return err
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	log.Info("Loading program", "file", opts.ProgramFile)
	p, err := program.Load(opts.ProgramFile, program.WithHosts(program.DefaultHosts()))
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	entry := p.Entry
	if opts.Entry != "" {
		entry = opts.Entry
	}
	fn, ok := p.Funcs[entry]
	if !ok {
		return fmt.Errorf("entry function %q is not defined", entry)
	}
	args, err := ParseArgs(fn.Params, opts.Args)
	if err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}

	jsonLog, closeJSON, err := logger.OpenJSON(opts.JSONLog)
	if err != nil {
		return err
	}
	defer closeJSON()
	records, err := logger.Records(logger.Sinks{JSON: jsonLog, Journal: opts.Journal})
	if err != nil {
		opts.warn("%v", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	results := make([]Result, opts.Parallel)
	shared := &syncWriter{w: out}
	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		g.Go(func() error {
			id := uuid.NewString()
			records.Debug("Invocation started", "invocation", id, "func", entry)
			start := time.Now()

			value, top, err := interpreter.Invoke(gctx, fn, args,
				interpreter.WithWriter(shared),
				interpreter.WithMaxSteps(opts.MaxSteps),
				interpreter.WithLogger(log.Default().With("invocation", id)))
			results[i] = Result{ID: id, Value: value, Top: top, Err: err}

			if err != nil {
				records.Error("Invocation faulted", "invocation", id, "func", entry, "error", err, "elapsed", time.Since(start))
				return fmt.Errorf("invocation %s: %w", id, err)
			}
			records.Info("Invocation finished", "invocation", id, "func", entry, "result", value.String(), "elapsed", time.Since(start))
			return nil
		})
	}
	runErr := g.Wait()
	if opts.Timeout > 0 && errors.Is(runErr, context.DeadlineExceeded) {
		opts.warn("invocations abandoned after the %s timeout", opts.Timeout)
	}

	explorer := p.Explorer(entry)
	for _, res := range results {
		if err := opts.report(out, res, explorer.YAML); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}
	return nil
}

// merge fills options left at their zero value from the config file.
func (opts *Runner) merge() error {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if opts.Entry == "" {
		opts.Entry = cfg.Entry
	}
	if opts.Parallel <= 0 {
		opts.Parallel = cfg.Parallel
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = cfg.MaxSteps
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.Timeout
	}
	if opts.JSONLog == "" {
		opts.JSONLog = cfg.JSONLog
	}
	if len(opts.Args) == 0 {
		opts.Args = cfg.Args
	}
	opts.Dump = opts.Dump || cfg.Dump
	opts.Journal = opts.Journal || cfg.Journal
	opts.NoColor = opts.NoColor || cfg.NoColor
	if opts.NoColor {
		color.EnableColor(false)
	}
	return nil
}

func (opts *Runner) report(out io.Writer, res Result, dump func(*interpreter.Frame) ([]byte, error)) error {
	header := "[" + res.ID + "]"
	if res.Err != nil {
		fmt.Fprintf(out, "%s %s\n", color.RedText(header), RenderError(res.Err))
	} else {
		fmt.Fprintf(out, "%s %s %s\n", color.BlueText(header), color.GreenText("=>"), color.BoldText(res.Value.String()))
	}

	if !opts.Dump || res.Top == nil {
		return nil
	}
	data, err := dump(res.Top.CurrentMem())
	if err != nil {
		return fmt.Errorf("dumping frame: %w", err)
	}
	fmt.Fprint(out, color.Code(string(data)))
	return nil
}

func (opts *Runner) warn(format string, args ...any) {
	w := opts.Err
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, color.Warning(fmt.Sprintf(format, args...)))
}

// RenderError formats a fault with its instruction sites, or any other error
// as a plain error line.
func RenderError(err error) string {
	var fault *interpreter.Fault
	if !errors.As(err, &fault) {
		return color.Error(err.Error())
	}
	message := fault.Message
	if fault.Cause != nil {
		if message != "" {
			message += ": "
		}
		message += fault.Cause.Error()
	}
	frames := make([]string, 0, len(fault.Stack))
	for _, site := range fault.Stack {
		frames = append(frames, color.Frame(site.Owner, site.Name, site.Line, site.Col))
	}
	return color.Fault(fault.Kind.String(), message, frames)
}

// ParseArgs converts command line arguments to the categories of params.
func ParseArgs(params []interpreter.Param, args []string) ([]interpreter.Value, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(params), len(args))
	}
	values := make([]interpreter.Value, len(args))
	for i, arg := range args {
		v, err := ParseArg(params[i].Cat, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseArg parses s as a value of category c. Ref arguments are strings.
func ParseArg(c interpreter.Category, s string) (interpreter.Value, error) {
	switch c {
	case interpreter.CatInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		return interpreter.Int32Value(int32(n)), err
	case interpreter.CatInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		return interpreter.Int64Value(n), err
	case interpreter.CatFloat32:
		f, err := strconv.ParseFloat(s, 32)
		return interpreter.Float32Value(float32(f)), err
	case interpreter.CatFloat64:
		f, err := strconv.ParseFloat(s, 64)
		return interpreter.Float64Value(f), err
	case interpreter.CatBool:
		b, err := strconv.ParseBool(s)
		return interpreter.BoolValue(b), err
	default:
		return interpreter.RefValue(s), nil
	}
}

// syncWriter serializes print output from concurrent invocations.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
