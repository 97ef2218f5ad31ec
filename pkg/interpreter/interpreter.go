package interpreter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Invocation configures one top-level call into an instruction tree.
type Invocation struct {
	host   *host
	parent *Context
}

type Option func(*Invocation)

// WithWriter sets the output writer for print instructions
func WithWriter(w io.Writer) Option {
	return func(i *Invocation) { i.host.out = w }
}

// WithMaxSteps caps the total number of loop iterations; exceeding it faults
// with ErrMaxStepsExceeded. 0 means unlimited.
func WithMaxSteps(n int) Option {
	return func(i *Invocation) { i.host.maxSteps = n }
}

// WithLogger enables debug logging of the invocation lifecycle.
func WithLogger(l *log.Logger) Option {
	return func(i *Invocation) { i.host.logger = l }
}

// WithParent nests the invocation's top frame in an existing context, the
// way a function body sees the globals of the module that defined it.
func WithParent(c *Context) Option {
	return func(i *Invocation) { i.parent = c }
}

// NewInvocation prepares an invocation bound to goctx.
func NewInvocation(goctx context.Context, opts ...Option) *Invocation {
	inv := &Invocation{
		host: &host{
			goctx: goctx,
			out:   nil, // caller may set it with WithWriter
		},
	}
	for _, o := range opts {
		o(inv)
	}
	if inv.host.out == nil {
		inv.host.out = os.Stdout
	}
	return inv
}

// Call allocates fn's top frame, stores args into its parameter slots and
// executes the body with a fresh register. It returns the register's final
// value and the top context so callers can inspect the frame. Each Call gets
// its own register, frame and step budget, so one Invocation may be called
// from several goroutines.
func (inv *Invocation) Call(fn *Func, args ...Value) (Value, *Context, error) {
	if len(args) != len(fn.Params) {
		return Value{}, nil, fmt.Errorf("%s takes %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	h := *inv.host
	h.steps = 0
	top := &Context{
		parent: inv.parent,
		mem:    NewFrame(fn.Totals),
		host:   &h,
	}
	for i, a := range args {
		p := fn.Params[i]
		if a.Cat != p.Cat {
			return Value{}, nil, fmt.Errorf("%s argument %d: expected %s, got %s", fn.Name, i, p.Cat, a.Cat)
		}
		if err := top.mem.Store(p.Index, a); err != nil {
			return Value{}, nil, fmt.Errorf("%s argument %d: %w", fn.Name, i, err)
		}
	}

	logger := h.logger
	start := time.Now()
	if logger != nil {
		logger.Debug("Invoking", "func", fn.Name, "args", len(args))
	}

	var reg Register
	err := Exec(fn.Body, top, &reg)
	if logger != nil {
		if err != nil {
			logger.Debug("Invocation faulted", "func", fn.Name, "error", err, "elapsed", time.Since(start))
		} else {
			logger.Debug("Invocation finished", "func", fn.Name, "result", reg.Value(), "elapsed", time.Since(start))
		}
	}
	if err != nil {
		return Value{}, top, err
	}
	return reg.Value(), top, nil
}

// Invoke is shorthand for NewInvocation(goctx, opts...).Call(fn, args...).
func Invoke(goctx context.Context, fn *Func, args []Value, opts ...Option) (Value, *Context, error) {
	return NewInvocation(goctx, opts...).Call(fn, args...)
}
