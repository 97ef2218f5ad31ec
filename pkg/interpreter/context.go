package interpreter

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Context links a frame to its lexically enclosing context. A Ref to a
// Context is also how objects and closure environments are represented.
//
// Contexts carry no locks. Contexts reached through depth addressing may be
// shared by concurrently running invocations; the embedding host must
// serialize writes to such shared slots.
type Context struct {
	parent *Context
	mem    *Frame
	host   *host

	returning  bool
	breaking   int
	continuing int
}

// host is the per-invocation state reachable from every context created
// while that invocation runs.
type host struct {
	goctx    context.Context
	out      io.Writer
	logger   *log.Logger
	maxSteps int
	steps    int
}

var defaultHost = &host{
	goctx: context.Background(),
	out:   os.Stdout,
}

// NewContext allocates a frame sized by t whose lexical parent is parent.
// parent may be nil for a root context.
func NewContext(parent *Context, t Totals) *Context {
	h := defaultHost
	if parent != nil {
		h = parent.host
	}
	return &Context{
		parent: parent,
		mem:    NewFrame(t),
		host:   h,
	}
}

// newCallContext builds the context of a call: lexically nested in env but
// running on behalf of the caller's invocation.
func newCallContext(env, caller *Context, t Totals) *Context {
	return &Context{
		parent: env,
		mem:    NewFrame(t),
		host:   caller.host,
	}
}

// Parent returns the lexically enclosing context, or nil.
func (c *Context) Parent() *Context {
	return c.parent
}

// CurrentMem returns the context's own frame.
func (c *Context) CurrentMem() *Frame {
	return c.mem
}

// Context walks depth parent links; depth 0 is c itself.
func (c *Context) Context(depth int) (*Context, error) {
	if depth < 0 {
		return nil, faultf(IndexOutOfRange, "negative depth %d", depth)
	}
	cur := c
	for i := 0; i < depth; i++ {
		if cur.parent == nil {
			return nil, faultf(IndexOutOfRange, "depth %d exceeds context chain of %d", depth, i)
		}
		cur = cur.parent
	}
	return cur, nil
}

// Mem returns the frame depth hops up.
func (c *Context) Mem(depth int) (*Frame, error) {
	target, err := c.Context(depth)
	if err != nil {
		return nil, err
	}
	return target.mem, nil
}

// HostContext returns the host context of the invocation this context runs in.
func (c *Context) HostContext() context.Context {
	return c.host.goctx
}

// Output returns the writer the print hook writes to.
func (c *Context) Output() io.Writer {
	return c.host.out
}

// interrupted reports whether a return, break or continue is unwinding.
func (c *Context) interrupted() bool {
	return c.returning || c.breaking > 0 || c.continuing > 0
}

// tick charges one loop iteration against the invocation's step budget.
func (c *Context) tick() error {
	h := c.host
	if h.maxSteps <= 0 {
		return nil
	}
	h.steps++
	if h.steps > h.maxSteps {
		return hostFault(ErrMaxStepsExceeded)
	}
	return nil
}
