package interpreter

// Param places one argument in the callee frame.
type Param struct {
	Cat   Category `yaml:"type"`
	Index int      `yaml:"index"`
}

// Func is a resolved function body together with the frame it needs.
type Func struct {
	Name   string
	Params []Param
	Totals Totals
	Body   Instruction
}

// Closure is the Ref value of a callable: a body plus the context it was
// created in. Calls nest their frame inside Env.
type Closure struct {
	Fn  *Func
	Env *Context
}

func (c *Closure) String() string {
	return "<func " + c.Fn.Name + ">"
}

// NewFunc captures the context Depth hops up and writes a closure Ref.
type NewFunc struct {
	Depth int
	Fn    *Func
	StackInfo
}

func (n *NewFunc) Execute(ctx *Context, reg *Register) error {
	env, err := ctx.Context(n.Depth)
	if err != nil {
		return err
	}
	reg.SetRef(&Closure{Fn: n.Fn, Env: env})
	return nil
}

// Call evaluates Callee to a closure, evaluates Args left to right in the
// caller's context into a fresh frame, then runs the body in that frame. The
// call's result is whatever the body leaves in the register.
type Call struct {
	Callee Instruction
	Args   []Instruction
	StackInfo
}

func (c *Call) Execute(ctx *Context, reg *Register) error {
	if err := Exec(c.Callee, ctx, reg); err != nil {
		return err
	}
	cl, ok := reg.Ref().(*Closure)
	if !ok || cl == nil {
		return mismatch("function", reg.Ref())
	}
	fn := cl.Fn
	if len(c.Args) != len(fn.Params) {
		return faultf(TypeMismatch, "%s takes %d arguments, got %d", fn.Name, len(fn.Params), len(c.Args))
	}
	callee := newCallContext(cl.Env, ctx, fn.Totals)
	for i, arg := range c.Args {
		if err := Exec(arg, ctx, reg); err != nil {
			return err
		}
		v := reg.Value()
		p := fn.Params[i]
		if v.Cat != p.Cat {
			return faultf(TypeMismatch, "%s argument %d: expected %s, got %s", fn.Name, i, p.Cat, v.Cat)
		}
		if err := callee.mem.Store(p.Index, v); err != nil {
			return err
		}
	}
	return Exec(fn.Body, callee, reg)
}

// NewObject allocates an object instance nested in the current context and
// writes a Ref to it.
type NewObject struct {
	Totals Totals
	Init   []Instruction
	StackInfo
}

func (n *NewObject) Execute(ctx *Context, reg *Register) error {
	obj := NewContext(ctx, n.Totals)
	if err := runAll(n.Init, obj, reg); err != nil {
		return err
	}
	reg.SetRef(obj)
	return nil
}
