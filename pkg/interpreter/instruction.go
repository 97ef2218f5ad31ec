package interpreter

// Instruction is an immutable tree node. Execute leaves its result in reg.
// The same tree may run concurrently against distinct (ctx, reg) pairs, so
// implementations never keep per-execution state.
type Instruction interface {
	Execute(ctx *Context, reg *Register) error
	Site() StackInfo
}

// Site lets instructions embed their StackInfo to satisfy Instruction.
func (s StackInfo) Site() StackInfo { return s }

// Literal writes a constant.
type Literal[T any, K Kind[T]] struct {
	Value T
	StackInfo
}

func (l *Literal[T, K]) Execute(_ *Context, reg *Register) error {
	Put[T, K](reg, l.Value)
	return nil
}

// Get reads slot Index of the frame Depth hops up.
type Get[T any, K Kind[T]] struct {
	Depth int
	Index int
	StackInfo
}

func (g *Get[T, K]) Execute(ctx *Context, reg *Register) error {
	mem, err := ctx.Mem(g.Depth)
	if err != nil {
		return err
	}
	v, err := LoadSlot[T, K](mem, g.Index)
	if err != nil {
		return err
	}
	Put[T, K](reg, v)
	return nil
}

// Set evaluates Value and stores it into slot Index of the frame Depth hops
// up. The stored value stays in the register.
type Set[T any, K Kind[T]] struct {
	Depth int
	Index int
	Value Instruction
	StackInfo
}

func (s *Set[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(s.Value, ctx, reg); err != nil {
		return err
	}
	mem, err := ctx.Mem(s.Depth)
	if err != nil {
		return err
	}
	return StoreSlot[T, K](mem, s.Index, Take[T, K](reg))
}

// GetField evaluates Object, which must leave a context Ref in the register,
// and reads slot Index of that context's own frame. A nil Object reads the
// Ref a preceding instruction already left in the register.
type GetField[T any, K Kind[T]] struct {
	Object Instruction
	Index  int
	StackInfo
}

func (g *GetField[T, K]) Execute(ctx *Context, reg *Register) error {
	if g.Object != nil {
		if err := Exec(g.Object, ctx, reg); err != nil {
			return err
		}
	}
	obj, ok := reg.Ref().(*Context)
	if !ok {
		return mismatch("object", reg.Ref())
	}
	v, err := LoadSlot[T, K](obj.mem, g.Index)
	if err != nil {
		return err
	}
	Put[T, K](reg, v)
	return nil
}

// SetField evaluates Value, then Object, and stores the value into slot Index
// of the object's own frame. Object is required: the register holds the value
// by the time the receiver is needed.
type SetField[T any, K Kind[T]] struct {
	Object Instruction
	Index  int
	Value  Instruction
	StackInfo
}

func (s *SetField[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(s.Value, ctx, reg); err != nil {
		return err
	}
	value := Take[T, K](reg)
	if s.Object == nil {
		return faultf(TypeMismatch, "field store without an object")
	}
	if err := Exec(s.Object, ctx, reg); err != nil {
		return err
	}
	obj, ok := reg.Ref().(*Context)
	if !ok {
		return mismatch("object", reg.Ref())
	}
	if err := StoreSlot[T, K](obj.mem, s.Index, value); err != nil {
		return err
	}
	Put[T, K](reg, value)
	return nil
}

// This writes a Ref to the context Depth hops up, which is how a method body
// reaches its receiver.
type This struct {
	Depth int
	StackInfo
}

func (t *This) Execute(ctx *Context, reg *Register) error {
	target, err := ctx.Context(t.Depth)
	if err != nil {
		return err
	}
	reg.SetRef(target)
	return nil
}
