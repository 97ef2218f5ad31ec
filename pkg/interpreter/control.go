package interpreter

// runAll executes body in order and stops early once a return, break or
// continue starts unwinding.
func runAll(body []Instruction, ctx *Context, reg *Register) error {
	for _, in := range body {
		if err := Exec(in, ctx, reg); err != nil {
			return err
		}
		if ctx.interrupted() {
			return nil
		}
	}
	return nil
}

// Block runs a statement list.
type Block struct {
	Body []Instruction
	StackInfo
}

func (b *Block) Execute(ctx *Context, reg *Register) error {
	return runAll(b.Body, ctx, reg)
}

type NoOp struct {
	StackInfo
}

func (*NoOp) Execute(*Context, *Register) error { return nil }

// Return evaluates Value, if any, and unwinds to the enclosing Call.
type Return struct {
	Value Instruction
	StackInfo
}

func (r *Return) Execute(ctx *Context, reg *Register) error {
	if r.Value != nil {
		if err := Exec(r.Value, ctx, reg); err != nil {
			return err
		}
	}
	ctx.returning = true
	return nil
}

type If struct {
	Cond Instruction
	Then []Instruction
	Else []Instruction
	StackInfo
}

func (i *If) Execute(ctx *Context, reg *Register) error {
	if err := Exec(i.Cond, ctx, reg); err != nil {
		return err
	}
	if reg.Bool() {
		return runAll(i.Then, ctx, reg)
	}
	return runAll(i.Else, ctx, reg)
}

// Break leaves Level enclosing loops.
type Break struct {
	Level int
	StackInfo
}

func (b *Break) Execute(ctx *Context, _ *Register) error {
	ctx.breaking = max(b.Level, 1)
	return nil
}

// Continue abandons the current iteration of the loop Level-1 levels out.
type Continue struct {
	Level int
	StackInfo
}

func (c *Continue) Execute(ctx *Context, _ *Register) error {
	ctx.continuing = max(c.Level, 1)
	return nil
}

// loopBody runs one iteration. exit is true when the loop must stop, either
// because of a return or because a break or outer continue is unwinding.
func loopBody(body []Instruction, ctx *Context, reg *Register) (exit bool, err error) {
	if err := runAll(body, ctx, reg); err != nil {
		return true, err
	}
	switch {
	case ctx.returning:
		return true, nil
	case ctx.breaking > 0:
		ctx.breaking--
		return true, nil
	case ctx.continuing > 0:
		ctx.continuing--
		return ctx.continuing > 0, nil
	}
	return false, nil
}

type While struct {
	Cond Instruction
	Body []Instruction
	StackInfo
}

func (w *While) Execute(ctx *Context, reg *Register) error {
	for {
		if err := ctx.tick(); err != nil {
			return err
		}
		if err := Exec(w.Cond, ctx, reg); err != nil {
			return err
		}
		if !reg.Bool() {
			return nil
		}
		if exit, err := loopBody(w.Body, ctx, reg); exit || err != nil {
			return err
		}
	}
}

type For struct {
	Init []Instruction
	Cond Instruction
	Incr []Instruction
	Body []Instruction
	StackInfo
}

func (f *For) Execute(ctx *Context, reg *Register) error {
	if err := runAll(f.Init, ctx, reg); err != nil || ctx.interrupted() {
		return err
	}
	for {
		if err := ctx.tick(); err != nil {
			return err
		}
		if err := Exec(f.Cond, ctx, reg); err != nil {
			return err
		}
		if !reg.Bool() {
			return nil
		}
		if exit, err := loopBody(f.Body, ctx, reg); exit || err != nil {
			return err
		}
		if err := runAll(f.Incr, ctx, reg); err != nil || ctx.interrupted() {
			return err
		}
	}
}
