package interpreter

// Every binary instruction evaluates Left, copies its value out of the
// register, then evaluates Right. Only then is the operator applied.

// operands runs both children in source order.
func operands[T any, K Kind[T]](left, right Instruction, ctx *Context, reg *Register) (T, T, error) {
	var zero T
	if err := Exec(left, ctx, reg); err != nil {
		return zero, zero, err
	}
	l := Take[T, K](reg)
	if err := Exec(right, ctx, reg); err != nil {
		return zero, zero, err
	}
	return l, Take[T, K](reg), nil
}

type Plus[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *Plus[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	Put[T, K](reg, l+r)
	return nil
}

type Minus[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *Minus[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	Put[T, K](reg, l-r)
	return nil
}

type Multiply[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *Multiply[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	Put[T, K](reg, l*r)
	return nil
}

// Divide truncates toward zero on integers and faults on an integer zero
// divisor; floats follow IEEE-754.
type Divide[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *Divide[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	if r == 0 && CategoryOf[T, K]().IsInteger() {
		return faultf(ArithmeticFault, "%s division by zero", CategoryOf[T, K]())
	}
	Put[T, K](reg, l/r)
	return nil
}

type Mod[T Integer, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *Mod[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	if r == 0 {
		return faultf(ArithmeticFault, "%s modulo by zero", CategoryOf[T, K]())
	}
	Put[T, K](reg, l%r)
	return nil
}

type CmpGT[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpGT[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l > r)
	return nil
}

type CmpGE[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpGE[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l >= r)
	return nil
}

type CmpLT[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpLT[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l < r)
	return nil
}

type CmpLE[T Number, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpLE[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l <= r)
	return nil
}

func equal[T comparable, K Kind[T]](l, r T) bool {
	if CategoryOf[T, K]() == CatRef {
		return refEqual(any(l), any(r))
	}
	return l == r
}

// CmpEQ is defined for all six categories and never faults.
type CmpEQ[T comparable, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpEQ[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(equal[T, K](l, r))
	return nil
}

type CmpNE[T comparable, K Kind[T]] struct {
	Left, Right Instruction
	StackInfo
}

func (o *CmpNE[T, K]) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[T, K](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(!equal[T, K](l, r))
	return nil
}

// LogicAnd always evaluates both operands; it does not short-circuit.
type LogicAnd struct {
	Left, Right Instruction
	StackInfo
}

func (o *LogicAnd) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[bool, Bool](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l && r)
	return nil
}

// LogicOr always evaluates both operands; it does not short-circuit.
type LogicOr struct {
	Left, Right Instruction
	StackInfo
}

func (o *LogicOr) Execute(ctx *Context, reg *Register) error {
	l, r, err := operands[bool, Bool](o.Left, o.Right, ctx, reg)
	if err != nil {
		return err
	}
	reg.SetBool(l || r)
	return nil
}

type LogicNot struct {
	Value Instruction
	StackInfo
}

func (o *LogicNot) Execute(ctx *Context, reg *Register) error {
	if err := Exec(o.Value, ctx, reg); err != nil {
		return err
	}
	reg.SetBool(!reg.Bool())
	return nil
}

type Negative[T Number, K Kind[T]] struct {
	Value Instruction
	StackInfo
}

func (o *Negative[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(o.Value, ctx, reg); err != nil {
		return err
	}
	Put[T, K](reg, -Take[T, K](reg))
	return nil
}
