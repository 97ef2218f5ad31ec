package interpreter

import "fmt"

// Array is a fixed-length homogeneous array. Refs to arrays are always
// *Array[T], so equality between array refs is identity.
type Array[T any] struct {
	Elems []T
}

// NewArrayOf allocates n zero-valued elements.
func NewArrayOf[T any](n int) *Array[T] {
	return &Array[T]{Elems: make([]T, n)}
}

func (a *Array[T]) Len() int { return len(a.Elems) }

func (a *Array[T]) String() string {
	return fmt.Sprint(a.Elems)
}

func arrayOf[T any, K Kind[T]](reg *Register) (*Array[T], error) {
	arr, ok := reg.Ref().(*Array[T])
	if !ok || arr == nil {
		return nil, mismatch(CategoryOf[T, K]().String()+" array", reg.Ref())
	}
	return arr, nil
}

func elemIndex(reg *Register, size int) (int, error) {
	i := int(reg.Int32())
	if i < 0 || i >= size {
		return 0, faultf(IndexOutOfRange, "index %d, array length %d", i, size)
	}
	return i, nil
}

// GetIndex evaluates Array, then Index, and reads the element.
type GetIndex[T any, K Kind[T]] struct {
	Array Instruction
	Index Instruction
	StackInfo
}

func (g *GetIndex[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(g.Array, ctx, reg); err != nil {
		return err
	}
	arr, err := arrayOf[T, K](reg)
	if err != nil {
		return err
	}
	if err := Exec(g.Index, ctx, reg); err != nil {
		return err
	}
	i, err := elemIndex(reg, len(arr.Elems))
	if err != nil {
		return err
	}
	Put[T, K](reg, arr.Elems[i])
	return nil
}

// SetIndex evaluates Value, then Array, then Index, in that fixed order, and
// writes the element. The stored value is left in the register.
type SetIndex[T any, K Kind[T]] struct {
	Array Instruction
	Index Instruction
	Value Instruction
	StackInfo
}

func (s *SetIndex[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(s.Value, ctx, reg); err != nil {
		return err
	}
	value := Take[T, K](reg)
	if err := Exec(s.Array, ctx, reg); err != nil {
		return err
	}
	arr, err := arrayOf[T, K](reg)
	if err != nil {
		return err
	}
	if err := Exec(s.Index, ctx, reg); err != nil {
		return err
	}
	i, err := elemIndex(reg, len(arr.Elems))
	if err != nil {
		return err
	}
	arr.Elems[i] = value
	Put[T, K](reg, value)
	return nil
}

// NewArray evaluates Length (an int32) and allocates a zero-filled array.
type NewArray[T any, K Kind[T]] struct {
	Length Instruction
	StackInfo
}

func (n *NewArray[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(n.Length, ctx, reg); err != nil {
		return err
	}
	size := reg.Int32()
	if size < 0 {
		return faultf(NegativeArraySize, "%s array of length %d", CategoryOf[T, K](), size)
	}
	reg.SetRef(NewArrayOf[T](int(size)))
	return nil
}

// ArrayLength evaluates Array and writes its length as an int32.
type ArrayLength[T any, K Kind[T]] struct {
	Array Instruction
	StackInfo
}

func (a *ArrayLength[T, K]) Execute(ctx *Context, reg *Register) error {
	if err := Exec(a.Array, ctx, reg); err != nil {
		return err
	}
	arr, err := arrayOf[T, K](reg)
	if err != nil {
		return err
	}
	reg.SetInt32(int32(len(arr.Elems)))
	return nil
}
