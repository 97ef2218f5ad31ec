package interpreter

import "fmt"

// Operation names a binary operator family.
type Operation string

// List of binary operations
const (
	OpPlus     Operation = "+"
	OpMinus    Operation = "-"
	OpMultiply Operation = "*"
	OpDivide   Operation = "/"
	OpMod      Operation = "%"
	OpCmpGT    Operation = ">"
	OpCmpGE    Operation = ">="
	OpCmpLT    Operation = "<"
	OpCmpLE    Operation = "<="
	OpCmpEQ    Operation = "=="
	OpCmpNE    Operation = "!="
	OpAnd      Operation = "&&"
	OpOr       Operation = "||"
)

// The constructors below pick the specialization for a category resolved
// upstream. They are the only place a Category is inspected; the returned
// instructions never check it again.

// NewLiteral builds the literal for v's category.
func NewLiteral(v Value, info StackInfo) Instruction {
	switch v.Cat {
	case CatInt32:
		return &Literal[int32, Int32]{Value: v.I32, StackInfo: info}
	case CatInt64:
		return &Literal[int64, Int64]{Value: v.I64, StackInfo: info}
	case CatFloat32:
		return &Literal[float32, Float32]{Value: v.F32, StackInfo: info}
	case CatFloat64:
		return &Literal[float64, Float64]{Value: v.F64, StackInfo: info}
	case CatBool:
		return &Literal[bool, Bool]{Value: v.Bool, StackInfo: info}
	default:
		return &Literal[any, Ref]{Value: v.Ref, StackInfo: info}
	}
}

func NewGet(c Category, depth, index int, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &Get[int32, Int32]{Depth: depth, Index: index, StackInfo: info}
	case CatInt64:
		return &Get[int64, Int64]{Depth: depth, Index: index, StackInfo: info}
	case CatFloat32:
		return &Get[float32, Float32]{Depth: depth, Index: index, StackInfo: info}
	case CatFloat64:
		return &Get[float64, Float64]{Depth: depth, Index: index, StackInfo: info}
	case CatBool:
		return &Get[bool, Bool]{Depth: depth, Index: index, StackInfo: info}
	default:
		return &Get[any, Ref]{Depth: depth, Index: index, StackInfo: info}
	}
}

func NewSet(c Category, depth, index int, value Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &Set[int32, Int32]{Depth: depth, Index: index, Value: value, StackInfo: info}
	case CatInt64:
		return &Set[int64, Int64]{Depth: depth, Index: index, Value: value, StackInfo: info}
	case CatFloat32:
		return &Set[float32, Float32]{Depth: depth, Index: index, Value: value, StackInfo: info}
	case CatFloat64:
		return &Set[float64, Float64]{Depth: depth, Index: index, Value: value, StackInfo: info}
	case CatBool:
		return &Set[bool, Bool]{Depth: depth, Index: index, Value: value, StackInfo: info}
	default:
		return &Set[any, Ref]{Depth: depth, Index: index, Value: value, StackInfo: info}
	}
}

func NewGetField(c Category, object Instruction, index int, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &GetField[int32, Int32]{Object: object, Index: index, StackInfo: info}
	case CatInt64:
		return &GetField[int64, Int64]{Object: object, Index: index, StackInfo: info}
	case CatFloat32:
		return &GetField[float32, Float32]{Object: object, Index: index, StackInfo: info}
	case CatFloat64:
		return &GetField[float64, Float64]{Object: object, Index: index, StackInfo: info}
	case CatBool:
		return &GetField[bool, Bool]{Object: object, Index: index, StackInfo: info}
	default:
		return &GetField[any, Ref]{Object: object, Index: index, StackInfo: info}
	}
}

func NewSetField(c Category, object Instruction, index int, value Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &SetField[int32, Int32]{Object: object, Index: index, Value: value, StackInfo: info}
	case CatInt64:
		return &SetField[int64, Int64]{Object: object, Index: index, Value: value, StackInfo: info}
	case CatFloat32:
		return &SetField[float32, Float32]{Object: object, Index: index, Value: value, StackInfo: info}
	case CatFloat64:
		return &SetField[float64, Float64]{Object: object, Index: index, Value: value, StackInfo: info}
	case CatBool:
		return &SetField[bool, Bool]{Object: object, Index: index, Value: value, StackInfo: info}
	default:
		return &SetField[any, Ref]{Object: object, Index: index, Value: value, StackInfo: info}
	}
}

func NewGetIndex(c Category, array, index Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &GetIndex[int32, Int32]{Array: array, Index: index, StackInfo: info}
	case CatInt64:
		return &GetIndex[int64, Int64]{Array: array, Index: index, StackInfo: info}
	case CatFloat32:
		return &GetIndex[float32, Float32]{Array: array, Index: index, StackInfo: info}
	case CatFloat64:
		return &GetIndex[float64, Float64]{Array: array, Index: index, StackInfo: info}
	case CatBool:
		return &GetIndex[bool, Bool]{Array: array, Index: index, StackInfo: info}
	default:
		return &GetIndex[any, Ref]{Array: array, Index: index, StackInfo: info}
	}
}

func NewSetIndex(c Category, array, index, value Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &SetIndex[int32, Int32]{Array: array, Index: index, Value: value, StackInfo: info}
	case CatInt64:
		return &SetIndex[int64, Int64]{Array: array, Index: index, Value: value, StackInfo: info}
	case CatFloat32:
		return &SetIndex[float32, Float32]{Array: array, Index: index, Value: value, StackInfo: info}
	case CatFloat64:
		return &SetIndex[float64, Float64]{Array: array, Index: index, Value: value, StackInfo: info}
	case CatBool:
		return &SetIndex[bool, Bool]{Array: array, Index: index, Value: value, StackInfo: info}
	default:
		return &SetIndex[any, Ref]{Array: array, Index: index, Value: value, StackInfo: info}
	}
}

func NewNewArray(c Category, length Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &NewArray[int32, Int32]{Length: length, StackInfo: info}
	case CatInt64:
		return &NewArray[int64, Int64]{Length: length, StackInfo: info}
	case CatFloat32:
		return &NewArray[float32, Float32]{Length: length, StackInfo: info}
	case CatFloat64:
		return &NewArray[float64, Float64]{Length: length, StackInfo: info}
	case CatBool:
		return &NewArray[bool, Bool]{Length: length, StackInfo: info}
	default:
		return &NewArray[any, Ref]{Length: length, StackInfo: info}
	}
}

func NewArrayLength(c Category, array Instruction, info StackInfo) Instruction {
	switch c {
	case CatInt32:
		return &ArrayLength[int32, Int32]{Array: array, StackInfo: info}
	case CatInt64:
		return &ArrayLength[int64, Int64]{Array: array, StackInfo: info}
	case CatFloat32:
		return &ArrayLength[float32, Float32]{Array: array, StackInfo: info}
	case CatFloat64:
		return &ArrayLength[float64, Float64]{Array: array, StackInfo: info}
	case CatBool:
		return &ArrayLength[bool, Bool]{Array: array, StackInfo: info}
	default:
		return &ArrayLength[any, Ref]{Array: array, StackInfo: info}
	}
}

// NewNegative fails for non-numeric categories.
func NewNegative(c Category, value Instruction, info StackInfo) (Instruction, error) {
	switch c {
	case CatInt32:
		return &Negative[int32, Int32]{Value: value, StackInfo: info}, nil
	case CatInt64:
		return &Negative[int64, Int64]{Value: value, StackInfo: info}, nil
	case CatFloat32:
		return &Negative[float32, Float32]{Value: value, StackInfo: info}, nil
	case CatFloat64:
		return &Negative[float64, Float64]{Value: value, StackInfo: info}, nil
	default:
		return nil, fmt.Errorf("negation is not defined for %s", c)
	}
}

// NewBinary selects the specialization of op for operand category c. It
// fails when op is not defined for c (Mod on floats, ordering on bool, ...).
func NewBinary(op Operation, c Category, left, right Instruction, info StackInfo) (Instruction, error) {
	switch op {
	case OpPlus, OpMinus, OpMultiply, OpDivide, OpCmpGT, OpCmpGE, OpCmpLT, OpCmpLE:
		switch c {
		case CatInt32:
			return numeric[int32, Int32](op, left, right, info), nil
		case CatInt64:
			return numeric[int64, Int64](op, left, right, info), nil
		case CatFloat32:
			return numeric[float32, Float32](op, left, right, info), nil
		case CatFloat64:
			return numeric[float64, Float64](op, left, right, info), nil
		}
	case OpMod:
		switch c {
		case CatInt32:
			return &Mod[int32, Int32]{Left: left, Right: right, StackInfo: info}, nil
		case CatInt64:
			return &Mod[int64, Int64]{Left: left, Right: right, StackInfo: info}, nil
		}
	case OpCmpEQ, OpCmpNE:
		neq := op == OpCmpNE
		switch c {
		case CatInt32:
			return equality[int32, Int32](neq, left, right, info), nil
		case CatInt64:
			return equality[int64, Int64](neq, left, right, info), nil
		case CatFloat32:
			return equality[float32, Float32](neq, left, right, info), nil
		case CatFloat64:
			return equality[float64, Float64](neq, left, right, info), nil
		case CatBool:
			return equality[bool, Bool](neq, left, right, info), nil
		case CatRef:
			return equality[any, Ref](neq, left, right, info), nil
		}
	case OpAnd:
		if c == CatBool {
			return &LogicAnd{Left: left, Right: right, StackInfo: info}, nil
		}
	case OpOr:
		if c == CatBool {
			return &LogicOr{Left: left, Right: right, StackInfo: info}, nil
		}
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	return nil, fmt.Errorf("operation %q is not defined for %s", op, c)
}

func numeric[T Number, K Kind[T]](op Operation, left, right Instruction, info StackInfo) Instruction {
	switch op {
	case OpPlus:
		return &Plus[T, K]{Left: left, Right: right, StackInfo: info}
	case OpMinus:
		return &Minus[T, K]{Left: left, Right: right, StackInfo: info}
	case OpMultiply:
		return &Multiply[T, K]{Left: left, Right: right, StackInfo: info}
	case OpDivide:
		return &Divide[T, K]{Left: left, Right: right, StackInfo: info}
	case OpCmpGT:
		return &CmpGT[T, K]{Left: left, Right: right, StackInfo: info}
	case OpCmpGE:
		return &CmpGE[T, K]{Left: left, Right: right, StackInfo: info}
	case OpCmpLT:
		return &CmpLT[T, K]{Left: left, Right: right, StackInfo: info}
	default:
		return &CmpLE[T, K]{Left: left, Right: right, StackInfo: info}
	}
}

func equality[T comparable, K Kind[T]](neq bool, left, right Instruction, info StackInfo) Instruction {
	if neq {
		return &CmpNE[T, K]{Left: left, Right: right, StackInfo: info}
	}
	return &CmpEQ[T, K]{Left: left, Right: right, StackInfo: info}
}
