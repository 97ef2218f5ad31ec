package interpreter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringOp is a builtin method of string values. Lengths and positions count
// characters, not bytes.
type StringOp string

const (
	StrLength     StringOp = "length"
	StrIndexOf    StringOp = "indexOf"
	StrSubstring  StringOp = "substring"
	StrTrim       StringOp = "trim"
	StrStartsWith StringOp = "startsWith"
	StrEndsWith   StringOp = "endsWith"
	StrContains   StringOp = "contains"
	StrToBool     StringOp = "toBool"
	StrToInt      StringOp = "toInt"
	StrToLong     StringOp = "toLong"
	StrToFloat    StringOp = "toFloat"
	StrToDouble   StringOp = "toDouble"
)

var stringArgs = map[StringOp][]Category{
	StrLength:     nil,
	StrIndexOf:    {CatRef},
	StrSubstring:  {CatInt32, CatInt32},
	StrTrim:       nil,
	StrStartsWith: {CatRef},
	StrEndsWith:   {CatRef},
	StrContains:   {CatRef},
	StrToBool:     nil,
	StrToInt:      nil,
	StrToLong:     nil,
	StrToFloat:    nil,
	StrToDouble:   nil,
}

// StringCall evaluates Value, which must leave a string, then Args from left
// to right, and applies Op.
type StringCall struct {
	Op    StringOp
	Value Instruction
	Args  []Instruction
	StackInfo
}

// NewStringCall checks op and its argument count.
func NewStringCall(op StringOp, value Instruction, args []Instruction, info StackInfo) (*StringCall, error) {
	want, ok := stringArgs[op]
	if !ok {
		return nil, fmt.Errorf("unknown string method %q", op)
	}
	if len(args) != len(want) {
		return nil, fmt.Errorf("string %s takes %d arguments, got %d", op, len(want), len(args))
	}
	return &StringCall{Op: op, Value: value, Args: args, StackInfo: info}, nil
}

func (s *StringCall) Execute(ctx *Context, reg *Register) error {
	if err := Exec(s.Value, ctx, reg); err != nil {
		return err
	}
	str, ok := reg.Ref().(string)
	if !ok {
		return mismatch("string", reg.Ref())
	}
	want := stringArgs[s.Op]
	args := make([]Value, len(s.Args))
	for i, a := range s.Args {
		if err := Exec(a, ctx, reg); err != nil {
			return err
		}
		v := reg.Value()
		if v.Cat != want[i] {
			return faultf(TypeMismatch, "string %s argument %d: expected %s, got %s", s.Op, i, want[i], v.Cat)
		}
		if v.Cat == CatRef {
			if _, ok := v.Ref.(string); !ok {
				return mismatch("string", v.Ref)
			}
		}
		args[i] = v
	}

	switch s.Op {
	case StrLength:
		reg.SetInt32(int32(utf8.RuneCountInString(str)))
	case StrIndexOf:
		i := strings.Index(str, args[0].Ref.(string))
		if i > 0 {
			i = utf8.RuneCountInString(str[:i])
		}
		reg.SetInt32(int32(i))
	case StrSubstring:
		runes := []rune(str)
		from, to := int(args[0].I32), int(args[1].I32)
		if from < 0 || to > len(runes) || from > to {
			return faultf(IndexOutOfRange, "substring [%d, %d) out of range for length %d", from, to, len(runes))
		}
		reg.SetRef(string(runes[from:to]))
	case StrTrim:
		reg.SetRef(strings.TrimSpace(str))
	case StrStartsWith:
		reg.SetBool(strings.HasPrefix(str, args[0].Ref.(string)))
	case StrEndsWith:
		reg.SetBool(strings.HasSuffix(str, args[0].Ref.(string)))
	case StrContains:
		reg.SetBool(strings.Contains(str, args[0].Ref.(string)))
	case StrToBool:
		reg.SetBool(strings.EqualFold(str, "true"))
	case StrToInt:
		n, err := strconv.ParseInt(str, 10, 32)
		if err != nil {
			return parseFault(str, CatInt32)
		}
		reg.SetInt32(int32(n))
	case StrToLong:
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return parseFault(str, CatInt64)
		}
		reg.SetInt64(n)
	case StrToFloat:
		f, err := strconv.ParseFloat(str, 32)
		if err != nil {
			return parseFault(str, CatFloat32)
		}
		reg.SetFloat32(float32(f))
	case StrToDouble:
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return parseFault(str, CatFloat64)
		}
		reg.SetFloat64(f)
	}
	return nil
}

func parseFault(s string, c Category) *Fault {
	return faultf(TypeMismatch, "cannot parse %q as %s", s, c)
}
