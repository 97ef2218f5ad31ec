package interpreter

import (
	"errors"
	"fmt"
	"strings"
)

// FaultKind classifies a fatal execution error.
type FaultKind uint8

const (
	IndexOutOfRange FaultKind = iota + 1
	TypeMismatch
	ArithmeticFault
	NegativeArraySize
	HostFault
)

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrArithmetic        = errors.New("arithmetic fault")
	ErrNegativeArraySize = errors.New("negative array size")
	ErrHost              = errors.New("host failure")
	ErrMaxStepsExceeded  = errors.New("maximum steps exceeded")
)

func (k FaultKind) String() string {
	switch k {
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case TypeMismatch:
		return "TypeMismatch"
	case ArithmeticFault:
		return "ArithmeticFault"
	case NegativeArraySize:
		return "NegativeArraySizeFault"
	case HostFault:
		return "HostFault"
	default:
		return fmt.Sprintf("FaultKind(%d)", uint8(k))
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case IndexOutOfRange:
		return ErrIndexOutOfRange
	case TypeMismatch:
		return ErrTypeMismatch
	case ArithmeticFault:
		return ErrArithmetic
	case NegativeArraySize:
		return ErrNegativeArraySize
	default:
		return ErrHost
	}
}

// StackInfo is the diagnostic site an instruction was built from.
type StackInfo struct {
	Owner string `yaml:"owner,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Line  int    `yaml:"line,omitempty"`
	Col   int    `yaml:"col,omitempty"`
}

// IsZero reports whether the site carries no information.
func (s StackInfo) IsZero() bool {
	return s == StackInfo{}
}

func (s StackInfo) String() string {
	var sb strings.Builder
	switch {
	case s.Owner != "" && s.Name != "":
		sb.WriteString(s.Owner + "." + s.Name)
	case s.Name != "":
		sb.WriteString(s.Name)
	default:
		sb.WriteString(s.Owner)
	}
	if s.Line > 0 {
		fmt.Fprintf(&sb, "(%d:%d)", s.Line, s.Col)
	}
	return sb.String()
}

// Fault aborts the current invocation. Stack lists the instruction sites from
// the failing instruction outwards.
type Fault struct {
	Kind    FaultKind
	Message string
	Stack   []StackInfo
	Cause   error
}

func (f *Fault) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	if f.Message != "" {
		sb.WriteString(": " + f.Message)
	}
	if f.Cause != nil {
		sb.WriteString(": " + f.Cause.Error())
	}
	for _, site := range f.Stack {
		sb.WriteString("\n  at " + site.String())
	}
	return sb.String()
}

// Unwrap exposes both the kind's sentinel and the host cause to errors.Is.
func (f *Fault) Unwrap() []error {
	if f.Cause != nil {
		return []error{f.Kind.sentinel(), f.Cause}
	}
	return []error{f.Kind.sentinel()}
}

// Faultf builds a fault for instructions defined outside this package.
func Faultf(kind FaultKind, format string, args ...any) *Fault {
	return faultf(kind, format, args...)
}

func faultf(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func slotFault(c Category, i, size int) *Fault {
	return faultf(IndexOutOfRange, "%s slot %d, frame holds %d", c, i, size)
}

func mismatch(want string, got any) *Fault {
	if got == nil {
		return faultf(TypeMismatch, "expected %s, got null", want)
	}
	return faultf(TypeMismatch, "expected %s, got %T", want, got)
}

func hostFault(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Kind: HostFault, Cause: err}
}

// Exec runs in against ctx and reg. When it fails with a Fault, in's site is
// appended to the fault's stack; any other error is first wrapped in a
// HostFault. Composite instructions run their children through Exec.
func Exec(in Instruction, ctx *Context, reg *Register) error {
	err := in.Execute(ctx, reg)
	if err == nil {
		return nil
	}
	f := hostFault(err)
	if site := in.Site(); !site.IsZero() {
		f.Stack = append(f.Stack, site)
	}
	return f
}
