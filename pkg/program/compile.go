package program

import (
	"fmt"

	"vjpl/pkg/container"
	"vjpl/pkg/interpreter"
)

var binaryOps = map[string]interpreter.Operation{
	"plus":     interpreter.OpPlus,
	"minus":    interpreter.OpMinus,
	"multiply": interpreter.OpMultiply,
	"divide":   interpreter.OpDivide,
	"mod":      interpreter.OpMod,
	"gt":       interpreter.OpCmpGT,
	"ge":       interpreter.OpCmpGE,
	"lt":       interpreter.OpCmpLT,
	"le":       interpreter.OpCmpLE,
	"eq":       interpreter.OpCmpEQ,
	"ne":       interpreter.OpCmpNE,
	"and":      interpreter.OpAnd,
	"or":       interpreter.OpOr,
}

type loader struct {
	hosts map[string]interpreter.HostFunc
	funcs map[string]*interpreter.Func
	owner string
}

// nodeError prefixes err with the node's position.
func nodeError(n *Node, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s: %w", n.line, n.col, n.Op, fmt.Errorf(format, args...))
}

func (l *loader) site(n *Node) interpreter.StackInfo {
	name := n.Name
	if name == "" {
		name = n.Op
	}
	return interpreter.StackInfo{Owner: l.owner, Name: name, Line: n.line, Col: n.col}
}

func (l *loader) list(nodes []*Node) ([]interpreter.Instruction, error) {
	out := make([]interpreter.Instruction, 0, len(nodes))
	for _, n := range nodes {
		in, err := l.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// child builds a required operand.
func (l *loader) child(parent *Node, field string, n *Node) (interpreter.Instruction, error) {
	if n == nil {
		return nil, nodeError(parent, "missing %s", field)
	}
	return l.node(n)
}

func category(n *Node, field, s string) (interpreter.Category, error) {
	if s == "" {
		return 0, nodeError(n, "missing %s", field)
	}
	c, err := interpreter.ParseCategory(s)
	if err != nil {
		return 0, nodeError(n, "%v", err)
	}
	return c, nil
}

func (l *loader) node(n *Node) (interpreter.Instruction, error) {
	if n == nil {
		return nil, fmt.Errorf("empty instruction")
	}
	info := l.site(n)

	if op, ok := binaryOps[n.Op]; ok {
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		left, err := l.child(n, "left", n.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.child(n, "right", n.Right)
		if err != nil {
			return nil, err
		}
		in, err := interpreter.NewBinary(op, c, left, right, info)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return in, nil
	}

	switch n.Op {
	case "literal":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		v, err := constant(n, c)
		if err != nil {
			return nil, err
		}
		return interpreter.NewLiteral(v, info), nil

	case "get":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		return interpreter.NewGet(c, n.Depth, n.Index, info), nil

	case "set":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return interpreter.NewSet(c, n.Depth, n.Index, value, info), nil

	case "getfield":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		object, err := l.child(n, "object", n.Object)
		if err != nil {
			return nil, err
		}
		return interpreter.NewGetField(c, object, n.Index, info), nil

	case "setfield":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		object, err := l.child(n, "object", n.Object)
		if err != nil {
			return nil, err
		}
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return interpreter.NewSetField(c, object, n.Index, value, info), nil

	case "getindex":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		array, err := l.child(n, "array", n.Array)
		if err != nil {
			return nil, err
		}
		at, err := l.child(n, "at", n.At)
		if err != nil {
			return nil, err
		}
		return interpreter.NewGetIndex(c, array, at, info), nil

	case "setindex":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		array, err := l.child(n, "array", n.Array)
		if err != nil {
			return nil, err
		}
		at, err := l.child(n, "at", n.At)
		if err != nil {
			return nil, err
		}
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return interpreter.NewSetIndex(c, array, at, value, info), nil

	case "newarray":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		length, err := l.child(n, "length", n.Length)
		if err != nil {
			return nil, err
		}
		return interpreter.NewNewArray(c, length, info), nil

	case "length":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		array, err := l.child(n, "array", n.Array)
		if err != nil {
			return nil, err
		}
		return interpreter.NewArrayLength(c, array, info), nil

	case "neg":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		in, err := interpreter.NewNegative(c, value, info)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return in, nil

	case "not":
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return &interpreter.LogicNot{Value: value, StackInfo: info}, nil

	case "concat":
		left, err := l.child(n, "left", n.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.child(n, "right", n.Right)
		if err != nil {
			return nil, err
		}
		return &interpreter.StringConcat{A: left, B: right, StackInfo: info}, nil

	case "convert", "tostring":
		to := interpreter.CatRef
		if n.Op == "convert" {
			c, err := category(n, "to", n.To)
			if err != nil {
				return nil, err
			}
			to = c
		}
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return &interpreter.Convert{Value: value, To: to, StackInfo: info}, nil

	case "block":
		body, err := l.list(n.Body)
		if err != nil {
			return nil, err
		}
		return &interpreter.Block{Body: body, StackInfo: info}, nil

	case "noop":
		return &interpreter.NoOp{StackInfo: info}, nil

	case "return":
		r := &interpreter.Return{StackInfo: info}
		if n.Value != nil {
			value, err := l.node(n.Value)
			if err != nil {
				return nil, err
			}
			r.Value = value
		}
		return r, nil

	case "if":
		cond, err := l.child(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.list(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.list(n.Else)
		if err != nil {
			return nil, err
		}
		return &interpreter.If{Cond: cond, Then: then, Else: els, StackInfo: info}, nil

	case "while":
		cond, err := l.child(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.list(n.Body)
		if err != nil {
			return nil, err
		}
		return &interpreter.While{Cond: cond, Body: body, StackInfo: info}, nil

	case "for":
		setup, err := l.list(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := l.child(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		incr, err := l.list(n.Incr)
		if err != nil {
			return nil, err
		}
		body, err := l.list(n.Body)
		if err != nil {
			return nil, err
		}
		return &interpreter.For{Init: setup, Cond: cond, Incr: incr, Body: body, StackInfo: info}, nil

	case "break":
		return &interpreter.Break{Level: n.Level, StackInfo: info}, nil

	case "continue":
		return &interpreter.Continue{Level: n.Level, StackInfo: info}, nil

	case "func":
		fn, ok := l.funcs[n.Func]
		if !ok {
			return nil, nodeError(n, "undefined function %q", n.Func)
		}
		return &interpreter.NewFunc{Depth: n.Depth, Fn: fn, StackInfo: info}, nil

	case "call":
		callee, err := l.child(n, "callee", n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := l.list(n.Args)
		if err != nil {
			return nil, err
		}
		return &interpreter.Call{Callee: callee, Args: args, StackInfo: info}, nil

	case "object":
		if n.Totals == nil {
			return nil, nodeError(n, "missing totals")
		}
		fields, err := l.list(n.Body)
		if err != nil {
			return nil, err
		}
		return &interpreter.NewObject{Totals: *n.Totals, Init: fields, StackInfo: info}, nil

	case "this":
		return &interpreter.This{Depth: n.Depth, StackInfo: info}, nil

	case "await":
		fn, ok := l.hosts[n.Host]
		if !ok {
			return nil, nodeError(n, "unknown host function %q", n.Host)
		}
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		args, err := l.list(n.Args)
		if err != nil {
			return nil, err
		}
		return &interpreter.Await{Name: n.Host, Fn: fn, Args: args, Result: c, StackInfo: info}, nil

	case "print":
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		return &interpreter.Print{Value: value, StackInfo: info}, nil

	case "newmap":
		k, err := category(n, "key", n.Key)
		if err != nil {
			return nil, err
		}
		v, err := category(n, "val", n.Val)
		if err != nil {
			return nil, err
		}
		return &container.NewMap{Key: k, Value: v, Linked: n.Linked, StackInfo: info}, nil

	case "method":
		op, err := container.ParseOp(n.Method)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		k, err := category(n, "key", n.Key)
		if err != nil {
			return nil, err
		}
		v, err := category(n, "val", n.Val)
		if err != nil {
			return nil, err
		}
		object, err := l.child(n, "object", n.Object)
		if err != nil {
			return nil, err
		}
		m, err := container.NewMethod(object, op, k, v, info)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return m, nil

	case "newlist", "newset":
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		return &container.NewCollection{Elem: c, Set: n.Op == "newset", StackInfo: info}, nil

	case "collection":
		op, err := container.ParseCollOp(n.Method)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		c, err := category(n, "type", n.Type)
		if err != nil {
			return nil, err
		}
		object, err := l.child(n, "object", n.Object)
		if err != nil {
			return nil, err
		}
		m, err := container.NewCollMethod(object, op, c, info)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return m, nil

	case "string":
		value, err := l.child(n, "value", n.Value)
		if err != nil {
			return nil, err
		}
		args, err := l.list(n.Args)
		if err != nil {
			return nil, err
		}
		s, err := interpreter.NewStringCall(interpreter.StringOp(n.Method), value, args, info)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return s, nil

	case "":
		return nil, nodeError(n, "missing op")
	default:
		return nil, nodeError(n, "unknown op")
	}
}

// constant decodes a literal's const field as category c. A missing const is
// the category's default.
func constant(n *Node, c interpreter.Category) (interpreter.Value, error) {
	if n.Const == nil || n.Const.Tag == "!!null" {
		return interpreter.Zero(c), nil
	}
	var (
		v   = interpreter.Value{Cat: c}
		err error
	)
	switch c {
	case interpreter.CatInt32:
		err = n.Const.Decode(&v.I32)
	case interpreter.CatInt64:
		err = n.Const.Decode(&v.I64)
	case interpreter.CatFloat32:
		err = n.Const.Decode(&v.F32)
	case interpreter.CatFloat64:
		err = n.Const.Decode(&v.F64)
	case interpreter.CatBool:
		err = n.Const.Decode(&v.Bool)
	default:
		var s string
		err = n.Const.Decode(&s)
		v.Ref = s
	}
	if err != nil {
		return interpreter.Value{}, nodeError(n, "const: %v", err)
	}
	return v, nil
}
