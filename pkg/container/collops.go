package container

import (
	"fmt"

	"vjpl/pkg/interpreter"
)

// CollOp is a list or set method. The list-only ops fault on a set receiver.
type CollOp uint8

const (
	CollAdd CollOp = iota
	CollRemove
	CollContains
	CollSize
	CollToString
	CollGet
	CollSet
	CollInsert
	CollIndexOf
	CollRemoveAt
	CollSubList
)

var collOps = [...]CollOp{CollAdd, CollRemove, CollContains, CollSize, CollToString, CollGet, CollSet, CollInsert, CollIndexOf, CollRemoveAt, CollSubList}

func (o CollOp) String() string {
	switch o {
	case CollAdd:
		return "add"
	case CollRemove:
		return "remove"
	case CollContains:
		return "contains"
	case CollSize:
		return "size"
	case CollToString:
		return "toString"
	case CollGet:
		return "get"
	case CollSet:
		return "set"
	case CollInsert:
		return "insert"
	case CollIndexOf:
		return "indexOf"
	case CollRemoveAt:
		return "removeAt"
	case CollSubList:
		return "subList"
	default:
		return fmt.Sprintf("collop(%d)", uint8(o))
	}
}

func (o CollOp) listOnly() bool {
	return o >= CollGet
}

// ParseCollOp accepts the method names used in programs.
func ParseCollOp(s string) (CollOp, error) {
	for _, o := range collOps {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown collection method: %q", s)
}

type collKey struct {
	op   CollOp
	elem interpreter.Category
}

var (
	collMethods   = make(map[collKey]Binder, len(collOps)*len(interpreter.Categories))
	collFactories = make(map[interpreter.Category]func(set bool) any, len(interpreter.Categories))
)

func init() {
	registerElem[int32, interpreter.Int32]()
	registerElem[int64, interpreter.Int64]()
	registerElem[float32, interpreter.Float32]()
	registerElem[float64, interpreter.Float64]()
	registerElem[bool, interpreter.Bool]()
	registerElem[any, interpreter.Ref]()
}

func registerElem[E comparable, EK interpreter.Kind[E]]() {
	ec := interpreter.CategoryOf[E, EK]()

	collFactories[ec] = func(set bool) any {
		if set {
			return NewSet[E]()
		}
		return NewList[E]()
	}

	for _, op := range collOps {
		params := CollParams(op, ec)
		totals := interpreter.Totals{}
		for _, p := range params {
			totals = totals.With(p.Cat, totals.Of(p.Cat)+1)
		}
		body := collMethod[E, EK]{op: op}
		if len(params) > 1 {
			body.at = params[1].Index
		}
		collMethods[collKey{op, ec}] = func(obj *interpreter.Context) (*interpreter.Closure, error) {
			c, err := collReceiver[E](obj, op, ec)
			if err != nil {
				return nil, err
			}
			bound := body
			bound.c = c
			bound.list, _ = c.(*List[E])
			_, bound.set = c.(*Set[E])
			fn := &interpreter.Func{
				Name:   op.String(),
				Params: params,
				Totals: totals,
				Body:   &bound,
			}
			return &interpreter.Closure{Fn: fn, Env: obj}, nil
		}
	}
}

func collReceiver[E comparable](obj *interpreter.Context, op CollOp, ec interpreter.Category) (Collection[E], error) {
	if obj == nil {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "collection method on null")
	}
	mem := obj.CurrentMem()
	if len(mem.Refs) == 0 {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "object holds no collection")
	}
	c, ok := mem.Refs[0].(Collection[E])
	if !ok {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "expected %s collection, got %T", ec, mem.Refs[0])
	}
	if _, isList := c.(*List[E]); op.listOnly() && !isList {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "%s is a list method, receiver is %T", op, c)
	}
	return c, nil
}

// LookupColl returns the binder for op on a collection of elem.
func LookupColl(op CollOp, elem interpreter.Category) (Binder, error) {
	b, ok := collMethods[collKey{op, elem}]
	if !ok {
		return nil, fmt.Errorf("no %s method for %s collections", op, elem)
	}
	return b, nil
}

// NewColl allocates an empty list, or set when set is true.
func NewColl(elem interpreter.Category, set bool) (any, error) {
	f, ok := collFactories[elem]
	if !ok {
		return nil, fmt.Errorf("no collection of %s", elem)
	}
	return f(set), nil
}

// CollParams describes where a collection method reads its arguments.
// Indexes are int32 at index 0; an element that follows an index shares its
// region only when the element is int32 too.
func CollParams(op CollOp, elem interpreter.Category) []interpreter.Param {
	switch op {
	case CollAdd, CollRemove, CollContains, CollIndexOf:
		return []interpreter.Param{{Cat: elem, Index: 0}}
	case CollGet, CollRemoveAt:
		return []interpreter.Param{{Cat: interpreter.CatInt32, Index: 0}}
	case CollSet, CollInsert:
		at := 0
		if elem == interpreter.CatInt32 {
			at = 1
		}
		return []interpreter.Param{{Cat: interpreter.CatInt32, Index: 0}, {Cat: elem, Index: at}}
	case CollSubList:
		return []interpreter.Param{{Cat: interpreter.CatInt32, Index: 0}, {Cat: interpreter.CatInt32, Index: 1}}
	default:
		return nil
	}
}

// collMethod is the body of every collection method. The element argument,
// when there is one, sits at index 0 of its region, or at index at after an
// index argument.
type collMethod[E comparable, EK interpreter.Kind[E]] struct {
	op   CollOp
	at   int
	c    Collection[E]
	list *List[E]
	set  bool
	interpreter.StackInfo
}

func (m *collMethod[E, EK]) elem(ctx *interpreter.Context, i int) (E, error) {
	e, err := interpreter.LoadSlot[E, EK](ctx.CurrentMem(), i)
	if err != nil {
		return e, err
	}
	if m.set && !hashable(any(e)) {
		return e, interpreter.Faultf(interpreter.TypeMismatch, "unhashable set element %T", any(e))
	}
	return e, nil
}

func (m *collMethod[E, EK]) index(ctx *interpreter.Context, i int) (int, error) {
	n, err := interpreter.LoadSlot[int32, interpreter.Int32](ctx.CurrentMem(), i)
	return int(n), err
}

func (m *collMethod[E, EK]) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	switch m.op {
	case CollSize:
		reg.SetInt32(int32(m.c.Len()))
		return nil
	case CollToString:
		reg.SetRef(m.c.String())
		return nil
	case CollAdd, CollRemove, CollContains, CollIndexOf:
		e, err := m.elem(ctx, 0)
		if err != nil {
			return err
		}
		switch m.op {
		case CollAdd:
			reg.SetBool(m.c.Add(e))
		case CollRemove:
			reg.SetBool(m.c.Remove(e))
		case CollContains:
			reg.SetBool(m.c.Contains(e))
		default:
			reg.SetInt32(int32(m.list.IndexOf(e)))
		}
		return nil
	case CollSubList:
		from, err := m.index(ctx, 0)
		if err != nil {
			return err
		}
		to, err := m.index(ctx, 1)
		if err != nil {
			return err
		}
		sub, err := m.list.SubList(from, to)
		if err != nil {
			return err
		}
		obj := interpreter.NewContext(nil, interpreter.Totals{Ref: 1})
		obj.CurrentMem().Refs[0] = sub
		reg.SetRef(obj)
		return nil
	}

	i, err := m.index(ctx, 0)
	if err != nil {
		return err
	}
	var out E
	switch m.op {
	case CollGet:
		out, err = m.list.Get(i)
	case CollRemoveAt:
		out, err = m.list.RemoveAt(i)
	case CollSet, CollInsert:
		e, lerr := m.elem(ctx, m.at)
		if lerr != nil {
			return lerr
		}
		if m.op == CollInsert {
			return m.list.Insert(i, e)
		}
		out, err = m.list.Set(i, e)
	}
	if err != nil {
		return err
	}
	interpreter.Put[E, EK](reg, out)
	return nil
}

// NewCollection allocates a list or set object: a context nested in the
// current one whose ref slot 0 holds the collection.
type NewCollection struct {
	Elem interpreter.Category
	Set  bool
	interpreter.StackInfo
}

func (n *NewCollection) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	c, err := NewColl(n.Elem, n.Set)
	if err != nil {
		return interpreter.Faultf(interpreter.TypeMismatch, "%v", err)
	}
	obj := interpreter.NewContext(ctx, interpreter.Totals{Ref: 1})
	obj.CurrentMem().Refs[0] = c
	reg.SetRef(obj)
	return nil
}

// NewCollMethod resolves the specialization for (op, elem) once, at
// construction.
func NewCollMethod(object interpreter.Instruction, op CollOp, elem interpreter.Category, info interpreter.StackInfo) (*Method, error) {
	bind, err := LookupColl(op, elem)
	if err != nil {
		return nil, err
	}
	return &Method{Object: object, Name: op.String(), bind: bind, StackInfo: info}, nil
}
