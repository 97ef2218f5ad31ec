package container

import (
	"fmt"

	"vjpl/pkg/interpreter"
)

// loadKey reads the key argument from index 0 of the callee frame.
func loadKey[K comparable, KK interpreter.Kind[K]](ctx *interpreter.Context) (K, error) {
	k, err := interpreter.LoadSlot[K, KK](ctx.CurrentMem(), 0)
	if err != nil {
		return k, err
	}
	if interpreter.CategoryOf[K, KK]() == interpreter.CatRef && !hashable(any(k)) {
		return k, interpreter.Faultf(interpreter.TypeMismatch, "unhashable key %T", any(k))
	}
	return k, nil
}

// putMethod stores the value argument and returns the previous value, or the
// value category's default if the key was absent.
type putMethod[K comparable, KK interpreter.Kind[K], V any, VK interpreter.Kind[V]] struct {
	c       Container[K, V]
	valueAt int
	interpreter.StackInfo
}

func (m *putMethod[K, KK, V, VK]) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	k, err := loadKey[K, KK](ctx)
	if err != nil {
		return err
	}
	v, err := interpreter.LoadSlot[V, VK](ctx.CurrentMem(), m.valueAt)
	if err != nil {
		return err
	}
	prev, _ := m.c.Put(k, v)
	interpreter.Put[V, VK](reg, prev)
	return nil
}

type getMethod[K comparable, KK interpreter.Kind[K], V any, VK interpreter.Kind[V]] struct {
	c Container[K, V]
	interpreter.StackInfo
}

func (m *getMethod[K, KK, V, VK]) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	k, err := loadKey[K, KK](ctx)
	if err != nil {
		return err
	}
	v, _ := m.c.Get(k)
	interpreter.Put[V, VK](reg, v)
	return nil
}

type removeMethod[K comparable, KK interpreter.Kind[K], V any, VK interpreter.Kind[V]] struct {
	c Container[K, V]
	interpreter.StackInfo
}

func (m *removeMethod[K, KK, V, VK]) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	k, err := loadKey[K, KK](ctx)
	if err != nil {
		return err
	}
	prev, _ := m.c.Remove(k)
	interpreter.Put[V, VK](reg, prev)
	return nil
}

type sizeMethod struct {
	c interface{ Len() int }
	interpreter.StackInfo
}

func (m *sizeMethod) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	reg.SetInt32(int32(m.c.Len()))
	return nil
}

type stringMethod struct {
	c fmt.Stringer
	interpreter.StackInfo
}

func (m *stringMethod) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	reg.SetRef(m.c.String())
	return nil
}

// keySetMethod copies the keys into a new set object, in the map's order.
type keySetMethod[K comparable, V any] struct {
	c Container[K, V]
	interpreter.StackInfo
}

func (m *keySetMethod[K, V]) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	obj := interpreter.NewContext(nil, interpreter.Totals{Ref: 1})
	obj.CurrentMem().Refs[0] = NewSet(m.c.Keys()...)
	reg.SetRef(obj)
	return nil
}

// NewMap allocates a map object: a context nested in the current one whose
// ref slot 0 holds the container.
type NewMap struct {
	Key    interpreter.Category
	Value  interpreter.Category
	Linked bool
	interpreter.StackInfo
}

func (n *NewMap) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	c, err := New(n.Key, n.Value, n.Linked)
	if err != nil {
		return interpreter.Faultf(interpreter.TypeMismatch, "%v", err)
	}
	obj := interpreter.NewContext(ctx, interpreter.Totals{Ref: 1})
	obj.CurrentMem().Refs[0] = c
	reg.SetRef(obj)
	return nil
}

// Method evaluates Object to a map or collection object and leaves the bound
// method closure in the register, ready for interpreter.Call.
type Method struct {
	Object interpreter.Instruction
	Name   string
	bind   Binder
	interpreter.StackInfo
}

// NewMethod resolves the specialization for (op, key, val) once, at
// construction.
func NewMethod(object interpreter.Instruction, op Op, key, val interpreter.Category, info interpreter.StackInfo) (*Method, error) {
	bind, err := Lookup(op, key, val)
	if err != nil {
		return nil, err
	}
	return &Method{Object: object, Name: op.String(), bind: bind, StackInfo: info}, nil
}

func (m *Method) Execute(ctx *interpreter.Context, reg *interpreter.Register) error {
	if err := interpreter.Exec(m.Object, ctx, reg); err != nil {
		return err
	}
	obj, ok := reg.Ref().(*interpreter.Context)
	if !ok {
		return interpreter.Faultf(interpreter.TypeMismatch, "%s on %T, expected an object", m.Name, reg.Ref())
	}
	cl, err := m.bind(obj)
	if err != nil {
		return err
	}
	reg.SetRef(cl)
	return nil
}
