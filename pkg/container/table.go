package container

import (
	"fmt"

	"vjpl/pkg/interpreter"
)

// Op is a container method.
type Op uint8

const (
	Put Op = iota
	Get
	Remove
	Size
	KeySet
	ToString
)

var ops = [...]Op{Put, Get, Remove, Size, KeySet, ToString}

func (o Op) String() string {
	switch o {
	case Put:
		return "put"
	case Get:
		return "get"
	case Remove:
		return "remove"
	case Size:
		return "size"
	case KeySet:
		return "keySet"
	case ToString:
		return "toString"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// ParseOp accepts the method names used in programs.
func ParseOp(s string) (Op, error) {
	for _, o := range ops {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown container method: %q", s)
}

// Binder resolves the container held by a receiver object and returns the
// method closure bound to it.
type Binder func(obj *interpreter.Context) (*interpreter.Closure, error)

type methodKey struct {
	op  Op
	key interpreter.Category
	val interpreter.Category
}

type pairKey struct {
	key interpreter.Category
	val interpreter.Category
}

var (
	methods   = make(map[methodKey]Binder, len(ops)*len(interpreter.Categories)*len(interpreter.Categories))
	factories = make(map[pairKey]func(linked bool) any, len(interpreter.Categories)*len(interpreter.Categories))
)

func init() {
	registerKey[int32, interpreter.Int32]()
	registerKey[int64, interpreter.Int64]()
	registerKey[float32, interpreter.Float32]()
	registerKey[float64, interpreter.Float64]()
	registerKey[bool, interpreter.Bool]()
	registerKey[any, interpreter.Ref]()
}

func registerKey[K comparable, KK interpreter.Kind[K]]() {
	registerPair[K, KK, int32, interpreter.Int32]()
	registerPair[K, KK, int64, interpreter.Int64]()
	registerPair[K, KK, float32, interpreter.Float32]()
	registerPair[K, KK, float64, interpreter.Float64]()
	registerPair[K, KK, bool, interpreter.Bool]()
	registerPair[K, KK, any, interpreter.Ref]()
}

func registerPair[K comparable, KK interpreter.Kind[K], V any, VK interpreter.Kind[V]]() {
	kc, vc := interpreter.CategoryOf[K, KK](), interpreter.CategoryOf[V, VK]()

	factories[pairKey{kc, vc}] = func(linked bool) any {
		if linked {
			return NewLinked[K, V]()
		}
		return NewHash[K, V]()
	}

	for _, op := range ops {
		params := Params(op, kc, vc)
		totals := ParamTotals(op, kc, vc)
		methods[methodKey{op, kc, vc}] = func(obj *interpreter.Context) (*interpreter.Closure, error) {
			c, err := receiver[K, V](obj, kc, vc)
			if err != nil {
				return nil, err
			}
			var body interpreter.Instruction
			switch op {
			case Put:
				body = &putMethod[K, KK, V, VK]{c: c, valueAt: params[1].Index}
			case Get:
				body = &getMethod[K, KK, V, VK]{c: c}
			case Remove:
				body = &removeMethod[K, KK, V, VK]{c: c}
			case Size:
				body = &sizeMethod{c: c}
			case KeySet:
				body = &keySetMethod[K, V]{c: c}
			default:
				body = &stringMethod{c: c}
			}
			fn := &interpreter.Func{
				Name:   op.String(),
				Params: params,
				Totals: totals,
				Body:   body,
			}
			return &interpreter.Closure{Fn: fn, Env: obj}, nil
		}
	}
}

// receiver reads the backing container from ref slot 0 of obj.
func receiver[K comparable, V any](obj *interpreter.Context, kc, vc interpreter.Category) (Container[K, V], error) {
	if obj == nil {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "container method on null")
	}
	mem := obj.CurrentMem()
	if len(mem.Refs) == 0 {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "object holds no container")
	}
	c, ok := mem.Refs[0].(Container[K, V])
	if !ok {
		return nil, interpreter.Faultf(interpreter.TypeMismatch, "expected %s to %s container, got %T", kc, vc, mem.Refs[0])
	}
	return c, nil
}

// Lookup returns the binder for op on a container of the given categories.
// Every op is registered for all 36 category pairs; put, get and remove make
// up the 108 value-typed specializations.
func Lookup(op Op, key, val interpreter.Category) (Binder, error) {
	b, ok := methods[methodKey{op, key, val}]
	if !ok {
		return nil, fmt.Errorf("no %s method for %s to %s", op, key, val)
	}
	return b, nil
}

// New allocates an empty container for the category pair.
func New(key, val interpreter.Category, linked bool) (any, error) {
	f, ok := factories[pairKey{key, val}]
	if !ok {
		return nil, fmt.Errorf("no container for %s to %s", key, val)
	}
	return f(linked), nil
}

// Params describes where a method reads its arguments. The key is always at
// index 0 of its region. For put, the value goes to index 1 when it shares
// the key's region and to index 0 of its own region otherwise. Size, keySet
// and toString take no arguments.
func Params(op Op, key, val interpreter.Category) []interpreter.Param {
	switch op {
	case Size, KeySet, ToString:
		return nil
	}
	params := []interpreter.Param{{Cat: key, Index: 0}}
	if op != Put {
		return params
	}
	at := 0
	if key == val {
		at = 1
	}
	return append(params, interpreter.Param{Cat: val, Index: at})
}

// ParamTotals returns the callee frame a method call must allocate.
func ParamTotals(op Op, key, val interpreter.Category) interpreter.Totals {
	t := interpreter.Totals{}
	for _, p := range Params(op, key, val) {
		t = t.With(p.Cat, t.Of(p.Cat)+1)
	}
	return t
}

