package container_test

import (
	"errors"
	"math"
	"testing"
	"vjpl/pkg/container"
	"vjpl/pkg/interpreter"
)

var nosite = interpreter.StackInfo{}

// sample returns two distinct values of c, the first never the default.
func sample(c interpreter.Category) (interpreter.Value, interpreter.Value) {
	switch c {
	case interpreter.CatInt32:
		return interpreter.Int32Value(7), interpreter.Int32Value(-3)
	case interpreter.CatInt64:
		return interpreter.Int64Value(1 << 40), interpreter.Int64Value(5)
	case interpreter.CatFloat32:
		return interpreter.Float32Value(1.5), interpreter.Float32Value(-2.25)
	case interpreter.CatFloat64:
		return interpreter.Float64Value(3.75), interpreter.Float64Value(1e-9)
	case interpreter.CatBool:
		return interpreter.BoolValue(true), interpreter.BoolValue(false)
	default:
		return interpreter.RefValue("alpha"), interpreter.RefValue("beta")
	}
}

// harness runs method calls against one map object held in ref slot 0.
type harness struct {
	t        *testing.T
	ctx      *interpreter.Context
	key, val interpreter.Category
}

func newHarness(t *testing.T, key, val interpreter.Category, linked bool) *harness {
	t.Helper()
	h := &harness{
		t:   t,
		ctx: interpreter.NewContext(nil, interpreter.Totals{Ref: 1}),
		key: key,
		val: val,
	}
	newMap := &container.NewMap{Key: key, Value: val, Linked: linked}
	var reg interpreter.Register
	set := interpreter.NewSet(interpreter.CatRef, 0, 0, newMap, nosite)
	if err := interpreter.Exec(set, h.ctx, &reg); err != nil {
		t.Fatalf("%s to %s: new map: %v", key, val, err)
	}
	return h
}

func (h *harness) call(op container.Op, args ...interpreter.Value) interpreter.Value {
	h.t.Helper()
	method, err := container.NewMethod(interpreter.NewGet(interpreter.CatRef, 0, 0, nosite), op, h.key, h.val, nosite)
	if err != nil {
		h.t.Fatalf("%s %s to %s: %v", op, h.key, h.val, err)
	}
	call := &interpreter.Call{Callee: method}
	for _, a := range args {
		call.Args = append(call.Args, interpreter.NewLiteral(a, nosite))
	}
	var reg interpreter.Register
	if err := interpreter.Exec(call, h.ctx, &reg); err != nil {
		h.t.Fatalf("%s %s to %s: %v", op, h.key, h.val, err)
	}
	return reg.Value()
}

func TestAllCategoryPairs(t *testing.T) {
	for _, linked := range []bool{false, true} {
		for _, kc := range interpreter.Categories {
			for _, vc := range interpreter.Categories {
				h := newHarness(t, kc, vc, linked)
				k, otherKey := sample(kc)
				v, otherVal := sample(vc)
				zero := interpreter.Zero(vc)
				pair := kc.String() + " to " + vc.String()
				if linked {
					pair = "linked " + pair
				}

				if got := h.call(container.Get, k); !got.Equal(zero) {
					t.Errorf("%s: get of absent key should be %s, got %s", pair, zero, got)
				}
				if got := h.call(container.Put, k, v); !got.Equal(zero) {
					t.Errorf("%s: first put should return %s, got %s", pair, zero, got)
				}
				if got := h.call(container.Get, k); !got.Equal(v) {
					t.Errorf("%s: expected %s, got %s", pair, v, got)
				}
				if got := h.call(container.Put, k, otherVal); !got.Equal(v) {
					t.Errorf("%s: second put should return previous %s, got %s", pair, v, got)
				}
				if got := h.call(container.Get, otherKey); !got.Equal(zero) {
					t.Errorf("%s: other key should be absent, got %s", pair, got)
				}
				if got := h.call(container.Remove, k); !got.Equal(otherVal) {
					t.Errorf("%s: remove should return %s, got %s", pair, otherVal, got)
				}
				if got := h.call(container.Get, k); !got.Equal(zero) {
					t.Errorf("%s: get after remove should be %s, got %s", pair, zero, got)
				}
				if got := h.call(container.Remove, k); !got.Equal(zero) {
					t.Errorf("%s: second remove should be %s, got %s", pair, zero, got)
				}
			}
		}
	}
}

// floatKeys returns NaN, 0.0 and -0.0 of a float category.
func floatKeys(c interpreter.Category) (nan, zero, negZero interpreter.Value) {
	if c == interpreter.CatFloat32 {
		return interpreter.Float32Value(float32(math.NaN())),
			interpreter.Float32Value(0),
			interpreter.Float32Value(float32(math.Copysign(0, -1)))
	}
	return interpreter.Float64Value(math.NaN()),
		interpreter.Float64Value(0),
		interpreter.Float64Value(math.Copysign(0, -1))
}

func TestFloatKeysMatchByBits(t *testing.T) {
	for _, linked := range []bool{false, true} {
		for _, kc := range []interpreter.Category{interpreter.CatFloat32, interpreter.CatFloat64} {
			for _, vc := range interpreter.Categories {
				h := newHarness(t, kc, vc, linked)
				nan, zero, negZero := floatKeys(kc)
				v, otherVal := sample(vc)
				def := interpreter.Zero(vc)
				pair := kc.String() + " to " + vc.String()
				if linked {
					pair = "linked " + pair
				}

				h.call(container.Put, nan, v)
				if got := h.call(container.Get, nan); !got.Equal(v) {
					t.Errorf("%s: NaN key should find its value %s, got %s", pair, v, got)
				}

				h.call(container.Put, zero, otherVal)
				if got := h.call(container.Get, negZero); !got.Equal(def) {
					t.Errorf("%s: -0.0 should be a distinct key from 0.0, got %s", pair, got)
				}
				h.call(container.Put, negZero, v)
				if got := h.call(container.Get, zero); !got.Equal(otherVal) {
					t.Errorf("%s: 0.0 should keep %s, got %s", pair, otherVal, got)
				}
				if got := h.call(container.Size); got.I32 != 3 {
					t.Errorf("%s: expected 3 keys, got %s", pair, got)
				}

				if got := h.call(container.Remove, nan); !got.Equal(v) {
					t.Errorf("%s: remove of NaN should return %s, got %s", pair, v, got)
				}
				if got := h.call(container.Get, nan); !got.Equal(def) {
					t.Errorf("%s: NaN should be gone, got %s", pair, got)
				}
			}
		}
	}
}

func TestMapQueries(t *testing.T) {
	for _, linked := range []bool{false, true} {
		h := newHarness(t, interpreter.CatInt32, interpreter.CatRef, linked)
		for _, k := range []int32{3, 1, 2} {
			h.call(container.Put, interpreter.Int32Value(k), interpreter.RefValue("v"))
		}
		h.call(container.Remove, interpreter.Int32Value(2))

		expectedKeys := []any{int32(1), int32(3)}
		expectedString := "{1: v, 3: v}"
		if linked {
			expectedKeys = []any{int32(3), int32(1)}
			expectedString = "{3: v, 1: v}"
		}

		if got := h.call(container.Size); got.Cat != interpreter.CatInt32 || got.I32 != 2 {
			t.Errorf("linked %t: expected size 2, got %s", linked, got)
		}
		if got := h.call(container.ToString); got.Ref != expectedString {
			t.Errorf("linked %t: expected %q, got %s", linked, expectedString, got)
		}

		obj, ok := h.call(container.KeySet).Ref.(*interpreter.Context)
		if !ok {
			t.Fatalf("linked %t: keySet should return an object", linked)
		}
		set, ok := obj.CurrentMem().Refs[0].(*container.Set[int32])
		if !ok {
			t.Fatalf("linked %t: expected an int32 set, got %T", linked, obj.CurrentMem().Refs[0])
		}
		keys := set.Values()
		if len(keys) != len(expectedKeys) || keys[0] != expectedKeys[0] || keys[1] != expectedKeys[1] {
			t.Errorf("linked %t: expected keys %v, got %v", linked, expectedKeys, keys)
		}

		// The key set is a copy.
		h.call(container.Put, interpreter.Int32Value(9), interpreter.RefValue("w"))
		if set.Len() != 2 {
			t.Errorf("linked %t: key set followed the map to %d keys", linked, set.Len())
		}
	}
}

func TestParamPacking(t *testing.T) {
	tests := []struct {
		op          container.Op
		key, val    interpreter.Category
		expected    interpreter.Totals
		valueIndex  int
		description string
	}{
		{container.Put, interpreter.CatInt32, interpreter.CatInt32, interpreter.Totals{Int32: 2}, 1, "same category shares a region"},
		{container.Put, interpreter.CatRef, interpreter.CatRef, interpreter.Totals{Ref: 2}, 1, "ref to ref"},
		{container.Put, interpreter.CatInt64, interpreter.CatBool, interpreter.Totals{Int64: 1, Bool: 1}, 0, "different regions"},
		{container.Get, interpreter.CatFloat32, interpreter.CatFloat32, interpreter.Totals{Float32: 1}, -1, "get takes only the key"},
		{container.Remove, interpreter.CatRef, interpreter.CatInt32, interpreter.Totals{Ref: 1}, -1, "remove takes only the key"},
	}

	for _, op := range []container.Op{container.Size, container.KeySet, container.ToString} {
		if params := container.Params(op, interpreter.CatInt32, interpreter.CatRef); len(params) != 0 {
			t.Errorf("%s should take no arguments, got %+v", op, params)
		}
	}

	for _, test := range tests {
		if got := container.ParamTotals(test.op, test.key, test.val); got != test.expected {
			t.Errorf("%s: expected totals %+v, got %+v", test.description, test.expected, got)
		}
		params := container.Params(test.op, test.key, test.val)
		if params[0].Cat != test.key || params[0].Index != 0 {
			t.Errorf("%s: key should be at %s[0], got %+v", test.description, test.key, params[0])
		}
		if test.valueIndex < 0 {
			if len(params) != 1 {
				t.Errorf("%s: expected 1 param, got %d", test.description, len(params))
			}
			continue
		}
		if len(params) != 2 || params[1].Index != test.valueIndex {
			t.Errorf("%s: expected value at index %d, got %+v", test.description, test.valueIndex, params)
		}
	}
}

func TestLookupCoversEveryCombination(t *testing.T) {
	count := 0
	ops := []container.Op{container.Put, container.Get, container.Remove, container.Size, container.KeySet, container.ToString}
	for _, op := range ops {
		for _, kc := range interpreter.Categories {
			for _, vc := range interpreter.Categories {
				if _, err := container.Lookup(op, kc, vc); err != nil {
					t.Errorf("%s %s to %s: %v", op, kc, vc, err)
					continue
				}
				count++
			}
		}
	}
	if count != 216 {
		t.Errorf("expected 216 specializations, got %d", count)
	}
}

func TestMismatchedReceiver(t *testing.T) {
	ctx := interpreter.NewContext(nil, interpreter.Totals{Ref: 2})
	var reg interpreter.Register
	newMap := interpreter.NewSet(interpreter.CatRef, 0, 0, &container.NewMap{Key: interpreter.CatInt32, Value: interpreter.CatInt32}, nosite)
	if err := interpreter.Exec(newMap, ctx, &reg); err != nil {
		t.Fatal(err)
	}
	ctx.CurrentMem().Refs[1] = "not a map"

	tests := []struct {
		object      interpreter.Instruction
		key, val    interpreter.Category
		description string
	}{
		{interpreter.NewGet(interpreter.CatRef, 0, 0, nosite), interpreter.CatInt64, interpreter.CatInt32, "wrong key category"},
		{interpreter.NewGet(interpreter.CatRef, 0, 0, nosite), interpreter.CatInt32, interpreter.CatRef, "wrong value category"},
		{interpreter.NewGet(interpreter.CatRef, 0, 1, nosite), interpreter.CatInt32, interpreter.CatInt32, "receiver is a string"},
		{&interpreter.NewObject{}, interpreter.CatInt32, interpreter.CatInt32, "object without container"},
	}

	for _, test := range tests {
		method, err := container.NewMethod(test.object, container.Get, test.key, test.val, nosite)
		if err != nil {
			t.Fatalf("%s: %v", test.description, err)
		}
		err = interpreter.Exec(method, ctx, &reg)
		if !errors.Is(err, interpreter.ErrTypeMismatch) {
			t.Errorf("%s: expected type mismatch, got %v", test.description, err)
		}
	}
}

func TestUnhashableRefKey(t *testing.T) {
	h := newHarness(t, interpreter.CatRef, interpreter.CatInt32, false)
	method, err := container.NewMethod(interpreter.NewGet(interpreter.CatRef, 0, 0, nosite), container.Put, interpreter.CatRef, interpreter.CatInt32, nosite)
	if err != nil {
		t.Fatal(err)
	}
	call := &interpreter.Call{Callee: method, Args: []interpreter.Instruction{
		interpreter.NewLiteral(interpreter.RefValue([]int{1}), nosite),
		interpreter.NewLiteral(interpreter.Int32Value(1), nosite),
	}}
	var reg interpreter.Register
	if err := interpreter.Exec(call, h.ctx, &reg); !errors.Is(err, interpreter.ErrTypeMismatch) {
		t.Errorf("expected type mismatch for slice key, got %v", err)
	}
}

func TestLinkedKeepsInsertionOrder(t *testing.T) {
	l := container.NewLinked[int32, any]()
	for _, k := range []int32{5, 1, 3} {
		l.Put(k, k*10)
	}
	l.Put(1, "again")
	l.Remove(3)
	l.Put(3, nil)

	keys := l.Keys()
	if len(keys) != 3 || keys[0] != 5 || keys[1] != 1 || keys[2] != 3 {
		t.Errorf("expected keys [5 1 3], got %v", keys)
	}
	if s := l.String(); s != "{5: 50, 1: again, 3: null}" {
		t.Errorf("unexpected rendering %q", s)
	}
	if v, found := l.Get(3); !found || v != nil {
		t.Errorf("expected present null value, got %v %t", v, found)
	}
}

func TestHashEntriesAreSorted(t *testing.T) {
	h := container.NewHash[string, bool]()
	h.Put("b", true)
	h.Put("a", false)
	if s := h.String(); s != "{a: false, b: true}" {
		t.Errorf("unexpected rendering %q", s)
	}
	if h.Len() != 2 || h.Linked() {
		t.Errorf("unexpected hash state: len %d linked %t", h.Len(), h.Linked())
	}
}
