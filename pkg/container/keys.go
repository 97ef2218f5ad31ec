package container

import (
	"math"
	"reflect"
)

// Canonical NaN patterns. Every NaN key is stored under one of these, so a
// NaN put can be found again.
const (
	nan32 = 0x7fc00000
	nan64 = 0x7ff8000000000000
)

// floatBits returns the bit pattern a float key is matched by. Matching by
// bits keeps 0.0 and -0.0 apart and lets NaN equal itself. The second result
// is false when K is not a float type.
func floatBits[K comparable](k K) (uint64, bool) {
	switch any(*new(K)).(type) {
	case float32:
		f := any(k).(float32)
		if f != f {
			return nan32, true
		}
		return uint64(math.Float32bits(f)), true
	case float64:
		f := any(k).(float64)
		if f != f {
			return nan64, true
		}
		return math.Float64bits(f), true
	}
	return 0, false
}

func fromBits[K comparable](b uint64) K {
	var k K
	switch any(k).(type) {
	case float32:
		return any(math.Float32frombits(uint32(b))).(K)
	case float64:
		return any(math.Float64frombits(b)).(K)
	}
	return k
}

func isFloat[K comparable]() bool {
	_, ok := floatBits(*new(K))
	return ok
}

// slot is what a boxed backing store holds for k.
func slot[K comparable](k K) any {
	if b, ok := floatBits(k); ok {
		return b
	}
	return k
}

func unslot[K comparable](raw any) K {
	if b, ok := raw.(uint64); ok && isFloat[K]() {
		return fromBits[K](b)
	}
	k, _ := raw.(K)
	return k
}

// same matches elements the way container keys are matched. Refs of
// incomparable types never match.
func same[E comparable](a, b E) bool {
	if x, ok := floatBits(a); ok {
		y, _ := floatBits(b)
		return x == y
	}
	if !hashable(any(a)) || !hashable(any(b)) {
		return false
	}
	return a == b
}

// hashable reports whether a Ref key can be stored without panicking.
func hashable(k any) bool {
	return k == nil || reflect.TypeOf(k).Comparable()
}
