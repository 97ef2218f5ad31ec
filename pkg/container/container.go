// Package container implements the maps, lists and sets programs reach
// through Ref values, and the per-category specialization of their methods.
package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Container is a map with primitive keys and values stored unboxed. Every
// operation reports whether the key was present; absent lookups return the
// zero V.
type Container[K comparable, V any] interface {
	Put(k K, v V) (prev V, found bool)
	Get(k K) (v V, found bool)
	Remove(k K) (prev V, found bool)
	Len() int
	Keys() []K
	String() string
}

// Entry is one key/value pair, boxed for display.
type Entry struct {
	Key   any
	Value any
}

// Viewer is implemented by every container regardless of its categories.
type Viewer interface {
	Len() int
	Entries() []Entry
	Linked() bool
}

// Hash is an unordered container backed by a Go map. Float keys are held by
// bit pattern.
type Hash[K comparable, V any] struct {
	m    map[K]V
	bits map[uint64]V
}

func NewHash[K comparable, V any]() *Hash[K, V] {
	if isFloat[K]() {
		return &Hash[K, V]{bits: make(map[uint64]V)}
	}
	return &Hash[K, V]{m: make(map[K]V)}
}

func (h *Hash[K, V]) Put(k K, v V) (V, bool) {
	if b, ok := floatBits(k); ok {
		prev, found := h.bits[b]
		h.bits[b] = v
		return prev, found
	}
	prev, found := h.m[k]
	h.m[k] = v
	return prev, found
}

func (h *Hash[K, V]) Get(k K) (V, bool) {
	if b, ok := floatBits(k); ok {
		v, found := h.bits[b]
		return v, found
	}
	v, found := h.m[k]
	return v, found
}

func (h *Hash[K, V]) Remove(k K) (V, bool) {
	if b, ok := floatBits(k); ok {
		prev, found := h.bits[b]
		delete(h.bits, b)
		return prev, found
	}
	prev, found := h.m[k]
	delete(h.m, k)
	return prev, found
}

func (h *Hash[K, V]) Len() int { return len(h.m) + len(h.bits) }

// Keys follow the order of Entries.
func (h *Hash[K, V]) Keys() []K {
	entries := h.Entries()
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i], _ = e.Key.(K)
	}
	return keys
}

func (h *Hash[K, V]) Linked() bool { return false }

// Entries are sorted by the keys' printed form so dumps are stable.
func (h *Hash[K, V]) Entries() []Entry {
	entries := make([]Entry, 0, h.Len())
	for k, v := range h.m {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	for b, v := range h.bits {
		entries = append(entries, Entry{Key: fromBits[K](b), Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].Key) < fmt.Sprint(entries[j].Key)
	})
	return entries
}

func (h *Hash[K, V]) String() string {
	return render(h.Entries())
}

// Linked keeps keys in insertion order. Re-putting an existing key keeps its
// position.
type Linked[K comparable, V any] struct {
	m *linkedhashmap.Map
}

func NewLinked[K comparable, V any]() *Linked[K, V] {
	return &Linked[K, V]{m: linkedhashmap.New()}
}

func (l *Linked[K, V]) Put(k K, v V) (V, bool) {
	prev, found := l.Get(k)
	l.m.Put(slot(k), v)
	return prev, found
}

func (l *Linked[K, V]) Get(k K) (V, bool) {
	raw, found := l.m.Get(slot(k))
	v, _ := raw.(V)
	return v, found
}

func (l *Linked[K, V]) Remove(k K) (V, bool) {
	prev, found := l.Get(k)
	if found {
		l.m.Remove(slot(k))
	}
	return prev, found
}

func (l *Linked[K, V]) Len() int { return l.m.Size() }

func (l *Linked[K, V]) Keys() []K {
	raw := l.m.Keys()
	keys := make([]K, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, unslot[K](k))
	}
	return keys
}

func (l *Linked[K, V]) Linked() bool { return true }

func (l *Linked[K, V]) Entries() []Entry {
	entries := make([]Entry, 0, l.m.Size())
	it := l.m.Iterator()
	for it.Next() {
		entries = append(entries, Entry{Key: unslot[K](it.Key()), Value: it.Value()})
	}
	return entries
}

func (l *Linked[K, V]) String() string {
	return render(l.Entries())
}

func render(entries []Entry) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", display(e.Key), display(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

func display(v any) any {
	if v == nil {
		return "null"
	}
	return v
}
