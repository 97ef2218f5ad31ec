package container

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"vjpl/pkg/interpreter"
)

// Collection is a list or set whose elements share one category.
type Collection[E comparable] interface {
	Add(e E) bool
	Remove(e E) bool
	Contains(e E) bool
	Len() int
	Values() []any
	String() string
}

// Sequence is implemented by every list and set regardless of category.
type Sequence interface {
	Len() int
	Values() []any
}

// List is a growable sequence. Elements match as container keys do: floats
// by bit pattern, refs by identity or string content.
type List[E comparable] struct {
	elems []E
}

func NewList[E comparable](elems ...E) *List[E] {
	return &List[E]{elems: elems}
}

func (l *List[E]) Add(e E) bool {
	l.elems = append(l.elems, e)
	return true
}

// Remove drops the first matching element.
func (l *List[E]) Remove(e E) bool {
	i := l.IndexOf(e)
	if i < 0 {
		return false
	}
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	return true
}

func (l *List[E]) Contains(e E) bool { return l.IndexOf(e) >= 0 }

func (l *List[E]) IndexOf(e E) int {
	for i, x := range l.elems {
		if same(x, e) {
			return i
		}
	}
	return -1
}

func (l *List[E]) Len() int { return len(l.elems) }

func (l *List[E]) check(i, limit int) error {
	if i < 0 || i >= limit {
		return interpreter.Faultf(interpreter.IndexOutOfRange, "list index %d out of range [0, %d)", i, limit)
	}
	return nil
}

func (l *List[E]) Get(i int) (E, error) {
	if err := l.check(i, len(l.elems)); err != nil {
		var zero E
		return zero, err
	}
	return l.elems[i], nil
}

// Set replaces element i and returns the previous one.
func (l *List[E]) Set(i int, e E) (E, error) {
	if err := l.check(i, len(l.elems)); err != nil {
		var zero E
		return zero, err
	}
	prev := l.elems[i]
	l.elems[i] = e
	return prev, nil
}

// Insert places e before element i; i may equal Len to append.
func (l *List[E]) Insert(i int, e E) error {
	if err := l.check(i, len(l.elems)+1); err != nil {
		return err
	}
	var zero E
	l.elems = append(l.elems, zero)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = e
	return nil
}

func (l *List[E]) RemoveAt(i int) (E, error) {
	e, err := l.Get(i)
	if err != nil {
		return e, err
	}
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	return e, nil
}

// SubList copies elements [from, to) into a new list.
func (l *List[E]) SubList(from, to int) (*List[E], error) {
	if from < 0 || to > len(l.elems) || from > to {
		return nil, interpreter.Faultf(interpreter.IndexOutOfRange, "sublist [%d, %d) out of range for length %d", from, to, len(l.elems))
	}
	return NewList(append([]E(nil), l.elems[from:to]...)...), nil
}

func (l *List[E]) Values() []any {
	out := make([]any, len(l.elems))
	for i, e := range l.elems {
		out[i] = e
	}
	return out
}

func (l *List[E]) String() string { return renderSeq(l.Values()) }

// Set keeps distinct elements in insertion order.
type Set[E comparable] struct {
	s *linkedhashset.Set
}

func NewSet[E comparable](elems ...E) *Set[E] {
	s := &Set[E]{s: linkedhashset.New()}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Add reports whether e was not already present.
func (s *Set[E]) Add(e E) bool {
	k := slot(e)
	if s.s.Contains(k) {
		return false
	}
	s.s.Add(k)
	return true
}

func (s *Set[E]) Remove(e E) bool {
	k := slot(e)
	if !s.s.Contains(k) {
		return false
	}
	s.s.Remove(k)
	return true
}

func (s *Set[E]) Contains(e E) bool { return s.s.Contains(slot(e)) }

func (s *Set[E]) Len() int { return s.s.Size() }

func (s *Set[E]) Values() []any {
	raw := s.s.Values()
	out := make([]any, len(raw))
	for i, k := range raw {
		out[i] = unslot[E](k)
	}
	return out
}

func (s *Set[E]) String() string { return renderSeq(s.Values()) }

func renderSeq(values []any) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", display(v))
	}
	sb.WriteByte(']')
	return sb.String()
}
