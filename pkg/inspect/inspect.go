// Package inspect renders frames as YAML using a variable layout, the name,
// category and slot of each variable a resolver assigned.
package inspect

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"vjpl/pkg/container"
	"vjpl/pkg/interpreter"
)

// Var names one frame slot. Layout, when set, names the layout of the object
// a Ref slot points to; for arrays and maps it applies to object elements.
type Var struct {
	Name   string               `yaml:"name"`
	Type   interpreter.Category `yaml:"type"`
	Index  int                  `yaml:"index"`
	Layout string               `yaml:"layout,omitempty"`
}

// Layout lists variables in declaration order.
type Layout []Var

// Explorer reads the variables of one layout out of frames.
type Explorer struct {
	layout  Layout
	layouts map[string]Layout
}

// New returns an explorer for layout; named layouts resolve Var.Layout
// references.
func New(layout Layout, layouts map[string]Layout) *Explorer {
	return &Explorer{layout: layout, layouts: layouts}
}

// ByType returns the explorer of a named layout.
func (e *Explorer) ByType(name string) (*Explorer, error) {
	l, ok := e.layouts[name]
	if !ok {
		return nil, fmt.Errorf("no layout named %q", name)
	}
	return New(l, e.layouts), nil
}

// Variables lists variable names in declaration order.
func (e *Explorer) Variables() []string {
	names := make([]string, len(e.layout))
	for i, v := range e.layout {
		names[i] = v.Name
	}
	return names
}

func (e *Explorer) lookup(name string) (Var, error) {
	for _, v := range e.layout {
		if v.Name == name {
			return v, nil
		}
	}
	return Var{}, fmt.Errorf("no variable named %q", name)
}

// Variable reads one variable from f.
func (e *Explorer) Variable(name string, f *interpreter.Frame) (interpreter.Value, error) {
	v, err := e.lookup(name)
	if err != nil {
		return interpreter.Value{}, err
	}
	return f.Load(v.Type, v.Index)
}

// Node renders f as an ordered YAML mapping.
func (e *Explorer) Node(f *interpreter.Frame) (*yaml.Node, error) {
	w := walker{layouts: e.layouts, seen: make(map[any]bool)}
	return w.frame(f, e.layout)
}

// YAML renders f as a YAML document.
func (e *Explorer) YAML(f *interpreter.Frame) ([]byte, error) {
	node, err := e.Node(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type walker struct {
	layouts map[string]Layout
	seen    map[any]bool // contexts and arrays on the current path
}

func (w *walker) frame(f *interpreter.Frame, l Layout) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, v := range l {
		val, err := f.Load(v.Type, v.Index)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		node, err := w.value(val.Any(), v.Layout)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		out.Content = append(out.Content, scalar("!!str", v.Name), node)
	}
	return out, nil
}

func (w *walker) value(x any, layout string) (*yaml.Node, error) {
	switch v := x.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case int32:
		return scalar("!!int", strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(v, 10)), nil
	case float32:
		return floatNode(float64(v), 32), nil
	case float64:
		return floatNode(v, 64), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(v)), nil
	case string:
		return scalar("!!str", v), nil
	case *interpreter.Context:
		return w.object(v, layout)
	case *interpreter.Array[int32]:
		return sequence(w, v.Elems, layout)
	case *interpreter.Array[int64]:
		return sequence(w, v.Elems, layout)
	case *interpreter.Array[float32]:
		return sequence(w, v.Elems, layout)
	case *interpreter.Array[float64]:
		return sequence(w, v.Elems, layout)
	case *interpreter.Array[bool]:
		return sequence(w, v.Elems, layout)
	case *interpreter.Array[any]:
		if w.seen[v] {
			return scalar("!!str", "<cycle>"), nil
		}
		w.seen[v] = true
		defer delete(w.seen, v)
		return sequence(w, v.Elems, layout)
	case fmt.Stringer:
		return scalar("!!str", v.String()), nil
	default:
		return scalar("!!str", fmt.Sprintf("<%T>", v)), nil
	}
}

// object renders a context Ref: the map or collection it wraps, the named
// layout, or an opaque marker when none applies.
func (w *walker) object(c *interpreter.Context, layout string) (*yaml.Node, error) {
	if c == nil {
		return scalar("!!null", "null"), nil
	}
	if w.seen[c] {
		return scalar("!!str", "<cycle>"), nil
	}
	w.seen[c] = true
	defer delete(w.seen, c)

	mem := c.CurrentMem()
	if len(mem.Refs) > 0 {
		switch v := mem.Refs[0].(type) {
		case container.Viewer:
			return w.entries(v, layout)
		case container.Sequence:
			return sequence(w, v.Values(), layout)
		}
	}
	l, ok := w.layouts[layout]
	if !ok {
		return scalar("!!str", "<object>"), nil
	}
	return w.frame(mem, l)
}

func (w *walker) entries(m container.Viewer, layout string) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m.Len() == 0 {
		out.Style = yaml.FlowStyle
	}
	for _, e := range m.Entries() {
		k, err := w.value(e.Key, "")
		if err != nil {
			return nil, err
		}
		v, err := w.value(e.Value, layout)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, k, v)
	}
	return out, nil
}

func sequence[T any](w *walker, elems []T, layout string) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(elems) == 0 {
		out.Style = yaml.FlowStyle
	}
	for _, e := range elems {
		node, err := w.value(e, layout)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, node)
	}
	return out, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func floatNode(f float64, bits int) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return scalar("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalar("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalar("!!float", "-.inf")
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += ".0"
	}
	return scalar("!!float", s)
}
