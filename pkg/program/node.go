package program

import (
	"gopkg.in/yaml.v3"

	"vjpl/pkg/interpreter"
)

// Node is the serialized form of one resolved instruction. Only the fields
// an op uses are read; categories are spelled as in interpreter.ParseCategory.
type Node struct {
	Op string `yaml:"op"`

	Type string `yaml:"type,omitempty"`
	To   string `yaml:"to,omitempty"`
	Key  string `yaml:"key,omitempty"`
	Val  string `yaml:"val,omitempty"`

	Const  *yaml.Node          `yaml:"const,omitempty"`
	Depth  int                 `yaml:"depth,omitempty"`
	Index  int                 `yaml:"index,omitempty"`
	Level  int                 `yaml:"level,omitempty"`
	Func   string              `yaml:"func,omitempty"`
	Host   string              `yaml:"host,omitempty"`
	Method string              `yaml:"method,omitempty"`
	Linked bool                `yaml:"linked,omitempty"`
	Totals *interpreter.Totals `yaml:"totals,omitempty"`

	Left   *Node   `yaml:"left,omitempty"`
	Right  *Node   `yaml:"right,omitempty"`
	Value  *Node   `yaml:"value,omitempty"`
	Object *Node   `yaml:"object,omitempty"`
	Array  *Node   `yaml:"array,omitempty"`
	At     *Node   `yaml:"at,omitempty"`
	Length *Node   `yaml:"length,omitempty"`
	Callee *Node   `yaml:"callee,omitempty"`
	Args   []*Node `yaml:"args,omitempty"`

	Cond *Node   `yaml:"cond,omitempty"`
	Then []*Node `yaml:"then,omitempty"`
	Else []*Node `yaml:"else,omitempty"`
	Init []*Node `yaml:"init,omitempty"`
	Incr []*Node `yaml:"incr,omitempty"`
	Body []*Node `yaml:"body,omitempty"`

	// Name labels the node in fault stacks; it defaults to Op.
	Name string `yaml:"name,omitempty"`

	line, col int
}

// UnmarshalYAML records the node's position in the document so faults can
// point back at it.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}
	n.line, n.col = value.Line, value.Column
	return nil
}

// Pos returns the node's line and column in its document.
func (n *Node) Pos() (int, int) {
	return n.line, n.col
}
