// Package program loads resolved instruction trees from YAML documents.
//
// A document declares functions, each with its parameter slots, frame totals,
// an optional variable layout and a body tree. Every node already carries its
// category and slot numbers, so loading only selects specializations; no
// names are resolved beyond function and host references.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"vjpl/pkg/inspect"
	"vjpl/pkg/interpreter"
)

// DefaultEntry is the function run when a document names none.
const DefaultEntry = "main"

// File is the document layout.
type File struct {
	Entry     string                    `yaml:"entry,omitempty"`
	Functions map[string]*FuncDecl      `yaml:"functions"`
	Layouts   map[string]inspect.Layout `yaml:"layouts,omitempty"`
}

// FuncDecl declares one function.
type FuncDecl struct {
	Params []interpreter.Param `yaml:"params,omitempty"`
	Totals interpreter.Totals  `yaml:"totals,omitempty"`
	Vars   inspect.Layout      `yaml:"vars,omitempty"`
	Body   []*Node             `yaml:"body"`
}

// Program is a loaded document.
type Program struct {
	Entry   string
	Funcs   map[string]*interpreter.Func
	Vars    map[string]inspect.Layout
	Layouts map[string]inspect.Layout
}

type Option func(*loader)

// WithHost registers a host function Await nodes may name.
func WithHost(name string, fn interpreter.HostFunc) Option {
	return func(l *loader) { l.hosts[name] = fn }
}

// WithHosts registers several host functions.
func WithHosts(hosts map[string]interpreter.HostFunc) Option {
	return func(l *loader) {
		for name, fn := range hosts {
			l.hosts[name] = fn
		}
	}
}

// Load reads and parses a program file.
func Load(path string, opts ...Option) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	p, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a document and builds its instruction trees.
func Parse(data []byte, opts ...Option) (*Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty program")
		}
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	return Build(&f, opts...)
}

// Build turns a decoded document into a Program.
func Build(f *File, opts ...Option) (*Program, error) {
	l := &loader{
		hosts: make(map[string]interpreter.HostFunc),
		funcs: make(map[string]*interpreter.Func, len(f.Functions)),
	}
	for _, o := range opts {
		o(l)
	}

	p := &Program{
		Entry:   f.Entry,
		Funcs:   l.funcs,
		Vars:    make(map[string]inspect.Layout, len(f.Functions)),
		Layouts: f.Layouts,
	}
	if p.Entry == "" {
		p.Entry = DefaultEntry
	}

	// Allocate every function first so bodies may reference each other,
	// including themselves.
	names := make([]string, 0, len(f.Functions))
	for name, decl := range f.Functions {
		if decl == nil {
			return nil, fmt.Errorf("function %s: empty declaration", name)
		}
		l.funcs[name] = &interpreter.Func{Name: name, Params: decl.Params, Totals: decl.Totals}
		p.Vars[name] = decl.Vars
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		decl := f.Functions[name]
		if err := checkParams(decl); err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}
		l.owner = name
		body, err := l.list(decl.Body)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}
		l.funcs[name].Body = &interpreter.Block{
			Body:      body,
			StackInfo: interpreter.StackInfo{Owner: name, Name: name},
		}
	}

	if _, ok := p.Funcs[p.Entry]; !ok {
		return nil, fmt.Errorf("entry function %q is not defined", p.Entry)
	}
	return p, nil
}

func checkParams(decl *FuncDecl) error {
	for i, param := range decl.Params {
		if param.Index < 0 || param.Index >= decl.Totals.Of(param.Cat) {
			return fmt.Errorf("param %d: %s slot %d outside frame totals", i, param.Cat, param.Index)
		}
	}
	return nil
}

// Main returns the entry function.
func (p *Program) Main() *interpreter.Func {
	return p.Funcs[p.Entry]
}

// Explorer returns the inspector for a function's top frame.
func (p *Program) Explorer(fn string) *inspect.Explorer {
	return inspect.New(p.Vars[fn], p.Layouts)
}
