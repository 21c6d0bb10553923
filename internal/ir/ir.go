package ir

// Package ir defines the pattern tree produced by the jsonrnc parser and
// consumed by the validator. This package is internal and not part of the
// public API.

import "regexp"

// NodeKind identifies a pattern node type.
type NodeKind int

const (
	NodePrimitive NodeKind = iota
	NodeRegex
	NodeArray
	NodeObject
	NodeUnion
	NodeRef
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeRegex:
		return "regex"
	case NodeArray:
		return "array"
	case NodeObject:
		return "object"
	case NodeUnion:
		return "union"
	case NodeRef:
		return "reference"
	}
	return "unknown"
}

// Pos is a 1-based position in the schema source.
type Pos struct {
	Line   int
	Column int
}

// Pattern is the root node interface.
type Pattern interface {
	Kind() NodeKind
	Position() Pos
}

// PrimitiveType names a JSON primitive.
type PrimitiveType string

const (
	TypeString  PrimitiveType = "string"
	TypeInteger PrimitiveType = "integer"
	TypeNumber  PrimitiveType = "number"
	TypeBoolean PrimitiveType = "boolean"
	TypeNull    PrimitiveType = "null"
)

// Primitive matches a JSON scalar of the given type.
type Primitive struct {
	Type        PrimitiveType
	Annotations Annotations
	Pos         Pos
}

func (p *Primitive) Kind() NodeKind  { return NodePrimitive }
func (p *Primitive) Position() Pos   { return p.Pos }
func (p *Primitive) IsNumeric() bool { return p.Type == TypeInteger || p.Type == TypeNumber }

// Regex matches strings that fully match Source. Compiled is filled by the
// resolver.
type Regex struct {
	Source      string
	Compiled    *regexp.Regexp
	Annotations Annotations
	Pos         Pos
}

func (r *Regex) Kind() NodeKind { return NodeRegex }
func (r *Regex) Position() Pos  { return r.Pos }

// Array matches arrays whose elements all match Items. A nil Items accepts any
// element.
type Array struct {
	Items       Pattern
	Annotations Annotations
	Pos         Pos
}

func (a *Array) Kind() NodeKind { return NodeArray }
func (a *Array) Position() Pos  { return a.Pos }

// Field is one declared object key.
type Field struct {
	Name     string
	Optional bool
	Pattern  Pattern
	Pos      Pos
}

// Object matches JSON objects. Fields keep declaration order. Keys not
// declared are rejected when Closed, otherwise they must match Rest (any
// value when Rest is nil).
type Object struct {
	Fields      []Field
	Closed      bool
	Rest        Pattern
	Annotations Annotations
	Pos         Pos
}

func (o *Object) Kind() NodeKind { return NodeObject }
func (o *Object) Position() Pos  { return o.Pos }

// Field returns the declared field with the given name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Union matches when any alternative matches, tried in order.
type Union struct {
	Alternatives []Pattern
	Pos          Pos
}

func (u *Union) Kind() NodeKind { return NodeUnion }
func (u *Union) Position() Pos  { return u.Pos }

// Ref points at a named definition. Target is set by the resolver and shared
// by every Ref to the same name.
type Ref struct {
	Name        string
	Target      *Definition
	Annotations Annotations
	Pos         Pos
}

func (r *Ref) Kind() NodeKind { return NodeRef }
func (r *Ref) Position() Pos  { return r.Pos }

// Definition is a named pattern.
type Definition struct {
	Name    string
	Pattern Pattern
	Pos     Pos
}

// StartName is the reserved name of the start definition.
const StartName = "start"

// Table holds definitions by name and remembers declaration order.
type Table struct {
	byName map[string]*Definition
	order  []string
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{byName: make(map[string]*Definition)} }

// Add inserts d and reports false when the name is taken.
func (t *Table) Add(d *Definition) bool {
	if _, ok := t.byName[d.Name]; ok {
		return false
	}
	t.byName[d.Name] = d
	t.order = append(t.order, d.Name)
	return true
}

// Lookup returns the definition for name.
func (t *Table) Lookup(name string) (*Definition, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Names returns definition names in declaration order.
func (t *Table) Names() []string { return append([]string(nil), t.order...) }

// Len returns the number of definitions.
func (t *Table) Len() int { return len(t.order) }
