package rnc

import (
	"fmt"
	"strings"

	"github.com/reoring/jsonrnc/internal/ir"
)

// CompileError is implemented by every error returned while compiling a
// schema. Compilation stops at the first one.
type CompileError interface {
	error
	Position() ir.Pos
	compileError()
}

func at(p ir.Pos) string { return fmt.Sprintf("line %d, column %d", p.Line, p.Column) }

// LexError reports an unrecognized character or an unterminated literal.
type LexError struct {
	Pos  ir.Pos
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("jsonrnc: %s: %s", at(e.Pos), e.Msg)
	}
	return fmt.Sprintf("jsonrnc: %s: unexpected character %q", at(e.Pos), e.Char)
}
func (e *LexError) Position() ir.Pos { return e.Pos }
func (*LexError) compileError()      {}

// ParseError reports a token the grammar does not allow at this point.
type ParseError struct {
	Pos      ir.Pos
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: expected %s, found %s", at(e.Pos), e.Expected, e.Found)
}
func (e *ParseError) Position() ir.Pos { return e.Pos }
func (*ParseError) compileError()      {}

// MissingStartError reports a schema without a start definition.
type MissingStartError struct{ Pos ir.Pos }

func (e *MissingStartError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: no start definition", at(e.Pos))
}
func (e *MissingStartError) Position() ir.Pos { return e.Pos }
func (*MissingStartError) compileError()      {}

// DuplicateDefinitionError reports a name assigned twice.
type DuplicateDefinitionError struct {
	Name     string
	Pos      ir.Pos
	Previous ir.Pos
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: double definition for %s (first defined at %s)", at(e.Pos), e.Name, at(e.Previous))
}
func (e *DuplicateDefinitionError) Position() ir.Pos { return e.Pos }
func (*DuplicateDefinitionError) compileError()      {}

// DuplicatePropertyError reports an object literal declaring a key twice.
type DuplicatePropertyError struct {
	Name string
	Pos  ir.Pos
}

func (e *DuplicatePropertyError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: repeated property name %q", at(e.Pos), e.Name)
}
func (e *DuplicatePropertyError) Position() ir.Pos { return e.Pos }
func (*DuplicatePropertyError) compileError()      {}

// UndefinedReferenceError reports a reference to a name that is never
// defined. Path is the trail of definitions and keys leading to it.
type UndefinedReferenceError struct {
	Name string
	Pos  ir.Pos
	Path []string
}

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: no definition found for %s (at %s)", at(e.Pos), e.Name, strings.Join(e.Path, "/"))
}
func (e *UndefinedReferenceError) Position() ir.Pos { return e.Pos }
func (*UndefinedReferenceError) compileError()      {}

// IncompatibleAnnotationError reports an annotation that cannot decorate the
// pattern it is attached to, or whose value is unusable.
type IncompatibleAnnotationError struct {
	Annotation string
	Pos        ir.Pos
	Msg        string
}

func (e *IncompatibleAnnotationError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: annotation %s: %s", at(e.Pos), e.Annotation, e.Msg)
}
func (e *IncompatibleAnnotationError) Position() ir.Pos { return e.Pos }
func (*IncompatibleAnnotationError) compileError()      {}

// CircularDefinitionError reports a definition that reaches itself through
// references and unions only, which no finite value could ever satisfy or
// refute.
type CircularDefinitionError struct {
	Name  string
	Cycle []string
	Pos   ir.Pos
}

func (e *CircularDefinitionError) Error() string {
	return fmt.Sprintf("jsonrnc: %s: definition %s refers to itself without nesting (%s)", at(e.Pos), e.Name, strings.Join(e.Cycle, " -> "))
}
func (e *CircularDefinitionError) Position() ir.Pos { return e.Pos }
func (*CircularDefinitionError) compileError()      {}
