package jsonrnc

import (
	"fmt"
	"io"
	"os"

	"github.com/reoring/jsonrnc/internal/ir"
	"github.com/reoring/jsonrnc/internal/rnc"
)

// Grammar is a compiled schema: the start pattern plus the linked definition
// table. It is immutable and safe for concurrent use.
type Grammar struct {
	start *ir.Definition
	table *ir.Table
}

// Compile parses and links compact-notation schema text. The returned error,
// if any, implements CompileError.
func Compile(src string) (*Grammar, error) {
	table, err := rnc.Parse(src)
	if err != nil {
		return nil, err
	}
	start, err := rnc.Resolve(table)
	if err != nil {
		return nil, err
	}
	return &Grammar{start: start, table: table}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Grammar {
	g, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return g
}

// CompileReader reads the whole schema from r and compiles it.
func CompileReader(r io.Reader) (*Grammar, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("jsonrnc: reading schema: %w", err)
	}
	return Compile(string(b))
}

// CompileFile compiles the schema stored at path. Compile errors are wrapped
// with the file name and remain reachable through errors.As.
func CompileFile(path string) (*Grammar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonrnc: reading schema: %w", err)
	}
	g, err := Compile(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Definitions returns the names of the named definitions in declaration
// order, without "start".
func (g *Grammar) Definitions() []string {
	names := g.table.Names()
	out := names[:0]
	for _, n := range names {
		if n != ir.StartName {
			out = append(out, n)
		}
	}
	return out
}

// HasDefinition reports whether name is defined in the grammar.
func (g *Grammar) HasDefinition(name string) bool {
	_, ok := g.table.Lookup(name)
	return ok
}
