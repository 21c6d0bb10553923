package rnc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/jsonrnc/internal/ir"
	"github.com/reoring/jsonrnc/internal/rnc"
)

func resolve(src string) (*ir.Table, *ir.Definition, error) {
	table, err := rnc.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	start, err := rnc.Resolve(table)
	return table, start, err
}

func TestResolve_LinksRecursiveDefinitionsWithoutCopying(t *testing.T) {
	table, start, err := resolve(`
start = Node
Node = { name: string, children?: [ Node ] }
`)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	node, _ := table.Lookup("Node")
	ref := start.Pattern.(*ir.Ref)
	if ref.Target != node {
		t.Fatal("start should point at the Node definition")
	}
	children, _ := node.Pattern.(*ir.Object).Field("children")
	inner := children.Pattern.(*ir.Array).Items.(*ir.Ref)
	if inner.Target != node {
		t.Fatal("recursive reference should share the Node definition")
	}
}

func TestResolve_UndefinedReference(t *testing.T) {
	_, _, err := resolve("start = { items: [ Item ] }")
	var e *rnc.UndefinedReferenceError
	if !errors.As(err, &e) {
		t.Fatalf("want UndefinedReferenceError, got %v", err)
	}
	if e.Name != "Item" {
		t.Fatalf("name: %q", e.Name)
	}
	if got := strings.Join(e.Path, "/"); got != "start/items/[]/Item" {
		t.Fatalf("path: %q", got)
	}
	if e.Pos.Line != 1 || e.Pos.Column != 20 {
		t.Fatalf("pos: %+v", e.Pos)
	}
}

func TestResolve_CompilesAnchoredRegex(t *testing.T) {
	_, start, err := resolve(`start = /Paperback|Hardcover/`)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	re := start.Pattern.(*ir.Regex).Compiled
	if !re.MatchString("Hardcover") {
		t.Fatal("alternation should be grouped before anchoring")
	}
	if re.MatchString("Paperback Book") {
		t.Fatal("regex should match the whole string")
	}
}

func TestResolve_InvalidRegex(t *testing.T) {
	for _, src := range []string{`start = /a(/`, `start = /a)|(b/`} {
		_, _, err := resolve(src)
		var pe *rnc.ParseError
		if !errors.As(err, &pe) || pe.Expected != "valid regular expression" {
			t.Fatalf("%s: got %v", src, err)
		}
	}
	for _, src := range []string{`start = string @(pattern = "a(")`, `start = string @(pattern = "a)|(b")`} {
		_, _, err := resolve(src)
		var ae *rnc.IncompatibleAnnotationError
		if !errors.As(err, &ae) || ae.Annotation != "pattern" {
			t.Fatalf("%s: got %v", src, err)
		}
	}
}

func TestResolve_AnnotatedReferences(t *testing.T) {
	if _, _, err := resolve(`
start = Count @(minimum = 1)
Count = Base
Base = integer
`); err != nil {
		t.Fatalf("annotation on numeric chain should resolve: %v", err)
	}

	_, _, err := resolve(`
start = Name @(minimum = 1)
Name = string
`)
	var e *rnc.IncompatibleAnnotationError
	if !errors.As(err, &e) || e.Annotation != "minimum" {
		t.Fatalf("want IncompatibleAnnotationError, got %v", err)
	}
	if !strings.Contains(e.Error(), "reference Name") {
		t.Fatalf("message should name the reference: %v", e)
	}
}

func TestResolve_CircularDefinitions(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"self", "start = A\nA = A"},
		{"mutual", "start = A\nA = B\nB = string | A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := resolve(tc.src)
			var e *rnc.CircularDefinitionError
			if !errors.As(err, &e) {
				t.Fatalf("want CircularDefinitionError, got %v", err)
			}
			if len(e.Cycle) < 2 || e.Cycle[0] != e.Cycle[len(e.Cycle)-1] {
				t.Fatalf("cycle should start and end at the same name: %v", e.Cycle)
			}
		})
	}

	if _, _, err := resolve("start = A\nA = { next?: A } | null"); err != nil {
		t.Fatalf("recursion through an object is allowed: %v", err)
	}
}
