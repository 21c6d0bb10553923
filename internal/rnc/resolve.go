package rnc

import (
	"regexp"

	"github.com/reoring/jsonrnc/internal/ir"
)

// Resolve links every reference in the table to its definition, compiles
// regular expressions, checks annotations placed on references and rejects
// definitions that recurse without nesting. It returns the start definition.
//
// References stay indirections: recursive definitions share one Definition
// and nothing is inlined.
func Resolve(table *ir.Table) (*ir.Definition, error) {
	start, ok := table.Lookup(ir.StartName)
	if !ok {
		return nil, &MissingStartError{}
	}
	r := &resolver{table: table}
	// start first so that errors point at what the document will hit first
	order := append([]string{ir.StartName}, without(table.Names(), ir.StartName)...)
	for _, name := range order {
		def, _ := table.Lookup(name)
		if err := r.link(def.Pattern, []string{name}); err != nil {
			return nil, err
		}
	}
	if err := r.checkCycles(order); err != nil {
		return nil, err
	}
	for _, ref := range r.annotated {
		target := r.terminal(ref.Name)
		what := "reference " + ref.Name
		if target != nil {
			what += " (" + describe(target) + ")"
		}
		if err := checkAnnotationTarget(target, what, ref.Annotations); err != nil {
			return nil, err
		}
	}
	return start, nil
}

type resolver struct {
	table     *ir.Table
	annotated []*ir.Ref
}

func without(names []string, drop string) []string {
	out := names[:0:0]
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

func (r *resolver) link(p ir.Pattern, path []string) error {
	switch n := p.(type) {
	case *ir.Ref:
		def, ok := r.table.Lookup(n.Name)
		if !ok {
			return &UndefinedReferenceError{Name: n.Name, Pos: n.Pos, Path: append(append([]string(nil), path...), n.Name)}
		}
		n.Target = def
		if err := compileAnnotationPattern(&n.Annotations); err != nil {
			return err
		}
		if !n.Annotations.Empty() {
			r.annotated = append(r.annotated, n)
		}
	case *ir.Regex:
		re, err := anchored(n.Source)
		if err != nil {
			return &ParseError{Pos: n.Pos, Expected: "valid regular expression", Found: err.Error()}
		}
		n.Compiled = re
		return compileAnnotationPattern(&n.Annotations)
	case *ir.Primitive:
		return compileAnnotationPattern(&n.Annotations)
	case *ir.Array:
		if n.Items != nil {
			return r.link(n.Items, append(path, "[]"))
		}
	case *ir.Object:
		for _, f := range n.Fields {
			if err := r.link(f.Pattern, append(path, f.Name)); err != nil {
				return err
			}
		}
		if n.Rest != nil {
			return r.link(n.Rest, append(path, "*"))
		}
	case *ir.Union:
		for _, alt := range n.Alternatives {
			if err := r.link(alt, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// anchored compiles src so that it must match the whole input. src is
// compiled on its own first so an unbalanced group cannot escape the anchors.
func anchored(src string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(src); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + src + `)$`)
}

func compileAnnotationPattern(anns *ir.Annotations) error {
	an, ok := anns.Get(ir.AnnPattern)
	if !ok {
		return nil
	}
	re, err := anchored(an.Value.Text)
	if err != nil {
		return &IncompatibleAnnotationError{Annotation: an.Name, Pos: an.Pos, Msg: "invalid regular expression: " + err.Error()}
	}
	anns.Pattern = re
	return nil
}

// terminal follows a chain of plain references and returns the first
// non-reference pattern, or nil when the chain loops.
func (r *resolver) terminal(name string) ir.Pattern {
	seen := map[string]bool{}
	for !seen[name] {
		seen[name] = true
		def, ok := r.table.Lookup(name)
		if !ok {
			return nil
		}
		ref, isRef := def.Pattern.(*ir.Ref)
		if !isRef {
			return def.Pattern
		}
		name = ref.Name
	}
	return nil
}

// headRefs lists definitions reachable from p without entering an object or
// an array.
func headRefs(p ir.Pattern, out []*ir.Ref) []*ir.Ref {
	switch n := p.(type) {
	case *ir.Ref:
		return append(out, n)
	case *ir.Union:
		for _, alt := range n.Alternatives {
			out = headRefs(alt, out)
		}
	}
	return out
}

func (r *resolver) checkCycles(order []string) error {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(order))
	var stack []string
	var visit func(name string, pos ir.Pos) error
	visit = func(name string, pos ir.Pos) error {
		switch state[name] {
		case done:
			return nil
		case onStack:
			i := len(stack) - 1
			for i > 0 && stack[i] != name {
				i--
			}
			cycle := append(append([]string(nil), stack[i:]...), name)
			return &CircularDefinitionError{Name: name, Cycle: cycle, Pos: pos}
		}
		state[name] = onStack
		stack = append(stack, name)
		def, _ := r.table.Lookup(name)
		for _, ref := range headRefs(def.Pattern, nil) {
			if err := visit(ref.Name, ref.Pos); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}
	for _, name := range order {
		def, _ := r.table.Lookup(name)
		if err := visit(name, def.Pos); err != nil {
			return err
		}
	}
	return nil
}
