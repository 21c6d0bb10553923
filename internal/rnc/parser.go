package rnc

import (
	"fmt"
	"math"

	"github.com/reoring/jsonrnc/internal/ir"
)

// Parse lexes and parses schema source into a definition table. The start
// definition is stored under ir.StartName. References are left unresolved;
// see Resolve.
func Parse(src string) (*ir.Table, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseSchema()
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Kind != TokenEOF {
		p.i++
	}
	return t
}

func (p *parser) accept(k TokenKind) bool {
	if p.peek().Kind == k {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(k TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, p.errorf(k.String())
	}
	return p.next(), nil
}

func (p *parser) errorf(expected string) error {
	t := p.peek()
	return &ParseError{Pos: t.Pos, Expected: expected, Found: t.String()}
}

func (p *parser) parseSchema() (*ir.Table, error) {
	table := ir.NewTable()
	for p.peek().Kind != TokenEOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		if !table.Add(def) {
			prev, _ := table.Lookup(def.Name)
			return nil, &DuplicateDefinitionError{Name: def.Name, Pos: def.Pos, Previous: prev.Pos}
		}
	}
	if _, ok := table.Lookup(ir.StartName); !ok {
		return nil, &MissingStartError{Pos: p.peek().Pos}
	}
	return table, nil
}

// definition = ( "start" | identifier | string ) "=" pattern
func (p *parser) parseDefinition() (*ir.Definition, error) {
	t := p.peek()
	var name string
	switch t.Kind {
	case TokenIdent:
		if _, prim := primitiveWord(t.Text); prim || t.Text == wordTrue || t.Text == wordFalse {
			return nil, p.errorf("definition name")
		}
		name = t.Text
	case TokenString:
		name = t.Text
	default:
		return nil, p.errorf("definition name")
	}
	p.next()
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	return &ir.Definition{Name: name, Pattern: pat, Pos: t.Pos}, nil
}

// pattern = term { "|" term }
func (p *parser) parsePattern() (ir.Pattern, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenBar {
		return first, nil
	}
	u := &ir.Union{Alternatives: []ir.Pattern{first}, Pos: first.Position()}
	for p.accept(TokenBar) {
		alt, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		u.Alternatives = append(u.Alternatives, alt)
	}
	return u, nil
}

func (p *parser) parseTerm() (ir.Pattern, error) {
	t := p.peek()
	var pat ir.Pattern
	switch t.Kind {
	case TokenIdent:
		if typ, ok := primitiveWord(t.Text); ok {
			pat = &ir.Primitive{Type: typ, Pos: t.Pos}
		} else if t.Text == wordStart || t.Text == wordTrue || t.Text == wordFalse {
			return nil, p.errorf("pattern")
		} else {
			pat = &ir.Ref{Name: t.Text, Pos: t.Pos}
		}
		p.next()
	case TokenString:
		pat = &ir.Ref{Name: t.Text, Pos: t.Pos}
		p.next()
	case TokenRegex:
		pat = &ir.Regex{Source: t.Text, Pos: t.Pos}
		p.next()
	case TokenLBrace:
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		pat = obj
	case TokenLBracket:
		p.next()
		arr := &ir.Array{Pos: t.Pos}
		if !p.accept(TokenRBracket) {
			items, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			arr.Items = items
			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}
		}
		pat = arr
	case TokenLParen:
		p.next()
		inner, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		if p.peek().Kind == TokenAt {
			return nil, p.errorf("end of group (annotations go on a type inside the parentheses)")
		}
		return inner, nil
	default:
		return nil, p.errorf("pattern")
	}
	if p.peek().Kind == TokenAt {
		anns, err := p.parseAnnotations()
		if err != nil {
			return nil, err
		}
		if err := checkAnnotations(pat, anns); err != nil {
			return nil, err
		}
		setAnnotations(pat, anns)
	}
	return pat, nil
}

func (p *parser) parseObject() (*ir.Object, error) {
	open, _ := p.expect(TokenLBrace)
	obj := &ir.Object{Closed: true, Pos: open.Pos}
	if p.accept(TokenRBrace) {
		// {} accepts any object
		obj.Closed = false
		return obj, nil
	}
	if err := p.parseProperties(obj); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return obj, nil
}

// properties = property { [","] property }
func (p *parser) parseProperties(obj *ir.Object) error {
	if err := p.parseProperty(obj); err != nil {
		return err
	}
	for {
		if p.accept(TokenComma) {
			if err := p.parseProperty(obj); err != nil {
				return err
			}
			continue
		}
		switch p.peek().Kind {
		case TokenIdent, TokenString, TokenStar, TokenLParen:
			if err := p.parseProperty(obj); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *parser) parseProperty(obj *ir.Object) error {
	t := p.peek()
	switch t.Kind {
	case TokenIdent, TokenString:
		p.next()
		optional := p.accept(TokenQuestion)
		if _, err := p.expect(TokenColon); err != nil {
			return err
		}
		pat, err := p.parsePattern()
		if err != nil {
			return err
		}
		if _, dup := obj.Field(t.Text); dup {
			return &DuplicatePropertyError{Name: t.Text, Pos: t.Pos}
		}
		obj.Fields = append(obj.Fields, ir.Field{Name: t.Text, Optional: optional, Pattern: pat, Pos: t.Pos})
		return nil
	case TokenStar:
		p.next()
		if _, err := p.expect(TokenColon); err != nil {
			return err
		}
		pat, err := p.parsePattern()
		if err != nil {
			return err
		}
		if obj.Rest != nil {
			return &DuplicatePropertyError{Name: "*", Pos: t.Pos}
		}
		obj.Rest = pat
		obj.Closed = false
		return nil
	case TokenLParen:
		p.next()
		if err := p.parseProperties(obj); err != nil {
			return err
		}
		_, err := p.expect(TokenRParen)
		return err
	}
	return p.errorf("property name, '*' or '('")
}

// annotations = "@" "(" name "=" value { "," name "=" value } ")"
func (p *parser) parseAnnotations() (ir.Annotations, error) {
	var anns ir.Annotations
	p.next() // @
	if _, err := p.expect(TokenLParen); err != nil {
		return anns, err
	}
	for {
		nameTok := p.peek()
		if nameTok.Kind != TokenIdent && nameTok.Kind != TokenString {
			return anns, p.errorf("annotation name")
		}
		p.next()
		if _, ok := ir.AnnotationTarget(nameTok.Text); !ok {
			return anns, &IncompatibleAnnotationError{Annotation: nameTok.Text, Pos: nameTok.Pos, Msg: "unknown annotation"}
		}
		if _, dup := anns.Get(nameTok.Text); dup {
			return anns, &IncompatibleAnnotationError{Annotation: nameTok.Text, Pos: nameTok.Pos, Msg: "given more than once"}
		}
		if _, err := p.expect(TokenEqual); err != nil {
			return anns, err
		}
		val, err := p.parseValue()
		if err != nil {
			return anns, err
		}
		anns.List = append(anns.List, ir.Annotation{Name: nameTok.Text, Value: val, Pos: nameTok.Pos})
		if !p.accept(TokenComma) {
			break
		}
	}
	_, err := p.expect(TokenRParen)
	return anns, err
}

// value = number | string | "true" | "false"
func (p *parser) parseValue() (ir.Value, error) {
	t := p.peek()
	switch t.Kind {
	case TokenNumber:
		v, err := ir.NumberValue(t.Text)
		if err != nil {
			return ir.Value{}, p.errorf("number")
		}
		p.next()
		return v, nil
	case TokenString:
		p.next()
		return ir.TextValue(t.Text), nil
	case TokenIdent:
		switch t.Text {
		case wordTrue:
			p.next()
			return ir.BoolValue(true), nil
		case wordFalse:
			p.next()
			return ir.BoolValue(false), nil
		}
	}
	return ir.Value{}, p.errorf("annotation value")
}

func setAnnotations(pat ir.Pattern, anns ir.Annotations) {
	switch n := pat.(type) {
	case *ir.Primitive:
		n.Annotations = anns
	case *ir.Regex:
		n.Annotations = anns
	case *ir.Array:
		n.Annotations = anns
	case *ir.Object:
		n.Annotations = anns
	case *ir.Ref:
		n.Annotations = anns
	}
}

// checkAnnotations validates annotation values and, unless pat is a
// reference, that each annotation fits the pattern kind. References are
// checked by the resolver once their target is known.
func checkAnnotations(pat ir.Pattern, anns ir.Annotations) error {
	if err := checkAnnotationValues(anns); err != nil {
		return err
	}
	if _, isRef := pat.(*ir.Ref); isRef {
		return nil
	}
	return checkAnnotationTarget(pat, describe(pat), anns)
}

func checkAnnotationTarget(pat ir.Pattern, what string, anns ir.Annotations) error {
	have := ir.TargetOf(pat)
	for _, an := range anns.List {
		want, _ := ir.AnnotationTarget(an.Name)
		if want != have {
			return &IncompatibleAnnotationError{
				Annotation: an.Name,
				Pos:        an.Pos,
				Msg:        fmt.Sprintf("only applicable to %s patterns, not %s", want, what),
			}
		}
	}
	return nil
}

var boundPairs = [][2]string{
	{ir.AnnMinimum, ir.AnnMaximum},
	{ir.AnnExclusiveMinimum, ir.AnnExclusiveMaximum},
	{ir.AnnMinLength, ir.AnnMaxLength},
	{ir.AnnMinItems, ir.AnnMaxItems},
	{ir.AnnMinProperties, ir.AnnMaxProperties},
}

func checkAnnotationValues(anns ir.Annotations) error {
	for _, an := range anns.List {
		v := an.Value
		switch {
		case an.Name == ir.AnnPattern:
			if v.Kind != ir.ValueText {
				return &IncompatibleAnnotationError{Annotation: an.Name, Pos: an.Pos, Msg: "string expected, got " + v.Kind.String()}
			}
		case ir.IsCount(an.Name):
			if v.Kind != ir.ValueNumber || v.Number < 0 || v.Number != math.Trunc(v.Number) {
				return &IncompatibleAnnotationError{Annotation: an.Name, Pos: an.Pos, Msg: "non-negative integer expected, got " + v.Raw}
			}
		default:
			if v.Kind != ir.ValueNumber {
				return &IncompatibleAnnotationError{Annotation: an.Name, Pos: an.Pos, Msg: "number expected, got " + v.Kind.String()}
			}
		}
	}
	for _, pair := range boundPairs {
		lo, okLo := anns.Number(pair[0])
		hi, okHi := anns.Number(pair[1])
		if okLo && okHi && lo > hi {
			an, _ := anns.Get(pair[1])
			return &IncompatibleAnnotationError{
				Annotation: pair[1],
				Pos:        an.Pos,
				Msg:        fmt.Sprintf("%s %v is greater than %s %v", pair[0], lo, pair[1], hi),
			}
		}
	}
	return nil
}

func describe(pat ir.Pattern) string {
	switch n := pat.(type) {
	case *ir.Primitive:
		return string(n.Type)
	case *ir.Ref:
		return "reference " + n.Name
	}
	return pat.Kind().String()
}
