// Package yaml provides a Source over multi-document YAML streams. Each YAML
// document becomes one top-level value, so a stream of documents reads like
// newline-delimited JSON.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	y "gopkg.in/yaml.v3"

	jsonrnc "github.com/reoring/jsonrnc"
	eng "github.com/reoring/jsonrnc/internal/engine"
)

// NewReader returns a Source reading YAML documents from r.
func NewReader(r io.Reader) jsonrnc.Source {
	return jsonrnc.SourceFromEngine(NewTokenSource(r), jsonrnc.NumberJSONNumber)
}

// NewBytes returns a Source over the YAML documents in b.
func NewBytes(b []byte) jsonrnc.Source { return NewReader(bytes.NewReader(b)) }

// NewTokenSource exposes the YAML stream as an engine.TokenSource.
func NewTokenSource(r io.Reader) eng.TokenSource {
	return &yamlSource{dec: y.NewDecoder(r)}
}

// yamlSource materializes the tokens of one document at a time. Mapping
// order is kept, so duplicate keys reach the enforcement layer.
type yamlSource struct {
	dec    *y.Decoder
	tokens []eng.Token
	idx    int
	err    error
}

func (s *yamlSource) NextToken() (eng.Token, error) {
	for s.idx >= len(s.tokens) {
		if s.err != nil {
			return eng.Token{}, s.err
		}
		s.fill()
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

// Location is unknown: the YAML decoder does not expose byte offsets.
func (s *yamlSource) Location() int64 { return -1 }

func (s *yamlSource) fill() {
	s.tokens, s.idx = s.tokens[:0], 0
	var doc y.Node
	if err := s.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			s.err = io.EOF
		} else {
			s.err = fmt.Errorf("yaml: %w", err)
		}
		return
	}
	out, err := appendNode(s.tokens, &doc, 0)
	if err != nil {
		s.err = err
		return
	}
	s.tokens = out
}

// maxAliasDepth bounds alias expansion so self-referencing anchors fail
// instead of recursing forever.
const maxAliasDepth = 64

func appendNode(out []eng.Token, n *y.Node, aliases int) ([]eng.Token, error) {
	switch n.Kind {
	case y.DocumentNode:
		if len(n.Content) == 0 {
			return append(out, eng.Token{Kind: eng.KindNull, Offset: -1}), nil
		}
		return appendNode(out, n.Content[0], aliases)
	case y.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return nil, fmt.Errorf("yaml: line %d: alias %q nests too deeply", n.Line, n.Value)
		}
		return appendNode(out, n.Alias, aliases+1)
	case y.MappingNode:
		out = append(out, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != y.ScalarNode {
				return nil, fmt.Errorf("yaml: line %d: mapping keys must be scalars", k.Line)
			}
			out = append(out, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			var err error
			if out, err = appendNode(out, v, aliases); err != nil {
				return nil, err
			}
		}
		return append(out, eng.Token{Kind: eng.KindEndObject, Offset: -1}), nil
	case y.SequenceNode:
		out = append(out, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			var err error
			if out, err = appendNode(out, c, aliases); err != nil {
				return nil, err
			}
		}
		return append(out, eng.Token{Kind: eng.KindEndArray, Offset: -1}), nil
	case y.ScalarNode:
		return append(out, scalarToken(n)), nil
	}
	return nil, fmt.Errorf("yaml: line %d: unsupported node", n.Line)
}

// scalarToken maps a resolved YAML scalar onto the JSON value space.
// Numbers that JSON cannot carry (.inf, .nan) stay strings.
func scalarToken(n *y.Node) eng.Token {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}
		}
	case "!!int":
		if i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10), Offset: -1}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil && !isSpecial(n.Value) {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64), Offset: -1}
		}
	}
	return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}
}

func isSpecial(v string) bool {
	switch strings.ToLower(strings.TrimLeft(v, "+-")) {
	case ".inf", ".nan":
		return true
	}
	return false
}
