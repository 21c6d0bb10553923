package engine

import (
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 {
	if s.i == 0 {
		return 0
	}
	return s.toks[s.i-1].Offset
}

func obj(keys ...string) []Token {
	out := []Token{{Kind: KindBeginObject}}
	for _, k := range keys {
		out = append(out, Token{Kind: KindKey, String: k}, Token{Kind: KindNull})
	}
	return append(out, Token{Kind: KindEndObject})
}

func drain(ts TokenSource) error {
	for {
		if _, err := ts.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func TestWrapWithEnforcement_Disabled(t *testing.T) {
	src := &sliceSource{}
	if WrapWithEnforcement(src, EnforceOptions{}) != TokenSource(src) {
		t.Fatal("no options should return the inner source")
	}
}

func TestWrapWithEnforcement_DuplicateKeys(t *testing.T) {
	toks := []Token{{Kind: KindBeginArray}}
	toks = append(toks, obj("a", "b")...)
	toks = append(toks, obj("x", "a/b", "a/b")...)
	toks = append(toks, Token{Kind: KindEndArray})

	var warned []SimpleIssue
	ts := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { warned = append(warned, si) },
	})
	if err := drain(ts); err != nil {
		t.Fatal(err)
	}
	if len(warned) != 1 || warned[0].Path != "/1/a~1b" || warned[0].Code != "duplicate_key" {
		t.Fatalf("warnings: %+v", warned)
	}

	ts = WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError})
	var ie IssueError
	if err := drain(ts); !errors.As(err, &ie) || ie.Path != "/1/a~1b" {
		t.Fatalf("error mode: %v", err)
	}
}

func TestWrapWithEnforcement_MaxDepthPaths(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "list"}, {Kind: KindBeginArray},
		{Kind: KindNumber, Number: "1"},
		{Kind: KindBeginObject}, {Kind: KindEndObject},
		{Kind: KindEndArray},
		{Kind: KindEndObject},
	}
	ts := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 2})
	var ie IssueError
	if err := drain(ts); !errors.As(err, &ie) || ie.Code != "parse_error" || ie.Path != "/list/1" {
		t.Fatalf("depth: %v", err)
	}
	ts = WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 3})
	if err := drain(ts); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
}

func TestWrapWithEnforcement_MaxBytes(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray, Offset: 1},
		{Kind: KindString, String: "abc", Offset: 6},
		{Kind: KindEndArray, Offset: 7},
	}
	ts := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxBytes: 6})
	var ie IssueError
	if err := drain(ts); !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("bytes: %v", err)
	}
}
