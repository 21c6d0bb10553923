// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	jsonrnc "github.com/reoring/jsonrnc"
	eng "github.com/reoring/jsonrnc/internal/engine"
)

// Driver returns a jsonrnc.JSONDriver backed by goccy/go-json.
func Driver() jsonrnc.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) jsonrnc.Source {
	return jsonrnc.SourceFromEngine(NewReader(r), jsonrnc.NumberJSONNumber)
}
func (driverGoJSON) NewBytes(b []byte) jsonrnc.Source {
	return jsonrnc.SourceFromEngine(NewBytes(b), jsonrnc.NumberJSONNumber)
}
func (driverGoJSON) Name() string { return "go-json" }

// ---- engine.TokenSource implementation using go-json Decoder ----

type frame struct {
	object    bool
	expectKey bool
}

type source struct {
	dec   *j.Decoder
	cr    *countingReader
	stack []frame
}

// countingReader counts the bytes handed to the decoder. The decoder reads
// ahead, so the count is an upper bound of the consumed input.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	cr := &countingReader{r: r}
	dec := j.NewDecoder(cr)
	dec.UseNumber()
	return &source{dec: dec, cr: cr}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: s.cr.n}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{object: true, expectKey: true})
			t.Kind = eng.KindBeginObject
		case '[':
			s.stack = append(s.stack, frame{})
			t.Kind = eng.KindBeginArray
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			t.Kind = eng.KindEndArray
			if v == '}' {
				t.Kind = eng.KindEndObject
			}
			s.valueDone()
		}
		return t, nil
	case string:
		t.String = v
		if n := len(s.stack); n > 0 && s.stack[n-1].expectKey {
			s.stack[n-1].expectKey = false
			t.Kind = eng.KindKey
			return t, nil
		}
		t.Kind = eng.KindString
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case j.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	s.valueDone()
	return t, nil
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].expectKey = true
	}
}

func (s *source) Location() int64 { return s.cr.n }
