// Package json provides the encoding/json token source used by the
// built-in JSON driver.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/jsonrnc/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	keys       keyTracker
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON. The
// reader may hold any number of whitespace-separated top-level values.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()
	t := eng.Token{Offset: s.lastOffset}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			t.Kind = eng.KindBeginObject
			s.keys.open(true)
		case '}':
			t.Kind = eng.KindEndObject
			s.keys.close()
		case '[':
			t.Kind = eng.KindBeginArray
			s.keys.open(false)
		case ']':
			t.Kind = eng.KindEndArray
			s.keys.close()
		}
		return t, nil
	case string:
		t.String = v
		if s.keys.takeKey() {
			t.Kind = eng.KindKey
			return t, nil
		}
		t.Kind = eng.KindString
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case json.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	s.keys.valueDone()
	return t, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

// keyTracker tells object keys from string values; encoding/json reports
// both as plain strings.
type keyTracker struct{ stack []frame }

type frame struct {
	object    bool
	expectKey bool
}

func (k *keyTracker) open(object bool) {
	k.stack = append(k.stack, frame{object: object, expectKey: object})
}

func (k *keyTracker) close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.valueDone()
}

func (k *keyTracker) takeKey() bool {
	n := len(k.stack)
	if n == 0 || !k.stack[n-1].expectKey {
		return false
	}
	k.stack[n-1].expectKey = false
	return true
}

func (k *keyTracker) valueDone() {
	if n := len(k.stack); n > 0 && k.stack[n-1].object {
		k.stack[n-1].expectKey = true
	}
}
