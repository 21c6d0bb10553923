package json_test

import (
	"errors"
	"io"
	"reflect"
	"testing"

	eng "github.com/reoring/jsonrnc/internal/engine"
	jsonsrc "github.com/reoring/jsonrnc/source/json"
)

func kinds(t *testing.T, ts eng.TokenSource) []eng.Kind {
	t.Helper()
	var out []eng.Kind
	for {
		tok, err := ts.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("token %d: %v", len(out), err)
		}
		out = append(out, tok.Kind)
	}
}

func TestNewBytes_TokensKeysAndValues(t *testing.T) {
	ts := jsonsrc.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":"d"}} 7`))
	got := kinds(t, ts)
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindEndObject,
		eng.KindNumber,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds:\n got %v\nwant %v", got, want)
	}
}

func TestNewBytes_KeepsNumberLiteralAndOffset(t *testing.T) {
	ts := jsonsrc.NewBytes([]byte(`[1.50e2]`))
	if _, err := ts.NextToken(); err != nil {
		t.Fatal(err)
	}
	tok, err := ts.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind != eng.KindNumber || tok.Number != "1.50e2" {
		t.Fatalf("number token: %+v", tok)
	}
	if ts.Location() != 7 {
		t.Fatalf("location: %d", ts.Location())
	}
}

func TestNewBytes_SyntaxError(t *testing.T) {
	ts := jsonsrc.NewBytes([]byte(`{"a" 1}`))
	var err error
	for i := 0; i < 4 && err == nil; i++ {
		_, err = ts.NextToken()
	}
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
}
