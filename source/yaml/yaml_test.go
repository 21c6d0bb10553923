package yaml_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"

	jsonrnc "github.com/reoring/jsonrnc"
	yamlsrc "github.com/reoring/jsonrnc/source/yaml"
)

func docs(t *testing.T, src string, opt jsonrnc.ReadOpt) ([]any, error) {
	t.Helper()
	dr := jsonrnc.NewDocumentReader(yamlsrc.NewBytes([]byte(src)), opt)
	var out []any
	for {
		v, err := dr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

func TestNewBytes_MultiDocument(t *testing.T) {
	got, err := docs(t, "name: a\nsize: 0x10\n---\n- 1.5\n- true\n- ~\n- .inf\n- \"7\"\n", jsonrnc.ReadOpt{Framing: jsonrnc.FramingStream})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{
		map[string]any{"name": "a", "size": json.Number("16")},
		[]any{json.Number("1.5"), true, nil, ".inf", "7"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestNewBytes_Aliases(t *testing.T) {
	got, err := docs(t, "base: &b [1, 2]\ncopy: *b\n", jsonrnc.ReadOpt{})
	if err != nil {
		t.Fatal(err)
	}
	m := got[0].(map[string]any)
	if !reflect.DeepEqual(m["base"], m["copy"]) {
		t.Fatalf("alias not expanded: %#v", m)
	}
}

func TestNewBytes_DuplicateKeysReachEnforcement(t *testing.T) {
	opt := jsonrnc.ReadOpt{Strictness: jsonrnc.Strictness{OnDuplicateKey: jsonrnc.Error}}
	_, err := docs(t, "a: 1\nb:\n  c: 1\n  c: 2\n", opt)
	iss, ok := jsonrnc.AsIssues(err)
	if !ok || iss[0].Code != jsonrnc.CodeDuplicateKey || iss[0].Path != "/b/c" {
		t.Fatalf("want duplicate_key at /b/c, got %v", err)
	}
}

func TestNewBytes_SyntaxError(t *testing.T) {
	_, err := docs(t, "a: [1, 2\n", jsonrnc.ReadOpt{})
	iss, ok := jsonrnc.AsIssues(err)
	if !ok || iss[0].Code != jsonrnc.CodeParseError {
		t.Fatalf("want parse_error, got %v", err)
	}
}

func TestValidateFrom_YAMLDocument(t *testing.T) {
	g := jsonrnc.MustCompile("start = { port: integer @(maximum = 65535), hosts: [ string ] @(minItems = 1) }")
	ctx := context.Background()
	if _, err := jsonrnc.ValidateFrom(ctx, g, yamlsrc.NewBytes([]byte("port: 8080\nhosts: [a, b]\n"))); err != nil {
		t.Fatal(err)
	}
	_, err := jsonrnc.ValidateFrom(ctx, g, yamlsrc.NewBytes([]byte("port: 70000\nhosts: []\n")))
	iss, ok := jsonrnc.AsIssues(err)
	if !ok || len(iss) != 2 || iss[0].Path != "/port" || iss[1].Path != "/hosts" {
		t.Fatalf("issues: %v", err)
	}
}
