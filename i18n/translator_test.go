package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", map[string]string{"key": `"title"`}); msg != `必須プロパティ "title" が不足しています` {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_FillsPlaceholders(t *testing.T) {
	got := T("unknown_key", map[string]string{"key": `"color"`})
	if got != `disallowed property "color"` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code echo, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_ReplacesAndResets(t *testing.T) {
	SetTranslator(upper{})
	if got := T("pattern", nil); got != "X:pattern" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("pattern", nil); got == "X:pattern" {
		t.Fatalf("nil should restore the dictionary translator")
	}
}
