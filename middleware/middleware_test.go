package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsonrnc "github.com/reoring/jsonrnc"
	"github.com/reoring/jsonrnc/middleware"
)

var orderGrammar = jsonrnc.MustCompile(`
start = Order
Order = { id: string, qty: integer @(minimum = 1) }
`)

func serve(t *testing.T, body string) (*httptest.ResponseRecorder, any) {
	t.Helper()
	var seen any
	h := middleware.ValidateJSON(orderGrammar, jsonrnc.ReadOpt{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.BodyFromContext(r.Context())
		if !ok {
			t.Fatal("body missing from context")
		}
		seen = v
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
	return rec, seen
}

func TestValidateJSON_PassesDecodedBody(t *testing.T) {
	rec, seen := serve(t, `{"id":"a1","qty":2}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if seen.(map[string]any)["id"] != "a1" {
		t.Fatalf("body: %#v", seen)
	}
}

func TestValidateJSON_RejectsWithIssues(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
		path string
	}{
		{"constraint", `{"id":"a1","qty":0}`, jsonrnc.CodeTooSmall, "/qty"},
		{"unknown key", `{"id":"a1","qty":1,"note":"x"}`, jsonrnc.CodeUnknownKey, "/note"},
		{"duplicate key", `{"id":"a1","id":"a2","qty":1}`, jsonrnc.CodeDuplicateKey, "/id"},
		{"malformed", `{"id":`, jsonrnc.CodeParseError, "/"},
		{"empty", ``, jsonrnc.CodeParseError, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := serve(t, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d", rec.Code)
			}
			var payload struct {
				Issues []middleware.IssueView `json:"issues"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatal(err)
			}
			if len(payload.Issues) == 0 || payload.Issues[0].Code != tc.code || payload.Issues[0].Path != tc.path {
				t.Fatalf("payload: %s", rec.Body)
			}
		})
	}
}

func TestErrorPayload_PlainError(t *testing.T) {
	p := middleware.ErrorPayload(http.ErrBodyNotAllowed)
	if p["error"] != http.ErrBodyNotAllowed.Error() {
		t.Fatalf("payload: %v", p)
	}
}
