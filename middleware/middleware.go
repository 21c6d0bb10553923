// Package middleware holds the framework-neutral pieces of the HTTP request
// validators: context storage for the decoded body, response payloads and a
// net/http middleware.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	jsonrnc "github.com/reoring/jsonrnc"
)

type ctxKeyBody struct{}

// ContextWithBody attaches the decoded and validated request body.
func ContextWithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, ctxKeyBody{}, body)
}

// BodyFromContext retrieves the body stored by ContextWithBody.
func BodyFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyBody{})
	return v, v != nil
}

// DefaultReadOpt returns a recommended default for HTTP JSON boundaries:
// duplicate keys are errors and bodies are capped at 1 MiB.
func DefaultReadOpt() jsonrnc.ReadOpt {
	return jsonrnc.ReadOpt{
		Strictness: jsonrnc.Strictness{OnDuplicateKey: jsonrnc.Error},
		MaxBytes:   1 << 20,
	}
}

// IssueView is the wire form of an Issue.
type IssueView struct {
	Path       string `json:"path"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Definition string `json:"definition,omitempty"`
}

// ErrorPayload shapes a validation error for JSON responses. Errors that
// carry no Issues are reported under "error".
func ErrorPayload(err error) map[string]any {
	iss, ok := jsonrnc.AsIssues(err)
	if !ok {
		return map[string]any{"error": err.Error()}
	}
	views := make([]IssueView, len(iss))
	for i, it := range iss {
		views[i] = IssueView{Path: it.Path, Code: it.Code, Message: it.Message, Definition: it.Definition}
	}
	return map[string]any{"issues": views}
}

// Check decodes one JSON value from r and validates it against g.
func Check(ctx context.Context, g *jsonrnc.Grammar, r *http.Request, opt jsonrnc.ReadOpt) (any, error) {
	if opt == (jsonrnc.ReadOpt{}) {
		opt = DefaultReadOpt()
	}
	v, err := jsonrnc.ValidateFrom(ctx, g, jsonrnc.JSONReader(r.Body), opt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ValidateJSON returns net/http middleware that rejects request bodies not
// matching g with 400 and an issues payload. The decoded body is stored in
// the request context for the next handler.
func ValidateJSON(g *jsonrnc.Grammar, opt jsonrnc.ReadOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := Check(r.Context(), g, r, opt)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(ErrorPayload(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithBody(r.Context(), body)))
		})
	}
}
