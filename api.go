package jsonrnc

import "context"

// Validator validates a sequence of documents against one Grammar and keeps
// the running Stats. A Validator is not safe for concurrent use; run one per
// goroutine over the shared Grammar and merge their Stats.
type Validator struct {
	g     *Grammar
	opt   ValidateOpt
	stats *Stats
}

// NewValidator returns a Validator with empty Stats.
func NewValidator(g *Grammar, opts ...ValidateOpt) *Validator {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &Validator{g: g, opt: opt, stats: NewStats()}
}

// Validate checks one document and records its outcome.
func (v *Validator) Validate(ctx context.Context, doc any) Result {
	return ValidateDocument(ctx, v.g, doc, v.stats, v.opt)
}

// Stats returns the accumulated statistics.
func (v *Validator) Stats() *Stats { return v.stats }

// ---- Validation context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast validation.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first
// issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
