package jsonrnc

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Framing selects how a document stream is split into instances.
type Framing int

const (
	// FramingAuto treats a top-level array as a list of instances and any
	// other top-level value as a single instance, then keeps reading values
	// until the end of input.
	FramingAuto Framing = iota
	// FramingArray expects exactly one top-level array of instances.
	FramingArray
	// FramingStream treats every top-level value as one instance
	// (newline-delimited JSON, concatenated values).
	FramingStream
)

// ReadOpt bundles document reading options.
type ReadOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	Framing    Framing
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// FailFast stops at the first issue instead of collecting every issue of
	// the failing branch.
	FailFast bool
}
