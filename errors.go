package jsonrnc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/jsonrnc/internal/rnc"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeDuplicateKey = "duplicate_key"
	CodeTooSmall     = "too_small"
	CodeTooBig       = "too_big"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodePattern      = "pattern"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, offending key, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for
	// i18n and machine consumers.
	Params map[string]any
	// Definition names the innermost definition being matched, empty for
	// anonymous start patterns.
	Definition string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Compile errors. Every error returned by Compile implements CompileError and
// can be matched with errors.As against the concrete types below.
type (
	CompileError                = rnc.CompileError
	LexError                    = rnc.LexError
	ParseError                  = rnc.ParseError
	MissingStartError           = rnc.MissingStartError
	DuplicateDefinitionError    = rnc.DuplicateDefinitionError
	DuplicatePropertyError      = rnc.DuplicatePropertyError
	UndefinedReferenceError     = rnc.UndefinedReferenceError
	IncompatibleAnnotationError = rnc.IncompatibleAnnotationError
	CircularDefinitionError     = rnc.CircularDefinitionError
)

// AsCompileError extracts a CompileError from err.
func AsCompileError(err error) (CompileError, bool) {
	var ce CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
