package jsonrnc

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/jsonrnc/i18n"
	eng "github.com/reoring/jsonrnc/internal/engine"
)

var (
	errNotArray   = errors.New("expected a top-level array of documents")
	errTrailing   = errors.New("unexpected value after the top-level array")
	errUnexpected = errors.New("unexpected end of input")
)

// DocumentReader splits a Source into instances according to the framing of
// its ReadOpt. A read failure ends the stream: the decoder cannot resume
// after malformed input.
type DocumentReader struct {
	src      eng.TokenSource
	conv     eng.NumberConv
	framing  Framing
	inArray  bool
	started  bool
	done     bool
	index    int
	warnings Issues
}

// NewDocumentReader prepares src for reading. Duplicate key, depth and size
// enforcement from the ReadOpt apply to the whole stream.
func NewDocumentReader(src Source, opts ...ReadOpt) *DocumentReader {
	var opt ReadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	// the enclosing array of array framing does not count as document depth
	if opt.Framing == FramingArray && opt.MaxDepth > 0 {
		opt.MaxDepth++
	}
	r := &DocumentReader{conv: numberConv(src.NumberMode()), framing: opt.Framing, index: -1}
	r.src = enforce(src, opt, func(it Issue) {
		it.Path = r.rebase(it.Path)
		it.Message = duplicateMessage(it.Path)
		r.warnings = append(r.warnings, it)
	})
	return r
}

// Next returns the next instance. It returns io.EOF after the last one;
// any other error is an Issues value describing the read failure.
func (r *DocumentReader) Next() (any, error) {
	if r.done {
		return nil, io.EOF
	}
	for {
		tok, err := r.src.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if r.inArray {
					return r.fail(errUnexpected)
				}
				r.done = true
				return nil, io.EOF
			}
			return r.fail(err)
		}
		if r.inArray {
			if tok.Kind == eng.KindEndArray {
				r.inArray = false
				continue
			}
			return r.decode(tok)
		}
		if r.framing == FramingArray && r.started {
			return r.fail(errTrailing)
		}
		r.started = true
		if tok.Kind == eng.KindBeginArray && r.framing != FramingStream {
			r.inArray = true
			continue
		}
		if r.framing == FramingArray {
			return r.fail(errNotArray)
		}
		return r.decode(tok)
	}
}

// Index returns the zero-based position of the last instance returned by
// Next, or -1 before the first one.
func (r *DocumentReader) Index() int { return r.index }

// Warnings returns and clears the non-fatal issues (duplicate keys in warn
// mode) raised while reading the last instance.
func (r *DocumentReader) Warnings() Issues {
	w := r.warnings
	r.warnings = nil
	return w
}

func (r *DocumentReader) decode(tok eng.Token) (any, error) {
	v, err := eng.DecodeValue(r.src, tok, r.conv)
	if err != nil {
		return r.fail(err)
	}
	r.index++
	return v, nil
}

func (r *DocumentReader) fail(err error) (any, error) {
	r.done = true
	r.index++
	iss := readIssues(err)
	for i := range iss {
		iss[i].Path = r.rebase(iss[i].Path)
	}
	return nil, iss
}

// rebase strips the array index segment from enforcement paths so they are
// relative to the instance, like validation paths.
func (r *DocumentReader) rebase(p string) string {
	if !r.inArray || len(p) < 2 {
		return p
	}
	if i := strings.IndexByte(p[1:], '/'); i >= 0 {
		return p[i+1:]
	}
	return "/"
}

// readIssues maps decoder and enforcement errors to Issues.
func readIssues(err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Cause: err}
		if ie.Code == CodeDuplicateKey {
			it.Message = duplicateMessage(ie.Path)
		}
		return AppendIssues(nil, it)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = errUnexpected
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: i18n.T(CodeParseError, nil) + ": " + err.Error(), Cause: err})
}

func duplicateMessage(path string) string {
	key := path[strings.LastIndexByte(path, '/')+1:]
	key = strings.NewReplacer("~1", "/", "~0", "~").Replace(key)
	return i18n.T(CodeDuplicateKey, map[string]string{"key": strconv.Quote(key)})
}

// ValidateFrom decodes a single value from src and validates it. The decoded
// value is returned even when validation fails, so callers can still inspect
// it. Read failures are reported as Issues with parse_error, duplicate_key
// or truncated codes.
func ValidateFrom(ctx context.Context, g *Grammar, src Source, opts ...ReadOpt) (any, error) {
	var opt ReadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	opt.Framing = FramingStream
	dr := NewDocumentReader(src, opt)
	v, err := dr.Next()
	if errors.Is(err, io.EOF) {
		return nil, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: i18n.T(CodeParseError, nil) + ": empty input", Cause: err})
	}
	if err != nil {
		return nil, err
	}
	if err := g.Validate(ctx, v); err != nil {
		return v, err
	}
	return v, nil
}

// DocResult is the outcome for one instance of a document stream.
type DocResult struct {
	Index int
	Result
	// Warnings lists non-fatal read issues for the instance.
	Warnings Issues
}

// ValidateSource validates every instance read from src, calling fn with
// each outcome in order. A read failure is reported to fn as a failed
// instance and ends the stream. Returning an error from fn, or cancelling
// ctx, stops early with that error.
func (v *Validator) ValidateSource(ctx context.Context, src Source, opt ReadOpt, fn func(DocResult) error) error {
	dr := NewDocumentReader(src, opt)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := dr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var res DocResult
		if err != nil {
			v.stats.record(false)
			res = DocResult{Index: dr.Index(), Result: Result{Issues: readIssues(err)}, Warnings: dr.Warnings()}
		} else {
			res = DocResult{Index: dr.Index(), Result: v.Validate(ctx, doc), Warnings: dr.Warnings()}
		}
		if fn != nil {
			if ferr := fn(res); ferr != nil {
				return ferr
			}
		}
	}
}
