package jsonrnc

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/jsonrnc/i18n"
	"github.com/reoring/jsonrnc/internal/ir"
)

// Result is the outcome of matching one JSON value against a grammar.
type Result struct {
	OK     bool
	Issues Issues
}

// Err returns the issues as an error, or nil when the value matched.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return r.Issues
}

// Path returns the JSON Pointer of the first issue.
func (r Result) Path() string {
	if len(r.Issues) == 0 {
		return ""
	}
	return r.Issues[0].Path
}

// Reason returns the code of the first issue.
func (r Result) Reason() string {
	if len(r.Issues) == 0 {
		return ""
	}
	return r.Issues[0].Code
}

// ValidateDocument matches a decoded JSON value (as produced by
// encoding/json into any, or by a Source) against the grammar's start
// pattern. When st is non-nil the document outcome and every reference
// traversal are recorded in it.
func ValidateDocument(ctx context.Context, g *Grammar, v any, st *Stats, opts ...ValidateOpt) Result {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	m := &matcher{stats: st, failFast: opt.FailFast || IsFailFast(ctx)}
	iss := m.match(g.start.Pattern, v, RootPath())
	res := Result{OK: len(iss) == 0, Issues: iss}
	if st != nil {
		st.record(res.OK)
	}
	return res
}

// Validate reports whether v matches the grammar, returning Issues on
// failure. No statistics are kept.
func (g *Grammar) Validate(ctx context.Context, v any, opts ...ValidateOpt) error {
	return ValidateDocument(ctx, g, v, nil, opts...).Err()
}

// Is reports whether v matches the grammar.
func (g *Grammar) Is(v any) bool {
	return ValidateDocument(WithFailFast(context.Background(), true), g, v, nil).OK
}

type matcher struct {
	stats    *Stats
	failFast bool
	def      string
}

func (m *matcher) issue(path PathRef, code string, data map[string]string, params map[string]any) Issue {
	return m.issueMsg(path, code, code, data, params)
}

// issueMsg is issue with a message key that differs from the code.
func (m *matcher) issueMsg(path PathRef, code, msg string, data map[string]string, params map[string]any) Issue {
	return Issue{
		Path:       path.Pointer(),
		Code:       code,
		Message:    i18n.T(msg, data),
		Hint:       data["expected"],
		Params:     params,
		Definition: m.def,
	}
}

func (m *matcher) typeIssue(path PathRef, expected string, v any) Issues {
	got := typeName(v)
	return Issues{m.issue(path, CodeInvalidType,
		map[string]string{"expected": expected, "got": got},
		map[string]any{"expected": expected, "got": got})}
}

func (m *matcher) match(p ir.Pattern, v any, path PathRef) Issues {
	switch n := p.(type) {
	case *ir.Primitive:
		return m.matchPrimitive(n, v, path)
	case *ir.Regex:
		s, ok := v.(string)
		if !ok {
			return m.typeIssue(path, "string", v)
		}
		if !n.Compiled.MatchString(s) {
			return Issues{m.patternIssue(path, s, n.Source)}
		}
		return m.facets(n.Annotations, v, path)
	case *ir.Array:
		return m.matchArray(n, v, path)
	case *ir.Object:
		return m.matchObject(n, v, path)
	case *ir.Union:
		var last Issues
		for _, alt := range n.Alternatives {
			last = m.match(alt, v, path)
			if len(last) == 0 {
				return nil
			}
		}
		return last
	case *ir.Ref:
		if m.stats != nil {
			m.stats.hit(n.Name)
		}
		outer := m.def
		m.def = n.Name
		defer func() { m.def = outer }()
		if iss := m.match(n.Target.Pattern, v, path); len(iss) > 0 {
			return iss
		}
		return m.facets(n.Annotations, v, path)
	}
	return nil
}

func (m *matcher) matchPrimitive(n *ir.Primitive, v any, path PathRef) Issues {
	switch n.Type {
	case ir.TypeString:
		if _, ok := v.(string); !ok {
			return m.typeIssue(path, "string", v)
		}
	case ir.TypeNumber:
		if _, ok := toFloat(v); !ok {
			return m.typeIssue(path, "number", v)
		}
	case ir.TypeInteger:
		if !isInteger(v) {
			return m.typeIssue(path, "integer", v)
		}
	case ir.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return m.typeIssue(path, "boolean", v)
		}
	case ir.TypeNull:
		if v != nil {
			return m.typeIssue(path, "null", v)
		}
	}
	return m.facets(n.Annotations, v, path)
}

func (m *matcher) matchArray(n *ir.Array, v any, path PathRef) Issues {
	arr, ok := v.([]any)
	if !ok {
		return m.typeIssue(path, "array", v)
	}
	iss := m.facets(n.Annotations, v, path)
	if len(iss) > 0 && m.failFast {
		return iss
	}
	if n.Items == nil {
		return iss
	}
	for i, el := range arr {
		if sub := m.match(n.Items, el, path.Index(i)); len(sub) > 0 {
			iss = append(iss, sub...)
			if m.failFast {
				return iss
			}
		}
	}
	return iss
}

func (m *matcher) matchObject(n *ir.Object, v any, path PathRef) Issues {
	obj, ok := v.(map[string]any)
	if !ok {
		return m.typeIssue(path, "object", v)
	}
	var iss Issues
	for _, f := range n.Fields {
		val, present := obj[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			key := strconv.Quote(f.Name)
			iss = append(iss, m.issue(path.Field(f.Name), CodeRequired,
				map[string]string{"key": key}, map[string]any{"key": f.Name}))
		} else if sub := m.match(f.Pattern, val, path.Field(f.Name)); len(sub) > 0 {
			iss = append(iss, sub...)
		}
		if len(iss) > 0 && m.failFast {
			return iss
		}
	}
	for _, k := range extraKeys(n, obj) {
		switch {
		case n.Closed:
			iss = append(iss, m.issue(path.Field(k), CodeUnknownKey,
				map[string]string{"key": strconv.Quote(k)}, map[string]any{"key": k}))
		case n.Rest != nil:
			iss = append(iss, m.match(n.Rest, obj[k], path.Field(k))...)
		}
		if len(iss) > 0 && m.failFast {
			return iss
		}
	}
	return append(iss, m.facets(n.Annotations, v, path)...)
}

// extraKeys returns the keys of obj not declared by n, sorted.
func extraKeys(n *ir.Object, obj map[string]any) []string {
	var out []string
	for k := range obj {
		if _, declared := n.Field(k); !declared {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// facets checks annotation constraints. The type of v has already been
// checked against the decorated pattern, and the resolver has ensured the
// annotations fit it.
func (m *matcher) facets(anns ir.Annotations, v any, path PathRef) Issues {
	if anns.Empty() {
		return nil
	}
	var iss Issues
	add := func(it Issue) bool {
		iss = append(iss, it)
		return m.failFast
	}
	switch t := v.(type) {
	case string:
		n := utf8.RuneCountInString(t)
		if c, ok := anns.Count(ir.AnnMinLength); ok && n < c {
			if add(m.countIssue(path, CodeTooShort, "length", ir.AnnMinLength, n, c)) {
				return iss
			}
		}
		if c, ok := anns.Count(ir.AnnMaxLength); ok && n > c {
			if add(m.countIssue(path, CodeTooLong, "length", ir.AnnMaxLength, n, c)) {
				return iss
			}
		}
		if anns.Pattern != nil && !anns.Pattern.MatchString(t) {
			an, _ := anns.Get(ir.AnnPattern)
			add(m.patternIssue(path, t, an.Value.Text))
		}
	case []any:
		if c, ok := anns.Count(ir.AnnMinItems); ok && len(t) < c {
			if add(m.countIssue(path, CodeTooShort, "items", ir.AnnMinItems, len(t), c)) {
				return iss
			}
		}
		if c, ok := anns.Count(ir.AnnMaxItems); ok && len(t) > c {
			add(m.countIssue(path, CodeTooLong, "items", ir.AnnMaxItems, len(t), c))
		}
	case map[string]any:
		if c, ok := anns.Count(ir.AnnMinProperties); ok && len(t) < c {
			if add(m.countIssue(path, CodeTooShort, "properties", ir.AnnMinProperties, len(t), c)) {
				return iss
			}
		}
		if c, ok := anns.Count(ir.AnnMaxProperties); ok && len(t) > c {
			add(m.countIssue(path, CodeTooLong, "properties", ir.AnnMaxProperties, len(t), c))
		}
	default:
		f, ok := toFloat(v)
		if !ok {
			return nil
		}
		checks := []struct {
			name string
			code string
			msg  string
			fail func(f, limit float64) bool
		}{
			{ir.AnnMinimum, CodeTooSmall, CodeTooSmall, func(f, l float64) bool { return f < l }},
			{ir.AnnExclusiveMinimum, CodeTooSmall, i18n.KeyTooSmallExclusive, func(f, l float64) bool { return f <= l }},
			{ir.AnnMaximum, CodeTooBig, CodeTooBig, func(f, l float64) bool { return f > l }},
			{ir.AnnExclusiveMaximum, CodeTooBig, i18n.KeyTooBigExclusive, func(f, l float64) bool { return f >= l }},
		}
		for _, c := range checks {
			limit, ok := anns.Number(c.name)
			if !ok || !c.fail(f, limit) {
				continue
			}
			an, _ := anns.Get(c.name)
			got := formatNumber(v, f)
			it := m.issueMsg(path, c.code, c.msg,
				map[string]string{"got": got, "bound": c.name, "limit": an.Value.Raw},
				map[string]any{"got": f, c.name: limit})
			if add(it) {
				return iss
			}
		}
	}
	return iss
}

func (m *matcher) countIssue(path PathRef, code, what, bound string, got, limit int) Issue {
	return m.issue(path, code,
		map[string]string{"what": what, "got": strconv.Itoa(got), "bound": bound, "limit": strconv.Itoa(limit)},
		map[string]any{"got": got, bound: limit})
}

func (m *matcher) patternIssue(path PathRef, s, pattern string) Issue {
	return m.issue(path, CodePattern,
		map[string]string{"got": strconv.Quote(s), "pattern": "/" + pattern + "/"},
		map[string]any{"got": s, "pattern": pattern})
}

// toFloat accepts the numeric representations produced by the JSON and YAML
// sources and by callers handing in Go values.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// isInteger reports whether v is a number without a fractional part.
// json.Number literals are checked on their digits, so values that round to
// a whole float64 (1e-400, 1.0000000000000001) are not integers.
func isInteger(v any) bool {
	f, ok := toFloat(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return false
	}
	if n, ok := v.(json.Number); ok {
		return literalIsInteger(string(n))
	}
	return true
}

// literalIsInteger checks a JSON number literal exactly.
func literalIsInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(strings.TrimPrefix(s[i+1:], "+"))
		if err != nil {
			// exponent out of int range; a finite float rules out a huge positive one
			return strings.Trim(s[:i], "0.") == ""
		}
		exp = e
		s = s[:i]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	digits := strings.TrimRight(intPart+frac, "0")
	if strings.Trim(digits, "0") == "" {
		return true
	}
	// digits after the decimal point once the exponent is applied
	return len(digits)-len(intPart) <= exp
}

func formatNumber(v any, f float64) string {
	if n, ok := v.(json.Number); ok {
		return string(n)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if isInteger(v) {
		return "integer"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return "unknown"
}
