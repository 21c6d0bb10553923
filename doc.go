// Package jsonrnc compiles a compact, RELAX NG inspired schema notation for
// JSON documents and validates decoded JSON values against it.
//
//   - Compile turns schema text into an immutable Grammar, reporting the first
//     problem as a typed CompileError (line and column included).
//   - ValidateDocument matches one value and records the outcome in Stats.
//   - Failures are Issues (JSON Pointer, code, message), like any other error.
//   - DocumentReader and Validator.ValidateSource stream instances out of a
//     Source with duplicate-key/depth/size enforcement.
//
// Typical usage:
//
//	g, err := jsonrnc.Compile(`start = { title: string, pages: integer @(minimum = 1) }`)
//	st := jsonrnc.NewStats()
//	res := jsonrnc.ValidateDocument(ctx, g, doc, st)
//	if !res.OK {
//		fmt.Println(res.Issues)
//	}
package jsonrnc
