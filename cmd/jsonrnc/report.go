package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	jsonrnc "github.com/reoring/jsonrnc"
)

type reporter interface {
	result(w io.Writer, file string, res jsonrnc.DocResult) error
	stats(w io.Writer, st *jsonrnc.Stats) error
}

// textReporter prints one line per instance and one per issue.
type textReporter struct{}

func (textReporter) result(w io.Writer, file string, res jsonrnc.DocResult) error {
	for _, it := range res.Warnings {
		if _, err := fmt.Fprintf(w, "%s#%d: warning: %s: %s\n", file, res.Index, it.Path, it.Message); err != nil {
			return err
		}
	}
	if res.OK {
		_, err := fmt.Fprintf(w, "%s#%d: ok\n", file, res.Index)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s#%d: invalid\n", file, res.Index); err != nil {
		return err
	}
	for _, it := range res.Issues {
		line := fmt.Sprintf("  %s: %s (%s)", it.Path, it.Message, it.Code)
		if it.Definition != "" {
			line += " in " + it.Definition
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (textReporter) stats(w io.Writer, st *jsonrnc.Stats) error {
	if _, err := fmt.Fprintf(w, "documents: %d\npassed: %d\nfailed: %d\n", st.Documents, st.Passed, st.Failed); err != nil {
		return err
	}
	names := st.Definitions()
	if len(names) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "hits:"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", name, st.Hits[name]); err != nil {
			return err
		}
	}
	return nil
}

// jsonReporter prints JSON lines with go-json.
type jsonReporter struct{}

type jsonIssue struct {
	Path       string `json:"path"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Definition string `json:"definition,omitempty"`
}

type jsonResult struct {
	File     string      `json:"file"`
	Index    int         `json:"index"`
	OK       bool        `json:"ok"`
	Issues   []jsonIssue `json:"issues,omitempty"`
	Warnings []jsonIssue `json:"warnings,omitempty"`
}

type jsonStats struct {
	Documents int            `json:"documents"`
	Passed    int            `json:"passed"`
	Failed    int            `json:"failed"`
	Hits      map[string]int `json:"hits,omitempty"`
}

func toJSONIssues(iss jsonrnc.Issues) []jsonIssue {
	if len(iss) == 0 {
		return nil
	}
	out := make([]jsonIssue, len(iss))
	for i, it := range iss {
		out[i] = jsonIssue{Path: it.Path, Code: it.Code, Message: it.Message, Definition: it.Definition}
	}
	return out
}

func (jsonReporter) result(w io.Writer, file string, res jsonrnc.DocResult) error {
	return json.NewEncoder(w).Encode(jsonResult{
		File:     file,
		Index:    res.Index,
		OK:       res.OK,
		Issues:   toJSONIssues(res.Issues),
		Warnings: toJSONIssues(res.Warnings),
	})
}

func (jsonReporter) stats(w io.Writer, st *jsonrnc.Stats) error {
	return json.NewEncoder(w).Encode(jsonStats{
		Documents: st.Documents,
		Passed:    st.Passed,
		Failed:    st.Failed,
		Hits:      st.Hits,
	})
}
