package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	jsonrnc "github.com/reoring/jsonrnc"
	yamlsrc "github.com/reoring/jsonrnc/source/yaml"
)

const stdinName = "-"

// batch validates a list of inputs against one grammar.
type batch struct {
	grammar *jsonrnc.Grammar
	readOpt jsonrnc.ReadOpt
	format  string
	vopt    jsonrnc.ValidateOpt
	stdin   io.Reader
	report  reporter
	logf    func(format string, a ...any)
}

// run validates inputs with up to workers goroutines. Each worker owns a
// Validator; their Stats are merged once all workers are done. Output is
// buffered per input and written in input order.
func (b *batch) run(ctx context.Context, inputs []string, out io.Writer, workers int) (*jsonrnc.Stats, error) {
	if workers > len(inputs) {
		workers = len(inputs)
	}
	bufs := make([]bytes.Buffer, len(inputs))
	next := make(chan int)
	validators := make([]*jsonrnc.Validator, workers)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(next)
		for i := range inputs {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := range validators {
		v := jsonrnc.NewValidator(b.grammar, b.vopt)
		validators[w] = v
		eg.Go(func() error {
			for i := range next {
				if err := b.file(ctx, v, inputs[i], &bufs[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := eg.Wait()

	st := jsonrnc.NewStats()
	for _, v := range validators {
		st.Merge(v.Stats())
	}
	for i := range bufs {
		if _, werr := bufs[i].WriteTo(out); werr != nil && err == nil {
			err = werr
		}
	}
	return st, err
}

// file validates every instance of one input.
func (b *batch) file(ctx context.Context, v *jsonrnc.Validator, name string, w io.Writer) error {
	var r io.Reader = b.stdin
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	src, opt := b.source(name, r)
	b.logf("validate: %s format=%s", displayName(name), formatName(b.format, name))
	return v.ValidateSource(ctx, src, opt, func(res jsonrnc.DocResult) error {
		return b.report.result(w, displayName(name), res)
	})
}

// source picks the decoder and framing from -format, falling back to the
// file extension.
func (b *batch) source(name string, r io.Reader) (jsonrnc.Source, jsonrnc.ReadOpt) {
	opt := b.readOpt
	switch formatName(b.format, name) {
	case "yaml":
		opt.Framing = jsonrnc.FramingStream
		return yamlsrc.NewReader(r), opt
	case "array":
		opt.Framing = jsonrnc.FramingArray
	case "stream":
		opt.Framing = jsonrnc.FramingStream
	default:
		opt.Framing = jsonrnc.FramingAuto
	}
	return jsonrnc.JSONReader(r), opt
}

func formatFor(name string) string {
	if name == stdinName {
		return "stream"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonl", ".ndjson":
		return "stream"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "auto"
}

func formatName(format, name string) string {
	if format == "auto" {
		return formatFor(name)
	}
	return format
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}
