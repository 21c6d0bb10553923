package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	jsonrnc "github.com/reoring/jsonrnc"
	"github.com/reoring/jsonrnc/i18n"
	"github.com/reoring/jsonrnc/source/gojson"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdout, stderr)
	case "validate":
		return validateCmd(ctx, args[1:], stdin, stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "jsonrnc CLI\n\nUsage:\n  jsonrnc check SCHEMA...\n  jsonrnc validate [flags] SCHEMA [DOCUMENT...]\n\nNotes:\n  - Documents are read from stdin when none are given.\n  - .json files holding a top-level array are lists of instances; .jsonl/.ndjson are streams; .yaml/.yml are multi-document.\n  - Exit status: 0 all passed, 1 some failed, 2 usage or compile error.")
}

// checkCmd compiles each schema and reports the first error of each.
func checkCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose bool
	fs.BoolVar(&verbose, "v", false, "list the definitions of each schema")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	code := exitOK
	for _, path := range fs.Args() {
		g, err := jsonrnc.CompileFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			code = exitUsage
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", path)
		if verbose {
			for _, name := range g.Definitions() {
				fmt.Fprintf(stdout, "  %s\n", name)
			}
		}
	}
	return code
}

// options holds the validate flags after config merging.
type options struct {
	config   string
	stats    bool
	workers  int
	format   string
	lang     string
	failFast bool
	maxDepth int
	maxBytes int64
	dup      string
	driver   string
	json     bool
	verbose  bool
}

func validateCmd(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.config, "config", "", "YAML file with default settings")
	fs.BoolVar(&o.stats, "stats", false, "print document counts and per-definition hits")
	fs.IntVar(&o.workers, "workers", 1, "number of files validated in parallel")
	fs.StringVar(&o.format, "format", "auto", "document framing: auto|array|stream|yaml")
	fs.StringVar(&o.lang, "lang", "en", "message language: en|ja")
	fs.BoolVar(&o.failFast, "fail-fast", false, "report only the first issue of each document")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.Int64Var(&o.maxBytes, "max-bytes", 0, "maximum input bytes per file (0 = unlimited)")
	fs.StringVar(&o.dup, "dup", "ignore", "duplicate keys: ignore|warn|error")
	fs.StringVar(&o.driver, "driver", "go-json", "JSON driver: go-json|encoding/json")
	fs.BoolVar(&o.json, "json", false, "print results as JSON lines")
	fs.BoolVar(&o.verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if o.config != "" {
		cfg, err := loadConfig(ctx, o.config)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		cfg.apply(&o, explicit)
	}

	logf := func(format string, a ...any) {
		if o.verbose {
			fmt.Fprintf(stderr, format+"\n", a...)
		}
	}

	readOpt, err := o.readOpt()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	switch o.driver {
	case "go-json":
		jsonrnc.SetJSONDriver(gojson.Driver())
	case "encoding/json":
		jsonrnc.UseDefaultJSONDriver()
	default:
		fmt.Fprintf(stderr, "unknown driver %q\n", o.driver)
		return exitUsage
	}
	i18n.SetLanguage(o.lang)

	schemaPath := fs.Arg(0)
	g, err := jsonrnc.CompileFile(schemaPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logf("validate: schema=%s definitions=%d driver=%s workers=%d", schemaPath, len(g.Definitions()), jsonrnc.JSONDriverName(), o.workers)

	inputs := fs.Args()[1:]
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}
	job := &batch{
		grammar: g,
		readOpt: readOpt,
		format:  o.format,
		vopt:    jsonrnc.ValidateOpt{FailFast: o.failFast},
		stdin:   stdin,
		report:  textReporter{},
		logf:    logf,
	}
	if o.json {
		job.report = jsonReporter{}
	}
	st, err := job.run(ctx, inputs, stdout, o.workers)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, context.Canceled) {
			return exitInvalid
		}
		return exitUsage
	}
	if o.stats {
		if err := job.report.stats(stdout, st); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}
	logf("validate: documents=%d passed=%d failed=%d", st.Documents, st.Passed, st.Failed)
	if !st.AllPassed() {
		return exitInvalid
	}
	return exitOK
}

func (o options) readOpt() (jsonrnc.ReadOpt, error) {
	opt := jsonrnc.ReadOpt{MaxDepth: o.maxDepth, MaxBytes: o.maxBytes}
	switch o.dup {
	case "ignore":
		opt.Strictness.OnDuplicateKey = jsonrnc.Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = jsonrnc.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = jsonrnc.Error
	default:
		return opt, fmt.Errorf("unknown -dup value %q", o.dup)
	}
	switch o.format {
	case "auto", "array", "stream", "yaml":
	default:
		return opt, fmt.Errorf("unknown -format value %q", o.format)
	}
	if o.workers < 1 {
		return opt, fmt.Errorf("-workers must be at least 1")
	}
	return opt, nil
}
