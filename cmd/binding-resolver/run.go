package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"binding-resolver/internal/analyze"
	"binding-resolver/internal/catalog"
	"binding-resolver/internal/config"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
	"binding-resolver/internal/report"
	"binding-resolver/internal/resolve"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `binding-resolver resolves an injector hierarchy.

Usage:
  binding-resolver [flags] <command>

Commands:
  resolve   resolve every injector and write the binding report (YAML)
  check     resolve every injector and print a summary and the diagnostics
  explain   print how -key is provided to -injector

Flags:
`

var errUsage = errors.New("usage")

type options struct {
	configPath     string
	out            string
	logLevel       string
	strictOptional bool
	noCycles       bool
	injector       string
	key            string
}

func parseFlags(args []string, stderr io.Writer) (*options, string, error) {
	opts := &options{}

	fs := flag.NewFlagSet("binding-resolver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "injectors.yaml", "injector hierarchy file")
	fs.StringVar(&opts.out, "out", "", "write the report to this file instead of stdout")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	fs.BoolVar(&opts.strictOptional, "strict-optional", false, "report unresolvable optional keys as errors")
	fs.BoolVar(&opts.noCycles, "no-cycles", false, "skip the eager cycle check")
	fs.StringVar(&opts.injector, "injector", "", "injector name for explain (default: the root)")
	fs.StringVar(&opts.key, "key", "", `key for explain, "Type" or "@qualifier Type"`)

	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", errUsage
	}

	return opts, fs.Arg(0), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, cmd, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	level, err := diagnostic.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, "binding-resolver:", err)
		return exitUsage
	}

	log := diagnostic.NewLogger(level)
	defer func() { _ = log.Zap().Sync() }()

	switch cmd {
	case "resolve":
		err = cmdResolve(opts, log, stdout)
	case "check":
		err = cmdCheck(opts, log, stdout)
	case "explain":
		err = cmdExplain(opts, log, stdout)
	default:
		fmt.Fprintf(stderr, "binding-resolver: unknown command %q\n", cmd)
		return exitUsage
	}

	if err != nil {
		fmt.Fprintln(stderr, "binding-resolver:", err)
		return exitFailure
	}

	return exitOK
}

// session is one pass of the pipeline over a config file.
type session struct {
	tree   *inject.Tree
	result *resolve.TreeResult
	// err is the resolution error; the tree and result are still usable.
	err error
}

// load runs the pipeline: parse and validate the config, collect
// constructors, build the injector tree and resolve it.
func load(opts *options, log *diagnostic.Logger) (*session, error) {
	f, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	checks := config.Validate(f)
	if checks.HasErrors() {
		return nil, checks.Error()
	}

	c := catalog.New(log)

	if len(f.Packages) > 0 {
		found, err := analyze.NewAnalyzer(log).LoadPackages(f.Packages...)
		if err != nil {
			return nil, err
		}

		for _, s := range found.Skipped {
			log.Debugf("Skipped %s at %s: %s", s.Name, s.Pos, s.Reason)
		}

		if err := found.AddTo(c); err != nil {
			return nil, err
		}
	}

	if err := c.AddAll(f.CatalogConstructors()...); err != nil {
		return nil, err
	}

	log.Infof("Catalog holds constructors for %d key(s)", c.Len())

	tree, err := config.Build(f, log)
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewResolver(c,
		resolve.WithLogger(log),
		resolve.WithConfig(resolve.Config{
			DetectCycles:   !opts.noCycles,
			StrictOptional: opts.strictOptional,
		}),
	)

	result, err := resolver.ResolveTree(tree)
	result.Diagnostics.Merge(*checks)

	return &session{tree: tree, result: result, err: err}, nil
}

func cmdResolve(opts *options, log *diagnostic.Logger, stdout io.Writer) error {
	s, err := load(opts, log)
	if err != nil {
		return err
	}

	data, err := report.ExportYAML(s.tree, s.result)
	if err != nil {
		return err
	}

	if opts.out == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else if err := report.WriteFile(opts.out, data); err != nil {
		return err
	}

	return s.err
}

func cmdCheck(opts *options, log *diagnostic.Logger, stdout io.Writer) error {
	s, err := load(opts, log)
	if err != nil {
		return err
	}

	rep, err := report.Export(s.tree, s.result)
	if err != nil {
		return err
	}

	printSummary(stdout, rep)

	for _, d := range s.result.Diagnostics.All() {
		fmt.Fprintln(stdout, d.String())
	}

	if s.err != nil {
		return fmt.Errorf("%d error(s) found", len(s.result.Diagnostics.Errors))
	}

	return nil
}

func cmdExplain(opts *options, log *diagnostic.Logger, stdout io.Writer) error {
	if opts.key == "" {
		return errors.New("explain needs -key")
	}

	key, err := config.ParseKey(opts.key)
	if err != nil {
		return err
	}

	s, err := load(opts, log)
	if err != nil {
		return err
	}

	if s.err != nil {
		return s.err
	}

	scope := s.tree.Root()
	if opts.injector != "" {
		var ok bool
		if scope, ok = s.tree.Find(opts.injector); !ok {
			return fmt.Errorf("no injector named %q", opts.injector)
		}
	}

	hops, err := report.Explain(scope, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s in %s:\n", key, scope)

	for i, h := range hops {
		fmt.Fprintf(stdout, "  %d. %s\n", i+1, h)
	}

	return nil
}

func printSummary(w io.Writer, rep *report.Report) {
	width := runewidth.StringWidth("INJECTOR")
	for _, in := range rep.Injectors {
		width = max(width, runewidth.StringWidth(in.Name))
	}

	fmt.Fprintf(w, "%s  BINDINGS  MOVES  STATUS\n", runewidth.FillRight("INJECTOR", width))

	for _, in := range rep.Injectors {
		status := "ok"
		if in.Failed {
			status = "failed"
		}

		fmt.Fprintf(w, "%s  %8d  %5d  %s\n", runewidth.FillRight(in.Name, width), len(in.Bindings), len(in.Moves), status)
	}
}
