package main

import (
	"fmt"
	"io"
	"os"

	"fortio.org/log"
	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/numbaa/learn-plt/pkg/compiler/ast"
	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/config"
	"github.com/numbaa/learn-plt/pkg/pipeline"
	"github.com/numbaa/learn-plt/pkg/source"
)

const version = "0.3.0"

const usageLine = "usage: freestyle [-hVvta] [-c config] <source_file> | freestyle [-v] [-c config] -i"

const helpText = `
  -h          show this help
  -V          print the version
  -v          verbose logging
  -t          print the token stream instead of running
  -a          print the syntax tree instead of running
  -i          interactive session
  -c config   YAML configuration file
`

type cliOptions struct {
	configPath string
	verbose    bool
	tokens     bool
	tree       bool
	repl       bool
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line in argv (argv[0] is the program name) and
// returns the process exit status.
func run(argv []string, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(argv, "hVvtaic:")
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stdout, usageLine)
		return 0
	}

	var cli cliOptions
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			fmt.Fprint(stdout, usageLine+"\n"+helpText)
			return 0
		case 'V':
			fmt.Fprintln(stdout, "freestyle", version)
			return 0
		case 'v':
			cli.verbose = true
		case 't':
			cli.tokens = true
		case 'a':
			cli.tree = true
		case 'i':
			cli.repl = true
		case 'c':
			cli.configPath = opt.Value
		}
	}
	args := argv[optind:]

	cfg := config.Default()
	applyConfig(cfg, cli.verbose)
	if cli.configPath != "" {
		if cfg, err = config.Load(cli.configPath); err != nil {
			reportError(stderr, err)
			return 1
		}
		applyConfig(cfg, cli.verbose)
	}

	popts := pipeline.Options{Keywords: cfg.KeywordTable(), Eval: cfg.EvalOptions()}
	if cli.repl {
		if len(args) != 0 {
			fmt.Fprintln(stdout, usageLine)
			return 0
		}
		return runREPL(popts, stdout, stderr)
	}
	if len(args) != 1 {
		fmt.Fprintln(stdout, usageLine)
		return 0
	}

	src, err := source.NewLoader("", cfg.MaxSourceBytes).Load(args[0])
	if err != nil {
		reportError(stderr, err)
		return 1
	}

	switch {
	case cli.tokens:
		err = dumpTokens(stdout, src, popts.Keywords)
	case cli.tree:
		err = dumpTree(stdout, src, popts.Keywords)
	default:
		log.LogVf("running %s (%d bytes)", args[0], len(src))
		err = pipeline.Run(src, stdout, popts)
	}
	if err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

func applyConfig(cfg *config.Config, verbose bool) {
	lvl := cfg.Level()
	if verbose {
		lvl = log.Verbose
	}
	log.SetLogLevel(lvl)

	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
}

var errColor = color.New(color.FgRed)

func reportError(w io.Writer, err error) {
	errColor.Fprintln(w, err)
}

func dumpTokens(w io.Writer, src []byte, kw lexer.KeywordTable) error {
	toks, err := pipeline.Tokens(src, kw)
	for _, tok := range toks {
		fmt.Fprintln(w, tok)
	}
	return err
}

func dumpTree(w io.Writer, src []byte, kw lexer.KeywordTable) error {
	root, err := pipeline.Parse(src, kw)
	if err != nil {
		return err
	}
	return ast.Dump(w, root)
}
