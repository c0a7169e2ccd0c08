// Command lento is the Lento command line front end.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/config"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/runtime"
)

const usage = `usage: lento <command> [options]
commands: run, check, fmt, tokens, repl
options: --config <path> --pretty --json --verbose --no-typecheck`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "tokens":
		os.Exit(cmdTokens(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "help", "--help", "-h":
		fmt.Println(usage)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(1)
	}
}

// options are the flags shared by every command, layered over lento.yaml.
type options struct {
	file   string
	json   bool
	write  bool
	cfg    *config.Config
	logger *slog.Logger
}

func parseOptions(args []string) (*options, int) {
	opts := &options{}
	configPath := ""
	var pretty, verbose, noTypeCheck bool

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				i++
				configPath = args[i]
			}
		case "--pretty":
			pretty = true
		case "--json":
			opts.json = true
		case "--verbose", "-v":
			verbose = true
		case "--no-typecheck":
			noTypeCheck = true
		case "--write":
			opts.write = true
		case "-":
			opts.file = "-"
		default:
			if !strings.HasPrefix(args[i], "-") {
				opts.file = args[i]
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, true))
		return nil, 1
	}
	if pretty {
		cfg.Pretty = true
	}
	if opts.json {
		cfg.Pretty = false
	}
	if verbose {
		cfg.Verbose = true
	}
	if noTypeCheck {
		cfg.TypeCheck = false
	}
	opts.cfg = cfg
	opts.logger = newLogger(cfg.Verbose)
	return opts, 0
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newRuntime builds a runtime from the settings; extra options come last.
func (o *options) newRuntime(fileName string, extra ...runtime.Option) *runtime.Runtime {
	base := []runtime.Option{
		runtime.WithEncoding(o.cfg.Encoding),
		runtime.WithFileName(fileName),
		runtime.WithTypeCheck(o.cfg.TypeCheck),
	}
	return runtime.New(append(base, extra...)...)
}

func cmdRun(args []string) int {
	opts, code := parseOptions(args)
	if code != 0 {
		return code
	}
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "usage: lento run <file> [--json] [--pretty] [--no-typecheck]")
		return 1
	}

	in, name, code := openSource(opts.file, opts.cfg.Pretty)
	if code != 0 {
		return code
	}
	defer in.Close()

	rt := opts.newRuntime(name)
	opts.logger.Debug("running", "file", name, "encoding", opts.cfg.Encoding, "typecheck", opts.cfg.TypeCheck)
	result, err := rt.EvaluateFile(in)
	if err != nil {
		return report(err, name, opts.cfg.Pretty)
	}
	printResult(os.Stdout, result, opts.json)
	return 0
}

func cmdCheck(args []string) int {
	opts, code := parseOptions(args)
	if code != 0 {
		return code
	}
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "usage: lento check <file> [--pretty]")
		return 1
	}

	in, name, code := openSource(opts.file, opts.cfg.Pretty)
	if code != 0 {
		return code
	}
	defer in.Close()

	diags := opts.newRuntime(name).Check(in)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, opts.cfg.Pretty))
		return exitCodeForDiag(diags[0].Code)
	}

	if opts.cfg.Pretty {
		fmt.Println("No errors found.")
	} else {
		fmt.Println("[]")
	}
	return 0
}

func cmdFmt(args []string) int {
	opts, code := parseOptions(args)
	if code != 0 {
		return code
	}
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "usage: lento fmt <file> [--write]")
		return 1
	}
	if opts.write && opts.file == "-" {
		fmt.Fprintln(os.Stderr, "error: --write needs a file")
		return 1
	}

	in, name, code := openSource(opts.file, opts.cfg.Pretty)
	if code != 0 {
		return code
	}
	formatted, err := opts.newRuntime(name).Format(in)
	in.Close()
	if err != nil {
		return report(err, name, opts.cfg.Pretty)
	}

	if opts.write {
		if err := os.WriteFile(opts.file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
			return 1
		}
		opts.logger.Debug("formatted", "file", opts.file)
		return 0
	}
	fmt.Print(formatted)
	return 0
}

type tokenJSON struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Line  int    `json:"line"`
	Col   int    `json:"column"`
}

func cmdTokens(args []string) int {
	opts, code := parseOptions(args)
	if code != 0 {
		return code
	}
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "usage: lento tokens <file> [--json]")
		return 1
	}

	in, name, code := openSource(opts.file, opts.cfg.Pretty)
	if code != 0 {
		return code
	}
	defer in.Close()

	toks, err := opts.newRuntime(name).Tokens(in)
	if err != nil {
		return report(err, name, opts.cfg.Pretty)
	}
	if opts.json {
		out := make([]tokenJSON, len(toks))
		for i, tok := range toks {
			out[i] = tokenJSON{Type: tok.Type.String(), Value: tok.Value, Line: tok.Span.Start.Line, Col: tok.Span.Start.Column}
		}
		b, _ := json.Marshal(out)
		fmt.Println(string(b))
		return 0
	}
	for _, tok := range toks {
		fmt.Printf("%s\t%s\t%q\n", tok.Span.Start, tok.Type, tok.Value)
	}
	return 0
}

// openSource opens file for reading, or stdin for "-". The reader is not
// decoded here: the runtime applies the configured encoding.
func openSource(file string, pretty bool) (io.ReadCloser, string, int) {
	if file == "-" {
		return io.NopCloser(os.Stdin), runtime.DefaultFileName, 0
	}
	f, err := os.Open(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, pretty))
		return nil, "", 1
	}
	return f, file, 0
}

func printResult(w io.Writer, v atoms.Atomic, asJSON bool) {
	if asJSON {
		fmt.Fprintln(w, atoms.ToJSONString(v))
		return
	}
	if _, unit := v.(atoms.Unit); unit {
		return
	}
	fmt.Fprintln(w, v.String())
}

// report prints err as a diagnostic and returns the matching exit code.
func report(err error, file string, pretty bool) int {
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, pretty))
		return exitCodeForDiag(diagErr.Diagnostics[0].Code)
	}
	diag := diagnostics.FromError(err, file, diagnostics.EIO)
	fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, pretty))
	return exitCodeForDiag(diag.Code)
}

func exitCodeForDiag(code string) int {
	switch code {
	case diagnostics.ESyntax, diagnostics.EParse, diagnostics.EType:
		return 2
	case diagnostics.ERuntime:
		return 4
	case diagnostics.EInternal:
		return 5
	default:
		return 1
	}
}
