package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/lexer"
	"github.com/lento-lang/lento/pkg/runtime"
)

const replFileName = "<repl>"

func cmdRepl(args []string) int {
	opts, code := parseOptions(args)
	if code != 0 {
		return code
	}
	log := opts.logger

	rt := opts.newRuntime(replFileName,
		runtime.WithTokenizeListener(func(ts *lexer.TokenStream) {
			log.Debug("tokenized", "tokens", len(ts.Tokens()))
		}),
		runtime.WithParseListener(func(prog *ast.Program) {
			log.Debug("parsed", "expressions", len(prog.Exprs), "program", prog.Pretty(""))
		}),
		runtime.WithEvaluateListener(func(v atoms.Atomic) {
			log.Debug("evaluated", "type", v.Type().String())
		}),
	)
	scope, err := rt.NewGlobalScope()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 5
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if path := opts.cfg.History; path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(path)
			if err != nil {
				log.Warn("cannot save history", "path", path, "err", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	for {
		input, err := ln.Prompt(opts.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			log.Error("reading input", "err", err)
			return 1
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(input)

		// A failed line leaves earlier bindings in scope.
		v, err := rt.EvaluateInput(input, scope)
		if err != nil {
			diag := diagnostics.FromError(err, replFileName, diagnostics.EIO)
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, opts.cfg.Pretty))
			continue
		}
		printResult(os.Stdout, v, opts.json)
	}
}
