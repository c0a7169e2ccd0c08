// Package runtime provides the top-level Lento pipeline: tokenizing,
// parsing, type checking and evaluation against a persistent scope.
package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/evaluator"
	"github.com/lento-lang/lento/pkg/formatter"
	"github.com/lento-lang/lento/pkg/lexer"
	"github.com/lento-lang/lento/pkg/parser"
	"github.com/lento-lang/lento/pkg/stdlib"
	"github.com/lento-lang/lento/pkg/typechecker"
)

// DefaultFileName names input that does not come from a file.
const DefaultFileName = "<stdin>"

// TokenizeListener observes the token stream once tokenizing completes.
type TokenizeListener func(ts *lexer.TokenStream)

// ParseListener observes the parsed program.
type ParseListener func(prog *ast.Program)

// EvaluateListener observes the result of evaluating one input.
type EvaluateListener func(result atoms.Atomic)

// Runtime wires together all Lento components for program execution.
// Listeners run synchronously in registration order on the goroutine
// calling the Runtime.
type Runtime struct {
	registry   *stdlib.Registry
	hints      []parser.Hint
	encoding   string
	fileName   string
	typeCheck  bool
	onTokenize []TokenizeListener
	onParse    []ParseListener
	onEvaluate []EvaluateListener
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithRegistry sets the built-in registry loaded into new global scopes.
func WithRegistry(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.registry = r
	}
}

// WithHints adds parser hints on top of the registry's.
func WithHints(hints ...parser.Hint) Option {
	return func(rt *Runtime) {
		rt.hints = append(rt.hints, hints...)
	}
}

// WithEncoding sets the text encoding of input streams.
func WithEncoding(name string) Option {
	return func(rt *Runtime) {
		rt.encoding = name
	}
}

// WithFileName sets the file name reported in token spans.
func WithFileName(name string) Option {
	return func(rt *Runtime) {
		rt.fileName = name
	}
}

// WithTypeCheck enables or disables the static pass before evaluation.
func WithTypeCheck(enabled bool) Option {
	return func(rt *Runtime) {
		rt.typeCheck = enabled
	}
}

// WithTokenizeListener subscribes fn to tokenize-complete events.
func WithTokenizeListener(fn TokenizeListener) Option {
	return func(rt *Runtime) {
		rt.onTokenize = append(rt.onTokenize, fn)
	}
}

// WithParseListener subscribes fn to parse-complete events.
func WithParseListener(fn ParseListener) Option {
	return func(rt *Runtime) {
		rt.onParse = append(rt.onParse, fn)
	}
}

// WithEvaluateListener subscribes fn to evaluate-complete events.
func WithEvaluateListener(fn EvaluateListener) Option {
	return func(rt *Runtime) {
		rt.onEvaluate = append(rt.onEvaluate, fn)
	}
}

// New creates a new Runtime with the given options.
// By default the standard built-ins are registered, input is UTF-8 and the
// type checker runs before evaluation.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		registry:  stdlib.Default(),
		encoding:  lexer.DefaultEncoding,
		fileName:  DefaultFileName,
		typeCheck: true,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Hints returns every parser hint in effect: the registry's, then those
// added with WithHints.
func (rt *Runtime) Hints() []parser.Hint {
	return append(append([]parser.Hint(nil), rt.registry.Hints()...), rt.hints...)
}

// NewGlobalScope creates a global scope with the primitive types and the
// registry's built-ins bound.
func (rt *Runtime) NewGlobalScope() (*atoms.Scope, error) {
	scope := atoms.NewGlobalScope()
	if err := rt.registry.Load(scope); err != nil {
		return nil, fmt.Errorf("loading built-ins: %w", err)
	}
	return scope, nil
}

// EvaluateFile evaluates a whole input stream in a fresh global scope.
func (rt *Runtime) EvaluateFile(r io.Reader) (atoms.Atomic, error) {
	scope, err := rt.NewGlobalScope()
	if err != nil {
		return nil, err
	}
	return rt.EvaluateReader(r, scope)
}

// EvaluateInput evaluates one input string against a persistent scope.
// Bindings made before a failure remain in scope.
func (rt *Runtime) EvaluateInput(input string, scope *atoms.Scope) (atoms.Atomic, error) {
	return rt.EvaluateReader(strings.NewReader(input), scope)
}

// EvaluateReader runs the full pipeline over r against scope and returns
// the value of the last top-level expression.
func (rt *Runtime) EvaluateReader(r io.Reader, scope *atoms.Scope) (atoms.Atomic, error) {
	prog, err := rt.Parse(r)
	if err != nil {
		return nil, err
	}
	if rt.typeCheck {
		if _, err := typechecker.Check(prog, scope); err != nil {
			return nil, err
		}
	}
	result, err := evaluator.Evaluate(prog, scope)
	if err != nil {
		return nil, err
	}
	for _, fn := range rt.onEvaluate {
		fn(result)
	}
	return result, nil
}

// Parse tokenizes and parses r. The tokenizer feeds the parser through a
// token stream while it is still producing.
func (rt *Runtime) Parse(r io.Reader) (*ast.Program, error) {
	decoded, err := lexer.NewReader(r, rt.encoding)
	if err != nil {
		return nil, err
	}
	ts := lexer.NewTokenStream()
	produced := make(chan error, 1)
	go func() {
		produced <- lexer.NewTokenizer(decoded, rt.fileName).Produce(ts)
	}()

	prog, parseErr := parser.New(rt.Hints()...).Parse(ts)
	if err := <-produced; err != nil {
		return nil, err
	}
	for _, fn := range rt.onTokenize {
		fn(ts)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	for _, fn := range rt.onParse {
		fn(prog)
	}
	return prog, nil
}

// Check tokenizes, parses and type-checks r without evaluating it,
// reporting every failing top-level expression.
func (rt *Runtime) Check(r io.Reader) []diagnostics.Diagnostic {
	prog, err := rt.Parse(r)
	if err != nil {
		return []diagnostics.Diagnostic{diagnostics.FromError(err, rt.fileName, diagnostics.EIO)}
	}
	scope, err := rt.NewGlobalScope()
	if err != nil {
		return []diagnostics.Diagnostic{diagnostics.FromError(err, rt.fileName, diagnostics.EConfig)}
	}
	return typechecker.New(scope).Validate(prog, rt.fileName)
}

// Format parses r and pretty-prints it.
func (rt *Runtime) Format(r io.Reader) (string, error) {
	prog, err := rt.Parse(r)
	if err != nil {
		return "", err
	}
	return formatter.Format(prog), nil
}

// Tokens returns every token of r, comments included.
func (rt *Runtime) Tokens(r io.Reader) ([]lexer.Token, error) {
	decoded, err := lexer.NewReader(r, rt.encoding)
	if err != nil {
		return nil, err
	}
	ts, err := lexer.Tokenize(decoded, rt.fileName)
	if err != nil {
		return nil, err
	}
	return ts.Tokens(), nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
