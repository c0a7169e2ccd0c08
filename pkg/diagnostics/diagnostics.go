// Package diagnostics defines Lento error kinds and diagnostic formatting.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lento-lang/lento/pkg/source"
)

// Diagnostic code constants.
const (
	ESyntax   = "E_SYNTAX"
	EParse    = "E_PARSE"
	EType     = "E_TYPE"
	ERuntime  = "E_RUNTIME"
	EInternal = "E_INTERNAL"
	EIO       = "E_IO"
	EConfig   = "E_CONFIG"
)

// Kind classifies an Error by the pipeline stage that raised it.
type Kind int

const (
	// Syntax errors come from the tokenizer.
	Syntax Kind = iota
	// Parse errors come from the parser.
	Parse
	// Type errors come from the static type pass.
	Type
	// Runtime errors come from evaluation.
	Runtime
	// Internal marks an unimplemented or unreachable case.
	Internal
)

var kindNames = [...]string{
	Syntax:   "Syntax",
	Parse:    "Parse",
	Type:     "Type",
	Runtime:  "Runtime",
	Internal: "Internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the diagnostic code used when reporting errors of this kind.
func (k Kind) Code() string {
	switch k {
	case Syntax:
		return ESyntax
	case Parse:
		return EParse
	case Type:
		return EType
	case Runtime:
		return ERuntime
	default:
		return EInternal
	}
}

// Error is a positioned failure raised by the tokenizer, parser, type
// checker or evaluator. It is never recovered inside the core.
type Error struct {
	Kind    Kind
	Pos     source.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at line %d column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// Newf creates an Error of the given kind.
func Newf(kind Kind, pos source.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// SyntaxError creates a tokenizer error.
func SyntaxError(pos source.Position, format string, args ...any) *Error {
	return Newf(Syntax, pos, format, args...)
}

// ParseError creates a parser error.
func ParseError(pos source.Position, format string, args ...any) *Error {
	return Newf(Parse, pos, format, args...)
}

// TypeError creates a static type error.
func TypeError(pos source.Position, format string, args ...any) *Error {
	return Newf(Type, pos, format, args...)
}

// RuntimeError creates an evaluation error.
func RuntimeError(pos source.Position, format string, args ...any) *Error {
	return Newf(Runtime, pos, format, args...)
}

// InternalError creates an internal-consistency error.
func InternalError(pos source.Position, format string, args ...any) *Error {
	return Newf(Internal, pos, format, args...)
}

// IsKind reports whether err is, or wraps, an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Diagnostic is the serializable form of an error, consumed by the CLI.
type Diagnostic struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Span    *source.Span `json:"span,omitempty"`
	Hint    string       `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *source.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FromError converts any error into a Diagnostic. Errors that are not an
// *Error are reported with fallbackCode and no span.
func FromError(err error, file, fallbackCode string) Diagnostic {
	var e *Error
	if !errors.As(err, &e) {
		return MakeDiag(fallbackCode, err.Error(), nil, "")
	}
	span := &source.Span{File: file, Start: e.Pos, End: e.Pos}
	return MakeDiag(e.Kind.Code(), e.Error(), span, "")
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = d.Span.String()
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
