// Package formatter implements the Lento source code formatter.
package formatter

import (
	"strings"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/parser"
)

// Format pretty-prints a Lento AST back to source code, one top-level
// expression per line. Consecutive declarations of the same function stay
// together; a blank line separates them from the surrounding expressions.
func Format(program *ast.Program) string {
	if len(program.Exprs) == 0 {
		return ""
	}
	var lines []string
	prev := ""
	for i, e := range program.Exprs {
		group := groupOf(e)
		if i > 0 && group != prev && (isFunction(e) || isFunction(program.Exprs[i-1])) {
			lines = append(lines, "")
		}
		lines = append(lines, e.Pretty(""))
		prev = group
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatSource parses src and formats it. Hints let built-ins called
// without parentheses parse; the output always uses parentheses.
func FormatSource(src, filename string, hints ...parser.Hint) (string, error) {
	prog, err := parser.ParseString(src, filename, hints...)
	if err != nil {
		return "", err
	}
	return Format(prog), nil
}

// groupOf names the declaration group of e: the function name for named
// function declarations, empty for everything else.
func groupOf(e ast.Expr) string {
	if fn, ok := e.(*ast.FuncDecl); ok && !fn.Anonymous() {
		return fn.Name
	}
	return ""
}

func isFunction(e ast.Expr) bool {
	return groupOf(e) != ""
}
