// Package stdlib provides the Lento built-in function registry.
package stdlib

import (
	"io"
	"os"

	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/parser"
)

// Fn is one built-in variation: a name, its parameter types and a native
// implementation. Several Fns may share a name.
type Fn struct {
	Name    string
	Params  []*atoms.AtomicType
	Return  *atoms.AtomicType
	Execute atoms.NativeFunc
}

// Registry holds built-in variations in registration order together with
// the parser hints that let them be called without parentheses.
type Registry struct {
	fns   []Fn
	hints []parser.Hint
	out   io.Writer
}

// NewRegistry creates an empty registry writing output to stdout.
func NewRegistry() *Registry {
	return &Registry{out: os.Stdout}
}

// SetOutput redirects the output of print and println.
func (r *Registry) SetOutput(w io.Writer) {
	r.out = w
}

// Output returns the writer print and println write to.
func (r *Registry) Output() io.Writer {
	return r.out
}

// Register adds a built-in variation.
func (r *Registry) Register(fn Fn) {
	r.fns = append(r.fns, fn)
}

// Hint registers a parser hint for a built-in name. A later hint for the
// same name replaces the earlier one.
func (r *Registry) Hint(name string, maxArity int, singleValue bool) {
	h := parser.Hint{Name: name, MaxArity: maxArity, SingleValue: singleValue}
	for i := range r.hints {
		if r.hints[i].Name == name {
			r.hints[i] = h
			return
		}
	}
	r.hints = append(r.hints, h)
}

// Get returns every variation registered under name.
func (r *Registry) Get(name string) []Fn {
	var out []Fn
	for _, fn := range r.fns {
		if fn.Name == name {
			out = append(out, fn)
		}
	}
	return out
}

// All returns every registered variation.
func (r *Registry) All() []Fn {
	return r.fns
}

// Hints returns the parser hints in registration order.
func (r *Registry) Hints() []parser.Hint {
	return r.hints
}

// Builtins converts the registry to the scope registration contract.
func (r *Registry) Builtins() []atoms.Builtin {
	out := make([]atoms.Builtin, len(r.fns))
	for i, fn := range r.fns {
		out[i] = atoms.Builtin{Name: fn.Name, Native: fn.Execute, Return: fn.Return, Params: fn.Params}
	}
	return out
}

// Load binds every registered variation into scope.
func (r *Registry) Load(scope *atoms.Scope) error {
	return atoms.RegisterBuiltins(scope, r.Builtins()...)
}

// Default returns a registry with the default built-ins registered.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// params repeats t n times.
func params(t *atoms.AtomicType, n int) []*atoms.AtomicType {
	out := make([]*atoms.AtomicType, n)
	for i := range out {
		out[i] = t
	}
	return out
}
