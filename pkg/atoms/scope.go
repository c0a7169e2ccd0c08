package atoms

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAlreadyDefined is returned when a name is bound twice in one scope.
var ErrAlreadyDefined = errors.New("already defined in this scope")

// Scope is a lexical environment. Lookups walk the parent chain; bindings
// are written once per scope. Every scope derived from the same root shares
// one TypeTable.
type Scope struct {
	label    string
	parent   *Scope
	bindings map[string]Atomic
	types    *TypeTable
}

// NewScope creates a root scope using types as the shared type table.
func NewScope(label string, types *TypeTable) *Scope {
	if types == nil {
		types = NewTypeTable()
	}
	return &Scope{label: label, bindings: make(map[string]Atomic), types: types}
}

// Derive creates a child scope sharing the type table.
func (s *Scope) Derive(label string) *Scope {
	return &Scope{label: label, parent: s, bindings: make(map[string]Atomic), types: s.types}
}

// Label names the scope for diagnostics.
func (s *Scope) Label() string { return s.label }

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Types returns the shared type table.
func (s *Scope) Types() *TypeTable { return s.types }

// Get looks up a name, walking parent scopes.
func (s *Scope) Get(name string) (Atomic, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetLocal looks up a name in this scope only.
func (s *Scope) GetLocal(name string) (Atomic, bool) {
	v, ok := s.bindings[name]
	return v, ok
}

// Contains reports whether name is bound here or in a parent scope.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set binds name in this scope. Rebinding a local name fails.
func (s *Scope) Set(name string, v Atomic) error {
	if _, ok := s.bindings[name]; ok {
		return fmt.Errorf("'%s' is %w", name, ErrAlreadyDefined)
	}
	s.bindings[name] = v
	return nil
}

// Names returns the names bound in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
