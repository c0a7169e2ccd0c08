package atoms

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// TypeTable caches the types of names and function signatures for a whole
// evaluation run. Keys are either a plain name or a signature key built by
// SignatureKey. Entries keep insertion order.
type TypeTable struct {
	entries *linkedhashmap.Map
}

// NewTypeTable creates an empty table.
func NewTypeTable() *TypeTable {
	return &TypeTable{entries: linkedhashmap.New()}
}

// SignatureKey returns the table key of a function signature,
// name:type,type.
func SignatureKey(name string, params []*AtomicType) string {
	names := make([]string, len(params))
	for i, t := range params {
		names[i] = t.String()
	}
	return name + ":" + strings.Join(names, ",")
}

// signatureName returns the function name of a signature key.
func signatureName(key string) (string, bool) {
	before, _, found := strings.Cut(key, ":")
	return before, found
}

// Set records the type of key, replacing any previous entry.
func (t *TypeTable) Set(key string, typ *AtomicType) {
	t.entries.Put(key, typ)
}

// Get returns the type recorded for key.
func (t *TypeTable) Get(key string) (*AtomicType, bool) {
	v, ok := t.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*AtomicType), true
}

// Contains reports whether key has an entry.
func (t *TypeTable) Contains(key string) bool {
	_, ok := t.entries.Get(key)
	return ok
}

// Len returns the number of entries.
func (t *TypeTable) Len() int { return t.entries.Size() }

// Keys returns every key in insertion order.
func (t *TypeTable) Keys() []string {
	keys := t.entries.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// FindByName returns the return types of every signature of name, in
// insertion order. Plain name entries are not included.
func (t *TypeTable) FindByName(name string) []*AtomicType {
	var out []*AtomicType
	it := t.entries.Iterator()
	for it.Next() {
		if fn, ok := signatureName(it.Key().(string)); ok && fn == name {
			out = append(out, it.Value().(*AtomicType))
		}
	}
	return out
}

// Approximate estimates the return type of a call to name from every
// signature of name: no match is Unknown, one distinct type is that type,
// several form a sum.
func (t *TypeTable) Approximate(name string) *AtomicType {
	matches := t.FindByName(name)
	if len(matches) == 0 {
		return UnknownType
	}
	return NewSumType(matches...)
}

// Clone returns an independent copy of the table.
func (t *TypeTable) Clone() *TypeTable {
	c := NewTypeTable()
	it := t.entries.Iterator()
	for it.Next() {
		c.entries.Put(it.Key(), it.Value())
	}
	return c
}

// Merge copies every entry of other into t, overwriting existing keys.
func (t *TypeTable) Merge(other *TypeTable) {
	it := other.entries.Iterator()
	for it.Next() {
		t.entries.Put(it.Key(), it.Value())
	}
}
