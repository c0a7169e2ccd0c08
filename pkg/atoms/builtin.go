package atoms

import (
	"fmt"
	"strings"
)

// Builtin describes one native variation to register into a scope.
type Builtin struct {
	Name   string
	Native NativeFunc
	Return *AtomicType
	Params []*AtomicType
}

// RegisterBuiltins adds each built-in as a variation of the function bound
// to its name in scope, creating the function on first use, and records
// its signature in the scope's type table.
func RegisterBuiltins(scope *Scope, builtins ...Builtin) error {
	for _, b := range builtins {
		fn, err := LocalFunction(scope, b.Name)
		if err != nil {
			return err
		}
		if err := fn.AddBuiltinVariation(b.Native, b.Return, b.Params...); err != nil {
			return err
		}
		scope.Types().Set(SignatureKey(b.Name, b.Params), b.Return)
	}
	return nil
}

// LocalFunction returns the function bound to name in scope itself,
// binding a new one if the name is free. Names bound in parent scopes are
// shadowed, not extended.
func LocalFunction(scope *Scope, name string) (*Function, error) {
	existing, ok := scope.GetLocal(name)
	if !ok {
		fn := NewFunction(name)
		if err := scope.Set(name, fn); err != nil {
			return nil, err
		}
		return fn, nil
	}
	fn, ok := existing.(*Function)
	if !ok {
		return nil, fmt.Errorf("cannot add a function variation to '%s' of type %s: %w", name, existing.Type(), ErrAlreadyDefined)
	}
	return fn, nil
}

// primitiveTypes are bound by name in every global scope.
var primitiveTypes = []*AtomicType{
	IntegerType, LongType, BigIntegerType, FloatType, DoubleType,
	BooleanType, CharacterType, StringType, AtomType, ListType, TupleType,
	UnitType, FunctionType, TypeType, ReferenceType, IdentifierType, AnyType,
}

var typeAliases = map[string]*AtomicType{
	"Nat":   IntegerType,
	"BNat":  BigIntegerType,
	"Real":  FloatType,
	"BReal": DoubleType,
}

// NewGlobalScope creates a root scope with every primitive type bound by
// name. The type table maps each type name to the type of types.
func NewGlobalScope() *Scope {
	scope := NewScope("global", NewTypeTable())
	bind := func(name string, t *AtomicType) {
		scope.bindings[name] = t
		scope.types.Set(name, TypeType)
	}
	for _, t := range primitiveTypes {
		bind(t.Name, t)
	}
	for _, name := range []string{"Nat", "BNat", "Real", "BReal"} {
		bind(name, typeAliases[name])
	}
	return scope
}

// StripGenericSuffix removes a textual "<...>" suffix from a type name.
func StripGenericSuffix(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// LookupType resolves a type name, ignoring any generic suffix, to the
// type value bound in scope.
func LookupType(scope *Scope, name string) (*AtomicType, error) {
	base := StripGenericSuffix(name)
	v, ok := scope.Get(base)
	if !ok {
		return nil, fmt.Errorf("Type '%s' does not exist", base)
	}
	t, ok := v.(*AtomicType)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a type but a value of type %s", base, v.Type())
	}
	return t, nil
}
