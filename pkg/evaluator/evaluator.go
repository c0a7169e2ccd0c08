// Package evaluator reduces Lento expression trees to values against a
// lexical scope.
package evaluator

import (
	"errors"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/source"
	"github.com/lento-lang/lento/pkg/typechecker"
)

// AnonymousName is the name given to functions created by "(params) => body".
const AnonymousName = "<anonymous>"

// Evaluate evaluates the top-level expressions of prog directly in scope
// and returns the value of the last one, or Unit if there are none.
// Bindings made before a failure remain in scope.
func Evaluate(prog *ast.Program, scope *atoms.Scope) (atoms.Atomic, error) {
	return evalSequence(prog.Exprs, scope)
}

// Eval evaluates a single expression in scope.
func Eval(expr ast.Expr, scope *atoms.Scope) (atoms.Atomic, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		v, ok := scope.Get(e.Value.Name)
		if !ok {
			return nil, diagnostics.RuntimeError(e.Span.Start, "Undefined variable '%s'", e.Value.Name)
		}
		return v, nil
	case *ast.DottedIdentifier:
		return nil, diagnostics.InternalError(e.Span.Start, "Dotted identifiers are not supported yet: '%s'", e.Value)
	case ast.LiteralNode:
		return e.Atomic(), nil

	case *ast.Binary:
		return evalBinary(e, scope)
	case *ast.Prefix:
		return evalPrefix(e, scope)

	case *ast.Block:
		return evalSequence(e.Exprs, scope.Derive("block"))

	case *ast.List:
		elems, err := evalAll(e.Elements, scope)
		if err != nil {
			return nil, err
		}
		return atoms.List{Elements: elems}, nil

	case *ast.Tuple:
		if len(e.Elements) == 0 {
			return atoms.Unit{}, nil
		}
		elems, err := evalAll(e.Elements, scope)
		if err != nil {
			return nil, err
		}
		return atoms.Tuple{Elements: elems}, nil

	case *ast.Call:
		return evalCall(e, scope)
	case *ast.VarDecl:
		return evalVarDecl(e, scope)
	case *ast.FuncDecl:
		return evalFuncDecl(e, scope)
	}
	return nil, diagnostics.InternalError(expr.NodeSpan().Start, "no evaluation rule for %s expression", expr.Kind())
}

func evalSequence(exprs []ast.Expr, scope *atoms.Scope) (atoms.Atomic, error) {
	var result atoms.Atomic = atoms.Unit{}
	for _, expr := range exprs {
		v, err := Eval(expr, scope)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// evalAll evaluates exprs left to right.
func evalAll(exprs []ast.Expr, scope *atoms.Scope) ([]atoms.Atomic, error) {
	values := make([]atoms.Atomic, len(exprs))
	for i, expr := range exprs {
		v, err := Eval(expr, scope)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// --- Declarations ---

func evalVarDecl(e *ast.VarDecl, scope *atoms.Scope) (atoms.Atomic, error) {
	value, err := Eval(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if err := scope.Set(e.Name, value); err != nil {
		return nil, redeclared(e.Span.Start, e.Name, err)
	}
	recordType(scope, e.Name, value.Type())
	return value, nil
}

// evalFuncDecl adds a variation to the function bound to the name in the
// current scope, creating it first if needed. Anonymous declarations
// produce a fresh function each time.
func evalFuncDecl(e *ast.FuncDecl, scope *atoms.Scope) (atoms.Atomic, error) {
	types, ret, err := typechecker.New(scope).Signature(e)
	if err != nil {
		return nil, err
	}
	params := make([]atoms.Param, len(e.Params))
	for i, p := range e.Params {
		params[i] = atoms.Param{Name: p.Name, Type: types[i]}
	}

	if e.Anonymous() {
		fn := atoms.NewFunction(AnonymousName)
		if err := fn.AddVariation(params, e.Body, ret, scope); err != nil {
			return nil, diagnostics.InternalError(e.Span.Start, "%s", err.Error())
		}
		return fn, nil
	}

	fn, err := atoms.LocalFunction(scope, e.Name)
	if err != nil {
		return nil, redeclared(e.Span.Start, e.Name, err)
	}
	if err := fn.AddVariation(params, e.Body, ret, scope); err != nil {
		return nil, diagnostics.RuntimeError(e.Span.Start, "%s", err.Error())
	}
	recordType(scope, atoms.SignatureKey(e.Name, types), ret)
	return fn, nil
}

// recordType writes a global binding's type to the shared table. Bindings
// in blocks and function bodies stay out of it.
func recordType(scope *atoms.Scope, key string, t *atoms.AtomicType) {
	if scope.Parent() == nil {
		scope.Types().Set(key, t)
	}
}

func redeclared(pos source.Position, name string, err error) error {
	if errors.Is(err, atoms.ErrAlreadyDefined) {
		return diagnostics.RuntimeError(pos, "A local variable or function named '%s' is already defined in this scope", name)
	}
	return diagnostics.RuntimeError(pos, "%s", err.Error())
}

// --- Calls ---

// evalCall evaluates the arguments in the calling scope, then dispatches to
// the first variation accepting their types. User-defined bodies run in a
// scope derived from the scope they were declared in.
func evalCall(e *ast.Call, scope *atoms.Scope) (atoms.Atomic, error) {
	pos := e.Span.Start
	v, ok := scope.Get(e.Name)
	if !ok {
		return nil, diagnostics.RuntimeError(pos, "Undefined function '%s'", e.Name)
	}
	fn, ok := v.(*atoms.Function)
	if !ok {
		return nil, diagnostics.RuntimeError(pos, "'%s' is not a function but a value of type %s", e.Name, v.Type())
	}

	args, err := evalAll(e.Args, scope)
	if err != nil {
		return nil, err
	}
	variation, err := fn.Resolve(atoms.TypeOf(args))
	if err != nil {
		return nil, diagnostics.RuntimeError(pos, "%s", err.Error())
	}

	if variation.IsBuiltin() {
		result, err := variation.Call(args)
		if err != nil {
			var derr *diagnostics.Error
			if errors.As(err, &derr) {
				return nil, err
			}
			return nil, diagnostics.RuntimeError(pos, "%s: %s", e.Name, err.Error())
		}
		return result, nil
	}

	body, ok := variation.Body.(ast.Expr)
	if !ok {
		return nil, diagnostics.InternalError(pos, "function '%s' has no evaluable body", e.Name)
	}
	callScope := variation.Closure.Derive("call " + e.Name)
	for i, p := range variation.Params {
		if err := callScope.Set(p.Name, args[i]); err != nil {
			return nil, diagnostics.InternalError(pos, "%s", err.Error())
		}
	}
	return Eval(body, callScope)
}
