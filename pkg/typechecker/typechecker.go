// Package typechecker implements the static pass run before evaluation. It
// infers the type of every expression against the scope's shared type
// table, records declared names and function signatures so later code can
// refer to them, and rejects operators applied to operand types no rule
// accepts.
package typechecker

import (
	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/source"
)

// Checker infers types against a scope. The scope is only read, to resolve
// parameter type names; declarations are recorded in the type table.
type Checker struct {
	scope *atoms.Scope
	table *atoms.TypeTable
}

// New creates a checker recording into scope's type table.
func New(scope *atoms.Scope) *Checker {
	return &Checker{scope: scope, table: scope.Types()}
}

// Check infers every top-level expression of prog in order and returns the
// type of the last one, or unit for an empty program. The first TypeError
// aborts the pass.
func (c *Checker) Check(prog *ast.Program) (*atoms.AtomicType, error) {
	result := atoms.UnitType
	for _, expr := range prog.Exprs {
		t, err := c.Infer(expr)
		if err != nil {
			return nil, err
		}
		result = t
	}
	return result, nil
}

// Validate checks each top-level expression independently and collects a
// diagnostic for every failing one.
func (c *Checker) Validate(prog *ast.Program, file string) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	for _, expr := range prog.Exprs {
		if _, err := c.Infer(expr); err != nil {
			diags = append(diags, diagnostics.FromError(err, file, diagnostics.EType))
		}
	}
	return diags
}

// Infer returns the static type of expr. Unknown stands for a type that
// cannot be determined before evaluation.
func (c *Checker) Infer(expr ast.Expr) (*atoms.AtomicType, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return c.inferIdentifier(e.Value.Name), nil
	case *ast.DottedIdentifier:
		return atoms.UnknownType, nil
	case ast.LiteralNode:
		return e.Atomic().Type(), nil

	case *ast.Binary:
		return c.inferBinary(e)
	case *ast.Prefix:
		return c.inferPrefix(e)

	case *ast.Block:
		// Block-local declarations must not reach the enclosing table.
		inner := &Checker{scope: c.scope, table: c.table.Clone()}
		result := atoms.UnitType
		for _, expr := range e.Exprs {
			t, err := inner.Infer(expr)
			if err != nil {
				return nil, err
			}
			result = t
		}
		return result, nil

	case *ast.List:
		for _, el := range e.Elements {
			if _, err := c.Infer(el); err != nil {
				return nil, err
			}
		}
		return atoms.ListType, nil

	case *ast.Tuple:
		types := make([]*atoms.AtomicType, len(e.Elements))
		for i, el := range e.Elements {
			t, err := c.Infer(el)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		return atoms.TupleOf(types), nil

	case *ast.Call:
		return c.inferCall(e)

	case *ast.VarDecl:
		t, err := c.Infer(e.Value)
		if err != nil {
			return nil, err
		}
		c.table.Set(e.Name, t)
		return t, nil

	case *ast.FuncDecl:
		params, ret, err := c.Signature(e)
		if err != nil {
			return nil, err
		}
		if !e.Anonymous() {
			c.table.Set(atoms.SignatureKey(e.Name, params), ret)
		}
		return atoms.FunctionOf([]int{len(params)}), nil
	}
	return nil, diagnostics.InternalError(expr.NodeSpan().Start, "no type rule for %s expression", expr.Kind())
}

// inferIdentifier prefers a recorded variable type. A name with recorded
// signatures but no variable entry is a function.
func (c *Checker) inferIdentifier(name string) *atoms.AtomicType {
	if t, ok := c.table.Get(name); ok {
		return t
	}
	if len(c.table.FindByName(name)) > 0 {
		return atoms.FunctionType
	}
	return atoms.UnknownType
}

func (c *Checker) inferCall(e *ast.Call) (*atoms.AtomicType, error) {
	args := make([]*atoms.AtomicType, len(e.Args))
	for i, arg := range e.Args {
		t, err := c.Infer(arg)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	if t, ok := c.table.Get(atoms.SignatureKey(e.Name, args)); ok {
		return t, nil
	}
	return c.table.Approximate(e.Name), nil
}

// Signature resolves the parameter types of a function declaration and
// infers its body's type with the parameters in scope. The inference runs
// on a clone of the table; only the declaration itself is recorded.
func (c *Checker) Signature(e *ast.FuncDecl) ([]*atoms.AtomicType, *atoms.AtomicType, error) {
	params := make([]*atoms.AtomicType, len(e.Params))
	for i, p := range e.Params {
		t, err := c.paramType(p)
		if err != nil {
			return nil, nil, err
		}
		params[i] = t
	}

	inner := &Checker{scope: c.scope, table: c.table.Clone()}
	for i, p := range e.Params {
		inner.table.Set(p.Name, params[i])
	}
	ret, err := inner.Infer(e.Body)
	if err != nil {
		return nil, nil, err
	}
	return params, ret, nil
}

// paramType resolves a declared parameter type. Names declared earlier in
// the same input as type-valued variables are not bound yet and check as any.
func (c *Checker) paramType(p ast.Param) (*atoms.AtomicType, error) {
	if p.TypeName == "" {
		return atoms.AnyType, nil
	}
	t, err := atoms.LookupType(c.scope, p.TypeName)
	if err == nil {
		return t, nil
	}
	if declared, ok := c.table.Get(atoms.StripGenericSuffix(p.TypeName)); ok && declared.Identical(atoms.TypeType) {
		return atoms.AnyType, nil
	}
	return nil, diagnostics.TypeError(p.Span.Start, "%s", err.Error())
}

// Infer is a convenience that runs a fresh Checker over one expression.
func Infer(expr ast.Expr, scope *atoms.Scope) (*atoms.AtomicType, error) {
	return New(scope).Infer(expr)
}

// Check is a convenience that runs a fresh Checker over a program.
func Check(prog *ast.Program, scope *atoms.Scope) (*atoms.AtomicType, error) {
	return New(scope).Check(prog)
}

func operandError(pos source.Position, op string, operands ...*atoms.AtomicType) error {
	if len(operands) == 1 {
		return diagnostics.TypeError(pos, "Operator '%s' cannot be applied to %s", op, operands[0])
	}
	return diagnostics.TypeError(pos, "Operator '%s' cannot be applied to %s and %s", op, operands[0], operands[1])
}
