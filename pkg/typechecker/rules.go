package typechecker

import (
	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
)

// indeterminate reports whether t is too loose to reject statically.
func indeterminate(t *atoms.AtomicType) bool {
	return t.IsUnknown() || t.IsAny()
}

func (c *Checker) inferBinary(e *ast.Binary) (*atoms.AtomicType, error) {
	left, err := c.Infer(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.Infer(e.Right)
	if err != nil {
		return nil, err
	}
	if t, ok := binaryType(e.Op, left, right); ok {
		return t, nil
	}
	return nil, operandError(e.Left.NodeSpan().Start, string(e.Op), left, right)
}

// binaryType applies the operator rules to a pair of operand types. Sum
// operands are expanded: the result is the sum of every member pairing a
// rule accepts, and fails only if none does.
func binaryType(op ast.BinaryOp, left, right *atoms.AtomicType) (*atoms.AtomicType, bool) {
	if left.IsSum() || right.IsSum() {
		var results []*atoms.AtomicType
		for _, l := range members(left) {
			for _, r := range members(right) {
				if t, ok := binaryType(op, l, r); ok {
					results = append(results, t)
				}
			}
		}
		if len(results) == 0 {
			return nil, false
		}
		return atoms.NewSumType(results...), true
	}

	if op == ast.OpExclude {
		return atoms.UnknownType, true
	}
	if op == ast.OpEq || op == ast.OpNotEq {
		return atoms.BooleanType, true
	}
	if indeterminate(left) || indeterminate(right) {
		if op.IsComparison() {
			return atoms.BooleanType, true
		}
		return atoms.UnknownType, true
	}

	if left.Kind == atoms.KindTuple || right.Kind == atoms.KindTuple {
		return tupleType(op, left, right)
	}

	switch {
	case op.IsComparison():
		if _, ok := atoms.PromoteTypes(left, right); ok {
			return atoms.BooleanType, true
		}
		if left.Identical(atoms.CharacterType) && right.Identical(atoms.CharacterType) {
			return atoms.BooleanType, true
		}
		return nil, false

	case op == ast.OpAnd || op == ast.OpOr:
		if left.Identical(atoms.BooleanType) && right.Identical(atoms.BooleanType) {
			return atoms.BooleanType, true
		}
		if integral(left) && integral(right) {
			return atoms.PromoteTypes(left, right)
		}
		return nil, false

	case op.IsArithmetic():
		if t, ok := atoms.PromoteTypes(left, right); ok {
			return t, true
		}
		if op != ast.OpAdd {
			return nil, false
		}
		switch {
		case left.Identical(atoms.StringType) && (right.Identical(atoms.StringType) || right.Identical(atoms.CharacterType)):
			return atoms.StringType, true
		case left.Identical(atoms.CharacterType) && right.Identical(atoms.StringType):
			return atoms.StringType, true
		case left.Identical(atoms.ListType) && right.Identical(atoms.ListType):
			return atoms.ListType, true
		}
	}
	return nil, false
}

// tupleType types element-wise and broadcast operations. Element types of
// an unparameterized tuple are unknown, so only the outer shape is
// checked.
func tupleType(op ast.BinaryOp, left, right *atoms.AtomicType) (*atoms.AtomicType, bool) {
	if op.IsComparison() || op == ast.OpAnd || op == ast.OpOr {
		return nil, false
	}
	switch {
	case left.Kind == atoms.KindTuple && right.Kind == atoms.KindTuple:
		if len(left.Members) == 0 || len(right.Members) == 0 || len(left.Members) != len(right.Members) {
			return atoms.TupleType, true
		}
		out := make([]*atoms.AtomicType, len(left.Members))
		for i := range left.Members {
			t, ok := binaryType(op, left.Members[i], right.Members[i])
			if !ok {
				return nil, false
			}
			out[i] = t
		}
		return atoms.TupleOf(out), true

	case left.Kind == atoms.KindTuple:
		return broadcastType(op, left, right, false)
	default:
		return broadcastType(op, right, left, true)
	}
}

func broadcastType(op ast.BinaryOp, tuple, scalar *atoms.AtomicType, scalarFirst bool) (*atoms.AtomicType, bool) {
	if len(tuple.Members) == 0 {
		return atoms.TupleType, true
	}
	out := make([]*atoms.AtomicType, len(tuple.Members))
	for i, el := range tuple.Members {
		l, r := el, scalar
		if scalarFirst {
			l, r = scalar, el
		}
		t, ok := binaryType(op, l, r)
		if !ok {
			return nil, false
		}
		out[i] = t
	}
	return atoms.TupleOf(out), true
}

func (c *Checker) inferPrefix(e *ast.Prefix) (*atoms.AtomicType, error) {
	if e.Op == ast.OpReference {
		return atoms.ReferenceType, nil
	}
	operand, err := c.Infer(e.Operand)
	if err != nil {
		return nil, err
	}
	if t, ok := prefixType(e.Op, operand); ok {
		return t, nil
	}
	return nil, operandError(e.Span.Start, string(e.Op), operand)
}

func prefixType(op ast.PrefixOp, operand *atoms.AtomicType) (*atoms.AtomicType, bool) {
	if indeterminate(operand) {
		return atoms.UnknownType, true
	}
	if operand.IsSum() {
		var results []*atoms.AtomicType
		for _, m := range operand.Members {
			if t, ok := prefixType(op, m); ok {
				results = append(results, t)
			}
		}
		if len(results) == 0 {
			return nil, false
		}
		return atoms.NewSumType(results...), true
	}
	if operand.Kind == atoms.KindTuple {
		out := make([]*atoms.AtomicType, len(operand.Members))
		for i, m := range operand.Members {
			t, ok := prefixType(op, m)
			if !ok {
				return nil, false
			}
			out[i] = t
		}
		return atoms.TupleOf(out), true
	}
	switch op {
	case ast.OpNegate:
		if _, ok := atoms.NumericKindOfType(operand); ok {
			return operand, true
		}
	case ast.OpNot:
		if operand.Identical(atoms.BooleanType) {
			return atoms.BooleanType, true
		}
	}
	return nil, false
}

func members(t *atoms.AtomicType) []*atoms.AtomicType {
	if t.IsSum() {
		return t.Members
	}
	return []*atoms.AtomicType{t}
}

func integral(t *atoms.AtomicType) bool {
	k, ok := atoms.NumericKindOfType(t)
	return ok && k.IsInteger()
}
