package evaluator

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/source"
)

// floatEpsilon is the relative tolerance of floating point equality.
const floatEpsilon = 1e-6

func evalBinary(e *ast.Binary, scope *atoms.Scope) (atoms.Atomic, error) {
	left, err := Eval(e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, scope)
	if err != nil {
		return nil, err
	}
	return applyBinary(e.Span.Start, e.Op, left, right)
}

func applyBinary(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) (atoms.Atomic, error) {
	switch {
	case op == ast.OpExclude:
		return nil, diagnostics.InternalError(pos, "Operator '%s' is not implemented", op)
	case op == ast.OpEq || op == ast.OpNotEq:
		eq, err := equal(pos, op, left, right)
		if err != nil {
			return nil, err
		}
		return atoms.Boolean{Value: eq == (op == ast.OpEq)}, nil
	}

	lt, lok := left.(atoms.Tuple)
	rt, rok := right.(atoms.Tuple)
	if (lok || rok) && op.IsArithmetic() {
		switch {
		case lok && rok:
			return zipTuples(pos, op, lt, rt)
		case lok:
			return broadcast(pos, op, lt, right, false)
		default:
			return broadcast(pos, op, rt, left, true)
		}
	}

	switch {
	case op.IsArithmetic():
		return arithmetic(pos, op, left, right)
	case op.IsComparison():
		return compare(pos, op, left, right)
	default:
		return logical(pos, op, left, right)
	}
}

func operatorError(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) error {
	return diagnostics.RuntimeError(pos, "Operator '%s' cannot be applied to %s and %s", op, left.Type(), right.Type())
}

// --- Tuples ---

func tupleMismatch(pos source.Position, left, right atoms.Tuple) error {
	return diagnostics.RuntimeError(pos, "Expected a value of type %s but got %s", left.Type(), right.Type())
}

// isTypeMismatch reports whether err rejects its operands by type, as
// opposed to failing on their values.
func isTypeMismatch(err error) bool {
	var d *diagnostics.Error
	if !errors.As(err, &d) || d.Kind != diagnostics.Runtime {
		return false
	}
	for _, prefix := range []string{"Operator '", "Cannot promote", "Expected a value of type"} {
		if strings.HasPrefix(d.Message, prefix) {
			return true
		}
	}
	return false
}

func zipTuples(pos source.Position, op ast.BinaryOp, left, right atoms.Tuple) (atoms.Atomic, error) {
	if len(left.Elements) != len(right.Elements) {
		return nil, tupleMismatch(pos, left, right)
	}
	out := make([]atoms.Atomic, len(left.Elements))
	for i := range left.Elements {
		v, err := applyBinary(pos, op, left.Elements[i], right.Elements[i])
		if err != nil {
			if isTypeMismatch(err) {
				return nil, tupleMismatch(pos, left, right)
			}
			return nil, err
		}
		out[i] = v
	}
	return atoms.Tuple{Elements: out}, nil
}

// broadcast applies op between every element of tuple and scalar.
func broadcast(pos source.Position, op ast.BinaryOp, tuple atoms.Tuple, scalar atoms.Atomic, scalarFirst bool) (atoms.Atomic, error) {
	out := make([]atoms.Atomic, len(tuple.Elements))
	for i, el := range tuple.Elements {
		l, r := el, scalar
		if scalarFirst {
			l, r = scalar, el
		}
		v, err := applyBinary(pos, op, l, r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return atoms.Tuple{Elements: out}, nil
}

// --- Arithmetic ---

func arithmetic(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) (atoms.Atomic, error) {
	lk, lok := atoms.NumericKindOf(left)
	rk, rok := atoms.NumericKindOf(right)
	if lok && rok {
		kind, ok := atoms.Promote(lk, rk)
		if !ok {
			return nil, diagnostics.RuntimeError(pos, "Cannot promote %s and %s to a common numeric type", lk, rk)
		}
		l, _ := atoms.Convert(left, kind)
		r, _ := atoms.Convert(right, kind)
		return numeric(pos, op, kind, l, r)
	}
	if op == ast.OpAdd {
		if v, ok := concat(left, right); ok {
			return v, nil
		}
	}
	return nil, operatorError(pos, op, left, right)
}

func concat(left, right atoms.Atomic) (atoms.Atomic, bool) {
	switch l := left.(type) {
	case atoms.String:
		switch r := right.(type) {
		case atoms.String:
			return atoms.String{Value: l.Value + r.Value}, true
		case atoms.Character:
			return atoms.String{Value: l.Value + string(r.Value)}, true
		}
	case atoms.Character:
		if r, ok := right.(atoms.String); ok {
			return atoms.String{Value: string(l.Value) + r.Value}, true
		}
	case atoms.List:
		if r, ok := right.(atoms.List); ok {
			out := make([]atoms.Atomic, 0, len(l.Elements)+len(r.Elements))
			out = append(append(out, l.Elements...), r.Elements...)
			return atoms.List{Elements: out}, true
		}
	}
	return nil, false
}

// numeric applies op to two values already converted to kind. Integer and
// Long addition and multiplication widen on overflow; the other operators
// keep the kind and wrap.
func numeric(pos source.Position, op ast.BinaryOp, kind atoms.NumericKind, left, right atoms.Atomic) (atoms.Atomic, error) {
	switch kind {
	case atoms.KindFloat:
		v := floatOp(op, float64(left.(atoms.Float).Value), float64(right.(atoms.Float).Value))
		return atoms.Float{Value: float32(v)}, nil
	case atoms.KindDouble:
		return atoms.Double{Value: floatOp(op, left.(atoms.Double).Value, right.(atoms.Double).Value)}, nil
	}

	if op == ast.OpDiv || op == ast.OpMod {
		if r, _ := atoms.ToBig(right); r.Sign() == 0 {
			return nil, diagnostics.RuntimeError(pos, "Division by zero")
		}
	}

	switch kind {
	case atoms.KindInteger:
		a, b := left.(atoms.Integer).Value, right.(atoms.Integer).Value
		switch op {
		case ast.OpAdd, ast.OpMul:
			wide := intOp(op, int64(a), int64(b))
			if wide < math.MinInt32 || wide > math.MaxInt32 {
				return atoms.Long{Value: wide}, nil
			}
			return atoms.Integer{Value: int32(wide)}, nil
		case ast.OpSub:
			return atoms.Integer{Value: a - b}, nil
		case ast.OpDiv:
			return atoms.Integer{Value: a / b}, nil
		default:
			return atoms.Integer{Value: a % b}, nil
		}

	case atoms.KindLong:
		a, b := left.(atoms.Long).Value, right.(atoms.Long).Value
		switch op {
		case ast.OpAdd, ast.OpMul:
			wide := bigOp(op, big.NewInt(a), big.NewInt(b))
			if !wide.IsInt64() {
				return atoms.BigInteger{Value: wide}, nil
			}
			return atoms.Long{Value: wide.Int64()}, nil
		case ast.OpSub:
			return atoms.Long{Value: a - b}, nil
		case ast.OpDiv:
			return atoms.Long{Value: a / b}, nil
		default:
			return atoms.Long{Value: a % b}, nil
		}
	}

	a, _ := atoms.ToBig(left)
	b, _ := atoms.ToBig(right)
	return atoms.BigInteger{Value: bigOp(op, a, b)}, nil
}

func intOp(op ast.BinaryOp, a, b int64) int64 {
	if op == ast.OpMul {
		return a * b
	}
	return a + b
}

// bigOp uses truncated division to match the fixed width kinds.
func bigOp(op ast.BinaryOp, a, b *big.Int) *big.Int {
	out := new(big.Int)
	switch op {
	case ast.OpAdd:
		return out.Add(a, b)
	case ast.OpSub:
		return out.Sub(a, b)
	case ast.OpMul:
		return out.Mul(a, b)
	case ast.OpDiv:
		return out.Quo(a, b)
	default:
		return out.Rem(a, b)
	}
}

func floatOp(op ast.BinaryOp, a, b float64) float64 {
	switch op {
	case ast.OpAdd:
		return a + b
	case ast.OpSub:
		return a - b
	case ast.OpMul:
		return a * b
	case ast.OpDiv:
		return a / b
	default:
		return math.Mod(a, b)
	}
}

// --- Equality and ordering ---

// equal raises a runtime error for pairs that have no equality rule,
// including tuples of different arity. Lists of different length are
// simply unequal.
func equal(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) (bool, error) {
	for _, v := range []atoms.Atomic{left, right} {
		switch v.(type) {
		case *atoms.Function, atoms.Reference, atoms.Identifier, atoms.IdentifierDotList:
			return false, diagnostics.RuntimeError(pos, "Values of type %s cannot be compared for equality", v.Type())
		}
	}
	_, lnum := atoms.NumericKindOf(left)
	_, rnum := atoms.NumericKindOf(right)
	switch {
	case lnum && rnum:
		return numericEqual(left, right), nil
	case lnum || rnum:
		return false, operatorError(pos, op, left, right)
	}

	switch l := left.(type) {
	case atoms.Boolean:
		if r, ok := right.(atoms.Boolean); ok {
			return l.Value == r.Value, nil
		}
	case atoms.Character:
		if r, ok := right.(atoms.Character); ok {
			return l.Value == r.Value, nil
		}
	case atoms.String:
		if r, ok := right.(atoms.String); ok {
			return l.Value == r.Value, nil
		}
	case atoms.Atom:
		if r, ok := right.(atoms.Atom); ok {
			return l.Name == r.Name, nil
		}
	case atoms.Unit:
		if _, ok := right.(atoms.Unit); ok {
			return true, nil
		}
	case *atoms.AtomicType:
		if r, ok := right.(*atoms.AtomicType); ok {
			return l.Equals(r), nil
		}
	case atoms.Tuple:
		if r, ok := right.(atoms.Tuple); ok {
			if len(l.Elements) != len(r.Elements) {
				return false, tupleMismatch(pos, l, r)
			}
			return elementsEqual(pos, op, l.Elements, r.Elements)
		}
	case atoms.List:
		if r, ok := right.(atoms.List); ok {
			if len(l.Elements) != len(r.Elements) {
				return false, nil
			}
			return elementsEqual(pos, op, l.Elements, r.Elements)
		}
	}
	return false, operatorError(pos, op, left, right)
}

func elementsEqual(pos source.Position, op ast.BinaryOp, left, right []atoms.Atomic) (bool, error) {
	for i := range left {
		eq, err := equal(pos, op, left[i], right[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// numericEqual compares integral pairs exactly and anything involving a
// floating value within a relative epsilon.
func numericEqual(left, right atoms.Atomic) bool {
	a, aok := atoms.ToBig(left)
	b, bok := atoms.ToBig(right)
	if aok && bok {
		return a.Cmp(b) == 0
	}
	x, _ := atoms.ToFloat64(left)
	y, _ := atoms.ToFloat64(right)
	if x == y {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	return math.Abs(x-y) <= floatEpsilon*scale
}

func compare(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) (atoms.Atomic, error) {
	var cmp int
	if lc, ok := left.(atoms.Character); ok {
		rc, ok := right.(atoms.Character)
		if !ok {
			return nil, operatorError(pos, op, left, right)
		}
		cmp = cmpOrdered(lc.Value, rc.Value)
	} else {
		c, ok := compareNumeric(left, right)
		if !ok {
			return nil, operatorError(pos, op, left, right)
		}
		cmp = c
	}

	var result bool
	switch op {
	case ast.OpLt:
		result = cmp < 0
	case ast.OpLtEq:
		result = cmp <= 0
	case ast.OpGt:
		result = cmp > 0
	default:
		result = cmp >= 0
	}
	return atoms.Boolean{Value: result}, nil
}

func compareNumeric(left, right atoms.Atomic) (int, bool) {
	if _, ok := atoms.NumericKindOf(left); !ok {
		return 0, false
	}
	if _, ok := atoms.NumericKindOf(right); !ok {
		return 0, false
	}
	a, aok := atoms.ToBig(left)
	b, bok := atoms.ToBig(right)
	if aok && bok {
		return a.Cmp(b), true
	}
	x, _ := atoms.ToFloat64(left)
	y, _ := atoms.ToFloat64(right)
	return cmpOrdered(x, y), true
}

func cmpOrdered[T rune | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// --- Logical ---

// logical applies && and | to booleans, or bitwise to integral values.
func logical(pos source.Position, op ast.BinaryOp, left, right atoms.Atomic) (atoms.Atomic, error) {
	if lb, ok := left.(atoms.Boolean); ok {
		rb, ok := right.(atoms.Boolean)
		if !ok {
			return nil, operatorError(pos, op, left, right)
		}
		if op == ast.OpAnd {
			return atoms.Boolean{Value: lb.Value && rb.Value}, nil
		}
		return atoms.Boolean{Value: lb.Value || rb.Value}, nil
	}

	lk, lok := atoms.NumericKindOf(left)
	rk, rok := atoms.NumericKindOf(right)
	if !lok || !rok || !lk.IsInteger() || !rk.IsInteger() {
		return nil, operatorError(pos, op, left, right)
	}
	kind, ok := atoms.Promote(lk, rk)
	if !ok {
		return nil, operatorError(pos, op, left, right)
	}
	a, _ := atoms.ToBig(left)
	b, _ := atoms.ToBig(right)
	out := new(big.Int)
	if op == ast.OpAnd {
		out.And(a, b)
	} else {
		out.Or(a, b)
	}
	v, _ := atoms.Convert(atoms.BigInteger{Value: out}, kind)
	return v, nil
}

// --- Prefix ---

func evalPrefix(e *ast.Prefix, scope *atoms.Scope) (atoms.Atomic, error) {
	if e.Op == ast.OpReference {
		switch target := e.Operand.(type) {
		case *ast.Identifier:
			return atoms.Reference{Target: target.Value}, nil
		case *ast.DottedIdentifier:
			return atoms.Reference{Target: target.Value}, nil
		}
		return nil, diagnostics.RuntimeError(e.Span.Start, "Only identifiers can be referenced")
	}
	operand, err := Eval(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	return applyPrefix(e.Span.Start, e.Op, operand)
}

func applyPrefix(pos source.Position, op ast.PrefixOp, operand atoms.Atomic) (atoms.Atomic, error) {
	switch v := operand.(type) {
	case atoms.Tuple:
		out := make([]atoms.Atomic, len(v.Elements))
		for i, el := range v.Elements {
			r, err := applyPrefix(pos, op, el)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return atoms.Tuple{Elements: out}, nil
	case atoms.Boolean:
		if op == ast.OpNot {
			return atoms.Boolean{Value: !v.Value}, nil
		}
	}
	if op == ast.OpNegate {
		if r, ok := negate(operand); ok {
			return r, nil
		}
	}
	return nil, diagnostics.RuntimeError(pos, "Operator '%s' cannot be applied to %s", op, operand.Type())
}

// negate keeps the kind of v, widening the one value per integral kind
// whose negation does not fit.
func negate(v atoms.Atomic) (atoms.Atomic, bool) {
	switch n := v.(type) {
	case atoms.Integer:
		if n.Value == math.MinInt32 {
			return atoms.Long{Value: -int64(n.Value)}, true
		}
		return atoms.Integer{Value: -n.Value}, true
	case atoms.Long:
		if n.Value == math.MinInt64 {
			return atoms.BigInteger{Value: new(big.Int).Neg(big.NewInt(n.Value))}, true
		}
		return atoms.Long{Value: -n.Value}, true
	case atoms.BigInteger:
		return atoms.BigInteger{Value: new(big.Int).Neg(n.Value)}, true
	case atoms.Float:
		return atoms.Float{Value: -n.Value}, true
	case atoms.Double:
		return atoms.Double{Value: -n.Value}, true
	}
	return nil, false
}

// Equal reports whether two values are equal under the == operator.
// Values that cannot be compared are never equal.
func Equal(left, right atoms.Atomic) bool {
	eq, err := equal(source.Position{}, ast.OpEq, left, right)
	return err == nil && eq
}

// Compare orders two numbers or two characters the way the comparison
// operators do.
func Compare(left, right atoms.Atomic) (int, bool) {
	if lc, ok := left.(atoms.Character); ok {
		if rc, ok := right.(atoms.Character); ok {
			return cmpOrdered(lc.Value, rc.Value), true
		}
		return 0, false
	}
	return compareNumeric(left, right)
}
