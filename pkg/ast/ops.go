package ast

// BinaryOp represents an infix operator.
type BinaryOp string

const (
	OpAdd     BinaryOp = "+"
	OpSub     BinaryOp = "-"
	OpMul     BinaryOp = "*"
	OpDiv     BinaryOp = "/"
	OpMod     BinaryOp = "%"
	OpEq      BinaryOp = "=="
	OpNotEq   BinaryOp = "!="
	OpLt      BinaryOp = "<"
	OpLtEq    BinaryOp = "<="
	OpGt      BinaryOp = ">"
	OpGtEq    BinaryOp = ">="
	OpAnd     BinaryOp = "&&"
	OpOr      BinaryOp = "|"
	OpExclude BinaryOp = "\\"
)

// PrefixOp represents a prefix operator.
type PrefixOp string

const (
	OpNegate    PrefixOp = "-"
	OpNot       PrefixOp = "!"
	OpReference PrefixOp = "&"
)

// PrefixBindingPower is the right binding power of every prefix operator.
const PrefixBindingPower = 10

type bindingPower struct{ left, right int }

// Binding powers, loosest first.
var binaryPowers = map[BinaryOp]bindingPower{
	OpAnd: {0, 1}, OpOr: {0, 1}, OpExclude: {0, 1},
	OpEq: {2, 3}, OpNotEq: {2, 3}, OpLt: {2, 3}, OpLtEq: {2, 3}, OpGt: {2, 3}, OpGtEq: {2, 3},
	OpAdd: {4, 5}, OpSub: {4, 5},
	OpMul: {6, 7}, OpDiv: {6, 7}, OpMod: {6, 7},
}

// BindingPower returns the left and right binding power of op.
func (op BinaryOp) BindingPower() (left, right int) {
	bp := binaryPowers[op]
	return bp.left, bp.right
}

// IsArithmetic reports whether op is +, -, *, / or %.
func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	}
	return false
}

// IsComparison reports whether op is <, <=, > or >=.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpLt, OpLtEq, OpGt, OpGtEq:
		return true
	}
	return false
}
