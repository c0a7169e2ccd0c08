package ast

import "strings"

const indentUnit = "  "

// needsParens reports whether child must be parenthesized as an operand of
// a binary operator with the given left binding power.
func needsParens(child Expr, parentLeft int, isRight bool) bool {
	switch c := child.(type) {
	case *Binary:
		childLeft, _ := c.Op.BindingPower()
		if childLeft < parentLeft {
			return true
		}
		// Operators are left-associative: equal power on the right needs parens
		return childLeft == parentLeft && isRight
	case *VarDecl, *FuncDecl:
		return true
	}
	return false
}

func printOperand(e Expr, parentLeft int, isRight bool, indent string) string {
	s := e.Pretty(indent)
	if needsParens(e, parentLeft, isRight) {
		return "(" + s + ")"
	}
	return s
}

func printList(exprs []Expr, indent string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Pretty(indent)
	}
	return strings.Join(parts, ", ")
}

func printSequence(exprs []Expr, indent string) string {
	lines := make([]string, len(exprs))
	for i, e := range exprs {
		lines[i] = indent + e.Pretty(indent)
	}
	return strings.Join(lines, "\n")
}

func printParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.TypeName == "" {
			parts[i] = p.Name
		} else {
			parts[i] = p.TypeName + " " + p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// Pretty renders the program one top-level expression per line.
func (n *Program) Pretty(indent string) string {
	return printSequence(n.Exprs, indent)
}

func (n *Binary) Pretty(indent string) string {
	left, _ := n.Op.BindingPower()
	return printOperand(n.Left, left, false, indent) + " " + string(n.Op) + " " + printOperand(n.Right, left, true, indent)
}

func (n *Prefix) Pretty(indent string) string {
	operand := n.Operand.Pretty(indent)
	switch n.Operand.(type) {
	case *Binary, *Prefix, *VarDecl, *FuncDecl:
		operand = "(" + operand + ")"
	}
	return string(n.Op) + operand
}

func (n *Block) Pretty(indent string) string {
	if len(n.Exprs) == 0 {
		return "{}"
	}
	inner := indent + indentUnit
	return "{\n" + printSequence(n.Exprs, inner) + "\n" + indent + "}"
}

func (n *List) Pretty(indent string) string {
	return "[" + printList(n.Elements, indent) + "]"
}

func (n *Tuple) Pretty(indent string) string {
	return "#(" + printList(n.Elements, indent) + ")"
}

func (n *Call) Pretty(indent string) string {
	return n.Name + "(" + printList(n.Args, indent) + ")"
}

func (n *VarDecl) Pretty(indent string) string {
	return n.Name + " = " + n.Value.Pretty(indent)
}

func (n *FuncDecl) Pretty(indent string) string {
	if n.Anonymous() {
		return "(" + printParams(n.Params) + ") => " + n.Body.Pretty(indent)
	}
	return n.Name + "(" + printParams(n.Params) + ") = " + n.Body.Pretty(indent)
}

// String renders a node as unindented Lento source.
func String(n Node) string {
	return n.Pretty("")
}
