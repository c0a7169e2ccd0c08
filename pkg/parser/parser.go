// Package parser implements the Lento Pratt parser.
package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/lexer"
)

// Hint registers a name that may be called without parentheses, consuming
// up to MaxArity argument expressions. SingleValue arguments are parsed
// without infix operators, so "typeof x == int" compares the result.
type Hint struct {
	Name        string
	MaxArity    int
	SingleValue bool
}

// Parser turns token streams into expression trees. A Parser may be reused
// for several streams but is not safe for concurrent use.
type Parser struct {
	hints map[string]Hint

	ts  *lexer.TokenStream
	eof lexer.Token
	// depth counts enclosing parentheses, brackets and tuples, inside
	// which newlines are insignificant.
	depth int
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.TokPlus:      ast.OpAdd,
	lexer.TokMinus:     ast.OpSub,
	lexer.TokStar:      ast.OpMul,
	lexer.TokSlash:     ast.OpDiv,
	lexer.TokPercent:   ast.OpMod,
	lexer.TokEqEq:      ast.OpEq,
	lexer.TokBangEq:    ast.OpNotEq,
	lexer.TokLt:        ast.OpLt,
	lexer.TokLtEq:      ast.OpLtEq,
	lexer.TokGt:        ast.OpGt,
	lexer.TokGtEq:      ast.OpGtEq,
	lexer.TokAndAnd:    ast.OpAnd,
	lexer.TokPipe:      ast.OpOr,
	lexer.TokBackslash: ast.OpExclude,
}

// New creates a parser with the given call-without-parentheses hints.
func New(hints ...Hint) *Parser {
	p := &Parser{hints: make(map[string]Hint)}
	for _, h := range hints {
		p.AddHint(h)
	}
	return p
}

// AddHint registers or replaces a call-without-parentheses hint.
func (p *Parser) AddHint(h Hint) {
	p.hints[h.Name] = h
}

// Hints returns the registered hints.
func (p *Parser) Hints() []Hint {
	out := make([]Hint, 0, len(p.hints))
	for _, h := range p.hints {
		out = append(out, h)
	}
	return out
}

// ParseString tokenizes and parses src.
func ParseString(src, filename string, hints ...Hint) (*ast.Program, error) {
	ts, err := lexer.TokenizeString(src, filename)
	if err != nil {
		return nil, err
	}
	return New(hints...).Parse(ts)
}

// Parse consumes ts up to and including its EOF token. The stream may
// still be in production; reads wait for the producer.
func (p *Parser) Parse(ts *lexer.TokenStream) (*ast.Program, error) {
	p.ts = ts
	p.depth = 0
	p.eof = lexer.Token{Type: lexer.TokEOF}
	defer func() { p.ts = nil }()

	start := p.peek().Span
	exprs, end, err := p.parseSequence(lexer.TokEOF)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Span: start.To(end.Span), Exprs: exprs}, nil
}

// --- Token access ---

// raw returns the token offset positions past the cursor, comments and
// newlines included. Past the end of the stream it returns the EOF token.
func (p *Parser) raw(offset int) lexer.Token {
	tok, ok := p.ts.Seek(offset)
	if !ok {
		return p.eof
	}
	if tok.Type == lexer.TokEOF {
		p.eof = tok
	}
	return tok
}

func skippable(tok lexer.Token, skipNewlines bool) bool {
	return tok.Type.IsComment() || (skipNewlines && tok.Type == lexer.TokNewline)
}

// significant returns the first token at or after raw offset that is not
// a comment (nor a newline when skipNewlines), with its raw offset.
func (p *Parser) significant(offset int, skipNewlines bool) (lexer.Token, int) {
	for {
		tok := p.raw(offset)
		if tok.Type == lexer.TokEOF || !skippable(tok, skipNewlines) {
			return tok, offset
		}
		offset++
	}
}

// lookahead returns the n-th upcoming significant token without consuming.
func (p *Parser) lookahead(n int, skipNewlines bool) lexer.Token {
	tok, offset := p.significant(0, skipNewlines)
	for ; n > 0; n-- {
		tok, offset = p.significant(offset+1, skipNewlines)
	}
	return tok
}

// peek returns the next token, skipping comments and newlines.
func (p *Parser) peek() lexer.Token { return p.lookahead(0, true) }

// peekRaw returns the next token, skipping comments only.
func (p *Parser) peekRaw() lexer.Token { return p.lookahead(0, false) }

func (p *Parser) read(skipNewlines bool) lexer.Token {
	for {
		tok, ok := p.ts.Read()
		if !ok {
			return p.eof
		}
		if tok.Type == lexer.TokEOF {
			p.eof = tok
			return tok
		}
		if !skippable(tok, skipNewlines) {
			return tok
		}
	}
}

// next consumes the next token, skipping comments and newlines.
func (p *Parser) next() lexer.Token { return p.read(true) }

// nextRaw consumes the next token, skipping comments only.
func (p *Parser) nextRaw() lexer.Token { return p.read(false) }

// peekInfix returns the token that may continue an expression. Newlines
// end an expression unless it is nested in a group.
func (p *Parser) peekInfix() lexer.Token { return p.lookahead(0, p.depth > 0) }

func (p *Parser) expect(typ lexer.TokenType, context string) (lexer.Token, error) {
	tok := p.next()
	if tok.Type != typ {
		return tok, p.unexpected(tok, context, typ.String())
	}
	return tok, nil
}

// --- Errors ---

// alternatives renders "a", "a or b", "a, b or c".
func alternatives(expected []string) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return expected[0]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}

func (p *Parser) unexpected(tok lexer.Token, context string, expected ...string) error {
	msg := "Unexpected " + describe(tok)
	if tok.Type == lexer.TokEOF {
		msg = "Unexpected end of file"
	}
	if len(expected) > 0 {
		msg += ". Expected " + alternatives(expected)
	}
	if context != "" {
		msg += " " + context
	}
	return diagnostics.ParseError(tok.Span.Start, "%s", msg)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokIdent, lexer.TokInteger, lexer.TokFloat, lexer.TokBoolean:
		return tok.Type.String() + " '" + tok.Value + "'"
	}
	return tok.Type.String() + " token"
}

// --- Expression sequences ---

// parseSequence parses newline or semicolon delimited expressions up to
// and including the end token.
func (p *Parser) parseSequence(end lexer.TokenType) ([]ast.Expr, lexer.Token, error) {
	saved := p.depth
	p.depth = 0
	defer func() { p.depth = saved }()

	var exprs []ast.Expr
	for {
		tok := p.peekRaw()
		for tok.Type == lexer.TokNewline || tok.Type == lexer.TokSemicolon {
			p.nextRaw()
			tok = p.peekRaw()
		}
		if tok.Type == end {
			return exprs, p.nextRaw(), nil
		}
		if tok.Type == lexer.TokEOF {
			return nil, tok, p.unexpected(tok, "", end.String())
		}

		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, tok, err
		}
		exprs = append(exprs, expr)

		after := p.peekRaw()
		switch after.Type {
		case lexer.TokNewline, lexer.TokSemicolon, end:
		default:
			return nil, after, p.unexpected(after, "", lexer.TokNewline.String(), lexer.TokSemicolon.String(), end.String())
		}
	}
}

// parseCommaList parses comma delimited expressions up to and including
// the end token. Newlines between elements are ignored.
func (p *Parser) parseCommaList(end lexer.TokenType) ([]ast.Expr, lexer.Token, error) {
	p.depth++
	defer func() { p.depth-- }()

	var exprs []ast.Expr
	if tok := p.peek(); tok.Type == end {
		return exprs, p.next(), nil
	}
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, lexer.Token{}, err
		}
		exprs = append(exprs, expr)

		tok := p.next()
		switch tok.Type {
		case end:
			return exprs, tok, nil
		case lexer.TokComma:
		default:
			return nil, tok, p.unexpected(tok, "", lexer.TokComma.String(), end.String())
		}
	}
}

// --- Pratt loop ---

// parseExpression parses a primary term followed by every infix operator
// whose left binding power is at least minBP.
func (p *Parser) parseExpression(minBP int) (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peekInfix()
		op, ok := binaryOps[tok.Type]
		if !ok {
			return left, nil
		}
		leftBP, rightBP := op.BindingPower()
		if leftBP < minBP {
			return left, nil
		}
		p.read(p.depth > 0)

		right, err := p.parseExpression(rightBP)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Span:  left.NodeSpan().To(right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func startsExpression(typ lexer.TokenType) bool {
	switch typ {
	case lexer.TokInteger, lexer.TokFloat, lexer.TokString, lexer.TokCharacter,
		lexer.TokBoolean, lexer.TokAtom, lexer.TokIdent, lexer.TokLParen,
		lexer.TokLBracket, lexer.TokLBrace, lexer.TokTupleOpen,
		lexer.TokMinus, lexer.TokBang, lexer.TokAmp:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.next()
	span := tok.Span

	switch tok.Type {
	case lexer.TokInteger:
		return parseInteger(tok)
	case lexer.TokFloat:
		return parseFloat(tok)
	case lexer.TokString:
		return ast.NewLiteral(span, atoms.String{Value: tok.Value}), nil
	case lexer.TokCharacter:
		r := []rune(tok.Value)
		return ast.NewLiteral(span, atoms.Character{Value: r[0]}), nil
	case lexer.TokBoolean:
		return ast.NewLiteral(span, atoms.Boolean{Value: tok.Value == "true"}), nil
	case lexer.TokAtom:
		return ast.NewLiteral(span, atoms.Atom{Name: tok.Value}), nil
	case lexer.TokIdent:
		return p.parseIdentifier(tok)

	case lexer.TokLParen:
		if p.isAnonymousFunction() {
			return p.parseAnonymousFunction(tok)
		}
		return p.parseGroup(tok)
	case lexer.TokLBracket:
		elems, end, err := p.parseCommaList(lexer.TokRBracket)
		if err != nil {
			return nil, err
		}
		return &ast.List{Span: span.To(end.Span), Elements: elems}, nil
	case lexer.TokTupleOpen:
		elems, end, err := p.parseCommaList(lexer.TokRParen)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return ast.NewLiteral(span.To(end.Span), atoms.Unit{}), nil
		}
		return &ast.Tuple{Span: span.To(end.Span), Elements: elems}, nil
	case lexer.TokLBrace:
		exprs, end, err := p.parseSequence(lexer.TokRBrace)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Span: span.To(end.Span), Exprs: exprs}, nil

	case lexer.TokMinus, lexer.TokBang:
		op := ast.OpNegate
		if tok.Type == lexer.TokBang {
			op = ast.OpNot
		}
		operand, err := p.parseExpression(ast.PrefixBindingPower)
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{Span: span.To(operand.NodeSpan()), Op: op, Operand: operand}, nil
	case lexer.TokAmp:
		name, err := p.expect(lexer.TokIdent, "after '&'")
		if err != nil {
			return nil, err
		}
		target := p.parseIdentifierValue(name)
		return &ast.Prefix{Span: span.To(target.NodeSpan()), Op: ast.OpReference, Operand: target}, nil

	case lexer.TokAttribute:
		return nil, diagnostics.ParseError(span.Start, "Attributes are not supported here: '@%s'", tok.Value)
	}
	return nil, p.unexpected(tok, "", "an expression")
}

func (p *Parser) parseGroup(open lexer.Token) (ast.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()

	if tok := p.peek(); tok.Type == lexer.TokRParen {
		return nil, p.unexpected(tok, "inside parentheses", "an expression")
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen, "to close '(' at "+open.Span.Start.String()); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseInteger picks the narrowest integral kind able to hold the literal.
func parseInteger(tok lexer.Token) (ast.Expr, error) {
	n, ok := new(big.Int).SetString(tok.Value, 10)
	if !ok {
		return nil, diagnostics.ParseError(tok.Span.Start, "Invalid integer literal '%s'", tok.Value)
	}
	switch v := atoms.NormalizeInteger(n).(type) {
	case atoms.Integer:
		return ast.NewLiteral(tok.Span, v), nil
	case atoms.Long:
		return ast.NewLiteral(tok.Span, v), nil
	case atoms.BigInteger:
		return ast.NewLiteral(tok.Span, v), nil
	}
	return nil, diagnostics.InternalError(tok.Span.Start, "unexpected integer representation for '%s'", tok.Value)
}

// parseFloat uses Float when the magnitude fits 32 bits, else Double.
func parseFloat(tok lexer.Token) (ast.Expr, error) {
	f, err := strconv.ParseFloat(tok.Value, 64)
	if math.IsInf(f, 0) {
		return nil, diagnostics.ParseError(tok.Span.Start, "Floating point literal is out of range: '%s'", tok.Value)
	}
	if err != nil {
		return nil, diagnostics.ParseError(tok.Span.Start, "Invalid floating point literal '%s'", tok.Value)
	}
	if math.Abs(f) <= math.MaxFloat32 {
		return ast.NewLiteral(tok.Span, atoms.Float{Value: float32(f)}), nil
	}
	return ast.NewLiteral(tok.Span, atoms.Double{Value: f}), nil
}
