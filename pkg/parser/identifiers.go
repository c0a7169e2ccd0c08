package parser

import (
	"strings"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/lexer"
)

// parseIdentifier resolves what a leading identifier starts. The rules are
// tried in order:
//  1. name =            variable declaration
//  2. name a b ... =    function declaration without parentheses
//  3. name(...) =       function declaration
//  4. name(...)         call
//  5. name args         call without parentheses, for hinted names
//  6. name              value reference
func (p *Parser) parseIdentifier(name lexer.Token) (ast.Expr, error) {
	if p.peekRaw().Type == lexer.TokDot {
		return p.parseIdentifierValue(name), nil
	}

	next, offset := p.significant(0, false)
	switch next.Type {
	case lexer.TokAssign:
		p.nextRaw()
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		return &ast.VarDecl{Span: name.Span.To(value.NodeSpan()), Name: name.Value, Value: value}, nil

	case lexer.TokIdent:
		if p.isBareParamList(offset) {
			params, err := p.parseParams(lexer.TokAssign, false)
			if err != nil {
				return nil, err
			}
			return p.parseFunctionBody(name, params)
		}

	case lexer.TokLParen:
		if after, ok := p.matchParen(offset + 1); ok {
			if tok, _ := p.significant(after, false); tok.Type == lexer.TokAssign {
				p.nextRaw()
				params, err := p.parseParams(lexer.TokRParen, true)
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(lexer.TokAssign, "after parameter list of '"+name.Value+"'"); err != nil {
					return nil, err
				}
				return p.parseFunctionBody(name, params)
			}
		}
		p.nextRaw()
		args, end, err := p.parseCommaList(lexer.TokRParen)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Span: name.Span.To(end.Span), Name: name.Value, Args: args}, nil
	}

	if hint, ok := p.hints[name.Value]; ok {
		if call, err := p.parseHintedCall(name, hint); call != nil || err != nil {
			return call, err
		}
	}
	return p.parseIdentifierValue(name), nil
}

// parseIdentifierValue parses a plain or dotted identifier reference.
func (p *Parser) parseIdentifierValue(first lexer.Token) ast.Expr {
	if p.peekRaw().Type != lexer.TokDot {
		return ast.NewLiteral(first.Span, atoms.Identifier{Name: first.Value})
	}
	parts := []atoms.Identifier{{Name: first.Value}}
	span := first.Span
	for p.peekRaw().Type == lexer.TokDot && p.lookahead(1, false).Type == lexer.TokIdent {
		p.nextRaw()
		part := p.nextRaw()
		parts = append(parts, atoms.Identifier{Name: part.Value})
		span = span.To(part.Span)
	}
	return ast.NewLiteral(span, atoms.IdentifierDotList{Parts: parts})
}

// isBareParamList scans from raw offset over identifiers, commas and
// generic brackets, reporting whether the run ends in '='.
func (p *Parser) isBareParamList(offset int) bool {
	for {
		tok, at := p.significant(offset, false)
		switch tok.Type {
		case lexer.TokAssign:
			return true
		case lexer.TokIdent, lexer.TokComma, lexer.TokLt, lexer.TokGt:
			offset = at + 1
		default:
			return false
		}
	}
}

// matchParen scans from raw offset, just past an opening parenthesis, to
// the matching ')' and returns the offset after it.
func (p *Parser) matchParen(offset int) (int, bool) {
	depth := 1
	for {
		tok := p.raw(offset)
		offset++
		switch tok.Type {
		case lexer.TokLParen, lexer.TokTupleOpen:
			depth++
		case lexer.TokRParen:
			depth--
			if depth == 0 {
				return offset, true
			}
		case lexer.TokEOF:
			return 0, false
		}
	}
}

// isAnonymousFunction reports whether the tokens after a consumed '(' form
// "params) =>".
func (p *Parser) isAnonymousFunction() bool {
	after, ok := p.matchParen(0)
	if !ok {
		return false
	}
	tok, _ := p.significant(after, false)
	return tok.Type == lexer.TokThickArrow
}

func (p *Parser) parseAnonymousFunction(open lexer.Token) (ast.Expr, error) {
	params, err := p.parseParams(lexer.TokRParen, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokThickArrow, "after anonymous function parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Span: open.Span.To(body.NodeSpan()), Params: params, Body: body}, nil
}

func (p *Parser) parseFunctionBody(name lexer.Token, params []ast.Param) (ast.Expr, error) {
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Span: name.Span.To(body.NodeSpan()), Name: name.Value, Params: params, Body: body}, nil
}

// paramWord is one identifier of a parameter list, with its generic
// suffix if any.
type paramWord struct {
	tok  lexer.Token
	text string
}

// parseParams parses a parameter list up to and including end. Entries are
// comma separated and are either "Type Name" or a bare "Name" of type any.
// Without parentheses and without commas, every identifier is a bare name.
func (p *Parser) parseParams(end lexer.TokenType, parenthesized bool) ([]ast.Param, error) {
	var groups [][]paramWord
	var current []paramWord
	for {
		tok := p.lookahead(0, parenthesized)
		switch tok.Type {
		case end:
			p.read(parenthesized)
			if len(current) == 0 && len(groups) > 0 {
				return nil, p.unexpected(tok, "after ','", "a parameter")
			}
			if len(current) > 0 {
				groups = append(groups, current)
			}
			return buildParams(groups, parenthesized)
		case lexer.TokIdent:
			p.read(parenthesized)
			word := paramWord{tok: tok, text: tok.Value}
			if p.lookahead(0, parenthesized).Type == lexer.TokLt {
				suffix, err := p.parseGenericSuffix(parenthesized)
				if err != nil {
					return nil, err
				}
				word.text += suffix
			}
			current = append(current, word)
		case lexer.TokComma:
			p.read(parenthesized)
			if len(current) == 0 {
				return nil, p.unexpected(tok, "in parameter list", lexer.TokIdent.String())
			}
			groups = append(groups, current)
			current = nil
		default:
			return nil, p.unexpected(tok, "in parameter list", lexer.TokIdent.String(), lexer.TokComma.String(), end.String())
		}
	}
}

// parseGenericSuffix reads a textual "<...>" suffix without validating it.
func (p *Parser) parseGenericSuffix(skipNewlines bool) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok := p.read(skipNewlines)
		switch tok.Type {
		case lexer.TokLt:
			depth++
		case lexer.TokGt:
			depth--
		case lexer.TokIdent, lexer.TokComma:
		default:
			return "", p.unexpected(tok, "in generic type arguments", lexer.TokIdent.String(), lexer.TokGt.String())
		}
		b.WriteString(tok.Value)
		if depth == 0 {
			return b.String(), nil
		}
	}
}

func buildParams(groups [][]paramWord, parenthesized bool) ([]ast.Param, error) {
	var params []ast.Param
	if !parenthesized && len(groups) == 1 {
		for _, w := range groups[0] {
			if w.text != w.tok.Value {
				return nil, diagnostics.ParseError(w.tok.Span.Start, "Unexpected generic arguments on parameter '%s'", w.tok.Value)
			}
			params = append(params, ast.Param{Span: w.tok.Span, Name: w.text})
		}
	} else {
		for _, g := range groups {
			switch len(g) {
			case 1:
				if g[0].text != g[0].tok.Value {
					return nil, diagnostics.ParseError(g[0].tok.Span.Start, "Expected a parameter name after type '%s'", g[0].text)
				}
				params = append(params, ast.Param{Span: g[0].tok.Span, Name: g[0].text})
			case 2:
				if g[1].text != g[1].tok.Value {
					return nil, diagnostics.ParseError(g[1].tok.Span.Start, "Unexpected generic arguments on parameter '%s'", g[1].tok.Value)
				}
				params = append(params, ast.Param{Span: g[0].tok.Span.To(g[1].tok.Span), TypeName: g[0].text, Name: g[1].text})
			default:
				return nil, diagnostics.ParseError(g[2].tok.Span.Start, "Expected ',' after parameter '%s %s'", g[0].text, g[1].text)
			}
		}
	}

	seen := make(map[string]bool, len(params))
	for _, prm := range params {
		if seen[prm.Name] {
			return nil, diagnostics.ParseError(prm.Span.Start, "Duplicate parameter name '%s'", prm.Name)
		}
		seen[prm.Name] = true
	}
	return params, nil
}

// parseHintedCall parses up to hint.MaxArity arguments of a call without
// parentheses. It returns nil when no argument follows the name.
func (p *Parser) parseHintedCall(name lexer.Token, hint Hint) (ast.Expr, error) {
	minBP := 0
	if hint.SingleValue {
		minBP = ast.PrefixBindingPower
	}
	var args []ast.Expr
	span := name.Span
	for len(args) < hint.MaxArity && startsExpression(p.peekRaw().Type) {
		arg, err := p.parseExpression(minBP)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		span = span.To(arg.NodeSpan())
		if len(args) < hint.MaxArity && p.peekRaw().Type == lexer.TokComma && startsExpression(p.lookahead(1, false).Type) {
			p.nextRaw()
		}
	}
	if len(args) == 0 {
		return nil, nil
	}
	return &ast.Call{Span: span, Name: name.Value, Args: args}, nil
}
