// Package lexer implements the Lento tokenizer and the token stream that
// connects it to the parser.
package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/source"
)

// eof is returned by peek when no more input is available.
const eof rune = -1

var escapes = map[rune]rune{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'e':  0x1b,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

type scanner struct {
	rd       *bufio.Reader
	filename string
	ahead    []rune
	err      error
	line     int
	col      int
	offset   int
}

func newScanner(r io.Reader, filename string) *scanner {
	return &scanner{
		rd:       bufio.NewReader(r),
		filename: filename,
		line:     1,
		col:      1,
	}
}

// fill makes sure at least n runes are buffered unless the input ends first.
func (s *scanner) fill(n int) {
	for len(s.ahead) < n && s.err == nil {
		r, _, err := s.rd.ReadRune()
		if err != nil {
			s.err = err
			return
		}
		s.ahead = append(s.ahead, r)
	}
}

func (s *scanner) atEnd() bool {
	return s.peek() == eof
}

func (s *scanner) peek() rune {
	return s.peekAt(0)
}

func (s *scanner) peekAt(offset int) rune {
	s.fill(offset + 1)
	if offset >= len(s.ahead) {
		return eof
	}
	return s.ahead[offset]
}

func (s *scanner) advance() rune {
	s.fill(1)
	if len(s.ahead) == 0 {
		return eof
	}
	ch := s.ahead[0]
	s.ahead = s.ahead[1:]
	s.offset++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) pos() source.Position {
	return source.Position{Line: s.line, Column: s.col, Offset: s.offset}
}

func (s *scanner) span(start source.Position) source.Span {
	return source.Span{File: s.filename, Start: start, End: s.pos()}
}

func (s *scanner) token(typ TokenType, value string, start source.Position) Token {
	return Token{Type: typ, Value: value, Span: s.span(start)}
}

// readErr reports a failure of the underlying reader, if any.
func (s *scanner) readErr() error {
	if s.err != nil && !errors.Is(s.err, io.EOF) {
		return fmt.Errorf("reading %s: %w", s.displayName(), s.err)
	}
	return nil
}

func (s *scanner) displayName() string {
	if s.filename == "" {
		return "input"
	}
	return s.filename
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (s *scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			s.advance()
		default:
			return
		}
	}
}

// scanEscape decodes the escape sequence following a backslash.
func (s *scanner) scanEscape() (rune, error) {
	start := s.pos()
	s.advance() // consume backslash
	esc := s.peek()
	if esc == eof {
		return 0, diagnostics.SyntaxError(start, "Unterminated escape sequence")
	}
	if esc == 'u' {
		s.advance()
		var hex strings.Builder
		for i := 0; i < 4; i++ {
			ch := s.peek()
			if !isHexDigit(ch) {
				return 0, diagnostics.SyntaxError(s.pos(), "Invalid unicode escape sequence '\\u%s', expected 4 hex digits", hex.String())
			}
			hex.WriteRune(s.advance())
		}
		code, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil {
			return 0, diagnostics.SyntaxError(start, "Invalid unicode escape sequence '\\u%s'", hex.String())
		}
		return rune(code), nil
	}
	r, ok := escapes[esc]
	if !ok {
		return 0, diagnostics.SyntaxError(s.pos(), "Invalid escape sequence '\\%c'", esc)
	}
	s.advance()
	return r, nil
}

func (s *scanner) scanString() (Token, error) {
	start := s.pos()
	s.advance() // consume opening "

	var buf strings.Builder
	for {
		ch := s.peek()
		switch ch {
		case eof:
			return Token{}, diagnostics.SyntaxError(start, "Unterminated string literal")
		case '"':
			s.advance()
			return s.token(TokString, buf.String(), start), nil
		case '\\':
			r, err := s.scanEscape()
			if err != nil {
				return Token{}, err
			}
			buf.WriteRune(r)
		default:
			buf.WriteRune(s.advance())
		}
	}
}

func (s *scanner) scanCharacter() (Token, error) {
	start := s.pos()
	s.advance() // consume opening '

	var value rune
	switch ch := s.peek(); ch {
	case eof:
		return Token{}, diagnostics.SyntaxError(start, "Unterminated character literal")
	case '\'':
		return Token{}, diagnostics.SyntaxError(start, "Empty character literal")
	case '\\':
		r, err := s.scanEscape()
		if err != nil {
			return Token{}, err
		}
		value = r
	default:
		value = s.advance()
	}

	if s.peek() != '\'' {
		return Token{}, diagnostics.SyntaxError(s.pos(), "Unterminated character literal, expected closing '")
	}
	s.advance()
	return s.token(TokCharacter, string(value), start), nil
}

// scanNumber scans digits with a one-rune lookahead on '.', so "7." is an
// Integer followed by a Dot and "7.5" is a Float.
func (s *scanner) scanNumber() Token {
	start := s.pos()
	var buf strings.Builder
	for isDigit(s.peek()) {
		buf.WriteRune(s.advance())
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		buf.WriteRune(s.advance())
		for isDigit(s.peek()) {
			buf.WriteRune(s.advance())
		}
		return s.token(TokFloat, buf.String(), start)
	}
	return s.token(TokInteger, buf.String(), start)
}

func (s *scanner) scanName() string {
	var buf strings.Builder
	for isIdentPart(s.peek()) {
		buf.WriteRune(s.advance())
	}
	return buf.String()
}

// scanIdentifier scans a possibly dotted identifier into alternating
// Identifier and Dot tokens.
func (s *scanner) scanIdentifier() ([]Token, error) {
	var toks []Token
	for {
		start := s.pos()
		name := s.scanName()
		typ := TokIdent
		if len(toks) == 0 {
			if kw, ok := keywords[name]; ok {
				typ = kw
			}
		}
		toks = append(toks, s.token(typ, name, start))
		if typ != TokIdent || s.peek() != '.' {
			return toks, nil
		}
		// A digit after the dot is left for the Dot token to be reported by
		// the parser; anything other than an identifier start is an error.
		if isDigit(s.peekAt(1)) {
			return toks, nil
		}
		dot := s.pos()
		s.advance()
		if !isIdentStart(s.peek()) {
			return nil, diagnostics.SyntaxError(s.pos(), "Expected identifier after '.' in '%s'", joinValues(toks))
		}
		toks = append(toks, s.token(TokDot, ".", dot))
	}
}

func joinValues(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Value)
	}
	return b.String()
}

func (s *scanner) scanLineComment(start source.Position) Token {
	var buf strings.Builder
	for ch := s.peek(); ch != eof && ch != '\n'; ch = s.peek() {
		buf.WriteRune(s.advance())
	}
	return s.token(TokLineComment, buf.String(), start)
}

func (s *scanner) scanBlockComment(start source.Position) Token {
	var buf strings.Builder
	for {
		ch := s.peek()
		if ch == eof {
			break
		}
		if ch == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			break
		}
		buf.WriteRune(s.advance())
	}
	return s.token(TokBlockComment, buf.String(), start)
}

// nextTokens scans the next lexeme. Dotted identifiers yield several tokens.
func (s *scanner) nextTokens() ([]Token, error) {
	s.skipWhitespace()
	if err := s.readErr(); err != nil {
		return nil, err
	}

	start := s.pos()
	ch := s.peek()
	if ch == eof {
		return []Token{s.token(TokEOF, "", start)}, nil
	}

	single := func(typ TokenType, text string) ([]Token, error) {
		for range text {
			s.advance()
		}
		return []Token{s.token(typ, text, start)}, nil
	}
	next := s.peekAt(1)

	switch ch {
	case '\n':
		return single(TokNewline, "\n")
	case '(':
		return single(TokLParen, "(")
	case ')':
		return single(TokRParen, ")")
	case '[':
		return single(TokLBracket, "[")
	case ']':
		return single(TokRBracket, "]")
	case '{':
		return single(TokLBrace, "{")
	case '}':
		return single(TokRBrace, "}")
	case ',':
		return single(TokComma, ",")
	case ';':
		return single(TokSemicolon, ";")
	case '.':
		return single(TokDot, ".")
	case '+':
		return single(TokPlus, "+")
	case '*':
		return single(TokStar, "*")
	case '%':
		return single(TokPercent, "%")
	case '|':
		return single(TokPipe, "|")
	case '\\':
		return single(TokBackslash, "\\")
	case '?':
		return single(TokQuestionMark, "?")
	case '#':
		if next == '(' {
			return single(TokTupleOpen, "#(")
		}
		s.advance()
		return nil, diagnostics.SyntaxError(start, "Expected '(' after '#'")
	case '=':
		switch next {
		case '=':
			return single(TokEqEq, "==")
		case '>':
			return single(TokThickArrow, "=>")
		}
		return single(TokAssign, "=")
	case '!':
		if next == '=' {
			return single(TokBangEq, "!=")
		}
		return single(TokBang, "!")
	case '<':
		if next == '=' {
			return single(TokLtEq, "<=")
		}
		return single(TokLt, "<")
	case '>':
		if next == '=' {
			return single(TokGtEq, ">=")
		}
		return single(TokGt, ">")
	case '-':
		if next == '>' {
			return single(TokArrow, "->")
		}
		return single(TokMinus, "-")
	case '&':
		if next == '&' {
			return single(TokAndAnd, "&&")
		}
		if isIdentStart(next) {
			return single(TokAmp, "&")
		}
		s.advance()
		return nil, diagnostics.SyntaxError(start, "Unexpected character '&', expected '&&' or a reference")
	case '/':
		switch next {
		case '/':
			s.advance()
			s.advance()
			return []Token{s.scanLineComment(start)}, nil
		case '*':
			s.advance()
			s.advance()
			return []Token{s.scanBlockComment(start)}, nil
		}
		return single(TokSlash, "/")
	case ':':
		if isIdentStart(next) {
			s.advance()
			return []Token{s.token(TokAtom, s.scanName(), start)}, nil
		}
		return single(TokColon, ":")
	case '@':
		if isIdentStart(next) {
			s.advance()
			return []Token{s.token(TokAttribute, s.scanName(), start)}, nil
		}
		s.advance()
		return nil, diagnostics.SyntaxError(start, "Expected attribute name after '@'")
	case '"':
		tok, err := s.scanString()
		if err != nil {
			return nil, err
		}
		return []Token{tok}, nil
	case '\'':
		tok, err := s.scanCharacter()
		if err != nil {
			return nil, err
		}
		return []Token{tok}, nil
	}

	if isDigit(ch) {
		return []Token{s.scanNumber()}, nil
	}
	if isIdentStart(ch) {
		return s.scanIdentifier()
	}

	s.advance()
	return nil, diagnostics.SyntaxError(start, "Unexpected character '%c'", ch)
}

// Tokenizer produces tokens from a character stream one call at a time.
type Tokenizer struct {
	s       *scanner
	pending []Token
	done    bool
}

// NewTokenizer creates a tokenizer reading UTF-8 text from r.
func NewTokenizer(r io.Reader, filename string) *Tokenizer {
	return &Tokenizer{s: newScanner(r, filename)}
}

// Next returns the next token. After the single EOF token has been
// returned, Next returns io.EOF.
func (t *Tokenizer) Next() (Token, error) {
	if len(t.pending) == 0 {
		if t.done {
			return Token{}, io.EOF
		}
		toks, err := t.s.nextTokens()
		if err != nil {
			return Token{}, err
		}
		t.pending = toks
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	if tok.Type == TokEOF {
		t.done = true
	}
	return tok, nil
}

// Produce writes every token into ts and signals end of production, even
// when tokenizing fails part way.
func (t *Tokenizer) Produce(ts *TokenStream) error {
	defer ts.Close()
	for {
		tok, err := t.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ts.Write(tok); err != nil {
			return err
		}
	}
}

// Tokenize reads all of r into a closed TokenStream.
func Tokenize(r io.Reader, filename string) (*TokenStream, error) {
	ts := NewTokenStream()
	if err := NewTokenizer(r, filename).Produce(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// TokenizeString tokenizes an in-memory source string.
func TokenizeString(src, filename string) (*TokenStream, error) {
	return Tokenize(strings.NewReader(src), filename)
}
