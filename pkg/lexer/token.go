package lexer

import (
	"fmt"

	"github.com/lento-lang/lento/pkg/source"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Literals
	TokInteger TokenType = iota
	TokFloat
	TokString
	TokCharacter
	TokBoolean
	TokAtom      // :name
	TokAttribute // @name

	// Identifiers
	TokIdent

	// Grouping
	TokLParen    // (
	TokRParen    // )
	TokLBracket  // [
	TokRBracket  // ]
	TokLBrace    // {
	TokRBrace    // }
	TokTupleOpen // #(

	// Punctuation
	TokDot          // .
	TokComma        // ,
	TokColon        // :
	TokSemicolon    // ;
	TokNewline      // \n
	TokAssign       // =
	TokArrow        // ->
	TokThickArrow   // =>
	TokQuestionMark // ?

	// Comparison operators
	TokEqEq   // ==
	TokBangEq // !=
	TokLt     // <
	TokLtEq   // <=
	TokGt     // >
	TokGtEq   // >=

	// Arithmetic operators
	TokPlus    // +
	TokMinus   // -
	TokStar    // *
	TokSlash   // /
	TokPercent // %

	// Logical operators
	TokAndAnd    // &&
	TokPipe      // |
	TokBackslash // \
	TokBang      // !
	TokAmp       // & directly before an identifier

	// Comments
	TokLineComment  // // ...
	TokBlockComment // /* ... */

	// Special
	TokEOF
)

var tokenNames = map[TokenType]string{
	TokInteger:      "Integer",
	TokFloat:        "Float",
	TokString:       "String",
	TokCharacter:    "Character",
	TokBoolean:      "Boolean",
	TokAtom:         "Atom",
	TokAttribute:    "Attribute",
	TokIdent:        "Identifier",
	TokLParen:       "'('",
	TokRParen:       "')'",
	TokLBracket:     "'['",
	TokRBracket:     "']'",
	TokLBrace:       "'{'",
	TokRBrace:       "'}'",
	TokTupleOpen:    "'#('",
	TokDot:          "'.'",
	TokComma:        "','",
	TokColon:        "':'",
	TokSemicolon:    "';'",
	TokNewline:      "NewLine",
	TokAssign:       "'='",
	TokArrow:        "'->'",
	TokThickArrow:   "'=>'",
	TokQuestionMark: "'?'",
	TokEqEq:         "'=='",
	TokBangEq:       "'!='",
	TokLt:           "'<'",
	TokLtEq:         "'<='",
	TokGt:           "'>'",
	TokGtEq:         "'>='",
	TokPlus:         "'+'",
	TokMinus:        "'-'",
	TokStar:         "'*'",
	TokSlash:        "'/'",
	TokPercent:      "'%'",
	TokAndAnd:       "'&&'",
	TokPipe:         "'|'",
	TokBackslash:    "'\\'",
	TokBang:         "'!'",
	TokAmp:          "'&'",
	TokLineComment:  "Comment",
	TokBlockComment: "Comment",
	TokEOF:          "EndOfFile",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsComment reports whether the token type is a comment.
func (t TokenType) IsComment() bool {
	return t == TokLineComment || t == TokBlockComment
}

// Token represents a single lexer token. String and character literals
// carry their decoded contents in Value.
type Token struct {
	Type  TokenType
	Value string
	Span  source.Span
}

func (t Token) String() string {
	switch t.Type {
	case TokNewline, TokEOF:
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

var keywords = map[string]TokenType{
	"true":  TokBoolean,
	"false": TokBoolean,
}
