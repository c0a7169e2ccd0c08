// Package source defines positions and spans into Lento source text.
package source

import "fmt"

// Position is a 1-based line/column location plus the 0-based rune offset.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Start returns the position of the first rune of a file.
func Start() Position {
	return Position{Line: 1, Column: 1}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range of source text.
type Span struct {
	File  string   `json:"file,omitempty"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// To returns a span covering s through other.
func (s Span) To(other Span) Span {
	return Span{File: s.File, Start: s.Start, End: other.End}
}

func (s Span) String() string {
	if s.File == "" {
		return s.Start.String()
	}
	return fmt.Sprintf("%s:%s", s.File, s.Start)
}
