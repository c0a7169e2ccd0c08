// Package atoms defines Lento runtime values (Atomics), their structural
// types, the numeric promotion table, function overload tables and the
// lexical scopes values are bound in.
package atoms

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Atomic is the interface for all Lento runtime values.
// The sealed marker method restricts implementations to this package.
type Atomic interface {
	Type() *AtomicType
	String() string
	atomic() // sealed marker
}

// Integer is a 32-bit signed integer.
type Integer struct {
	Value int32
}

// Long is a 64-bit signed integer.
type Long struct {
	Value int64
}

// BigInteger is an arbitrary precision integer.
type BigInteger struct {
	Value *big.Int
}

// Float is a 32-bit floating point number.
type Float struct {
	Value float32
}

// Double is a 64-bit floating point number.
type Double struct {
	Value float64
}

// Boolean is true or false.
type Boolean struct {
	Value bool
}

// Character is a single unicode code point.
type Character struct {
	Value rune
}

// String is a unicode string.
type String struct {
	Value string
}

// Atom is a symbolic value such as :ok.
type Atom struct {
	Name string
}

// List is an ordered sequence of values.
type List struct {
	Elements []Atomic
}

// Tuple is a fixed-arity sequence of values.
type Tuple struct {
	Elements []Atomic
}

// Unit is the empty value.
type Unit struct{}

// Identifier is a name, used as the target of references.
type Identifier struct {
	Name string
}

// IdentifierDotList is a dotted name such as io.file.read.
type IdentifierDotList struct {
	Parts []Identifier
}

// Reference is an unresolved reference to an identifier.
type Reference struct {
	Target Atomic
}

func (Integer) atomic()           {}
func (Long) atomic()              {}
func (BigInteger) atomic()        {}
func (Float) atomic()             {}
func (Double) atomic()            {}
func (Boolean) atomic()           {}
func (Character) atomic()         {}
func (String) atomic()            {}
func (Atom) atomic()              {}
func (List) atomic()              {}
func (Tuple) atomic()             {}
func (Unit) atomic()              {}
func (Identifier) atomic()        {}
func (IdentifierDotList) atomic() {}
func (Reference) atomic()         {}

func (Integer) Type() *AtomicType           { return IntegerType }
func (Long) Type() *AtomicType              { return LongType }
func (BigInteger) Type() *AtomicType        { return BigIntegerType }
func (Float) Type() *AtomicType             { return FloatType }
func (Double) Type() *AtomicType            { return DoubleType }
func (Boolean) Type() *AtomicType           { return BooleanType }
func (Character) Type() *AtomicType         { return CharacterType }
func (String) Type() *AtomicType            { return StringType }
func (Atom) Type() *AtomicType              { return AtomType }
func (List) Type() *AtomicType              { return ListType }
func (Unit) Type() *AtomicType              { return UnitType }
func (Identifier) Type() *AtomicType        { return IdentifierType }
func (IdentifierDotList) Type() *AtomicType { return IdentifierType }
func (Reference) Type() *AtomicType         { return ReferenceType }

// Type returns a tuple type listing the element types.
func (t Tuple) Type() *AtomicType {
	return TupleOf(TypeOf(t.Elements))
}

// NewBigInteger wraps v.
func NewBigInteger(v *big.Int) BigInteger {
	return BigInteger{Value: v}
}

func (v Integer) String() string { return strconv.FormatInt(int64(v.Value), 10) }
func (v Long) String() string    { return strconv.FormatInt(v.Value, 10) }
func (v BigInteger) String() string {
	if v.Value == nil {
		return "0"
	}
	return v.Value.String()
}
func (v Float) String() string     { return FormatFloat(float64(v.Value), 32) }
func (v Double) String() string    { return FormatFloat(v.Value, 64) }
func (v Boolean) String() string   { return strconv.FormatBool(v.Value) }
func (v Character) String() string { return QuoteChar(v.Value) }
func (v String) String() string    { return Quote(v.Value) }
func (v Atom) String() string      { return ":" + v.Name }
func (Unit) String() string        { return "#()" }
func (v Identifier) String() string {
	return v.Name
}

func (v IdentifierDotList) String() string {
	parts := make([]string, len(v.Parts))
	for i, p := range v.Parts {
		parts[i] = p.Name
	}
	return strings.Join(parts, ".")
}

func (v Reference) String() string {
	return "&" + v.Target.String()
}

func (v List) String() string {
	return "[" + joinAtomics(v.Elements) + "]"
}

func (v Tuple) String() string {
	return "#(" + joinAtomics(v.Elements) + ")"
}

func joinAtomics(values []Atomic) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Display renders a value for output: strings and characters appear
// without quotes, everything else as String.
func Display(v Atomic) string {
	switch val := v.(type) {
	case String:
		return val.Value
	case Character:
		return string(val.Value)
	}
	return v.String()
}

// FormatFloat renders a floating point number so that it reads back as a
// floating point literal.
func FormatFloat(v float64, bits int) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var quoteEscapes = map[rune]string{
	0:    `\0`,
	'\a': `\a`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
	0x1b: `\e`,
	'\\': `\\`,
	'\'': `\'`,
	'"':  `\"`,
}

func escapeRune(b *strings.Builder, r rune, quote rune) {
	if esc, ok := quoteEscapes[r]; ok && (r != '\'' && r != '"' || r == quote) {
		b.WriteString(esc)
		return
	}
	if !unicode.IsPrint(r) && r <= 0xffff {
		fmt.Fprintf(b, `\u%04x`, r)
		return
	}
	b.WriteRune(r)
}

// Quote renders s as a Lento string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		escapeRune(&b, r, '"')
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteChar renders r as a Lento character literal.
func QuoteChar(r rune) string {
	var b strings.Builder
	b.WriteByte('\'')
	escapeRune(&b, r, '\'')
	b.WriteByte('\'')
	return b.String()
}
