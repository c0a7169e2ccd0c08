package atoms

import (
	"math"
	"math/big"
)

// NumericKind enumerates the numeric Atomic kinds in ascending width.
type NumericKind int

const (
	KindInteger NumericKind = iota
	KindLong
	KindBigInteger
	KindFloat
	KindDouble
)

// numericKinds lists every kind in promotion scan order.
var numericKinds = []NumericKind{KindInteger, KindLong, KindBigInteger, KindFloat, KindDouble}

// NumericInfo describes the representation of a numeric kind.
type NumericInfo struct {
	Bits     int
	Floating bool
	Signed   bool
}

var numericInfos = [...]NumericInfo{
	KindInteger:    {Bits: 32, Signed: true},
	KindLong:       {Bits: 64, Signed: true},
	KindBigInteger: {Bits: 128, Signed: true},
	KindFloat:      {Bits: 32, Floating: true, Signed: true},
	KindDouble:     {Bits: 64, Floating: true, Signed: true},
}

var numericTypes = [...]*AtomicType{
	KindInteger:    IntegerType,
	KindLong:       LongType,
	KindBigInteger: BigIntegerType,
	KindFloat:      FloatType,
	KindDouble:     DoubleType,
}

// Info returns the representation descriptor of k.
func (k NumericKind) Info() NumericInfo { return numericInfos[k] }

// Type returns the AtomicType of k.
func (k NumericKind) Type() *AtomicType { return numericTypes[k] }

// IsInteger reports whether k is one of the integral kinds.
func (k NumericKind) IsInteger() bool { return !numericInfos[k].Floating }

func (k NumericKind) String() string { return numericTypes[k].Name }

// FitsIn reports whether a value described by i can be represented by other.
func (i NumericInfo) FitsIn(other NumericInfo) bool {
	return i.Bits <= other.Bits && i.Signed == other.Signed && i.Floating == other.Floating
}

// NumericKindOf returns the numeric kind of v.
func NumericKindOf(v Atomic) (NumericKind, bool) {
	switch v.(type) {
	case Integer:
		return KindInteger, true
	case Long:
		return KindLong, true
	case BigInteger:
		return KindBigInteger, true
	case Float:
		return KindFloat, true
	case Double:
		return KindDouble, true
	}
	return 0, false
}

// NumericKindOfType returns the numeric kind named by t.
func NumericKindOfType(t *AtomicType) (NumericKind, bool) {
	if t == nil || t.Kind != KindPlain {
		return 0, false
	}
	for _, k := range numericKinds {
		if numericTypes[k].Name == t.Name {
			return k, true
		}
	}
	return 0, false
}

// PromotionCandidates returns every kind a mixed operation on a and b may
// produce, smallest first. Same kinds promote to themselves. Otherwise the
// requested descriptor takes the wider bit count, is floating when exactly
// one side is floating and signed when either side is.
func PromotionCandidates(a, b NumericKind) []NumericKind {
	if a == b {
		return []NumericKind{a}
	}
	ia, ib := a.Info(), b.Info()
	requested := NumericInfo{
		Bits:     max(ia.Bits, ib.Bits),
		Floating: ia.Floating != ib.Floating,
		Signed:   ia.Signed || ib.Signed,
	}
	var out []NumericKind
	for _, k := range numericKinds {
		if requested.FitsIn(k.Info()) {
			out = append(out, k)
		}
	}
	return out
}

// Promote returns the smallest common kind of a and b.
func Promote(a, b NumericKind) (NumericKind, bool) {
	candidates := PromotionCandidates(a, b)
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[0], true
}

// PromoteTypes is the static form of Promote: several fitting kinds are
// reported as a sum type.
func PromoteTypes(a, b *AtomicType) (*AtomicType, bool) {
	ka, ok := NumericKindOfType(a)
	if !ok {
		return nil, false
	}
	kb, ok := NumericKindOfType(b)
	if !ok {
		return nil, false
	}
	candidates := PromotionCandidates(ka, kb)
	if len(candidates) == 0 {
		return nil, false
	}
	types := make([]*AtomicType, len(candidates))
	for i, k := range candidates {
		types[i] = k.Type()
	}
	return NewSumType(types...), true
}

// ToBig returns the value of an integral Atomic.
func ToBig(v Atomic) (*big.Int, bool) {
	switch n := v.(type) {
	case Integer:
		return big.NewInt(int64(n.Value)), true
	case Long:
		return big.NewInt(n.Value), true
	case BigInteger:
		return new(big.Int).Set(n.Value), true
	}
	return nil, false
}

// ToFloat64 returns the value of any numeric Atomic as a float64.
func ToFloat64(v Atomic) (float64, bool) {
	switch n := v.(type) {
	case Integer:
		return float64(n.Value), true
	case Long:
		return float64(n.Value), true
	case BigInteger:
		f, _ := new(big.Float).SetInt(n.Value).Float64()
		return f, true
	case Float:
		return float64(n.Value), true
	case Double:
		return n.Value, true
	}
	return 0, false
}

// Convert represents a numeric value as kind k. Narrowing conversions
// truncate.
func Convert(v Atomic, k NumericKind) (Atomic, bool) {
	if _, ok := NumericKindOf(v); !ok {
		return nil, false
	}
	if k.IsInteger() {
		n, ok := ToBig(v)
		if !ok {
			f, _ := ToFloat64(v)
			n = new(big.Int)
			if !math.IsNaN(f) && !math.IsInf(f, 0) {
				n, _ = big.NewFloat(math.Trunc(f)).Int(nil)
			}
		}
		switch k {
		case KindInteger:
			return Integer{Value: int32(n.Int64())}, true
		case KindLong:
			return Long{Value: n.Int64()}, true
		default:
			return BigInteger{Value: n}, true
		}
	}
	f, _ := ToFloat64(v)
	if k == KindFloat {
		return Float{Value: float32(f)}, true
	}
	return Double{Value: f}, true
}

// NormalizeInteger returns the narrowest integral Atomic holding n.
func NormalizeInteger(n *big.Int) Atomic {
	if n.IsInt64() {
		v := n.Int64()
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return Integer{Value: int32(v)}
		}
		return Long{Value: v}
	}
	return BigInteger{Value: n}
}
