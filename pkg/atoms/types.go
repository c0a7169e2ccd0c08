package atoms

import "strings"

// TypeKind distinguishes plain named types from the structural ones.
type TypeKind int

const (
	KindPlain TypeKind = iota
	KindAny
	KindSum
	KindTuple
	KindFunction
	KindUnknown
)

// AtomicType is the structural type tag carried by every Atomic. Two types
// are equal when their names are equal, except that Any matches everything
// and a sum type matches when any of its members does.
type AtomicType struct {
	Name    string
	Kind    TypeKind
	Members []*AtomicType // sum members, or tuple element types
	Arities []int         // parameter counts of a function's variations
}

func (*AtomicType) atomic() {}

// Type returns the type of a type value.
func (*AtomicType) Type() *AtomicType { return TypeType }

// Base types bound in every global scope.
var (
	IntegerType    = &AtomicType{Name: "int"}
	LongType       = &AtomicType{Name: "long"}
	BigIntegerType = &AtomicType{Name: "bigint"}
	FloatType      = &AtomicType{Name: "float"}
	DoubleType     = &AtomicType{Name: "double"}
	BooleanType    = &AtomicType{Name: "bool"}
	CharacterType  = &AtomicType{Name: "char"}
	StringType     = &AtomicType{Name: "string"}
	AtomType       = &AtomicType{Name: "atom"}
	ListType       = &AtomicType{Name: "list"}
	TupleType      = &AtomicType{Name: "tuple", Kind: KindTuple}
	UnitType       = &AtomicType{Name: "unit"}
	FunctionType   = &AtomicType{Name: "function", Kind: KindFunction}
	TypeType       = &AtomicType{Name: "type"}
	ReferenceType  = &AtomicType{Name: "reference"}
	IdentifierType = &AtomicType{Name: "identifier"}
	AnyType        = &AtomicType{Name: "any", Kind: KindAny}
	UnknownType    = &AtomicType{Name: "unknown", Kind: KindUnknown}
)

// NewSumType returns a type standing for any one of members. Nested sums
// are flattened and identical members collapse; a single remaining member
// is returned as is.
func NewSumType(members ...*AtomicType) *AtomicType {
	var flat []*AtomicType
	var add func(t *AtomicType)
	add = func(t *AtomicType) {
		if t.Kind == KindSum {
			for _, m := range t.Members {
				add(m)
			}
			return
		}
		for _, existing := range flat {
			if existing.Identical(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		if m != nil {
			add(m)
		}
	}
	switch len(flat) {
	case 0:
		return UnknownType
	case 1:
		return flat[0]
	}
	return &AtomicType{Name: "sum", Kind: KindSum, Members: flat}
}

// TupleOf returns the type of a tuple with the given element types.
func TupleOf(elements []*AtomicType) *AtomicType {
	return &AtomicType{Name: TupleType.Name, Kind: KindTuple, Members: elements}
}

// FunctionOf returns a function type recording the arity of each variation.
func FunctionOf(arities []int) *AtomicType {
	return &AtomicType{Name: FunctionType.Name, Kind: KindFunction, Arities: arities}
}

// IsAny reports whether t is the Any type.
func (t *AtomicType) IsAny() bool { return t != nil && t.Kind == KindAny }

// IsUnknown reports whether t is the Unknown placeholder.
func (t *AtomicType) IsUnknown() bool { return t == nil || t.Kind == KindUnknown }

// IsSum reports whether t is a sum type.
func (t *AtomicType) IsSum() bool { return t != nil && t.Kind == KindSum }

// Equals is the matching relation used by overload dispatch.
func (t *AtomicType) Equals(other *AtomicType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind == KindAny || other.Kind == KindAny {
		return true
	}
	if t.Kind == KindSum {
		for _, m := range t.Members {
			if m.Equals(other) {
				return true
			}
		}
		return false
	}
	if other.Kind == KindSum {
		return other.Equals(t)
	}
	return t.Name == other.Name
}

// Identical is strict equality: Any only matches Any and sums must have
// the same members.
func (t *AtomicType) Identical(other *AtomicType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind && (t.Kind == KindAny || other.Kind == KindAny || t.Kind == KindSum || other.Kind == KindSum) {
		return false
	}
	if t.Kind == KindSum {
		if len(t.Members) != len(other.Members) {
			return false
		}
		for _, m := range t.Members {
			found := false
			for _, o := range other.Members {
				if m.Identical(o) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return t.Name == other.Name
}

func (t *AtomicType) String() string {
	if t == nil {
		return UnknownType.Name
	}
	switch t.Kind {
	case KindSum:
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = m.String()
		}
		return strings.Join(names, " | ")
	case KindTuple:
		if len(t.Members) == 0 {
			return t.Name
		}
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = m.String()
		}
		return t.Name + "(" + strings.Join(names, ", ") + ")"
	}
	return t.Name
}

// JoinTypes renders a parameter type vector as "int, any".
func JoinTypes(types []*AtomicType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// TypeOf returns the type of each value.
func TypeOf(values []Atomic) []*AtomicType {
	types := make([]*AtomicType, len(values))
	for i, v := range values {
		types[i] = v.Type()
	}
	return types
}
