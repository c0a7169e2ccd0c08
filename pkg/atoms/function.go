package atoms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/lento-lang/lento/pkg/source"
)

var (
	// ErrSignatureCollision is returned when a variation with the same
	// parameter types is already registered.
	ErrSignatureCollision = errors.New("Function already contains a definition matching")
	// ErrNoVariation is returned when no variation accepts the arguments.
	ErrNoVariation = errors.New("No function variation matches the given signature")
	// ErrArity is returned by built-ins called with the wrong argument count.
	ErrArity = errors.New("wrong number of arguments")
)

// NativeFunc is the callback of a built-in variation.
type NativeFunc func(args []Atomic) (Atomic, error)

// Body is the expression evaluated when a user-defined variation is called.
type Body interface {
	NodeSpan() source.Span
	Pretty(indent string) string
}

// Param is a named, typed function parameter.
type Param struct {
	Name string
	Type *AtomicType
}

// Variation is one overload of a Function. User-defined variations carry a
// body and the scope they were declared in; built-in ones a native callback.
type Variation struct {
	Params  []Param
	Return  *AtomicType
	Body    Body
	Closure *Scope
	Native  NativeFunc
}

// IsBuiltin reports whether v is implemented natively.
func (v *Variation) IsBuiltin() bool { return v.Native != nil }

// ParamTypes returns the parameter type vector.
func (v *Variation) ParamTypes() []*AtomicType {
	types := make([]*AtomicType, len(v.Params))
	for i, p := range v.Params {
		types[i] = p.Type
	}
	return types
}

// Call invokes a built-in variation, checking the argument count first.
func (v *Variation) Call(args []Atomic) (Atomic, error) {
	if !v.IsBuiltin() {
		return nil, fmt.Errorf("variation is not built-in")
	}
	if len(args) != len(v.Params) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArity, len(v.Params), len(args))
	}
	return v.Native(args)
}

// Signature renders the variation as name(type, type).
func (v *Variation) Signature(name string) string {
	return name + "(" + JoinTypes(v.ParamTypes()) + ")"
}

// Accepts reports whether args match the parameter types position by
// position.
func (v *Variation) Accepts(args []*AtomicType) bool {
	if len(args) != len(v.Params) {
		return false
	}
	for i, p := range v.Params {
		if !p.Type.Equals(args[i]) {
			return false
		}
	}
	return true
}

// Function is a named overload table. Variations are kept in insertion
// order, keyed by their canonical parameter type vector.
type Function struct {
	Name       string
	variations *linkedhashmap.Map
}

func (*Function) atomic() {}

// NewFunction creates a function without variations.
func NewFunction(name string) *Function {
	return &Function{Name: name, variations: linkedhashmap.New()}
}

func variationKey(types []*AtomicType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

func (f *Function) add(v *Variation) error {
	key := variationKey(v.ParamTypes())
	if _, found := f.variations.Get(key); found {
		return fmt.Errorf("%w: %s", ErrSignatureCollision, v.Signature(f.Name))
	}
	f.variations.Put(key, v)
	return nil
}

// AddVariation registers a user-defined overload.
func (f *Function) AddVariation(params []Param, body Body, ret *AtomicType, closure *Scope) error {
	return f.add(&Variation{Params: params, Return: ret, Body: body, Closure: closure})
}

// AddBuiltinVariation registers a native overload.
func (f *Function) AddBuiltinVariation(native NativeFunc, ret *AtomicType, params ...*AtomicType) error {
	ps := make([]Param, len(params))
	for i, t := range params {
		ps[i] = Param{Type: t}
	}
	return f.add(&Variation{Params: ps, Return: ret, Native: native})
}

// Variations returns every variation in insertion order.
func (f *Function) Variations() []*Variation {
	values := f.variations.Values()
	out := make([]*Variation, len(values))
	for i, v := range values {
		out[i] = v.(*Variation)
	}
	return out
}

// Signatures lists the signature of each variation.
func (f *Function) Signatures() []string {
	vars := f.Variations()
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Signature(f.Name)
	}
	return out
}

// Resolve returns the first variation, in insertion order, accepting args.
func (f *Function) Resolve(args []*AtomicType) (*Variation, error) {
	for _, v := range f.Variations() {
		if v.Accepts(args) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w '%s(%s)'. Valid function variations are: %s",
		ErrNoVariation, f.Name, JoinTypes(args), strings.Join(f.Signatures(), ", "))
}

// Type returns a function type recording each variation's arity.
func (f *Function) Type() *AtomicType {
	vars := f.Variations()
	arities := make([]int, len(vars))
	for i, v := range vars {
		arities[i] = len(v.Params)
	}
	return FunctionOf(arities)
}

func (f *Function) String() string {
	return fmt.Sprintf("<function %s>", f.Name)
}
