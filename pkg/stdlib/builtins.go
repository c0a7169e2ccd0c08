package stdlib

import (
	"fmt"
	"strings"

	"github.com/lento-lang/lento/pkg/atoms"
)

// maxPrintArity is the largest argument count print and println accept.
const maxPrintArity = 5

// RegisterDefaults adds all default built-ins and their parser hints.
func RegisterDefaults(r *Registry) {
	// Output
	for n := 1; n <= maxPrintArity; n++ {
		r.Register(Fn{Name: "print", Params: params(atoms.AnyType, n), Return: atoms.UnitType, Execute: r.print("")})
		r.Register(Fn{Name: "println", Params: params(atoms.AnyType, n), Return: atoms.UnitType, Execute: r.print("\n")})
	}
	r.Hint("print", maxPrintArity, false)
	r.Hint("println", maxPrintArity, false)

	// Reflection
	r.Register(Fn{Name: "typeof", Params: params(atoms.AnyType, 1), Return: atoms.TypeType, Execute: stdlibTypeof})
	r.Register(Fn{Name: "nameof", Params: params(atoms.TypeType, 1), Return: atoms.StringType, Execute: stdlibNameof})
	r.Hint("typeof", 1, true)
	r.Hint("nameof", 1, true)

	// Conversion
	r.Register(Fn{Name: "str", Params: params(atoms.AnyType, 1), Return: atoms.StringType, Execute: stdlibStr})
	r.Register(Fn{Name: "lst", Params: params(atoms.AnyType, 1), Return: atoms.ListType, Execute: stdlibLst})
	r.Register(Fn{Name: "tpl", Params: params(atoms.ListType, 1), Return: atoms.TupleType, Execute: stdlibTpl})
	r.Hint("str", 1, false)
	r.Hint("lst", 1, false)
	r.Hint("tpl", 1, false)

	// Parsing
	for _, p := range []struct {
		name string
		fn   atoms.NativeFunc
	}{
		{"parse_int", stdlibParseInt},
		{"parse_float", stdlibParseFloat},
		{"parse_bool", stdlibParseBool},
		{"parse_atom", stdlibParseAtom},
		{"parse_json", stdlibParseJSON},
	} {
		r.Register(Fn{Name: p.name, Params: params(atoms.StringType, 1), Return: atoms.TupleType, Execute: p.fn})
		r.Hint(p.name, 1, false)
	}
	r.Register(Fn{Name: "json", Params: params(atoms.AnyType, 1), Return: atoms.StringType, Execute: stdlibJSON})
	r.Hint("json", 1, false)

	// Strings
	r.Register(Fn{Name: "split", Params: params(atoms.StringType, 2), Return: atoms.ListType, Execute: stdlibSplit})
	r.Register(Fn{Name: "join", Params: []*atoms.AtomicType{atoms.ListType, atoms.StringType}, Return: atoms.StringType, Execute: stdlibJoin})
	r.Register(Fn{Name: "replace", Params: params(atoms.StringType, 3), Return: atoms.StringType, Execute: stdlibReplace})
	r.Register(Fn{Name: "starts_with", Params: params(atoms.StringType, 2), Return: atoms.BooleanType, Execute: stdlibStartsWith})
	r.Register(Fn{Name: "ends_with", Params: params(atoms.StringType, 2), Return: atoms.BooleanType, Execute: stdlibEndsWith})

	// Lists
	r.Register(Fn{Name: "len", Params: params(atoms.StringType, 1), Return: atoms.IntegerType, Execute: stdlibLen})
	r.Register(Fn{Name: "len", Params: params(atoms.ListType, 1), Return: atoms.IntegerType, Execute: stdlibLen})
	r.Register(Fn{Name: "len", Params: params(atoms.TupleType, 1), Return: atoms.IntegerType, Execute: stdlibLen})
	r.Register(Fn{Name: "contains", Params: []*atoms.AtomicType{atoms.StringType, atoms.AnyType}, Return: atoms.BooleanType, Execute: stdlibContains})
	r.Register(Fn{Name: "contains", Params: []*atoms.AtomicType{atoms.ListType, atoms.AnyType}, Return: atoms.BooleanType, Execute: stdlibContains})
	r.Register(Fn{Name: "range", Params: params(atoms.IntegerType, 2), Return: atoms.ListType, Execute: stdlibRange})
	r.Register(Fn{Name: "sort", Params: params(atoms.ListType, 1), Return: atoms.ListType, Execute: stdlibSort})
	r.Register(Fn{Name: "unique", Params: params(atoms.ListType, 1), Return: atoms.ListType, Execute: stdlibUnique})
	r.Hint("len", 1, true)

	// Math
	r.Register(Fn{Name: "max", Params: params(atoms.ListType, 1), Return: atoms.AnyType, Execute: stdlibMax})
	r.Register(Fn{Name: "min", Params: params(atoms.ListType, 1), Return: atoms.AnyType, Execute: stdlibMin})
}

// print writes the display form of its arguments separated by spaces,
// followed by end.
func (r *Registry) print(end string) atoms.NativeFunc {
	return func(args []atoms.Atomic) (atoms.Atomic, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = atoms.Display(a)
		}
		if _, err := fmt.Fprint(r.out, strings.Join(parts, " ")+end); err != nil {
			return nil, err
		}
		return atoms.Unit{}, nil
	}
}

func stdlibTypeof(args []atoms.Atomic) (atoms.Atomic, error) {
	return args[0].Type(), nil
}

func stdlibNameof(args []atoms.Atomic) (atoms.Atomic, error) {
	return atoms.String{Value: args[0].(*atoms.AtomicType).String()}, nil
}

// str joins a list of characters into a string and renders anything else
// in display form.
func stdlibStr(args []atoms.Atomic) (atoms.Atomic, error) {
	if list, ok := args[0].(atoms.List); ok {
		var b strings.Builder
		for _, el := range list.Elements {
			c, ok := el.(atoms.Character)
			if !ok {
				return atoms.String{Value: list.String()}, nil
			}
			b.WriteRune(c.Value)
		}
		return atoms.String{Value: b.String()}, nil
	}
	return atoms.String{Value: atoms.Display(args[0])}, nil
}

// lst converts a tuple to a list and a string to a list of characters.
// Other values give an empty list.
func stdlibLst(args []atoms.Atomic) (atoms.Atomic, error) {
	switch v := args[0].(type) {
	case atoms.Tuple:
		return atoms.List{Elements: append([]atoms.Atomic(nil), v.Elements...)}, nil
	case atoms.String:
		var elems []atoms.Atomic
		for _, c := range v.Value {
			elems = append(elems, atoms.Character{Value: c})
		}
		return atoms.List{Elements: elems}, nil
	case atoms.List:
		return v, nil
	}
	return atoms.List{}, nil
}

func stdlibTpl(args []atoms.Atomic) (atoms.Atomic, error) {
	list := args[0].(atoms.List)
	if len(list.Elements) == 0 {
		return atoms.Unit{}, nil
	}
	return atoms.Tuple{Elements: append([]atoms.Atomic(nil), list.Elements...)}, nil
}
