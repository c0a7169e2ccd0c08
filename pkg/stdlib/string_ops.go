package stdlib

import (
	"fmt"
	"strings"

	"github.com/lento-lang/lento/pkg/atoms"
)

// split { in: string, sep: string } → list
func stdlibSplit(args []atoms.Atomic) (atoms.Atomic, error) {
	in := args[0].(atoms.String).Value
	sep := args[1].(atoms.String).Value

	parts := strings.Split(in, sep)
	items := make([]atoms.Atomic, len(parts))
	for i, p := range parts {
		items[i] = atoms.String{Value: p}
	}
	return atoms.List{Elements: items}, nil
}

// join { parts: list, sep: string } → string
func stdlibJoin(args []atoms.Atomic) (atoms.Atomic, error) {
	list := args[0].(atoms.List)
	sep := args[1].(atoms.String).Value

	parts := make([]string, len(list.Elements))
	for i, item := range list.Elements {
		parts[i] = atoms.Display(item)
	}
	return atoms.String{Value: strings.Join(parts, sep)}, nil
}

// replace { in: string, from: string, to: string } → string
func stdlibReplace(args []atoms.Atomic) (atoms.Atomic, error) {
	in := args[0].(atoms.String).Value
	from := args[1].(atoms.String).Value
	to := args[2].(atoms.String).Value
	if from == "" {
		return nil, fmt.Errorf("'from' must not be empty")
	}
	return atoms.String{Value: strings.ReplaceAll(in, from, to)}, nil
}

// starts_with { in: string, value: string } → bool
func stdlibStartsWith(args []atoms.Atomic) (atoms.Atomic, error) {
	return atoms.Boolean{Value: strings.HasPrefix(args[0].(atoms.String).Value, args[1].(atoms.String).Value)}, nil
}

// ends_with { in: string, value: string } → bool
func stdlibEndsWith(args []atoms.Atomic) (atoms.Atomic, error) {
	return atoms.Boolean{Value: strings.HasSuffix(args[0].(atoms.String).Value, args[1].(atoms.String).Value)}, nil
}
