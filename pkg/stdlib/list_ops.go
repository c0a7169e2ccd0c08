package stdlib

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/evaluator"
)

// maxRange bounds the length of lists built by range.
const maxRange = 1000000

// len { string | list | tuple } → int
func stdlibLen(args []atoms.Atomic) (atoms.Atomic, error) {
	switch v := args[0].(type) {
	case atoms.String:
		return atoms.Integer{Value: int32(utf8.RuneCountInString(v.Value))}, nil
	case atoms.List:
		return atoms.Integer{Value: int32(len(v.Elements))}, nil
	case atoms.Tuple:
		return atoms.Integer{Value: int32(len(v.Elements))}, nil
	}
	return atoms.Integer{}, nil
}

// contains { in: string | list, value: any } → bool
//
// Strings test for a substring or character, lists for an equal element.
func stdlibContains(args []atoms.Atomic) (atoms.Atomic, error) {
	switch in := args[0].(type) {
	case atoms.String:
		switch v := args[1].(type) {
		case atoms.String:
			return atoms.Boolean{Value: strings.Contains(in.Value, v.Value)}, nil
		case atoms.Character:
			return atoms.Boolean{Value: strings.ContainsRune(in.Value, v.Value)}, nil
		}
	case atoms.List:
		for _, item := range in.Elements {
			if evaluator.Equal(item, args[1]) {
				return atoms.Boolean{Value: true}, nil
			}
		}
	}
	return atoms.Boolean{Value: false}, nil
}

// range { from: int, to: int } → list of ints in [from, to)
func stdlibRange(args []atoms.Atomic) (atoms.Atomic, error) {
	from := args[0].(atoms.Integer).Value
	to := args[1].(atoms.Integer).Value
	if to <= from {
		return atoms.List{}, nil
	}
	count := int64(to) - int64(from)
	if count > maxRange {
		return nil, fmt.Errorf("range too large: %d items", count)
	}
	items := make([]atoms.Atomic, 0, count)
	for i := from; i < to; i++ {
		items = append(items, atoms.Integer{Value: i})
	}
	return atoms.List{Elements: items}, nil
}

// sort { in: list } → list
//
// Numbers and characters sort by value, strings lexically. Mixed or
// unordered elements are an error.
func stdlibSort(args []atoms.Atomic) (atoms.Atomic, error) {
	list := args[0].(atoms.List)
	sorted := make([]atoms.Atomic, len(list.Elements))
	copy(sorted, list.Elements)

	var failed error
	sort.SliceStable(sorted, func(i, j int) bool {
		c, err := compareValues(sorted[i], sorted[j])
		if err != nil && failed == nil {
			failed = err
		}
		return c < 0
	})
	if failed != nil {
		return nil, failed
	}
	return atoms.List{Elements: sorted}, nil
}

func compareValues(a, b atoms.Atomic) (int, error) {
	if as, ok := a.(atoms.String); ok {
		if bs, ok := b.(atoms.String); ok {
			return strings.Compare(as.Value, bs.Value), nil
		}
	}
	if c, ok := evaluator.Compare(a, b); ok {
		return c, nil
	}
	return 0, fmt.Errorf("cannot order %s and %s", a.Type(), b.Type())
}

// unique { in: list } → list without later duplicates
func stdlibUnique(args []atoms.Atomic) (atoms.Atomic, error) {
	list := args[0].(atoms.List)
	var out []atoms.Atomic
outer:
	for _, item := range list.Elements {
		for _, seen := range out {
			if evaluator.Equal(item, seen) {
				continue outer
			}
		}
		out = append(out, item)
	}
	return atoms.List{Elements: out}, nil
}
