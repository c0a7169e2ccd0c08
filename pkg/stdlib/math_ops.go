package stdlib

import (
	"fmt"

	"github.com/lento-lang/lento/pkg/atoms"
)

// max { in: list } → number
func stdlibMax(args []atoms.Atomic) (atoms.Atomic, error) {
	return extreme(args[0].(atoms.List), 1)
}

// min { in: list } → number
func stdlibMin(args []atoms.Atomic) (atoms.Atomic, error) {
	return extreme(args[0].(atoms.List), -1)
}

// extreme returns the element e for which compareValues(e, other) has the
// sign of want against every other element.
func extreme(list atoms.List, want int) (atoms.Atomic, error) {
	if len(list.Elements) == 0 {
		return nil, fmt.Errorf("list must not be empty")
	}
	best := list.Elements[0]
	for _, item := range list.Elements[1:] {
		if _, ok := atoms.NumericKindOf(item); !ok {
			return nil, fmt.Errorf("all elements must be numbers")
		}
		c, err := compareValues(item, best)
		if err != nil {
			return nil, err
		}
		if c == want {
			best = item
		}
	}
	if _, ok := atoms.NumericKindOf(best); !ok {
		return nil, fmt.Errorf("all elements must be numbers")
	}
	return best, nil
}
