package atoms

import (
	"encoding/json"
	"math"
)

// ToJSON marshals a value to JSON. Integral kinds become JSON numbers
// (big integers keep full precision), tuples and lists become arrays, Unit
// becomes null, and values without a JSON counterpart become strings.
func ToJSON(v Atomic) ([]byte, error) {
	return json.Marshal(toRaw(v))
}

// ToJSONString is a convenience that returns a string.
func ToJSONString(v Atomic) string {
	b, err := ToJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func toRaw(v Atomic) any {
	switch val := v.(type) {
	case nil, Unit:
		return nil
	case Integer:
		return val.Value
	case Long:
		return val.Value
	case BigInteger:
		return json.Number(val.String())
	case Float:
		return floatRaw(float64(val.Value))
	case Double:
		return floatRaw(val.Value)
	case Boolean:
		return val.Value
	case Character:
		return string(val.Value)
	case String:
		return val.Value
	case List:
		return rawElements(val.Elements)
	case Tuple:
		return rawElements(val.Elements)
	}
	return v.String()
}

// floatRaw keeps non-finite numbers representable.
func floatRaw(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return FormatFloat(f, 64)
	}
	return f
}

func rawElements(elements []Atomic) []any {
	items := make([]any, len(elements))
	for i, e := range elements {
		items[i] = toRaw(e)
	}
	return items
}
