package stdlib

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/lento-lang/lento/pkg/atoms"
)

// parsed builds the #(ok, value) result of the parse_ built-ins.
func parsed(ok bool, v atoms.Atomic) atoms.Atomic {
	return atoms.Tuple{Elements: []atoms.Atomic{atoms.Boolean{Value: ok}, v}}
}

// parse_int { string } → #(ok, int)
func stdlibParseInt(args []atoms.Atomic) (atoms.Atomic, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(atoms.Display(args[0])), 10, 32)
	if err != nil {
		return parsed(false, atoms.Integer{}), nil
	}
	return parsed(true, atoms.Integer{Value: int32(n)}), nil
}

// parse_float { string } → #(ok, float)
func stdlibParseFloat(args []atoms.Atomic) (atoms.Atomic, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(atoms.Display(args[0])), 32)
	if err != nil {
		return parsed(false, atoms.Float{}), nil
	}
	return parsed(true, atoms.Float{Value: float32(f)}), nil
}

// parse_bool { string } → #(ok, bool), case-insensitive
func stdlibParseBool(args []atoms.Atomic) (atoms.Atomic, error) {
	switch strings.ToLower(strings.TrimSpace(atoms.Display(args[0]))) {
	case "true":
		return parsed(true, atoms.Boolean{Value: true}), nil
	case "false":
		return parsed(true, atoms.Boolean{Value: false}), nil
	}
	return parsed(false, atoms.Boolean{}), nil
}

// parse_atom { string } → #(true, atom)
func stdlibParseAtom(args []atoms.Atomic) (atoms.Atomic, error) {
	return parsed(true, atoms.Atom{Name: atoms.Display(args[0])}), nil
}

// parse_json { string } → #(ok, value)
//
// Arrays become lists, objects become lists of #(key, value) tuples in
// source order, null becomes unit and numbers take the narrowest numeric
// kind.
func stdlibParseJSON(args []atoms.Atomic) (atoms.Atomic, error) {
	dec := json.NewDecoder(strings.NewReader(atoms.Display(args[0])))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		return parsed(false, atoms.Unit{}), nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return parsed(false, atoms.Unit{}), nil
	}
	return parsed(true, v), nil
}

func decodeJSON(dec *json.Decoder) (atoms.Atomic, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case nil:
		return atoms.Unit{}, nil
	case bool:
		return atoms.Boolean{Value: v}, nil
	case string:
		return atoms.String{Value: v}, nil
	case json.Number:
		if n, ok := new(big.Int).SetString(v.String(), 10); ok {
			return atoms.NormalizeInteger(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return atoms.Double{Value: f}, nil
	case json.Delim:
		var elems []atoms.Atomic
		for dec.More() {
			if v == '{' {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				value, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, atoms.Tuple{Elements: []atoms.Atomic{atoms.String{Value: key.(string)}, value}})
				continue
			}
			el, err := decodeJSON(dec)
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return atoms.List{Elements: elems}, nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// json { any } → string
func stdlibJSON(args []atoms.Atomic) (atoms.Atomic, error) {
	b, err := atoms.ToJSON(args[0])
	if err != nil {
		return nil, err
	}
	return atoms.String{Value: string(b)}, nil
}
