package evaluator_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/evaluator"
	"github.com/lento-lang/lento/pkg/parser"
)

// helper: parse and evaluate source in scope
func run(t *testing.T, scope *atoms.Scope, source string) (atoms.Atomic, error) {
	t.Helper()
	prog, err := parser.ParseString(source, "test.lt")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return evaluator.Evaluate(prog, scope)
}

// helper: evaluate source in a fresh global scope and fail on error
func mustEval(t *testing.T, source string) atoms.Atomic {
	t.Helper()
	v, err := run(t, atoms.NewGlobalScope(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func expectError(t *testing.T, source string, kind diagnostics.Kind, fragment string) {
	t.Helper()
	_, err := run(t, atoms.NewGlobalScope(), source)
	if err == nil {
		t.Fatalf("expected %q to fail", source)
	}
	if !diagnostics.IsKind(err, kind) {
		t.Fatalf("expected a %s error, got %v", kind, err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("error %q does not contain %q", err.Error(), fragment)
	}
}

// ---- 1. Values ----

func TestEvaluateValues(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"1 + 2 == 3", "true"},
		{"10 - 4 - 3", "3"},
		{"7 / 2", "3"},
		{"-7 / 2", "-3"},
		{"-7 % 3", "-1"},
		{"7.5 % 2", "1.5"},
		{"1 + 2.5", "3.5"},
		{"0.1 + 0.2 == 0.3", "true"},
		{"1 == 1.0", "true"},
		{"2 < 2.5", "true"},
		{"'a' < 'b'", "true"},
		{"3 >= 4", "false"},
		{`"ab" + "cd"`, `"abcd"`},
		{`"ab" + 'c'`, `"abc"`},
		{`'a' + "bc"`, `"abc"`},
		{"[1, 2] + [3]", "[1, 2, 3]"},
		{"true && false", "false"},
		{"true | false", "true"},
		{"6 && 3", "2"},
		{"4 | 1", "5"},
		{"!true", "false"},
		{"-2.5", "-2.5"},
		{":ok == :ok", "true"},
		{":ok == :error", "false"},
		{`"a" != "b"`, "true"},
		{"#() == #()", "true"},
		{"int == int", "true"},
		{"#(1, 2) == #(1, 2)", "true"},
		{"[1, 2] == [1, 2, 3]", "false"},
		{"[1, 'c'] == [1, 'c']", "true"},
		{"#(1, 2) + #(10, 20)", "#(11, 22)"},
		{"#(1, 2) * 3", "#(3, 6)"},
		{"10 - #(1, 2)", "#(9, 8)"},
		{"-#(1, 2.5)", "#(-1, -2.5)"},
		{"!#(true, false)", "#(false, true)"},
		{"&foo", "&foo"},
		{"&io.read", "&io.read"},
		{"{ 1; 2 }", "2"},
		{"{}", "#()"},
		{"#()", "#()"},
		{"", "#()"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := mustEval(t, tt.source).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// ---- 2. Numeric widening ----

func TestIntegerOverflowWidens(t *testing.T) {
	v := mustEval(t, "2147483647 + 1")
	long, ok := v.(atoms.Long)
	if !ok || long.Value != 2147483648 {
		t.Errorf("got %T %v", v, v)
	}

	v = mustEval(t, "9223372036854775807 + 1")
	bi, ok := v.(atoms.BigInteger)
	want, _ := new(big.Int).SetString("9223372036854775808", 10)
	if !ok || bi.Value.Cmp(want) != 0 {
		t.Errorf("got %T %v", v, v)
	}

	if _, ok := mustEval(t, "65536 * 65536").(atoms.Long); !ok {
		t.Error("multiplication did not widen")
	}
}

func TestSubtractionWraps(t *testing.T) {
	v := mustEval(t, "-2147483647 - 2")
	n, ok := v.(atoms.Integer)
	if !ok || n.Value != 2147483647 {
		t.Errorf("got %T %v", v, v)
	}
}

func TestMixedKinds(t *testing.T) {
	tests := []struct {
		source string
		want   atoms.Atomic
	}{
		{"1 + 2.5", atoms.Float{Value: 3.5}},
		{"2147483648 + 1", atoms.Long{Value: 2147483649}},
		{"2147483648 + 0.5", atoms.Double{Value: 2147483648.5}},
		{"6 && 2147483650", atoms.Long{Value: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := mustEval(t, tt.source)
			if got != tt.want {
				t.Errorf("got %T %v, want %T %v", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestNegateWidensMinimum(t *testing.T) {
	scope := atoms.NewGlobalScope()
	if err := scope.Set("min", atoms.Integer{Value: -2147483648}); err != nil {
		t.Fatal(err)
	}
	v, err := run(t, scope, "-min")
	if err != nil {
		t.Fatal(err)
	}
	if l, ok := v.(atoms.Long); !ok || l.Value != 2147483648 {
		t.Errorf("got %T %v", v, v)
	}
}

func TestFloatPlusDoublePromotesToLong(t *testing.T) {
	scope := atoms.NewGlobalScope()
	if err := scope.Set("d", atoms.Double{Value: 2.75}); err != nil {
		t.Fatal(err)
	}
	v, err := run(t, scope, "1.5 + d")
	if err != nil {
		t.Fatal(err)
	}
	// both operands truncate before adding
	if l, ok := v.(atoms.Long); !ok || l.Value != 3 {
		t.Errorf("got %T %v", v, v)
	}
}

func TestTupleNegateRoundTrip(t *testing.T) {
	if got := mustEval(t, "x = #(1, 2.5, 9223372036854775808)\n-(-x) == x"); got != (atoms.Boolean{Value: true}) {
		t.Errorf("got %v", got)
	}
}

// ---- 3. Declarations and scope ----

func TestVariables(t *testing.T) {
	scope := atoms.NewGlobalScope()
	v, err := run(t, scope, "x = 2\ny = x * 21\ny")
	if err != nil {
		t.Fatal(err)
	}
	if v != (atoms.Integer{Value: 42}) {
		t.Errorf("got %v", v)
	}
	if got, _ := scope.Types().Get("y"); got != atoms.IntegerType {
		t.Errorf("recorded type %s", got)
	}
}

func TestBlockScopeIsLocal(t *testing.T) {
	scope := atoms.NewGlobalScope()
	if _, err := run(t, scope, "x = 1\n{ x = 2; y = 3 }"); err != nil {
		t.Fatal(err)
	}
	if v, _ := scope.Get("x"); v != (atoms.Integer{Value: 1}) {
		t.Errorf("x = %v", v)
	}
	if scope.Contains("y") {
		t.Error("block binding leaked")
	}
}

func TestBlockBindingsDoNotRecordTypes(t *testing.T) {
	scope := atoms.NewGlobalScope()
	v, err := run(t, scope, "y = 10\n{ y = \"s\" }\ny + 1")
	if err != nil {
		t.Fatal(err)
	}
	if v != (atoms.Integer{Value: 11}) {
		t.Errorf("got %v", v)
	}
	if got, _ := scope.Types().Get("y"); got != atoms.IntegerType {
		t.Errorf("recorded type %s", got)
	}
	if _, err := run(t, scope, "{ z = 1 }\nf(a) = { w = a; w }\nf(2)"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"z", "w", "a"} {
		if _, ok := scope.Types().Get(name); ok {
			t.Errorf("%s leaked into the type table", name)
		}
	}
}

func TestRedeclaration(t *testing.T) {
	expectError(t, "x = 1\nx = 2", diagnostics.Runtime,
		"A local variable or function named 'x' is already defined in this scope")
	expectError(t, "x = 1\nx a = a", diagnostics.Runtime, "named 'x' is already defined")
	expectError(t, "f a = a\nf = 1", diagnostics.Runtime, "named 'f' is already defined")
}

func TestBindingsSurviveLaterFailure(t *testing.T) {
	scope := atoms.NewGlobalScope()
	if _, err := run(t, scope, "x = 1\ny = x + true"); err == nil {
		t.Fatal("expected an error")
	}
	if !scope.Contains("x") {
		t.Error("x was not kept")
	}
}

// ---- 4. Functions ----

func TestFunctionDeclarationAndCall(t *testing.T) {
	if got := mustEval(t, "add a b = a + b\nadd(3, 4)"); got != (atoms.Integer{Value: 7}) {
		t.Errorf("got %T %v", got, got)
	}
	if got := mustEval(t, "add(int a, int b) = a + b\nadd(3, 4)"); got != (atoms.Integer{Value: 7}) {
		t.Errorf("got %T %v", got, got)
	}
}

func TestDeclarationReturnsFunction(t *testing.T) {
	fn, ok := mustEval(t, "f(int x) = x\nf(string s) = s").(*atoms.Function)
	if !ok {
		t.Fatal("expected a function")
	}
	if len(fn.Variations()) != 2 {
		t.Errorf("variations = %v", fn.Signatures())
	}
}

func TestOverloadDispatch(t *testing.T) {
	src := "f(int x) = :int\nf(any x) = :any\n"
	if got := mustEval(t, src+"f(5)"); got != (atoms.Atom{Name: "int"}) {
		t.Errorf("f(5) = %v", got)
	}
	if got := mustEval(t, src+`f("s")`); got != (atoms.Atom{Name: "any"}) {
		t.Errorf(`f("s") = %v`, got)
	}
	// first registered match wins
	if got := mustEval(t, "g(any x) = :any\ng(int x) = :int\ng(5)"); got != (atoms.Atom{Name: "any"}) {
		t.Errorf("g(5) = %v", got)
	}
}

func TestSignatureCollision(t *testing.T) {
	expectError(t, "f(int x) = 1\nf(int y) = 2", diagnostics.Runtime,
		"Function already contains a definition matching: f(int)")
}

func TestNoMatchingVariation(t *testing.T) {
	expectError(t, "f(int x) = x\nf(true)", diagnostics.Runtime,
		"No function variation matches the given signature 'f(bool)'. Valid function variations are: f(int)")
	expectError(t, "f(int x) = x\nf(1, 2)", diagnostics.Runtime, "f(int, int)")
}

func TestClosuresAreLexical(t *testing.T) {
	v := mustEval(t, "x = 10\nf(y) = x + y\n{ x = 20; f(1) }")
	if v != (atoms.Integer{Value: 11}) {
		t.Errorf("got %v", v)
	}
}

func TestFunctionBodyScopeIsFresh(t *testing.T) {
	scope := atoms.NewGlobalScope()
	if _, err := run(t, scope, "f(a) = { b = a; b }\nf(1)\nf(2)"); err != nil {
		t.Fatal(err)
	}
	if scope.Contains("a") || scope.Contains("b") {
		t.Error("call bindings leaked into the global scope")
	}
}

func TestRecursion(t *testing.T) {
	// no conditionals: recursion through overloads on distinct types
	v := mustEval(t, "f(int n) = f(n * 1.5)\nf(float x) = x\nf(2)")
	if v != (atoms.Float{Value: 3}) {
		t.Errorf("got %T %v", v, v)
	}
}

func TestAnonymousFunction(t *testing.T) {
	if got := mustEval(t, "twice = (int x) => x * 2\ntwice(4)"); got != (atoms.Integer{Value: 8}) {
		t.Errorf("got %v", got)
	}
	fn, ok := mustEval(t, "(x) => x").(*atoms.Function)
	if !ok || fn.Name != evaluator.AnonymousName {
		t.Errorf("got %v", fn)
	}
}

func TestBuiltinCall(t *testing.T) {
	scope := atoms.NewGlobalScope()
	err := atoms.RegisterBuiltins(scope, atoms.Builtin{
		Name:   "twice",
		Params: []*atoms.AtomicType{atoms.IntegerType},
		Return: atoms.IntegerType,
		Native: func(args []atoms.Atomic) (atoms.Atomic, error) {
			return atoms.Integer{Value: args[0].(atoms.Integer).Value * 2}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	v, err := run(t, scope, "twice(21)")
	if err != nil {
		t.Fatal(err)
	}
	if v != (atoms.Integer{Value: 42}) {
		t.Errorf("got %v", v)
	}
}

// ---- 5. Errors ----

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		kind     diagnostics.Kind
		fragment string
	}{
		{"undefined variable", "x + 1", diagnostics.Runtime, "Undefined variable 'x'"},
		{"undefined function", "g(1)", diagnostics.Runtime, "Undefined function 'g'"},
		{"not a function", "x = 1\nx(2)", diagnostics.Runtime, "'x' is not a function"},
		{"division by zero", "1 / 0", diagnostics.Runtime, "Division by zero"},
		{"modulo by zero", "2147483648 % 0", diagnostics.Runtime, "Division by zero"},
		{"operand types", "1 + true", diagnostics.Runtime, "Operator '+' cannot be applied to int and bool"},
		{"no promotion", "9223372036854775808 + 1.5", diagnostics.Runtime, "Cannot promote bigint and float"},
		{"tuple arity", "#(1, 2) + #(1)", diagnostics.Runtime, "Expected a value of type tuple(int, int) but got tuple(int)"},
		{"tuple element", "#(1, 2) + #(1, true)", diagnostics.Runtime, "Expected a value of type tuple(int, int)"},
		{"bool ordering", "true < false", diagnostics.Runtime, "Operator '<'"},
		{"function equality", "f x = x\nf == f", diagnostics.Runtime, "cannot be compared"},
		{"tuple equality arity", "#(1, 2) == #(1, 2, 3)", diagnostics.Runtime, "Expected a value of type tuple(int, int) but got tuple(int, int, int)"},
		{"mixed kind equality", `1 == "a"`, diagnostics.Runtime, "Operator '==' cannot be applied to int and string"},
		{"mixed kind inequality", "1 != :one", diagnostics.Runtime, "Operator '!=' cannot be applied to int and atom"},
		{"nested mixed equality", `#(1, "a") == #(1, 2)`, diagnostics.Runtime, "Operator '=='"},
		{"tuple element division", "#(1, 2) / #(0, 1)", diagnostics.Runtime, "Division by zero"},
		{"nested tuple arity", "#(#(1, 2), 3) + #(#(1), 3)", diagnostics.Runtime, "Expected a value of type tuple(tuple(int, int), int)"},
		{"not on int", "!1", diagnostics.Runtime, "Operator '!' cannot be applied to int"},
		{"exclude", `1 \ 2`, diagnostics.Internal, "Operator '\\' is not implemented"},
		{"dotted identifier", "io.read", diagnostics.Internal, "Dotted identifiers are not supported"},
		{"error position", "x = 1\ny = x / 0", diagnostics.Runtime, "line 2 column 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.source, tt.kind, tt.fragment)
		})
	}
}

func TestFloatDivisionByZeroIsInfinite(t *testing.T) {
	if got := mustEval(t, "1.0 / 0").String(); got != "Infinity" {
		t.Errorf("got %s", got)
	}
}
