package parser_test

import (
	"strings"
	"testing"

	"github.com/lento-lang/lento/pkg/ast"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/lexer"
	"github.com/lento-lang/lento/pkg/parser"
)

var testHints = []parser.Hint{
	{Name: "print", MaxArity: 5},
	{Name: "typeof", MaxArity: 1, SingleValue: true},
}

// helper: parse source and fail the test on error
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseString(source, "test.lt", testHints...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog == nil {
		t.Fatal("expected non-nil program")
	}
	return prog
}

// helper: parse source and assert a parse error mentioning fragment
func mustFail(t *testing.T, source, fragment string) {
	t.Helper()
	_, err := parser.ParseString(source, "test.lt", testHints...)
	if err == nil {
		t.Fatalf("expected %q to fail", source)
	}
	if !diagnostics.IsKind(err, diagnostics.Parse) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("error %q does not contain %q", err.Error(), fragment)
	}
}

// helper: parse source holding exactly one expression
func singleExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	prog := mustParse(t, source)
	if len(prog.Exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(prog.Exprs))
	}
	return prog.Exprs[0]
}

func expectKind[T ast.Expr](t *testing.T, e ast.Expr) T {
	t.Helper()
	n, ok := e.(T)
	if !ok {
		var zero T
		t.Fatalf("expected %T, got %T (%s)", zero, e, ast.String(e))
	}
	return n
}

// ---- 1. Literals ----

func TestIntegerLiteralMagnitude(t *testing.T) {
	tests := []struct {
		source string
		want   atoms.Atomic
	}{
		{"0", atoms.Integer{Value: 0}},
		{"2147483647", atoms.Integer{Value: 2147483647}},
		{"2147483648", atoms.Long{Value: 2147483648}},
		{"9223372036854775807", atoms.Long{Value: 9223372036854775807}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			lit := expectKind[ast.LiteralNode](t, singleExpr(t, tt.source))
			if lit.Atomic() != tt.want {
				t.Errorf("got %#v, want %#v", lit.Atomic(), tt.want)
			}
		})
	}

	lit := expectKind[*ast.Literal[atoms.BigInteger]](t, singleExpr(t, "9223372036854775808"))
	if lit.Value.String() != "9223372036854775808" {
		t.Errorf("got %s", lit.Value)
	}
}

func TestFloatLiteral(t *testing.T) {
	lit := expectKind[*ast.Literal[atoms.Float]](t, singleExpr(t, "2.5"))
	if lit.Value.Value != 2.5 {
		t.Errorf("got %v", lit.Value.Value)
	}
	big := "1" + strings.Repeat("0", 40) + ".5"
	expectKind[*ast.Literal[atoms.Double]](t, singleExpr(t, big))
}

func TestOtherLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   atoms.Atomic
	}{
		{`"hi"`, atoms.String{Value: "hi"}},
		{`'c'`, atoms.Character{Value: 'c'}},
		{"true", atoms.Boolean{Value: true}},
		{":ok", atoms.Atom{Name: "ok"}},
		{"#()", atoms.Unit{}},
		{"x", atoms.Identifier{Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			lit := expectKind[ast.LiteralNode](t, singleExpr(t, tt.source))
			if lit.Atomic() != tt.want {
				t.Errorf("got %#v, want %#v", lit.Atomic(), tt.want)
			}
		})
	}
}

func TestDottedIdentifier(t *testing.T) {
	lit := expectKind[*ast.DottedIdentifier](t, singleExpr(t, "io.file.read"))
	if len(lit.Value.Parts) != 3 || lit.Value.Parts[2].Name != "read" {
		t.Errorf("got %v", lit.Value)
	}
}

// ---- 2. Precedence ----

func TestPrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"1 + 2 == 3", "1 + 2 == 3"},
		{"1 - 2 - 3", "1 - 2 - 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"a == b && c | d", "a == b && c | d"},
		{"-2 * 3", "-2 * 3"},
		{"-(2 * 3)", "-(2 * 3)"},
		{"!a == b", "!a == b"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := ast.String(singleExpr(t, tt.source))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMultiplicationBindsTighter(t *testing.T) {
	bin := expectKind[*ast.Binary](t, singleExpr(t, "1 + 2 * 3"))
	if bin.Op != ast.OpAdd {
		t.Fatalf("root op = %s, want +", bin.Op)
	}
	right := expectKind[*ast.Binary](t, bin.Right)
	if right.Op != ast.OpMul {
		t.Errorf("right op = %s, want *", right.Op)
	}
}

func TestEqualityBindsLooserThanAddition(t *testing.T) {
	bin := expectKind[*ast.Binary](t, singleExpr(t, "1 + 2 == 3"))
	if bin.Op != ast.OpEq {
		t.Fatalf("root op = %s, want ==", bin.Op)
	}
	expectKind[*ast.Binary](t, bin.Left)
}

func TestLeftAssociativity(t *testing.T) {
	bin := expectKind[*ast.Binary](t, singleExpr(t, "8 / 4 / 2"))
	left := expectKind[*ast.Binary](t, bin.Left)
	if left.Op != ast.OpDiv {
		t.Errorf("left op = %s", left.Op)
	}
}

func TestPrefixOperators(t *testing.T) {
	pre := expectKind[*ast.Prefix](t, singleExpr(t, "&x"))
	if pre.Op != ast.OpReference {
		t.Errorf("got %s", pre.Op)
	}
	pre = expectKind[*ast.Prefix](t, singleExpr(t, "!true"))
	if pre.Op != ast.OpNot {
		t.Errorf("got %s", pre.Op)
	}
}

// ---- 3. Identifier disambiguation ----

func TestVariableDeclaration(t *testing.T) {
	decl := expectKind[*ast.VarDecl](t, singleExpr(t, "x = 1 + 2"))
	if decl.Name != "x" {
		t.Errorf("got %q", decl.Name)
	}
	expectKind[*ast.Binary](t, decl.Value)
}

func TestFunctionDeclarationWithoutParens(t *testing.T) {
	decl := expectKind[*ast.FuncDecl](t, singleExpr(t, "add a b = a + b"))
	if decl.Name != "add" || len(decl.Params) != 2 {
		t.Fatalf("got %s", ast.String(decl))
	}
	for i, name := range []string{"a", "b"} {
		if decl.Params[i].Name != name || decl.Params[i].TypeName != "" {
			t.Errorf("param %d = %+v", i, decl.Params[i])
		}
	}
}

func TestTypedFunctionDeclarationWithoutParens(t *testing.T) {
	decl := expectKind[*ast.FuncDecl](t, singleExpr(t, "add int a, int b = a + b"))
	if decl.Params[0].TypeName != "int" || decl.Params[1].Name != "b" {
		t.Errorf("got %+v", decl.Params)
	}
}

func TestParenthesizedFunctionDeclaration(t *testing.T) {
	decl := expectKind[*ast.FuncDecl](t, singleExpr(t, "f(int a, list<int> xs, b) = a"))
	want := []ast.Param{
		{TypeName: "int", Name: "a"},
		{TypeName: "list<int>", Name: "xs"},
		{Name: "b"},
	}
	if len(decl.Params) != len(want) {
		t.Fatalf("got %+v", decl.Params)
	}
	for i := range want {
		if decl.Params[i].TypeName != want[i].TypeName || decl.Params[i].Name != want[i].Name {
			t.Errorf("param %d = %+v, want %+v", i, decl.Params[i], want[i])
		}
	}
}

func TestZeroParameterDeclaration(t *testing.T) {
	decl := expectKind[*ast.FuncDecl](t, singleExpr(t, "f() = 1"))
	if len(decl.Params) != 0 {
		t.Errorf("got %+v", decl.Params)
	}
}

func TestCallWithParens(t *testing.T) {
	call := expectKind[*ast.Call](t, singleExpr(t, "add(3, 4)"))
	if call.Name != "add" || len(call.Args) != 2 {
		t.Errorf("got %s", ast.String(call))
	}
}

func TestCallWithNestedParensIsNotDeclaration(t *testing.T) {
	bin := expectKind[*ast.Binary](t, singleExpr(t, "f((1 + 2), g(3)) == 4"))
	expectKind[*ast.Call](t, bin.Left)
}

func TestHintedCallWithoutParens(t *testing.T) {
	call := expectKind[*ast.Call](t, singleExpr(t, `print "a", 1 + 2`))
	if call.Name != "print" || len(call.Args) != 2 {
		t.Fatalf("got %s", ast.String(call))
	}
	expectKind[*ast.Binary](t, call.Args[1])
}

func TestSingleValueHint(t *testing.T) {
	bin := expectKind[*ast.Binary](t, singleExpr(t, "typeof x == int"))
	call := expectKind[*ast.Call](t, bin.Left)
	if call.Name != "typeof" || len(call.Args) != 1 {
		t.Errorf("got %s", ast.String(call))
	}
}

func TestHintedNameWithoutArgsIsValue(t *testing.T) {
	expectKind[*ast.Identifier](t, singleExpr(t, "print"))
}

func TestUnhintedNameIsValue(t *testing.T) {
	prog := mustParse(t, "show\n1")
	if len(prog.Exprs) != 2 {
		t.Fatalf("got %d expressions", len(prog.Exprs))
	}
	expectKind[*ast.Identifier](t, prog.Exprs[0])
}

func TestDeclarationThenCall(t *testing.T) {
	prog := mustParse(t, "add a b = a + b\nadd(3, 4)")
	if len(prog.Exprs) != 2 {
		t.Fatalf("got %d expressions", len(prog.Exprs))
	}
	expectKind[*ast.FuncDecl](t, prog.Exprs[0])
	expectKind[*ast.Call](t, prog.Exprs[1])
}

func TestAnonymousFunction(t *testing.T) {
	decl := expectKind[*ast.VarDecl](t, singleExpr(t, "double = (int x) => x * 2"))
	fn := expectKind[*ast.FuncDecl](t, decl.Value)
	if !fn.Anonymous() || len(fn.Params) != 1 || fn.Params[0].TypeName != "int" {
		t.Errorf("got %s", ast.String(fn))
	}
}

// ---- 4. Grouping ----

func TestBlock(t *testing.T) {
	blk := expectKind[*ast.Block](t, singleExpr(t, "{ x = 1; y = 2\n x + y }"))
	if len(blk.Exprs) != 3 {
		t.Errorf("got %d expressions", len(blk.Exprs))
	}
	blk = expectKind[*ast.Block](t, singleExpr(t, "{}"))
	if len(blk.Exprs) != 0 {
		t.Errorf("got %d expressions", len(blk.Exprs))
	}
}

func TestListAndTuple(t *testing.T) {
	list := expectKind[*ast.List](t, singleExpr(t, "[1,\n 2,\n 3]"))
	if len(list.Elements) != 3 {
		t.Errorf("got %d elements", len(list.Elements))
	}
	tup := expectKind[*ast.Tuple](t, singleExpr(t, "#(1, 'a')"))
	if len(tup.Elements) != 2 {
		t.Errorf("got %d elements", len(tup.Elements))
	}
}

func TestNewlineInsideGroupContinuesExpression(t *testing.T) {
	expectKind[*ast.Binary](t, singleExpr(t, "(1\n + 2)"))
	prog := mustParse(t, "1\n-2")
	if len(prog.Exprs) != 2 {
		t.Errorf("top-level newline should end the expression, got %d expressions", len(prog.Exprs))
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	prog := mustParse(t, "// leading\nx = 1 /* inline */ + 2 // trailing\n/* done */")
	if len(prog.Exprs) != 1 {
		t.Fatalf("got %d expressions", len(prog.Exprs))
	}
	expectKind[*ast.VarDecl](t, prog.Exprs[0])
}

func TestEmptyProgram(t *testing.T) {
	prog := mustParse(t, "\n\n;")
	if len(prog.Exprs) != 0 {
		t.Errorf("got %d expressions", len(prog.Exprs))
	}
}

// ---- 5. Errors ----

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		fragment string
	}{
		{"unclosed list", "[1, 2", "Unexpected end of file. Expected ',' or ']'"},
		{"unclosed block", "{ 1", "Unexpected end of file. Expected NewLine, ';' or '}'"},
		{"missing operand", "1 +", "Unexpected end of file. Expected an expression"},
		{"leftover", "1 2", "Unexpected Integer '2'. Expected NewLine, ';' or EndOfFile"},
		{"duplicate parameter", "f(int a, int a) = a", "Duplicate parameter name 'a'"},
		{"duplicate bare parameter", "f a a = a", "Duplicate parameter name 'a'"},
		{"empty group", "()", "Unexpected ')' token"},
		{"attribute", "@inline", "Attributes are not supported"},
		{"three word parameter", "f(a b c) = 1", "Expected ',' after parameter"},
		{"float out of range", "1" + strings.Repeat("0", 400) + ".5", "Floating point literal is out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tt.source, tt.fragment)
		})
	}
}

func TestBadReferenceIsSyntaxError(t *testing.T) {
	_, err := parser.ParseString("&1", "test.lt", testHints...)
	if !diagnostics.IsKind(err, diagnostics.Syntax) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Unexpected character '&', expected '&&' or a reference") {
		t.Errorf("got %v", err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parser.ParseString("x = 1\ny = )", "test.lt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "Parse error at line 2 column 5:") {
		t.Errorf("got %q", err.Error())
	}
}

func TestSyntaxErrorPropagates(t *testing.T) {
	_, err := parser.ParseString("x = $", "test.lt")
	if !diagnostics.IsKind(err, diagnostics.Syntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

// ---- 6. Streaming ----

func TestParseWhileTokensAreProduced(t *testing.T) {
	ts := lexer.NewTokenStream()
	go lexer.NewTokenizer(strings.NewReader("a = 1\nb = a * 2\nb"), "stream.lt").Produce(ts)

	prog, err := parser.New().Parse(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Exprs) != 3 {
		t.Errorf("got %d expressions", len(prog.Exprs))
	}
}

func TestHintsRoundTrip(t *testing.T) {
	p := parser.New()
	p.AddHint(parser.Hint{Name: "show", MaxArity: 2})
	if len(p.Hints()) != 1 || p.Hints()[0].Name != "show" {
		t.Errorf("got %+v", p.Hints())
	}
}
