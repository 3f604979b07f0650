package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/mproc/diagnostics"
	"github.com/dhamidi/mproc/syntaxtree"
)

func mustParse(t *testing.T, input string) *syntaxtree.Root {
	t.Helper()
	root, err := Parse(strings.NewReader(input), "test.mproc")
	if err != nil {
		t.Fatalf("Parse(%q) = %v, want success", input, err)
	}
	return root
}

func tok(n syntaxtree.Node) string {
	t, ok := n.(*syntaxtree.Token)
	if !ok {
		return ""
	}
	return t.Name
}

func TestParseEmptyFile(t *testing.T) {
	root := mustParse(t, "")
	if len(root.Body) != 0 {
		t.Fatalf("Body = %#v, want empty", root.Body)
	}
}

func TestParseBlankLinesOnly(t *testing.T) {
	root := mustParse(t, "\n\n  \n\n")
	if len(root.Body) != 0 {
		t.Fatalf("Body = %#v, want empty", root.Body)
	}
}

func TestParseTupleAssignment(t *testing.T) {
	root := mustParse(t, "a = 2, 3\n")
	if len(root.Body) != 1 {
		t.Fatalf("Body = %#v, want 1 statement", root.Body)
	}
	assign, ok := root.Body[0].(*syntaxtree.Assignment)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Assignment", root.Body[0])
	}
	if tok(assign.Lhs) != "a" {
		t.Fatalf("Lhs = %#v, want Token(a)", assign.Lhs)
	}
	list, ok := assign.Rhs.(*syntaxtree.List)
	if !ok || len(list.Expressions) != 2 {
		t.Fatalf("Rhs = %#v, want List of 2", assign.Rhs)
	}
	if n, ok := list.Expressions[0].(*syntaxtree.NumericLiteral); !ok || n.IntValue != 2 {
		t.Fatalf("Expressions[0] = %#v, want NumericLiteral(2)", list.Expressions[0])
	}
	if n, ok := list.Expressions[1].(*syntaxtree.NumericLiteral); !ok || n.IntValue != 3 {
		t.Fatalf("Expressions[1] = %#v, want NumericLiteral(3)", list.Expressions[1])
	}
}

func TestParseTupleAssignmentWithListLhs(t *testing.T) {
	root := mustParse(t, "b, c = d, f(\"123\")\n")
	if len(root.Body) != 1 {
		t.Fatalf("Body = %#v, want 1 statement", root.Body)
	}
	assign, ok := root.Body[0].(*syntaxtree.Assignment)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Assignment", root.Body[0])
	}

	lhs, ok := assign.Lhs.(*syntaxtree.List)
	if !ok || len(lhs.Expressions) != 2 {
		t.Fatalf("Lhs = %#v, want List of 2 tokens", assign.Lhs)
	}
	if tok(lhs.Expressions[0]) != "b" || tok(lhs.Expressions[1]) != "c" {
		t.Fatalf("Lhs.Expressions = %#v, want [Token(b), Token(c)]", lhs.Expressions)
	}

	rhs, ok := assign.Rhs.(*syntaxtree.List)
	if !ok || len(rhs.Expressions) != 2 {
		t.Fatalf("Rhs = %#v, want List of 2", assign.Rhs)
	}
	if tok(rhs.Expressions[0]) != "d" {
		t.Fatalf("Rhs.Expressions[0] = %#v, want Token(d)", rhs.Expressions[0])
	}
	call, ok := rhs.Expressions[1].(*syntaxtree.Call)
	if !ok {
		t.Fatalf("Rhs.Expressions[1] = %T, want *Call", rhs.Expressions[1])
	}
	if tok(call.Called) != "f" {
		t.Fatalf("Called = %#v, want Token(f)", call.Called)
	}
	str, ok := call.Arguments.(*syntaxtree.StringLiteral)
	if !ok || str.Value != "123" {
		t.Fatalf("Arguments = %#v, want StringLiteral(123)", call.Arguments)
	}
}

func TestParseCallSingleArgument(t *testing.T) {
	root := mustParse(t, "f(x)\n")
	call, ok := root.Body[0].(*syntaxtree.Call)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Call", root.Body[0])
	}
	if tok(call.Called) != "f" {
		t.Fatalf("Called = %#v, want Token(f)", call.Called)
	}
	if tok(call.Arguments) != "x" {
		t.Fatalf("Arguments = %#v, want bare Token(x), got %#v", call.Arguments, call.Arguments)
	}
}

func TestParseCallMultipleArguments(t *testing.T) {
	root := mustParse(t, "f(48, 97)\n")
	call, ok := root.Body[0].(*syntaxtree.Call)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Call", root.Body[0])
	}
	args, ok := call.Arguments.(*syntaxtree.List)
	if !ok || len(args.Expressions) != 2 {
		t.Fatalf("Arguments = %#v, want List of 2", call.Arguments)
	}
	if n, ok := args.Expressions[0].(*syntaxtree.NumericLiteral); !ok || n.IntValue != 48 {
		t.Fatalf("Expressions[0] = %#v, want 48", args.Expressions[0])
	}
	if n, ok := args.Expressions[1].(*syntaxtree.NumericLiteral); !ok || n.IntValue != 97 {
		t.Fatalf("Expressions[1] = %#v, want 97", args.Expressions[1])
	}
}

func TestParseNamedArgumentFlattensIntoCall(t *testing.T) {
	root := mustParse(t, "f(a=1, b)\n")
	call := root.Body[0].(*syntaxtree.Call)
	args, ok := call.Arguments.(*syntaxtree.List)
	if !ok || len(args.Expressions) != 2 {
		t.Fatalf("Arguments = %#v, want List of 2", call.Arguments)
	}
	namedArg, ok := args.Expressions[0].(*syntaxtree.Assignment)
	if !ok || tok(namedArg.Lhs) != "a" {
		t.Fatalf("Expressions[0] = %#v, want Assignment(a=...)", args.Expressions[0])
	}
	if tok(args.Expressions[1]) != "b" {
		t.Fatalf("Expressions[1] = %#v, want Token(b)", args.Expressions[1])
	}
}

func TestParseInitBlock(t *testing.T) {
	root := mustParse(t, "#init\na = 1\n#endinit\n")
	init, ok := root.Body[0].(*syntaxtree.Init)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Init", root.Body[0])
	}
	if len(init.Body) != 1 {
		t.Fatalf("Init.Body = %#v, want 1 statement", init.Body)
	}
	if _, ok := init.Body[0].(*syntaxtree.Assignment); !ok {
		t.Fatalf("Init.Body[0] = %T, want *Assignment", init.Body[0])
	}
}

func TestParseIfElse(t *testing.T) {
	root := mustParse(t, "#if x\na = 1\n#else\nb = 2\n#endif\n")
	ifNode, ok := root.Body[0].(*syntaxtree.If)
	if !ok {
		t.Fatalf("Body[0] = %T, want *If", root.Body[0])
	}
	if tok(ifNode.Expression) != "x" {
		t.Fatalf("Expression = %#v, want Token(x)", ifNode.Expression)
	}
	if len(ifNode.Body) != 1 || len(ifNode.Body2) != 1 {
		t.Fatalf("Body/Body2 = %#v / %#v, want 1 statement each", ifNode.Body, ifNode.Body2)
	}
}

func TestParseLoopAfter(t *testing.T) {
	root := mustParse(t, "#loop x\n#break\n#after\n#continue\n#endloop\n")
	loop, ok := root.Body[0].(*syntaxtree.Loop)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Loop", root.Body[0])
	}
	if _, ok := loop.Body[0].(*syntaxtree.Break); !ok {
		t.Fatalf("Body[0] = %T, want *Break", loop.Body[0])
	}
	if _, ok := loop.Body2[0].(*syntaxtree.Continue); !ok {
		t.Fatalf("Body2[0] = %T, want *Continue", loop.Body2[0])
	}
}

func TestParseFuncWithArrowAndBody(t *testing.T) {
	root := mustParse(t, "#func f(x) -> y\na = 1\n#endfunc\n")
	fn, ok := root.Body[0].(*syntaxtree.Func)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Func", root.Body[0])
	}
	def, ok := fn.Definition.(*syntaxtree.FunctionDefinition)
	if !ok {
		t.Fatalf("Definition = %T, want *FunctionDefinition", fn.Definition)
	}
	call, ok := def.Call.(*syntaxtree.Call)
	if !ok || tok(call.Called) != "f" || tok(call.Arguments) != "x" {
		t.Fatalf("Call = %#v, want f(x)", def.Call)
	}
	if tok(def.Returns) != "y" {
		t.Fatalf("Returns = %#v, want Token(y)", def.Returns)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("Body = %#v, want 1 statement", fn.Body)
	}
}

func TestParseRawFuncBody(t *testing.T) {
	root := mustParse(t, "#rawfunc f() -> y\nset x 1\nop add x x 1\n#endrawfunc\n")
	rf, ok := root.Body[0].(*syntaxtree.RawFunc)
	if !ok {
		t.Fatalf("Body[0] = %T, want *RawFunc", root.Body[0])
	}
	want := "set x 1\nop add x x 1\n"
	if rf.Body != want {
		t.Fatalf("Body = %q, want %q", rf.Body, want)
	}
}

func TestParseMLogBlock(t *testing.T) {
	root := mustParse(t, "#mlog\nset x 1\nop add x x 1\n#endmlog\n")
	mlog, ok := root.Body[0].(*syntaxtree.MLog)
	if !ok {
		t.Fatalf("Body[0] = %T, want *MLog", root.Body[0])
	}
	want := "set x 1\nop add x x 1\n"
	if mlog.Body != want {
		t.Fatalf("Body = %q, want %q", mlog.Body, want)
	}
}

func TestParseReturnWithoutExpression(t *testing.T) {
	root := mustParse(t, "#return\n")
	ret, ok := root.Body[0].(*syntaxtree.Return)
	if !ok {
		t.Fatalf("Body[0] = %T, want *Return", root.Body[0])
	}
	if ret.Expression != nil {
		t.Fatalf("Expression = %#v, want nil", ret.Expression)
	}
}

func TestParseImportRequiresExpression(t *testing.T) {
	_, err := Parse(strings.NewReader("#import\n"), "test.mproc")
	if err == nil {
		t.Fatal("Parse() = nil error, want TokenExpected diagnostic")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Kind != diagnostics.TokenExpected {
		t.Fatalf("err = %#v, want TokenExpected diagnostic", err)
	}
}

func TestParseFloatTrailingDot(t *testing.T) {
	root := mustParse(t, "a = 2.2.\n")
	assign := root.Body[0].(*syntaxtree.Assignment)
	n, ok := assign.Rhs.(*syntaxtree.NumericLiteral)
	if !ok || !n.IsFloat || n.FloatValue != 2.2 {
		t.Fatalf("Rhs = %#v, want float 2.2", assign.Rhs)
	}
}

func TestParseHexAndBinaryIntegers(t *testing.T) {
	root := mustParse(t, "a = 0x1F\nb = 0b101\n")
	first := root.Body[0].(*syntaxtree.Assignment)
	if n, ok := first.Rhs.(*syntaxtree.NumericLiteral); !ok || n.IntValue != 0x1F {
		t.Fatalf("a's Rhs = %#v, want 0x1F", first.Rhs)
	}
	second := root.Body[1].(*syntaxtree.Assignment)
	if n, ok := second.Rhs.(*syntaxtree.NumericLiteral); !ok || n.IntValue != 0b101 {
		t.Fatalf("b's Rhs = %#v, want 0b101", second.Rhs)
	}
}

func TestParseMismatchedBlockEnd(t *testing.T) {
	_, err := Parse(strings.NewReader("#init\n#endif\n"), "test.mproc")
	if err == nil {
		t.Fatal("Parse() = nil error, want mismatch diagnostic")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Kind != diagnostics.UnexpectedSymbol {
		t.Fatalf("err = %#v, want UnexpectedSymbol diagnostic", err)
	}
}

func TestParseUnterminatedBlockIsEOFError(t *testing.T) {
	_, err := Parse(strings.NewReader("#init\na = 1\n"), "test.mproc")
	if err == nil {
		t.Fatal("Parse() = nil error, want UnexpectedEOF diagnostic")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Kind != diagnostics.UnexpectedEOF {
		t.Fatalf("err = %#v, want UnexpectedEOF diagnostic", err)
	}
}

func TestParseStrayCloseParen(t *testing.T) {
	_, err := Parse(strings.NewReader(")\n"), "test.mproc")
	if err == nil {
		t.Fatal("Parse() = nil error, want UnexpectedSymbol diagnostic")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Kind != diagnostics.UnexpectedSymbol {
		t.Fatalf("err = %#v, want UnexpectedSymbol diagnostic", err)
	}
}

func TestParseInvalidFlowOperator(t *testing.T) {
	_, err := Parse(strings.NewReader("#nope\n"), "test.mproc")
	if err == nil {
		t.Fatal("Parse() = nil error, want InvalidFlowOperator diagnostic")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Kind != diagnostics.InvalidFlowOperator {
		t.Fatalf("err = %#v, want InvalidFlowOperator diagnostic", err)
	}
}

func TestParseStringLiteral(t *testing.T) {
	root := mustParse(t, `a = "hello world"` + "\n")
	assign := root.Body[0].(*syntaxtree.Assignment)
	s, ok := assign.Rhs.(*syntaxtree.StringLiteral)
	if !ok || s.Value != "hello world" {
		t.Fatalf("Rhs = %#v, want StringLiteral(hello world)", assign.Rhs)
	}
}

func TestParseMultipleTopLevelStatements(t *testing.T) {
	root := mustParse(t, "a = 1\n\nb = 2\n")
	if len(root.Body) != 2 {
		t.Fatalf("Body = %#v, want 2 statements", root.Body)
	}
}
