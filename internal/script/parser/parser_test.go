package parser

import (
	"testing"

	"github.com/leops/hatchet/internal/script/ast"
)

func mustParseScript(t *testing.T, src string) *ast.Script {
	t.Helper()
	script, errs := ParseScript("test.hct", src)
	if len(errs) != 0 {
		t.Fatalf("ParseScript errors: %v", errs)
	}
	return script
}

func TestParseAutoBlock(t *testing.T) {
	script := mustParseScript(t, `auto { let x = 1 }`)
	if len(script.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(script.Statements))
	}
	auto, ok := script.Statements[0].(*ast.Auto)
	if !ok {
		t.Fatalf("expected *ast.Auto, got %T", script.Statements[0])
	}
	if len(auto.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(auto.Body))
	}
	binding, ok := auto.Body[0].(*ast.Binding)
	if !ok {
		t.Fatalf("expected *ast.Binding, got %T", auto.Body[0])
	}
	if binding.Name != "x" {
		t.Fatalf("unexpected binding name %q", binding.Name)
	}
}

func TestParseRelay(t *testing.T) {
	script := mustParseScript(t, `relay my_relay { foo() }`)
	relay, ok := script.Statements[0].(*ast.Relay)
	if !ok {
		t.Fatalf("expected *ast.Relay, got %T", script.Statements[0])
	}
	if relay.Name != "my_relay" {
		t.Fatalf("unexpected relay name %q", relay.Name)
	}
}

func TestParseIfElse(t *testing.T) {
	script := mustParseScript(t, `auto { if (1 < 2) { foo() } else { bar() } }`)
	auto := script.Statements[0].(*ast.Auto)
	branch, ok := auto.Body[0].(*ast.Branch)
	if !ok {
		t.Fatalf("expected *ast.Branch, got %T", auto.Body[0])
	}
	if len(branch.Consequent) != 1 || len(branch.Alternate) != 1 {
		t.Fatalf("expected one statement per branch arm")
	}
}

func TestParseWhileLoop(t *testing.T) {
	script := mustParseScript(t, `auto { while (x < 10) { foo() } }`)
	auto := script.Statements[0].(*ast.Auto)
	loop, ok := auto.Body[0].(*ast.Loop)
	if !ok {
		t.Fatalf("expected *ast.Loop, got %T", auto.Body[0])
	}
	bin, ok := loop.Cond.(*ast.Binary)
	if !ok || bin.Op != ast.OpLt {
		t.Fatalf("expected lt condition, got %+v", loop.Cond)
	}
}

func TestParseForIn(t *testing.T) {
	script := mustParseScript(t, `auto { for item in items { foo(item) } }`)
	auto := script.Statements[0].(*ast.Auto)
	it, ok := auto.Body[0].(*ast.Iterator)
	if !ok {
		t.Fatalf("expected *ast.Iterator, got %T", auto.Body[0])
	}
	if it.Var != "item" {
		t.Fatalf("unexpected iterator var %q", it.Var)
	}
}

func TestParseAssignmentWithPath(t *testing.T) {
	script := mustParseScript(t, `auto { foo.bar = 1 }`)
	auto := script.Statements[0].(*ast.Auto)
	assign, ok := auto.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", auto.Body[0])
	}
	deref, ok := assign.Path.(*ast.PathDeref)
	if !ok || deref.Prop != "bar" {
		t.Fatalf("unexpected path shape %+v", assign.Path)
	}
}

func TestParseInstancePath(t *testing.T) {
	script := mustParseScript(t, `auto { door:open() }`)
	auto := script.Statements[0].(*ast.Auto)
	call, ok := auto.Body[0].(*ast.CallStatement)
	if !ok {
		t.Fatalf("expected *ast.CallStatement, got %T", auto.Body[0])
	}
	deref, ok := call.Call.Path.(*ast.PathDeref)
	if !ok || deref.Prop != "open" {
		t.Fatalf("unexpected call path shape %+v", call.Call.Path)
	}
	if _, ok := deref.Obj.(*ast.PathInstance); !ok {
		t.Fatalf("expected an instance boundary before 'open', got %+v", deref.Obj)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	expr, errs := ParseExpressionSource("test.hct", "1 + 2 * 3")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level '+', got %+v", expr)
	}
	rhs, ok := bin.RHS.(*ast.Binary)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected '*' nested on the right of '+', got %+v", bin.RHS)
	}
}

func TestParseArrayAndMapLiterals(t *testing.T) {
	expr, errs := ParseExpressionSource("test.hct", "[1, 2, 3]")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	arr, ok := expr.(*ast.Array)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("unexpected array literal: %+v", expr)
	}

	expr2, errs2 := ParseExpressionSource("test.hct", `{ x: 1, y: 2 }`)
	if len(errs2) != 0 {
		t.Fatalf("unexpected errors: %v", errs2)
	}
	m, ok := expr2.(*ast.MapLiteral)
	if !ok || len(m.Fields) != 2 {
		t.Fatalf("unexpected map literal: %+v", expr2)
	}
}

func TestParseInterpolatedString(t *testing.T) {
	expr, errs := ParseExpressionSource("test.hct", `"hi ${1 + 1}"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	str, ok := expr.(*ast.StringLiteral)
	if !ok || len(str.Parts) != 2 {
		t.Fatalf("unexpected string literal: %+v", expr)
	}
	if str.Parts[1].Expr == nil {
		t.Fatalf("expected second part to be an interpolated expression")
	}
}

func TestParseUnaryMinus(t *testing.T) {
	expr, errs := ParseExpressionSource("test.hct", "-5")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.OpSub {
		t.Fatalf("expected unary minus desugared to subtraction, got %+v", expr)
	}
}

func TestParseUnaryMinusOnNonLiteralIsError(t *testing.T) {
	_, errs := ParseExpressionSource("test.hct", "-x")
	if len(errs) == 0 {
		t.Fatalf("expected a parse error for unary minus on a non-literal operand")
	}
}

func TestParseSubscriber(t *testing.T) {
	script := mustParseScript(t, `auto { door:open { foo() } }`)
	auto := script.Statements[0].(*ast.Auto)
	sub, ok := auto.Body[0].(*ast.Subscriber)
	if !ok {
		t.Fatalf("expected *ast.Subscriber, got %T", auto.Body[0])
	}
	deref, ok := sub.Path.(*ast.PathDeref)
	if !ok || deref.Prop != "open" {
		t.Fatalf("unexpected subscriber path shape %+v", sub.Path)
	}
	if len(sub.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(sub.Body))
	}
}
