package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprStrings(t *testing.T) {
	call := NewFnCall("pk", NewValueExpr("alice"))
	assert.Equal(t, "pk(alice)", call.String())

	or := NewOr(NewValueExpr("a"), NewValueExpr("b"))
	assert.Equal(t, "a || b", or.String())

	and := NewAnd(call, NewValueExpr("c"))
	assert.Equal(t, "pk(alice) && c", and.String())

	def := NewFnDef("two", []Ident{"x", "y"}, NewAnd(NewValueExpr("x"), NewValueExpr("y")))
	assert.Equal(t, "fn two(x, y) = x && y", def.String())
}

func TestNodeInfoOffsets(t *testing.T) {
	v := &ValueExpr{ExprBase: ExprBase{NodeInfo: NewNodeInfo(3, 8)}, Ident: "alice"}
	assert.Equal(t, 3, v.Pos())
	assert.Equal(t, 8, v.End())
}

func TestSprintCall(t *testing.T) {
	expr := NewFnCall("or", NewFnCall("pk", NewValueExpr("a")), NewValueExpr("b"))
	assert.Equal(t, "or(pk(a), b)", Sprint(expr))
}

func TestSprintParenthesizesOrInsideAnd(t *testing.T) {
	// And{Or{a,b}, c} came from source `(a || b) && c`; reprinting without
	// the parens would flip the grouping.
	expr := NewAnd(NewOr(NewValueExpr("a"), NewValueExpr("b")), NewValueExpr("c"))
	assert.Equal(t, "(a || b) && c", Sprint(expr))

	// The other direction needs no parens: And binds tighter.
	expr2 := NewOr(NewAnd(NewValueExpr("a"), NewValueExpr("b")), NewValueExpr("c"))
	assert.Equal(t, "a && b || c", Sprint(expr2))
}

func TestSprintBlock(t *testing.T) {
	block := NewBlock(
		[]Stmt{
			NewAssign("backup", NewFnCall("pk", NewValueExpr("bob"))),
			NewFnDef("two", []Ident{"x", "y"}, NewAnd(NewValueExpr("x"), NewValueExpr("y"))),
		},
		NewOr(NewValueExpr("backup"), NewFnCall("two", NewValueExpr("a"), NewValueExpr("b"))),
	)
	want := "{\n  backup = pk(bob);\n  fn two(x, y) = x && y;\n  backup || two(a, b)\n}"
	got := Sprint(block)
	t.Logf("formatted block:\n%s", got)
	assert.Equal(t, want, got)
}

func TestSprintNestedBlock(t *testing.T) {
	inner := NewBlock(
		[]Stmt{NewAssign("k", NewValueExpr("c"))},
		NewFnCall("pk", NewValueExpr("k")),
	)
	block := NewBlock([]Stmt{NewAssign("x", inner)}, NewValueExpr("x"))
	want := "{\n  x = {\n    k = c;\n    pk(k)\n  };\n  x\n}"
	assert.Equal(t, want, Sprint(block))
}
