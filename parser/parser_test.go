package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/panyam/minsc/ast"
)

func parseProgram(t *testing.T, src string) *ast.Block {
	t.Helper()
	block, err := ParseString(src)
	assert.NilError(t, err, "source: %s", src)
	return block
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := ParseExprString(src)
	assert.NilError(t, err, "source: %s", src)
	return expr
}

func TestParseValueExpr(t *testing.T) {
	for _, src := range []string{"alice", "144", "$alice", "_backup"} {
		expr := parseExpr(t, src)
		ve, ok := expr.(*ast.ValueExpr)
		assert.Assert(t, ok, "%s should parse as a bare identifier", src)
		assert.Equal(t, string(ve.Ident), src)
	}
}

func TestParseFnCall(t *testing.T) {
	expr := parseExpr(t, "pk(alice)")
	call, ok := expr.(*ast.FnCall)
	assert.Assert(t, ok)
	assert.Equal(t, string(call.Name), "pk")
	assert.Equal(t, len(call.Args), 1)
	assert.Equal(t, call.String(), "pk(alice)")

	expr = parseExpr(t, "thresh(2, pk(a), pk(b), older(144))")
	call = expr.(*ast.FnCall)
	assert.Equal(t, len(call.Args), 4)
	assert.Equal(t, call.String(), "thresh(2, pk(a), pk(b), older(144))")

	expr = parseExpr(t, "now()")
	call = expr.(*ast.FnCall)
	assert.Equal(t, len(call.Args), 0)
}

func TestParseChainsFlatten(t *testing.T) {
	or, ok := parseExpr(t, "a || b || c").(*ast.Or)
	assert.Assert(t, ok)
	assert.Equal(t, len(or.Exprs), 3)

	and, ok := parseExpr(t, "a && b && c").(*ast.And)
	assert.Assert(t, ok)
	assert.Equal(t, len(and.Exprs), 3)
}

func TestParsePrecedence(t *testing.T) {
	// && binds tighter than ||.
	or := parseExpr(t, "a || b && c").(*ast.Or)
	assert.Equal(t, len(or.Exprs), 2)
	_, ok := or.Exprs[1].(*ast.And)
	assert.Assert(t, ok)

	or = parseExpr(t, "a && b || c").(*ast.Or)
	_, ok = or.Exprs[0].(*ast.And)
	assert.Assert(t, ok)

	// Parens override and survive pretty printing.
	and := parseExpr(t, "(a || b) && c").(*ast.And)
	assert.Equal(t, len(and.Exprs), 2)
	_, ok = and.Exprs[0].(*ast.Or)
	assert.Assert(t, ok)
	assert.Equal(t, ast.Sprint(and), "(a || b) && c")
}

func TestParseParensDropped(t *testing.T) {
	expr := parseExpr(t, "((alice))")
	_, ok := expr.(*ast.ValueExpr)
	assert.Assert(t, ok, "redundant parens should not produce extra nodes")
}

func TestParseBlockExpr(t *testing.T) {
	expr := parseExpr(t, "{ x = a; pk(x) }")
	block, ok := expr.(*ast.Block)
	assert.Assert(t, ok)
	assert.Equal(t, len(block.Stmts), 1)
	_, ok = block.Return.(*ast.FnCall)
	assert.Assert(t, ok)
	assert.Equal(t, block.Pos(), 0)
	assert.Equal(t, block.End(), 16)
}

func TestParseBlockRequiresResult(t *testing.T) {
	_, err := ParseExprString("{ x = a; }")
	assert.ErrorContains(t, err, "block must end with an expression")
	assert.Assert(t, !IsIncomplete(err), "a closed brace is not a continuation point")
}

func TestParseProgramStatementsOnly(t *testing.T) {
	block := parseProgram(t, "x = pk(a);\nfn f(k) = pk(k);")
	assert.Equal(t, len(block.Stmts), 2)
	assert.Assert(t, block.Return == nil)

	assign, ok := block.Stmts[0].(*ast.Assign)
	assert.Assert(t, ok)
	assert.Equal(t, string(assign.Name), "x")

	def, ok := block.Stmts[1].(*ast.FnDef)
	assert.Assert(t, ok)
	assert.Equal(t, string(def.Name), "f")
}

func TestParseProgramTrailingExpr(t *testing.T) {
	block := parseProgram(t, "backup = pk(bob);\nbackup || pk(alice)")
	assert.Equal(t, len(block.Stmts), 1)
	_, ok := block.Return.(*ast.Or)
	assert.Assert(t, ok)

	// A semicolon after the final expression is tolerated at top level.
	block = parseProgram(t, "pk(a);")
	assert.Assert(t, block.Return != nil)
}

func TestParseEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "  \n\t", "// just a comment\n", "/* noted */"} {
		block := parseProgram(t, src)
		assert.Equal(t, len(block.Stmts), 0)
		assert.Assert(t, block.Return == nil)
	}
}

func TestParseFnDef(t *testing.T) {
	block := parseProgram(t, "fn two(x, y) = x && y;")
	def := block.Stmts[0].(*ast.FnDef)
	assert.Equal(t, string(def.Name), "two")
	assert.DeepEqual(t, def.Params, []ast.Ident{"x", "y"})
	_, ok := def.Body.(*ast.And)
	assert.Assert(t, ok)

	block = parseProgram(t, "fn standby() = pk($cold);")
	def = block.Stmts[0].(*ast.FnDef)
	assert.Equal(t, len(def.Params), 0)
}

func TestParseNodeSpans(t *testing.T) {
	expr := parseExpr(t, "pk(alice)")
	assert.Equal(t, expr.Pos(), 0)
	assert.Equal(t, expr.End(), 9)

	or := parseExpr(t, "a || b").(*ast.Or)
	assert.Equal(t, or.Pos(), 0)
	assert.Equal(t, or.End(), 6)

	block := parseProgram(t, "x = a;")
	assign := block.Stmts[0].(*ast.Assign)
	assert.Equal(t, assign.Pos(), 0)
	assert.Equal(t, assign.End(), 6)
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("x = ;")
	assert.Assert(t, err != nil)
	var perr *Error
	assert.Assert(t, errors.As(err, &perr))
	assert.Equal(t, perr.Line, 1)
	assert.Equal(t, perr.Col, 5)
	assert.Equal(t, perr.Near, ";")
	assert.ErrorContains(t, err, "expected an expression")
	assert.ErrorContains(t, err, "line 1, col 5")
}

func TestParseIncompleteInputs(t *testing.T) {
	incomplete := []string{
		"a ||",
		"a &&",
		"pk(",
		"pk(a",
		"pk(a,",
		"{",
		"{ x = a;",
		"fn f(",
		"fn two(x,",
		"fn two(x, y) =",
		"x =",
		"x = pk(a)",
		"/* hmm",
	}
	for _, src := range incomplete {
		_, err := ParseString(src)
		assert.Assert(t, IsIncomplete(err), "%q should read as incomplete, got: %v", src, err)
	}

	complete := []string{
		"",
		"a",
		"pk(a)",
		"x = a;",
		"fn two(x, y) = x && y;",
	}
	for _, src := range complete {
		_, err := ParseString(src)
		assert.NilError(t, err, "source: %s", src)
	}
}

func TestParseCompleteErrorsAreNotIncomplete(t *testing.T) {
	broken := []string{
		"a b",
		")",
		"x = ;",
		"{ }",
		"a | b",
		"fn f = a;",
	}
	for _, src := range broken {
		_, err := ParseString(src)
		assert.Assert(t, err != nil, "source: %s", src)
		assert.Assert(t, !IsIncomplete(err), "%q is broken, not unfinished: %v", src, err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		"pk(alice)\n",
		"a || b && c\n",
		"(a || b) && c\n",
		"backup = pk(bob);\nfn two(x, y) = x && y;\nbackup || two(a, b)\n",
		"x = {\n  k = c;\n  pk(k)\n};\nx\n",
		"fn standby() = pk($cold);\n",
	}
	for _, src := range sources {
		block := parseProgram(t, src)
		printed := ast.SprintProgram(block)
		assert.Equal(t, printed, src)

		again := parseProgram(t, printed)
		assert.Equal(t, ast.SprintProgram(again), printed, "printing should be a fixed point")
	}
}

func TestParseExprStringRejectsTrailing(t *testing.T) {
	_, err := ParseExprString("pk(a) extra")
	assert.ErrorContains(t, err, "expected <eof>")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.minsc")
	src := "backup = pk(bob);\nbackup || pk(alice)\n"
	assert.NilError(t, os.WriteFile(path, []byte(src), 0o644))

	block, err := ParseFile(path)
	assert.NilError(t, err)
	assert.Equal(t, len(block.Stmts), 1)
	assert.Assert(t, block.Return != nil)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.minsc"))
	assert.Assert(t, err != nil)
}
