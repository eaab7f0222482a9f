package runtime

import (
	"fmt"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/miniscript"
)

// Evaluate computes the value of expr against scope. Expressions never bind
// names; any statements inside a block act on the block's own derived frame,
// so the caller's scope comes back unchanged. The first error aborts the
// walk.
func Evaluate(expr ast.Expr, scope *Scope) (Value, error) {
	switch e := expr.(type) {
	case *ast.FnCall:
		return evalFnCall(e, scope)
	case *ast.Or:
		// `a || b` is sugar for a call to the native "or".
		return evalFnCall(desugar("or", e.NodeInfo, e.Exprs), scope)
	case *ast.And:
		return evalFnCall(desugar("and", e.NodeInfo, e.Exprs), scope)
	case *ast.Block:
		return evalBlock(e, scope)
	case *ast.ValueExpr:
		return evalValueExpr(e, scope)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotImplemented, expr)
	}
}

func desugar(name ast.Ident, info ast.NodeInfo, args []ast.Expr) *ast.FnCall {
	return &ast.FnCall{ExprBase: ast.ExprBase{NodeInfo: info}, Name: name, Args: args}
}

// evalBlock runs the statements in a derived frame and evaluates the
// trailing expression against it.
func evalBlock(b *ast.Block, scope *Scope) (Value, error) {
	inner := scope.Derive()
	for _, stmt := range b.Stmts {
		if err := Run(stmt, inner); err != nil {
			return nil, err
		}
	}
	if b.Return == nil {
		return nil, ErrNoResult
	}
	return Evaluate(b.Return, inner)
}

// evalValueExpr resolves a bare identifier. Bound names yield their value;
// unbound names pass through as policy leaves so raw keys, numbers and
// hashes can appear without a binding.
func evalValueExpr(e *ast.ValueExpr, scope *Scope) (Value, error) {
	if v, ok := scope.Get(string(e.Ident)); ok {
		return v, nil
	}
	return NewPolicyValue(miniscript.Value(string(e.Ident))), nil
}
