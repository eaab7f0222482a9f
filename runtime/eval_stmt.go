package runtime

import (
	"fmt"

	"github.com/panyam/minsc/ast"
)

// Run executes a statement against scope. Statements are the only way
// bindings change: an assignment evaluates its right side before binding, a
// function definition records the bare syntax under its name. The name
// binding is what later calls resolve through, which also makes recursion
// work.
func Run(stmt ast.Stmt, scope *Scope) error {
	switch s := stmt.(type) {
	case *ast.Assign:
		v, err := Evaluate(s.Value, scope)
		if err != nil {
			return err
		}
		return scope.Set(string(s.Name), v)
	case *ast.FnDef:
		return scope.Set(string(s.Name), &FnDef{Name: s.Name, Params: s.Params, Body: s.Body})
	default:
		return fmt.Errorf("%w: %T", ErrNotImplemented, stmt)
	}
}

// RunAll executes stmts in order, stopping at the first failure.
func RunAll(stmts []ast.Stmt, scope *Scope) error {
	for _, stmt := range stmts {
		if err := Run(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}
