package ast

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node (evaluates to a policy or function value).
type Expr interface {
	Node
	exprNode() // Marker method for expressions
	PrettyPrint(cp CodePrinter)
}

// ExprBase is embedded by every expression node.
type ExprBase struct {
	NodeInfo
}

func (e *ExprBase) exprNode() {}

// --- Expressions ---

// FnCall represents `name(arg1, arg2, ...)`.
type FnCall struct {
	ExprBase
	Name Ident
	Args []Expr
}

func (c *FnCall) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(gfn.Map(c.Args, func(e Expr) string { return e.String() }), ", "))
}

func (c *FnCall) PrettyPrint(cp CodePrinter) {
	cp.Printf("%s(", c.Name)
	for i, arg := range c.Args {
		if i > 0 {
			cp.Print(", ")
		}
		arg.PrettyPrint(cp)
	}
	cp.Print(")")
}

// Or represents `a || b || ...`. Chains flatten into a single node.
type Or struct {
	ExprBase
	Exprs []Expr
}

// Debug form; PrettyPrint handles parenthesization.
func (o *Or) String() string {
	return strings.Join(gfn.Map(o.Exprs, func(e Expr) string { return e.String() }), " || ")
}

func (o *Or) PrettyPrint(cp CodePrinter) {
	for i, e := range o.Exprs {
		if i > 0 {
			cp.Print(" || ")
		}
		e.PrettyPrint(cp)
	}
}

// And represents `a && b && ...`. Chains flatten into a single node.
type And struct {
	ExprBase
	Exprs []Expr
}

// Debug form; PrettyPrint handles parenthesization.
func (a *And) String() string {
	return strings.Join(gfn.Map(a.Exprs, func(e Expr) string { return e.String() }), " && ")
}

func (a *And) PrettyPrint(cp CodePrinter) {
	for i, e := range a.Exprs {
		if i > 0 {
			cp.Print(" && ")
		}
		// Or binds looser than And, so an Or operand needs its parens back.
		if or, ok := e.(*Or); ok {
			cp.Print("(")
			or.PrettyPrint(cp)
			cp.Print(")")
		} else {
			e.PrettyPrint(cp)
		}
	}
}

// Block represents `{ stmt; ...; expr }`. The statements bind names in the
// block's own scope frame; the trailing expression is the block's result.
type Block struct {
	ExprBase
	Stmts  []Stmt
	Return Expr // nil only for statement-only top level programs
}

func (b *Block) String() string { return "{ ...block... }" } // Simplified

func (b *Block) PrettyPrint(cp CodePrinter) {
	cp.Println("{")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, stmt := range b.Stmts {
			stmt.PrettyPrint(cp)
		}
		if b.Return != nil {
			b.Return.PrettyPrint(cp)
			cp.Println("")
		}
	})
	cp.Print("}")
}

// ValueExpr represents a bare identifier in expression position.
type ValueExpr struct {
	ExprBase
	Ident Ident
}

func (v *ValueExpr) String() string { return string(v.Ident) }

func (v *ValueExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(v.String())
}
