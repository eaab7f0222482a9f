package ast

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// --- Statements ---

// Stmt represents a statement node (binds a name in the current scope).
type Stmt interface {
	Node
	stmtNode() // Marker method for statements
	PrettyPrint(cp CodePrinter)
}

// StmtBase is embedded by every statement node.
type StmtBase struct {
	NodeInfo
}

func (s *StmtBase) stmtNode() {}

// Assign represents `name = expr;`.
type Assign struct {
	StmtBase
	Name  Ident
	Value Expr
}

func (a *Assign) String() string { return fmt.Sprintf("%s = %s", a.Name, a.Value) }

func (a *Assign) PrettyPrint(cp CodePrinter) {
	cp.Printf("%s = ", a.Name)
	a.Value.PrettyPrint(cp)
	cp.Println(";")
}

// FnDef represents `fn name(p1, p2, ...) = body;`.
type FnDef struct {
	StmtBase
	Name   Ident
	Params []Ident
	Body   Expr
}

func (f *FnDef) String() string {
	return fmt.Sprintf("fn %s(%s) = %s", f.Name, JoinIdents(f.Params, ", "), f.Body)
}

func (f *FnDef) PrettyPrint(cp CodePrinter) {
	cp.Printf("fn %s(%s) = ", f.Name, JoinIdents(f.Params, ", "))
	f.Body.PrettyPrint(cp)
	cp.Println(";")
}

// JoinIdents renders an identifier list with the given separator.
func JoinIdents(idents []Ident, sep string) string {
	return strings.Join(gfn.Map(idents, func(i Ident) string { return string(i) }), sep)
}
