package ast

// Builder helpers for assembling trees directly, used by tests and by code
// that constructs policies programmatically. Positions are left zeroed;
// parser built nodes carry real offsets.

func NewValueExpr(ident Ident) *ValueExpr {
	return &ValueExpr{Ident: ident}
}

func NewFnCall(name Ident, args ...Expr) *FnCall {
	return &FnCall{Name: name, Args: args}
}

func NewOr(exprs ...Expr) *Or {
	return &Or{Exprs: exprs}
}

func NewAnd(exprs ...Expr) *And {
	return &And{Exprs: exprs}
}

func NewBlock(stmts []Stmt, ret Expr) *Block {
	return &Block{Stmts: stmts, Return: ret}
}

func NewAssign(name Ident, value Expr) *Assign {
	return &Assign{Name: name, Value: value}
}

func NewFnDef(name Ident, params []Ident, body Expr) *FnDef {
	return &FnDef{Name: name, Params: params, Body: body}
}
