package runtime

import (
	"fmt"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/miniscript"
)

// Value is the result of evaluating an expression: a policy fragment, a user
// defined function or a native builtin. The union is closed; types outside
// this package cannot implement it.
type Value interface {
	value() // Marker method restricting implementations to this package
	String() string
}

// Policy wraps the policy tree an expression evaluated to.
type Policy struct {
	Policy *miniscript.Policy
}

func (p *Policy) value() {}

func (p *Policy) String() string { return p.Policy.String() }

// FnDef is a user defined function waiting to be called. The body is plain
// syntax: it re-resolves against the caller's scope chain on every call, so
// nothing is captured at definition time.
type FnDef struct {
	Name   ast.Ident
	Params []ast.Ident
	Body   ast.Expr
}

func (f *FnDef) value() {}

func (f *FnDef) String() string {
	return fmt.Sprintf("fn %s(%s)", f.Name, ast.JoinIdents(f.Params, ", "))
}

// NativeFn is the signature builtins implement. Arguments arrive already
// narrowed to policies.
type NativeFn func(args []*miniscript.Policy) (Value, error)

// FnNative is a builtin policy fragment constructor bound in the root scope.
type FnNative struct {
	Name ast.Ident
	Fn   NativeFn
}

func (f *FnNative) value() {}

func (f *FnNative) String() string { return fmt.Sprintf("native %s", f.Name) }

// NewPolicyValue wraps a policy tree as a runtime value.
func NewPolicyValue(p *miniscript.Policy) *Policy {
	return &Policy{Policy: p}
}

// AsPolicy narrows v to its policy tree. Only policy values narrow; function
// values have no miniscript form.
func AsPolicy(v Value) (*miniscript.Policy, error) {
	if p, ok := v.(*Policy); ok {
		return p.Policy, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotMiniscriptRepresentable, v)
}
