// Package miniscript holds the policy tree that evaluation produces and the
// fragment rules used to validate it. The evaluator treats policies as
// opaque values; everything fragment specific lives here.
package miniscript

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Policy is a node in a spending policy tree. A node is either a bare value
// leaf (a key name, a number, a hash) or a named fragment applied to
// sub-policies.
type Policy struct {
	Ident string    `json:"ident,omitempty"`
	Name  string    `json:"name,omitempty"`
	Args  []*Policy `json:"args,omitempty"`
}

// Value returns a leaf policy holding a bare identifier.
func Value(ident string) *Policy {
	return &Policy{Ident: ident}
}

// FnCall returns a fragment node applying name to args.
func FnCall(name string, args ...*Policy) *Policy {
	return &Policy{Name: name, Args: args}
}

// IsLeaf reports whether p is a bare value leaf.
func (p *Policy) IsLeaf() bool { return p.Name == "" }

// String renders the concrete policy text: nested `name(a,b)` calls with
// bare identifiers at the leaves. The output is deterministic.
func (p *Policy) String() string {
	if p == nil {
		return ""
	}
	if p.IsLeaf() {
		return p.Ident
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(gfn.Map(p.Args, (*Policy).String), ","))
}

// Compile validates p against the known fragment set and returns the
// canonical policy text.
func (p *Policy) Compile() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p.String(), nil
}
