package runtime

import (
	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/miniscript"
)

// NewRootScope returns the base scope programs start from. Every known
// policy fragment is pre-bound as a native that assembles a policy node from
// its (already narrowed) arguments; "or" and "and" are what the || and &&
// sugar lands on.
func NewRootScope() *Scope {
	root := NewScope(nil)
	for _, name := range miniscript.FragmentNames() {
		root.store[name] = &FnNative{Name: ast.Ident(name), Fn: fragmentNative(name)}
	}
	return root
}

func fragmentNative(name string) NativeFn {
	return func(args []*miniscript.Policy) (Value, error) {
		return NewPolicyValue(miniscript.FnCall(name, args...)), nil
	}
}
