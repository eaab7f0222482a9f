package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/miniscript"
)

func TestRootScopeBindsEveryFragment(t *testing.T) {
	scope := NewRootScope()
	for _, name := range miniscript.FragmentNames() {
		v, ok := scope.Get(name)
		require.True(t, ok, "fragment %q missing from the root scope", name)
		native, isNative := v.(*FnNative)
		require.True(t, isNative, "fragment %q bound as %T", name, v)
		assert.Equal(t, ast.Ident(name), native.Name)
	}
}

func TestRootScopeOrAndPresent(t *testing.T) {
	// The || and && sugar depends on these two bindings existing.
	scope := NewRootScope()
	for _, name := range []string{"or", "and"} {
		_, ok := scope.Get(name)
		assert.True(t, ok, "%q must be pre-bound", name)
	}
}

func TestFragmentNativesBuildUnvalidatedNodes(t *testing.T) {
	// Natives assemble policy nodes as called; arity rules only apply when
	// the finished policy is compiled.
	scope := NewRootScope()
	v := evalOK(t, ast.NewFnCall("or",
		ast.NewValueExpr("a"), ast.NewValueExpr("b"), ast.NewValueExpr("c")), scope)
	assertPolicyText(t, v, "or(a,b,c)")

	p, err := AsPolicy(v)
	require.NoError(t, err)
	_, err = p.Compile()
	assert.ErrorIs(t, err, miniscript.ErrWrongArity)
}

func TestRootScopesAreIndependent(t *testing.T) {
	a := NewRootScope()
	b := NewRootScope()
	require.NoError(t, a.Set("extra", NewPolicyValue(policyLeaf("x"))))

	_, ok := b.Get("extra")
	assert.False(t, ok)
}
