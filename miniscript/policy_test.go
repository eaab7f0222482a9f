package miniscript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "alice", Value("alice").String())

	p := FnCall("or", FnCall("pk", Value("a")), FnCall("pk", Value("b")))
	assert.Equal(t, "or(pk(a),pk(b))", p.String())

	p = FnCall("thresh", Value("2"), Value("a"), Value("b"), Value("c"))
	assert.Equal(t, "thresh(2,a,b,c)", p.String())
}

func TestCompileValid(t *testing.T) {
	p := FnCall("or",
		FnCall("pk", Value("alice")),
		FnCall("and", FnCall("pk", Value("bob")), FnCall("older", Value("144"))),
	)
	out, err := p.Compile()
	require.NoError(t, err)
	assert.Equal(t, "or(pk(alice),and(pk(bob),older(144)))", out)
}

func TestCompileUnknownFragment(t *testing.T) {
	_, err := FnCall("xor", Value("a"), Value("b")).Compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFragment)
	assert.Contains(t, err.Error(), "xor")
}

func TestCompileArity(t *testing.T) {
	// or/and are strictly binary at compile time even though the language
	// lets `a || b || c` evaluate; k-of-n goes through thresh instead.
	_, err := FnCall("or", Value("a"), Value("b"), Value("c")).Compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongArity)

	_, err = FnCall("and", Value("a")).Compile()
	assert.ErrorIs(t, err, ErrWrongArity)

	_, err = FnCall("pk").Compile()
	assert.ErrorIs(t, err, ErrWrongArity)
}

func TestCompileThresh(t *testing.T) {
	ok := FnCall("thresh", Value("2"), Value("a"), Value("b"), Value("c"))
	_, err := ok.Compile()
	assert.NoError(t, err)

	// Threshold above the sub-policy count.
	_, err = FnCall("thresh", Value("4"), Value("a"), Value("b"), Value("c")).Compile()
	assert.ErrorIs(t, err, ErrBadArgument)

	// Zero threshold.
	_, err = FnCall("thresh", Value("0"), Value("a"), Value("b")).Compile()
	assert.ErrorIs(t, err, ErrBadArgument)

	// Non numeric threshold.
	_, err = FnCall("thresh", Value("k"), Value("a"), Value("b")).Compile()
	assert.ErrorIs(t, err, ErrBadArgument)

	// A single sub-policy is below the minimum arity.
	_, err = FnCall("thresh", Value("1"), Value("a")).Compile()
	assert.ErrorIs(t, err, ErrWrongArity)
}

func TestCompileLeafRules(t *testing.T) {
	_, err := FnCall("older", Value("notanumber")).Compile()
	assert.ErrorIs(t, err, ErrBadArgument)

	_, err = FnCall("pk", FnCall("pk", Value("a"))).Compile()
	assert.ErrorIs(t, err, ErrBadArgument)

	_, err = FnCall("after", Value("650000")).Compile()
	assert.NoError(t, err)
}

func TestCompileNestedErrorSurfaces(t *testing.T) {
	p := FnCall("and", FnCall("pk", Value("a")), FnCall("mystery", Value("b")))
	_, err := p.Compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFragment)
}

func TestFragmentNames(t *testing.T) {
	names := FragmentNames()
	assert.Contains(t, names, "or")
	assert.Contains(t, names, "and")
	assert.Contains(t, names, "thresh")
	assert.IsIncreasing(t, names)
}

func TestPolicyJSON(t *testing.T) {
	p := FnCall("or", Value("a"), FnCall("pk", Value("b")))
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"or","args":[{"ident":"a"},{"name":"pk","args":[{"ident":"b"}]}]}`, string(data))
}
