package runtime

import (
	"fmt"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/miniscript"
)

// evalFnCall resolves the callee, evaluates the arguments left to right and
// dispatches on the kind of function found. Policy values are not callable.
func evalFnCall(call *ast.FnCall, scope *Scope) (Value, error) {
	target, ok := scope.Get(string(call.Name))
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrFnNotFound, call.Name)
	}
	args, err := evalExprs(call.Args, scope)
	if err != nil {
		return nil, err
	}
	switch fn := target.(type) {
	case *FnDef:
		return callFnDef(fn, args, scope)
	case *FnNative:
		return callNative(fn, args)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrNotFn, call.Name)
	}
}

// callFnDef applies a user defined function: arity check first, then a fresh
// call frame hanging off the CALLER's scope with the parameters bound
// positionally. Free names in the body resolve through the caller's chain at
// call time.
func callFnDef(fn *FnDef, args []Value, caller *Scope) (Value, error) {
	if len(fn.Params) != len(args) {
		return nil, fmt.Errorf("%w: '%s' expects %d, got %d",
			ErrArgumentMismatch, fn.Name, len(fn.Params), len(args))
	}
	Debugf("call %s/%d", fn.Name, len(args))
	frame := caller.Child()
	for i, param := range fn.Params {
		if err := frame.Set(string(param), args[i]); err != nil {
			return nil, err
		}
	}
	return Evaluate(fn.Body, frame)
}

// callNative narrows every argument to a policy and hands them to the
// builtin.
func callNative(fn *FnNative, args []Value) (Value, error) {
	policies, err := asPolicies(args)
	if err != nil {
		return nil, err
	}
	Debugf("native %s/%d", fn.Name, len(args))
	return fn.Fn(policies)
}

func evalExprs(exprs []ast.Expr, scope *Scope) ([]Value, error) {
	vals := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := Evaluate(e, scope)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func asPolicies(vals []Value) ([]*miniscript.Policy, error) {
	policies := make([]*miniscript.Policy, 0, len(vals))
	for _, v := range vals {
		p, err := AsPolicy(v)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, nil
}
