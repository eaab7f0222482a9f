package miniscript

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownFragment = errors.New("unknown policy fragment")
	ErrWrongArity      = errors.New("wrong argument count for fragment")
	ErrBadArgument     = errors.New("invalid fragment argument")
)

// fragment describes the shape rules for one known policy fragment.
type fragment struct {
	minArgs  int
	maxArgs  int  // -1 means unbounded
	leafOnly bool // arguments must be bare values, not sub-fragments
	numeric  bool // arguments must be decimal numbers
}

// The policy fragments understood by the compiler. `or` and `and` combine
// exactly two sub-policies; k-of-n conditions go through `thresh`.
var fragments = map[string]fragment{
	"or":        {minArgs: 2, maxArgs: 2},
	"and":       {minArgs: 2, maxArgs: 2},
	"thresh":    {minArgs: 3, maxArgs: -1},
	"pk":        {minArgs: 1, maxArgs: 1, leafOnly: true},
	"older":     {minArgs: 1, maxArgs: 1, leafOnly: true, numeric: true},
	"after":     {minArgs: 1, maxArgs: 1, leafOnly: true, numeric: true},
	"sha256":    {minArgs: 1, maxArgs: 1, leafOnly: true},
	"hash256":   {minArgs: 1, maxArgs: 1, leafOnly: true},
	"ripemd160": {minArgs: 1, maxArgs: 1, leafOnly: true},
	"hash160":   {minArgs: 1, maxArgs: 1, leafOnly: true},
}

// FragmentNames returns the known fragment names, sorted. The evaluator's
// root scope binds a native for each of these.
func FragmentNames() []string {
	names := make([]string, 0, len(fragments))
	for name := range fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every fragment application in the tree against the known
// fragment set and its arity rules. Unknown names and malformed trees fail
// here rather than at evaluation time.
func (p *Policy) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil policy", ErrBadArgument)
	}
	if p.IsLeaf() {
		if p.Ident == "" {
			return fmt.Errorf("%w: empty value", ErrBadArgument)
		}
		return nil
	}
	frag, ok := fragments[p.Name]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownFragment, p.Name)
	}
	if len(p.Args) < frag.minArgs || (frag.maxArgs >= 0 && len(p.Args) > frag.maxArgs) {
		return fmt.Errorf("%w: '%s' expects %s, got %d",
			ErrWrongArity, p.Name, arityString(frag), len(p.Args))
	}
	if p.Name == "thresh" {
		return p.validateThresh()
	}
	for _, arg := range p.Args {
		if frag.leafOnly && !arg.IsLeaf() {
			return fmt.Errorf("%w: '%s' takes a bare value, got '%s'", ErrBadArgument, p.Name, arg)
		}
		if frag.numeric && !isNumber(arg.Ident) {
			return fmt.Errorf("%w: '%s' takes a number, got '%s'", ErrBadArgument, p.Name, arg)
		}
		if err := arg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// thresh(k, p1, ..., pn) needs a numeric k with 1 <= k <= n and n >= 2.
func (p *Policy) validateThresh() error {
	k := p.Args[0]
	if !k.IsLeaf() || !isNumber(k.Ident) {
		return fmt.Errorf("%w: 'thresh' needs a numeric threshold, got '%s'", ErrBadArgument, k)
	}
	subs := p.Args[1:]
	n := len(subs)
	kval := parseNumber(k.Ident)
	if kval < 1 || kval > n {
		return fmt.Errorf("%w: 'thresh' threshold %d out of range for %d sub-policies", ErrBadArgument, kval, n)
	}
	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func arityString(frag fragment) string {
	if frag.maxArgs < 0 {
		return fmt.Sprintf("at least %d arguments", frag.minArgs)
	}
	if frag.minArgs == frag.maxArgs {
		if frag.minArgs == 1 {
			return "1 argument"
		}
		return fmt.Sprintf("%d arguments", frag.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", frag.minArgs, frag.maxArgs)
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseNumber(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
