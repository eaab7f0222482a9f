package runtime

import (
	"fmt"
	"sort"
	"strings"
)

// Scope holds the bindings visible at one point of evaluation. Lookup walks
// outward through the parent chain; Set always binds in the receiving frame,
// so an inner binding shadows an outer one without modifying it.
type Scope struct {
	store  map[string]Value
	parent *Scope
}

// NewScope creates a scope frame nested within parent. A nil parent makes a
// root frame.
func NewScope(parent *Scope) *Scope {
	return &Scope{store: make(map[string]Value), parent: parent}
}

// Get resolves name, checking this frame first and then recursively the
// outer frames.
func (s *Scope) Get(name string) (Value, bool) {
	if v, ok := s.store[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return nil, false
}

// Set binds name in this frame only. Names starting with '$' are reserved
// for the runtime and cannot be bound by programs.
func (s *Scope) Set(name string, v Value) error {
	if strings.HasPrefix(name, "$") {
		return fmt.Errorf("%w: '%s'", ErrReservedName, name)
	}
	s.store[name] = v
	return nil
}

// Derive returns a fresh frame for a block body, parented to s.
func (s *Scope) Derive() *Scope {
	return NewScope(s)
}

// Child returns a fresh call frame parented to s.
func (s *Scope) Child() *Scope {
	return NewScope(s)
}

// Keys returns the names bound in this frame only, sorted.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.store))
	for k := range s.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns every visible binding, with inner frames shadowing outer ones.
func (s *Scope) All() map[string]Value {
	var result map[string]Value
	if s.parent != nil {
		result = s.parent.All()
	} else {
		result = make(map[string]Value)
	}
	for k, v := range s.store {
		result[k] = v
	}
	return result
}

// String representation for debugging
func (s *Scope) String() string {
	return fmt.Sprintf("Scope{bound: %v, parent: %v}", s.Keys(), s.parent != nil)
}
