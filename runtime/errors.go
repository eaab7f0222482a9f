package runtime

import "errors"

// Every evaluation failure is fatal: the first error aborts the walk and
// surfaces to the caller unchanged. Callers match with errors.Is; the
// wrapped message carries the offending identifier.
var (
	ErrFnNotFound                 = errors.New("function not found")
	ErrNotFn                      = errors.New("not a function")
	ErrArgumentMismatch           = errors.New("wrong number of arguments")
	ErrNotMiniscriptRepresentable = errors.New("not representable as a miniscript policy")
	ErrReservedName               = errors.New("reserved name")
	ErrNoResult                   = errors.New("block has no result expression")
	ErrNotImplemented             = errors.New("evaluation for this node type not implemented")
)
