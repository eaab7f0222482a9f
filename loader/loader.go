// Package loader turns policy source files into compiled miniscript. It
// owns the pieces around the evaluator: where sources come from, what the
// starting scope contains, and how errors across many files are reported.
package loader

import (
	"fmt"
	"strings"

	"github.com/panyam/minsc/miniscript"
	"github.com/panyam/minsc/parser"
	"github.com/panyam/minsc/runtime"
)

// LoadResult holds the outcome of loading one policy source.
type LoadResult struct {
	Path     string             // Source path, empty for in-memory sources
	Policy   *miniscript.Policy // The projected policy tree
	Compiled string             // The validated miniscript policy string
}

// Loader evaluates policy programs against a scope seeded with the native
// fragment functions and any bound keys.
type Loader struct {
	fs   FileSystem
	keys map[string]string
}

// NewLoader creates a loader reading through fs. A nil fs means the local
// disk relative to the working directory.
func NewLoader(fs FileSystem) *Loader {
	if fs == nil {
		fs = NewLocalFS("")
	}
	return &Loader{fs: fs}
}

// BindKeys adds named keys to every scope the loader builds. Each name
// evaluates as a policy leaf holding the key's raw value, so `pk(alice)`
// compiles with alice's actual key.
func (l *Loader) BindKeys(keys map[string]string) error {
	for name := range keys {
		if strings.HasPrefix(name, "$") {
			return fmt.Errorf("%w: '%s'", runtime.ErrReservedName, name)
		}
	}
	if l.keys == nil {
		l.keys = map[string]string{}
	}
	for name, key := range keys {
		l.keys[name] = key
	}
	return nil
}

// NewScope builds a fresh evaluation scope: the native fragment functions
// with the bound keys layered on top.
func (l *Loader) NewScope() *runtime.Scope {
	scope := runtime.NewRootScope().Derive()
	for name, key := range l.keys {
		// BindKeys vetted the names already.
		_ = scope.Set(name, runtime.NewPolicyValue(miniscript.Value(key)))
	}
	return scope
}

// EvalString evaluates src and returns the resulting value, which may be a
// policy or a function. Each call gets a fresh scope.
func (l *Loader) EvalString(src string) (runtime.Value, error) {
	block, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return runtime.Evaluate(block, l.NewScope())
}

// LoadString evaluates src all the way to a compiled policy.
func (l *Loader) LoadString(src string) (*LoadResult, error) {
	return l.load(src, "")
}

// LoadFile reads and compiles the policy program at path. Errors carry the
// path via FileError.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	runtime.Debugf("loading %s (%d bytes)", path, len(data))
	result, err := l.load(string(data), path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return result, nil
}

// LoadFiles compiles every path, collecting errors instead of stopping at
// the first bad file. The results hold the files that did compile.
func (l *Loader) LoadFiles(paths ...string) ([]*LoadResult, *ErrorCollector) {
	collector := &ErrorCollector{}
	var results []*LoadResult
	for _, path := range paths {
		result, err := l.LoadFile(path)
		if err != nil {
			collector.AddErrors(err)
			continue
		}
		results = append(results, result)
	}
	return results, collector
}

func (l *Loader) load(src, path string) (*LoadResult, error) {
	block, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	if block.Return == nil {
		return nil, fmt.Errorf("%w: the program never yields a policy", runtime.ErrNoResult)
	}
	value, err := runtime.Evaluate(block, l.NewScope())
	if err != nil {
		return nil, err
	}
	policy, err := runtime.AsPolicy(value)
	if err != nil {
		return nil, err
	}
	compiled, err := policy.Compile()
	if err != nil {
		return nil, err
	}
	return &LoadResult{Path: path, Policy: policy, Compiled: compiled}, nil
}
