package loader

import (
	"fmt"
	"os"
)

// FileError ties a load failure to the file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// ErrorCollector accumulates load errors across files so a multi file run
// reports everything instead of stopping at the first failure.
type ErrorCollector struct {
	Errors []error

	// Max errors to keep, 0 => no limit
	MaxErrors int
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

// Err returns the first collected error, or nil.
func (c *ErrorCollector) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}

func (c *ErrorCollector) PrintErrors() {
	for _, err := range c.Errors {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (c *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors {
			return
		}
		c.Errors = append(c.Errors, err)
	}
}

// Errorf records a failure against a specific file.
func (c *ErrorCollector) Errorf(path, format string, args ...any) {
	c.AddErrors(&FileError{Path: path, Err: fmt.Errorf(format, args...)})
}
