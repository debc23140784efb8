// Package errors provides a small accumulator for failures gathered across
// multiple independent operations, such as the per-component failures of a
// multi-step teardown.
package errors

import "errors"

// Collection accumulates errors from a series of operations. It is not safe
// for concurrent use; guard it externally when collecting from goroutines.
type Collection struct {
	errors []error
}

// Add appends an error. Nil errors are ignored, so results can be added
// unconditionally.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// HasError reports whether anything was collected.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// Last returns the most recently collected error, or nil. Useful where only
// the final failure of a sequence is of interest.
func (c *Collection) Last() error {
	if len(c.errors) == 0 {
		return nil
	}

	return c.errors[len(c.errors)-1]
}

// Err returns the collection as a single error: nil when empty, the error
// itself when there is exactly one, and an errors.Join of all of them
// otherwise.
func (c *Collection) Err() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}

// Clear empties the collection for reuse.
func (c *Collection) Clear() {
	c.errors = nil
}
