package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// InternalError reports an internal consistency failure of the compiler pipeline while processing one function.
// It never describes a fault in the source program: by the time it is raised the program has passed all checks.
type InternalError struct {
	Func  string // Name of the function being processed.
	Index int    // Index of the offending instruction, or -1 if no single instruction is at fault.
	Err   error  // Underlying error; usually a sentinel error of the reporting package.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewInternalError returns an InternalError for instruction index of function fn, formatting its message with
// format and args. The sentinel err is wrapped such that errors.Is(res, err) holds.
func NewInternalError(fn string, index int, err error, format string, args ...interface{}) *InternalError {
	if len(format) > 0 {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	return &InternalError{
		Func:  fn,
		Index: index,
		Err:   err,
	}
}

// Error returns the diagnostic message of e.
func (e *InternalError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("internal compiler error in function %q: %s", e.Func, e.Err)
	}
	return fmt.Sprintf("internal compiler error in function %q, instruction %d: %s", e.Func, e.Index, e.Err)
}

// Unwrap returns the underlying error of e.
func (e *InternalError) Unwrap() error {
	return e.Err
}
