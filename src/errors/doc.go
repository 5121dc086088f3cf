// Package errors provides structured error types for the mesh multiplier.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Every fatal condition of a run, such as rejected input, a process count that does not
// match the mesh, or a collective abort, is reported as an *Error so callers can match it
// with errors.Is against the convenience constructors:
//
//	err := errors.New(errors.PhaseValidate, errors.KindInvalidInput).
//		Path("left").
//		Detail("row %d has %d values, expected %d", 2, 3, 4).
//		Build()
//
//	if errors.Is(err, errors.InputValidation("")) { ... }
package errors
