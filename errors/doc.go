// Package errors provides structured error types for the splink module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the native operation, the handle involved
// and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindInvalidURI).
//		Op("link_create_from_string").
//		Value(uri).
//		Detail("native parser rejected %q", uri).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NoSession("link_create_from_string")
//	err := errors.InvalidURI(uri, nil)
//
// Match categories with the sentinels:
//
//	if errors.Is(err, errors.ErrNoSession) { ... }
//
// Precondition violations are programmer errors. They are raised with panic
// carrying an *Error of KindPrecondition, never returned.
package errors
