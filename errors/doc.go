// Package errors provides structured error types for the mixin library.
//
// Errors are categorized by Phase (where in the composition pipeline the
// error occurred) and Kind (error category). The Error type includes rich
// context: host type, record type, embedding path, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindBadRecord).
//		Host("Person").
//		Record("NameRecord").
//		Detail("record type must be a struct").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotComposed(errors.PhaseResolve, "Person", "EngineRecord")
//	err := errors.AlreadySupplied("Person", "NameRecord")
//
// All errors implement the standard error interface and support errors.Is/As.
// Every failure in this library is caused by a static composition mistake,
// never a transient condition, so no error here is worth retrying.
package errors
