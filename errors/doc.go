// Package errors provides the structured error type used across foundation.
//
// Faults raised while discovering or delegating to environment providers are
// wrapped in an AppError carrying a machine-readable code. The registry logs
// these and converts them into safe defaults; they never reach callers of the
// public accessors. Diagnostics endpoints serialize them with ToResponse.
package errors
