// Package common holds sentinel errors shared between the API server and the
// web client. Callers wrap them with %w and match with errors.Is.
package common

import "errors"

var (
	// repository errors
	ErrorNotFound = errors.New("not found")

	// service errors
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorValidation    = errors.New("validation error")

	// api gateway errors
	ErrorBackendUnreachable = errors.New("backend not reachable")
	ErrorBadResponseShape   = errors.New("invalid response shape")
)
