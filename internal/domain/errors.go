package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist (or a trip is not in the state the operation
// requires, e.g. adding a point to a closed trip).
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (out-of-range latitude, negative fuel liters, malformed email).
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation collides with existing state:
// starting a trip while one is active, or signing up with a taken email.
// Handlers map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for bad credentials or an invalid bearer token.
// Handlers map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
