package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrWrongState         = errors.New("event not valid in current state")
	ErrBlankCandidateName = errors.New("candidate name must not be blank")

	// Question errors
	ErrPoolExhausted    = errors.New("question pool exhausted")
	ErrQuestionMismatch = errors.New("result refers to a question that is no longer current")

	// External service errors
	ErrServiceUnavailable = errors.New("external service unavailable")
	ErrTooManyRequests    = errors.New("too many requests")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidFormat = errors.New("invalid format")
)
