package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
	ErrUnavailable  = errors.New("unavailable")  // 503
)

// Reason strips the trailing sentinel from a wrapped service error, leaving
// the human-readable part for the response envelope.
func Reason(err, kind error) string {
	return strings.TrimSuffix(err.Error(), ": "+kind.Error())
}
