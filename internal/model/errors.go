package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrAccessDenied    = errors.New("access denied")
	ErrUnauthenticated = errors.New("authentication required")
	ErrUpstream        = errors.New("upstream failure")
)
