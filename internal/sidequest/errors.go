package sidequest

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid side quest transition")
	ErrValidation        = errors.New("validation failed")
)
