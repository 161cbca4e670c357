package completion

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid completion transition")
	ErrAlreadyPending    = errors.New("completion already recorded for today")
)
