package family

import "errors"

var (
	ErrNotInitialized     = errors.New("family not set up")
	ErrAlreadyInitialized = errors.New("family already set up")
	ErrInvalidPIN         = errors.New("incorrect PIN")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
)
