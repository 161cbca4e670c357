package ledger

import "errors"

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyClaimed     = errors.New("reward already claimed")
	ErrInvalidAmount      = errors.New("invalid point amount")
)
