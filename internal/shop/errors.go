package shop

import "errors"

var (
	ErrStoreClosed        = errors.New("store is closed")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownAccessory   = errors.New("unknown accessory")
	ErrUnavailable        = errors.New("accessory unavailable")
	ErrNotFound           = errors.New("not found")
	ErrNotOwned           = errors.New("accessory not owned")
	ErrValidation         = errors.New("validation failed")
)
