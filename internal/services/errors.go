package services

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrWrongOrderType     = errors.New("operation does not apply to this order type")
	ErrNoDriver           = errors.New("order has no driver")
	ErrPickupCodeMismatch = errors.New("pickup code does not match")
	ErrNoDescription      = errors.New("menu item has no description")
	ErrMediaUnavailable   = errors.New("media generation is unavailable")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
