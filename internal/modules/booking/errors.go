package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrForbidden        = errors.New("order belongs to another user")
	ErrOrderNotVerified = errors.New("order has no verified payment")
	ErrAmountMismatch   = errors.New("amount does not match the paid order")
)
