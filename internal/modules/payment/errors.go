package payment

import (
	"errors"
	"fmt"
)

var (
	ErrAmountRequired          = errors.New("amount is required and must be positive")
	ErrMissingFields           = errors.New("missing payment verification parameters")
	ErrInvalidSignature        = errors.New("invalid payment signature")
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderConsumed           = errors.New("order already verified")
	ErrMissingWebhookSignature = errors.New("missing webhook signature")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
)

// GatewayError carries the gateway's own message so handlers can surface it
// in the details field without exposing anything else.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %s", e.Message)
}
