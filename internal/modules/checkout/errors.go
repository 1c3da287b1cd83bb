package checkout

import "errors"

var (
	ErrMissingCheckoutData = errors.New("missing checkout data")
	ErrFlowBusy            = errors.New("checkout flow already in progress")
	ErrFlowNotResettable   = errors.New("checkout flow cannot be reset from this state")
	ErrPaymentDismissed    = errors.New("payment dismissed by user")
	ErrReceiptNotSaved     = errors.New("payment verified but receipt was not saved")
)
