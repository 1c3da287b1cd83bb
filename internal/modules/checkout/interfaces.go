package checkout

import (
	"context"

	"cinebook/internal/domain"
	"cinebook/internal/modules/booking"
	"cinebook/internal/modules/payment"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, userID int64, req payment.CreateOrderRequest) (*payment.OrderResponse, error)
}

type paymentVerifier interface {
	VerifyPayment(ctx context.Context, req payment.VerifyPaymentRequest) (*payment.VerifyPaymentResult, error)
}

type receiptSaver interface {
	SaveReceipt(ctx context.Context, userID int64, userName string, req booking.SaveReceiptRequest) (*domain.Receipt, error)
}

// CollectResult is what the payment collector hands back once the payer is
// done with the gateway widget. Dismissed means the widget was closed
// without paying.
type CollectResult struct {
	Dismissed bool
	PaymentID string
	OrderID   string
	Signature string
	Err       error
}

// collector drives the interactive payment step. Collect returns a channel
// that delivers exactly one result when the payer finishes or walks away.
type collector interface {
	Collect(ctx context.Context, order payment.OrderResponse) (<-chan CollectResult, error)
}
