package payment

import (
	"context"
	"time"

	"cinebook/internal/domain"
)

type orderRepo interface {
	Create(ctx context.Context, o *domain.PaymentOrder) error
	GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error)
	// Consume latches the one-time verification of an order. It reports
	// false when the order was already consumed (replay) or failed.
	Consume(ctx context.Context, id, paymentID string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id, reason string) error
	// MarkPaidIdempotent records webhook capture; repeat calls are no-ops.
	MarkPaidIdempotent(ctx context.Context, id, paymentID string, at time.Time) (bool, error)
}

type receiptPaymentWriter interface {
	MarkPaidByOrderID(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type dedupStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type capturePublisher interface {
	PublishCaptured(orderID, paymentID string)
}
