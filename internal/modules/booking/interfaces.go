package booking

import (
	"context"
	"time"

	"cinebook/internal/domain"
)

type receiptRepo interface {
	Create(ctx context.Context, r *domain.Receipt) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Receipt, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Receipt, error)
	MarkPaidByOrderID(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type orderReader interface {
	GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error)
}
