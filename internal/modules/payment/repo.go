package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cinebook/internal/domain"
)

// OrderRepository is the gorm-backed order store.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	var o domain.PaymentOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Consume sets the one-time consumed latch. The conditional update is the
// replay guard: a second verification finds consumed_at already set and
// affects zero rows. A webhook-paid order can still be consumed once, and
// its paid status is preserved; a failed order can too, since a valid
// signature means a later payment attempt on the same order succeeded.
func (r *OrderRepository) Consume(ctx context.Context, id, paymentID string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.PaymentOrder{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":      gorm.Expr("CASE WHEN status = ? OR status = ? THEN ? ELSE status END", domain.OrderCreated, domain.OrderFailed, domain.OrderConsumed),
			"consumed_at": at,
			"payment_id":  paymentID,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *OrderRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.PaymentOrder{}).
		Where("id = ? AND status = ?", id, domain.OrderCreated).
		Updates(map[string]interface{}{
			"status":         domain.OrderFailed,
			"failure_reason": reason,
		}).Error
}

// MarkPaidIdempotent transitions to paid from any non-paid status. The
// webhook signature is its own integrity proof, so a capture overrides an
// earlier failed mark. Duplicate deliveries affect zero rows and report
// false.
func (r *OrderRepository) MarkPaidIdempotent(ctx context.Context, id, paymentID string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.PaymentOrder{}).
		Where("id = ? AND status <> ?", id, domain.OrderPaid).
		Updates(map[string]interface{}{
			"status":     domain.OrderPaid,
			"payment_id": paymentID,
			"paid_at":    at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
