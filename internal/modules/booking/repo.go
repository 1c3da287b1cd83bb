package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"cinebook/internal/domain"
)

type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *ReceiptRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *ReceiptRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// MarkPaidByOrderID flips the receipt to PAID. Zero rows affected means
// there is no receipt yet (webhook beat the client) or it is already PAID;
// both are fine for the caller.
func (r *ReceiptRepository) MarkPaidByOrderID(ctx context.Context, orderID string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Receipt{}).
		Where("order_id = ? AND status <> ?", orderID, domain.ReceiptPaid).
		Updates(map[string]interface{}{
			"status":     domain.ReceiptPaid,
			"updated_at": at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// IsUniqueViolation recognizes duplicate-key failures on both backends:
// pgconn error 23505 on postgres, message matching on sqlite.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
