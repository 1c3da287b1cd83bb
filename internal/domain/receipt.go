package domain

import "time"

type ReceiptStatus string

const (
	// ReceiptConfirmed is set by the synchronous checkout path after the
	// payment signature verified.
	ReceiptConfirmed ReceiptStatus = "CONFIRMED"
	// ReceiptPaid is set when the gateway webhook reports payment.captured.
	// Confirmed and paid commute: either path may fire first, or both.
	ReceiptPaid ReceiptStatus = "PAID"
)

// Receipt is the booking record written once checkout completes. OrderID is
// unique so saving the same checkout twice is idempotent.
type Receipt struct {
	ID               string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID           int64         `gorm:"index;not null" json:"user_id"`
	UserName         string        `gorm:"type:varchar(128)" json:"user_name"`
	MovieID          string        `gorm:"type:varchar(64)" json:"movie_id"`
	MovieTitle       string        `gorm:"type:varchar(256)" json:"movie_title"`
	Showtime         string        `gorm:"type:varchar(64)" json:"showtime"`
	Seats            string        `gorm:"type:text" json:"seats"`
	AmountMinorUnits int64         `gorm:"not null" json:"total_amount"`
	Currency         string        `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentID        string        `gorm:"type:varchar(64);not null" json:"payment_id"`
	OrderID          string        `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_id"`
	Status           ReceiptStatus `gorm:"type:varchar(20);index" json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Receipt) TableName() string { return "receipts" }
