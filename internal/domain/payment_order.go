package domain

import "time"

type PaymentOrderStatus string

const (
	// OrderCreated is the initial state minted by the gateway.
	OrderCreated PaymentOrderStatus = "created"
	// OrderConsumed means the synchronous signature check succeeded once;
	// re-verification of a consumed order is rejected.
	OrderConsumed PaymentOrderStatus = "consumed"
	// OrderPaid is set by the webhook path on payment.captured.
	OrderPaid   PaymentOrderStatus = "paid"
	OrderFailed PaymentOrderStatus = "failed"
)

// PaymentOrder is the server-authoritative record of an intent to collect a
// specific amount. The id is assigned by the payment gateway and immutable;
// only the status column transitions after creation.
type PaymentOrder struct {
	ID               string             `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID           int64              `gorm:"index;not null" json:"user_id"`
	AmountMinorUnits int64              `gorm:"not null" json:"amount"`
	Currency         string             `gorm:"type:varchar(3);not null" json:"currency"`
	Receipt          string             `gorm:"type:varchar(64)" json:"receipt"`
	AutoCapture      bool               `gorm:"not null;default:true" json:"auto_capture"`
	Status           PaymentOrderStatus `gorm:"type:varchar(20);default:'created';index" json:"status"`
	PaymentID        string             `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
	FailureReason    string             `gorm:"type:text" json:"failure_reason,omitempty"`
	ConsumedAt       *time.Time         `json:"consumed_at,omitempty"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (PaymentOrder) TableName() string { return "payment_orders" }
