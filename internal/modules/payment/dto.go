package payment

type CreateOrderRequest struct {
	Amount   float64 `json:"amount" example:"500.00"`
	Currency string  `json:"currency" example:"INR"`
	Receipt  string  `json:"receipt" example:"ticket_receipt_1700000000000"`
}

// OrderResponse is what the front-end needs to open the payment widget.
// Amount is in minor units, as the gateway echoes it. The key secret is
// never part of this payload.
type OrderResponse struct {
	ID       string `json:"id" example:"order_abc123"`
	Amount   int64  `json:"amount" example:"50000"`
	Currency string `json:"currency" example:"INR"`
	Receipt  string `json:"receipt" example:"ticket_receipt_1700000000000"`
	KeyID    string `json:"key_id" example:"rzp_test_key"`
}

// VerifyPaymentRequest mirrors the widget success callback payload verbatim.
type VerifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResult struct {
	Verified  bool   `json:"verified"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}
