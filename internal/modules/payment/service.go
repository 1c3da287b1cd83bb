package payment

import (
	"context"
	"math"
	"strconv"
	"time"

	"cinebook/internal/config"
	"cinebook/internal/domain"
)

// Service owns the order lifecycle: it is the only component that mints
// orders with the gateway and the only holder of the key secret.
type Service struct {
	orders  orderRepo
	gateway Gateway
	loggerf func(format string, args ...interface{})

	keyID           string
	keySecret       string
	defaultCurrency string
	now             func() time.Time
}

func NewService(orders orderRepo, gateway Gateway, cfg *config.PaymentRuntimeConfig, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:          orders,
		gateway:         gateway,
		loggerf:         loggerf,
		keyID:           cfg.KeyID,
		keySecret:       cfg.KeySecret,
		defaultCurrency: cfg.DefaultCurrency,
		now:             time.Now,
	}
}

// CreateOrder validates the request, mints a gateway order and persists the
// server-authoritative record. Amounts arrive in major units and are
// converted to minor units with round-half-up.
func (s *Service) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*OrderResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrAmountRequired
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "ticket_receipt_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}

	amountMinor := int64(math.Round(req.Amount * 100))

	gw, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt, true)
	if err != nil {
		s.loggerf("level=error msg=gateway order creation failed amount=%d currency=%s err=%v", amountMinor, currency, err)
		return nil, err
	}

	order := &domain.PaymentOrder{
		ID:               gw.ID,
		UserID:           userID,
		AmountMinorUnits: gw.Amount,
		Currency:         gw.Currency,
		Receipt:          gw.Receipt,
		AutoCapture:      true,
		Status:           domain.OrderCreated,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=order created order_id=%s amount=%d currency=%s receipt=%s", gw.ID, gw.Amount, gw.Currency, gw.Receipt)
	return &OrderResponse{
		ID:       gw.ID,
		Amount:   gw.Amount,
		Currency: gw.Currency,
		Receipt:  gw.Receipt,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment checks the widget callback triple against the key secret.
// The referenced order must exist, and each order verifies exactly once:
// a replayed triple fails with ErrOrderConsumed even though its signature
// is still valid.
func (s *Service) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResult, error) {
	if req.RazorpayPaymentID == "" || req.RazorpayOrderID == "" || req.RazorpaySignature == "" {
		return nil, ErrMissingFields
	}

	order, err := s.orders.GetByID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}

	msg := OrderMessage(req.RazorpayOrderID, req.RazorpayPaymentID)
	if !VerifySignature(msg, s.keySecret, req.RazorpaySignature) {
		// The endpoint is public, so a mismatch must not change order
		// state; the genuine webhook still settles the order.
		s.loggerf("level=info msg=payment signature rejected order_id=%s payment_id=%s", req.RazorpayOrderID, req.RazorpayPaymentID)
		return nil, ErrInvalidSignature
	}

	consumed, err := s.orders.Consume(ctx, order.ID, req.RazorpayPaymentID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !consumed {
		s.loggerf("level=info msg=replayed verification rejected order_id=%s", order.ID)
		return nil, ErrOrderConsumed
	}

	s.loggerf("level=info msg=payment verified order_id=%s payment_id=%s", req.RazorpayOrderID, req.RazorpayPaymentID)
	return &VerifyPaymentResult{
		Verified:  true,
		PaymentID: req.RazorpayPaymentID,
		OrderID:   req.RazorpayOrderID,
		Signature: req.RazorpaySignature,
	}, nil
}
