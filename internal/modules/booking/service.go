package booking

import (
	"context"
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"cinebook/internal/domain"
)

type Service struct {
	receipts receiptRepo
	orders   orderReader
	loggerf  func(format string, args ...interface{})
}

func NewService(receipts receiptRepo, orders orderReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{receipts: receipts, orders: orders, loggerf: loggerf}
}

// SaveReceipt persists the booking confirmation after checkout. The receipt
// is only accepted when the referenced order belongs to the caller, carries
// a verified payment, and the amount matches what the order collected.
// Saving twice for the same order returns the stored receipt unchanged.
func (s *Service) SaveReceipt(ctx context.Context, userID int64, userName string, req SaveReceiptRequest) (*domain.Receipt, error) {
	if req.MovieTitle == "" || len(req.Seats) == 0 || req.Amount <= 0 || req.OrderID == "" || req.PaymentID == "" {
		return nil, ErrValidation
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, ErrOrderNotVerified
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.ConsumedAt == nil && order.Status != domain.OrderPaid {
		return nil, ErrOrderNotVerified
	}
	if order.PaymentID != "" && order.PaymentID != req.PaymentID {
		return nil, ErrOrderNotVerified
	}
	if int64(math.Round(req.Amount*100)) != order.AmountMinorUnits {
		return nil, ErrAmountMismatch
	}

	seats, err := json.Marshal(req.Seats)
	if err != nil {
		return nil, err
	}

	status := domain.ReceiptConfirmed
	if order.Status == domain.OrderPaid {
		status = domain.ReceiptPaid
	}

	currency := req.Currency
	if currency == "" {
		currency = order.Currency
	}

	receipt := &domain.Receipt{
		ID:               "TICKET-" + uuid.NewString(),
		UserID:           userID,
		UserName:         userName,
		MovieID:          req.MovieID,
		MovieTitle:       req.MovieTitle,
		Showtime:         req.Showtime,
		Seats:            string(seats),
		AmountMinorUnits: order.AmountMinorUnits,
		Currency:         currency,
		PaymentID:        req.PaymentID,
		OrderID:          req.OrderID,
		Status:           status,
	}

	if err := s.receipts.Create(ctx, receipt); err != nil {
		if IsUniqueViolation(err) {
			s.loggerf("level=info msg=duplicate receipt save order_id=%s", req.OrderID)
			return s.receipts.GetByOrderID(ctx, req.OrderID)
		}
		return nil, err
	}
	return receipt, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64) ([]ReceiptView, error) {
	receipts, err := s.receipts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ReceiptView, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toView(&r))
	}
	return out, nil
}

func toView(r *domain.Receipt) ReceiptView {
	var seats []string
	_ = json.Unmarshal([]byte(r.Seats), &seats)

	return ReceiptView{
		ID:         r.ID,
		UserName:   r.UserName,
		MovieID:    r.MovieID,
		MovieTitle: r.MovieTitle,
		Showtime:   r.Showtime,
		Seats:      seats,
		Amount:     r.AmountMinorUnits,
		Currency:   r.Currency,
		PaymentID:  r.PaymentID,
		OrderID:    r.OrderID,
		Status:     string(r.Status),
		Timestamp:  r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
