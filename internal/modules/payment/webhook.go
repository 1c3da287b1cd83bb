package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// WebhookService processes asynchronous gateway notifications. It verifies
// integrity with the webhook secret (never the order-creation secret),
// drops duplicate deliveries, and applies idempotent paid marks so the
// webhook path and the synchronous path commute.
type WebhookService struct {
	secret   string
	orders   orderRepo
	receipts receiptPaymentWriter
	dedup    dedupStore
	dedupTTL time.Duration
	captures capturePublisher
	loggerf  func(format string, args ...interface{})
	now      func() time.Time
}

func NewWebhookService(
	secret string,
	orders orderRepo,
	receipts receiptPaymentWriter,
	dedup dedupStore,
	dedupTTL time.Duration,
	captures capturePublisher,
	loggerf func(format string, args ...interface{}),
) *WebhookService {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &WebhookService{
		secret:   secret,
		orders:   orders,
		receipts: receipts,
		dedup:    dedup,
		dedupTTL: dedupTTL,
		captures: captures,
		loggerf:  loggerf,
		now:      time.Now,
	}
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Amount           int64  `json:"amount"`
				Status           string `json:"status"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies and dispatches one delivery. The signature is
// computed over rawBody exactly as received; re-encoding the JSON would
// break byte-for-byte equality with what the gateway signed.
func (s *WebhookService) HandleWebhook(ctx context.Context, signatureHeader string, rawBody []byte) error {
	if signatureHeader == "" {
		return ErrMissingWebhookSignature
	}
	if !VerifySignature(rawBody, s.secret, signatureHeader) {
		s.loggerf("level=info msg=webhook signature rejected body_len=%d", len(rawBody))
		return ErrInvalidWebhookSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("decode webhook body: %w", err)
	}

	digest := sha256.Sum256(rawBody)
	key := "webhook:delivery:" + hex.EncodeToString(digest[:])
	seen, err := s.dedup.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("webhook dedup check: %w", err)
	}
	if seen {
		s.loggerf("level=info msg=duplicate webhook delivery ignored event=%s", event.Event)
		return nil
	}

	switch event.Event {
	case "payment.captured":
		err = s.handleCaptured(ctx, event)
	case "payment.failed":
		err = s.handleFailed(ctx, event)
	default:
		s.loggerf("level=info msg=unhandled webhook event event=%s", event.Event)
	}
	if err != nil {
		// No dedup mark on failure: the gateway redelivers and the
		// idempotent marks absorb any partial work from this attempt.
		return err
	}

	if _, err := s.dedup.SetNX(ctx, key, event.Event, s.dedupTTL); err != nil {
		// The delivery is already applied; a redelivery is harmless.
		s.loggerf("level=warn msg=webhook dedup mark failed event=%s err=%v", event.Event, err)
	}
	return nil
}

func (s *WebhookService) handleCaptured(ctx context.Context, event webhookEvent) error {
	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		s.loggerf("level=info msg=captured event without order id payment_id=%s", entity.ID)
		return nil
	}

	at := s.now().UTC()
	changed, err := s.orders.MarkPaidIdempotent(ctx, entity.OrderID, entity.ID, at)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !changed {
		s.loggerf("level=info msg=order already paid order_id=%s", entity.OrderID)
	}

	if _, err := s.receipts.MarkPaidByOrderID(ctx, entity.OrderID, at); err != nil {
		return fmt.Errorf("mark receipt paid: %w", err)
	}

	if s.captures != nil {
		s.captures.PublishCaptured(entity.OrderID, entity.ID)
	}

	s.loggerf("level=info msg=payment captured order_id=%s payment_id=%s amount=%d", entity.OrderID, entity.ID, entity.Amount)
	return nil
}

func (s *WebhookService) handleFailed(ctx context.Context, event webhookEvent) error {
	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		s.loggerf("level=info msg=failed event without order id payment_id=%s", entity.ID)
		return nil
	}

	if err := s.orders.MarkFailed(ctx, entity.OrderID, entity.ErrorDescription); err != nil {
		return fmt.Errorf("mark order failed: %w", err)
	}

	s.loggerf("level=info msg=payment failed order_id=%s payment_id=%s reason=%s", entity.OrderID, entity.ID, entity.ErrorDescription)
	return nil
}
