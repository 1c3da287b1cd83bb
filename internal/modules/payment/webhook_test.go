package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinebook/internal/domain"
)

type mockDedup struct {
	seen map[string]bool
	err  error
}

func newMockDedup() *mockDedup {
	return &mockDedup{seen: make(map[string]bool)}
}

func (m *mockDedup) Exists(ctx context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.seen[key], nil
}

func (m *mockDedup) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

type mockReceiptWriter struct {
	calls   int
	lastID  string
	changed bool
}

func (m *mockReceiptWriter) MarkPaidByOrderID(ctx context.Context, orderID string, at time.Time) (bool, error) {
	m.calls++
	m.lastID = orderID
	return m.changed, nil
}

type mockPublisher struct {
	orderIDs   []string
	paymentIDs []string
}

func (m *mockPublisher) PublishCaptured(orderID, paymentID string) {
	m.orderIDs = append(m.orderIDs, orderID)
	m.paymentIDs = append(m.paymentIDs, paymentID)
}

func newTestWebhookService(repo *mockOrderRepo, receipts *mockReceiptWriter, dedup *mockDedup, pub *mockPublisher) *WebhookService {
	svc := NewWebhookService("webhook-secret", repo, receipts, dedup, time.Hour, pub, func(string, ...interface{}) {})
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func capturedBody(orderID, paymentID string) []byte {
	return []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"` + paymentID + `","order_id":"` + orderID + `","amount":100000,"status":"captured"}}}}`)
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	svc := newTestWebhookService(newMockOrderRepo(), &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	err := svc.HandleWebhook(context.Background(), "", capturedBody("order_1", "pay_1"))
	if !errors.Is(err, ErrMissingWebhookSignature) {
		t.Fatalf("expected ErrMissingWebhookSignature, got %v", err)
	}
}

func TestHandleWebhook_TamperedBody(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestWebhookService(repo, &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	body := capturedBody("order_1", "pay_1")
	sig := SignHex(body, "webhook-secret")

	tampered := capturedBody("order_1", "pay_2")
	err := svc.HandleWebhook(context.Background(), sig, tampered)
	if !errors.Is(err, ErrInvalidWebhookSignature) {
		t.Fatalf("expected ErrInvalidWebhookSignature, got %v", err)
	}
	if repo.markPaidCalls != 0 {
		t.Fatal("tampered webhook reached the order repo")
	}
}

func TestHandleWebhook_WrongSecret(t *testing.T) {
	svc := newTestWebhookService(newMockOrderRepo(), &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	body := capturedBody("order_1", "pay_1")
	// signed with the order secret instead of the webhook secret
	sig := SignHex(body, "order-secret")

	err := svc.HandleWebhook(context.Background(), sig, body)
	if !errors.Is(err, ErrInvalidWebhookSignature) {
		t.Fatalf("expected ErrInvalidWebhookSignature, got %v", err)
	}
}

func TestHandleWebhook_CapturedMarksPaid(t *testing.T) {
	repo := newMockOrderRepo()
	repo.orders["order_1"] = &domain.PaymentOrder{ID: "order_1", Status: domain.OrderConsumed}
	receipts := &mockReceiptWriter{changed: true}
	pub := &mockPublisher{}
	svc := newTestWebhookService(repo, receipts, newMockDedup(), pub)

	body := capturedBody("order_1", "pay_1")
	if err := svc.HandleWebhook(context.Background(), SignHex(body, "webhook-secret"), body); err != nil {
		t.Fatal(err)
	}

	order := repo.orders["order_1"]
	if order.Status != domain.OrderPaid || order.PaymentID != "pay_1" || order.PaidAt == nil {
		t.Fatalf("order not marked paid: %+v", order)
	}
	if receipts.calls != 1 || receipts.lastID != "order_1" {
		t.Fatalf("receipt not marked paid: calls=%d lastID=%s", receipts.calls, receipts.lastID)
	}
	if len(pub.orderIDs) != 1 || pub.orderIDs[0] != "order_1" || pub.paymentIDs[0] != "pay_1" {
		t.Fatalf("capture not published: %+v", pub)
	}
}

func TestHandleWebhook_DuplicateDeliveryIgnored(t *testing.T) {
	repo := newMockOrderRepo()
	repo.orders["order_1"] = &domain.PaymentOrder{ID: "order_1", Status: domain.OrderConsumed}
	receipts := &mockReceiptWriter{changed: true}
	svc := newTestWebhookService(repo, receipts, newMockDedup(), &mockPublisher{})

	body := capturedBody("order_1", "pay_1")
	sig := SignHex(body, "webhook-secret")

	if err := svc.HandleWebhook(context.Background(), sig, body); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleWebhook(context.Background(), sig, body); err != nil {
		t.Fatalf("duplicate delivery should ack cleanly, got %v", err)
	}

	if repo.markPaidCalls != 1 {
		t.Fatalf("expected one paid mark, got %d", repo.markPaidCalls)
	}
	if receipts.calls != 1 {
		t.Fatalf("expected one receipt mark, got %d", receipts.calls)
	}
}

func TestHandleWebhook_UnhandledEventAcked(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestWebhookService(repo, &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	body := []byte(`{"event":"refund.processed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)
	if err := svc.HandleWebhook(context.Background(), SignHex(body, "webhook-secret"), body); err != nil {
		t.Fatalf("unhandled event should ack cleanly, got %v", err)
	}
	if repo.markPaidCalls != 0 || repo.markFailedCalls != 0 {
		t.Fatal("unhandled event touched the order repo")
	}
}

func TestHandleWebhook_RedeliveryAfterDownstreamFailure(t *testing.T) {
	repo := newMockOrderRepo()
	repo.orders["order_1"] = &domain.PaymentOrder{ID: "order_1", Status: domain.OrderConsumed}
	repo.markPaidFailures = 1
	receipts := &mockReceiptWriter{changed: true}
	svc := newTestWebhookService(repo, receipts, newMockDedup(), &mockPublisher{})

	body := capturedBody("order_1", "pay_1")
	sig := SignHex(body, "webhook-secret")

	// first delivery fails downstream and must NOT be marked as seen
	if err := svc.HandleWebhook(context.Background(), sig, body); err == nil {
		t.Fatal("expected error from failed downstream update")
	}

	// the gateway redelivers once storage is healthy again
	if err := svc.HandleWebhook(context.Background(), sig, body); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if repo.orders["order_1"].Status != domain.OrderPaid {
		t.Fatalf("captured payment lost: order status = %s, want paid", repo.orders["order_1"].Status)
	}
}

func TestHandleWebhook_CaptureAfterForgedVerifyAttempt(t *testing.T) {
	repo := newMockOrderRepo()
	paySvc := newTestService(repo, &mockGateway{})
	if _, err := paySvc.CreateOrder(context.Background(), 1, CreateOrderRequest{Amount: 500}); err != nil {
		t.Fatal(err)
	}

	// an unauthenticated caller posts a forged triple for the order
	_, err := paySvc.VerifyPayment(context.Background(), VerifyPaymentRequest{
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_test_1",
		RazorpaySignature: "deadbeef",
	})
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	// the genuine capture must still settle the order
	svc := newTestWebhookService(repo, &mockReceiptWriter{changed: true}, newMockDedup(), &mockPublisher{})
	body := capturedBody("order_test_1", "pay_1")
	if err := svc.HandleWebhook(context.Background(), SignHex(body, "webhook-secret"), body); err != nil {
		t.Fatal(err)
	}
	if repo.orders["order_test_1"].Status != domain.OrderPaid {
		t.Fatalf("genuine capture dropped: status = %s, want paid", repo.orders["order_test_1"].Status)
	}
}

func TestHandleWebhook_FailedEventMarksOrder(t *testing.T) {
	repo := newMockOrderRepo()
	repo.orders["order_1"] = &domain.PaymentOrder{ID: "order_1", Status: domain.OrderCreated}
	svc := newTestWebhookService(repo, &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","error_description":"card declined"}}}}`)
	if err := svc.HandleWebhook(context.Background(), SignHex(body, "webhook-secret"), body); err != nil {
		t.Fatal(err)
	}

	order := repo.orders["order_1"]
	if order.Status != domain.OrderFailed || order.FailureReason != "card declined" {
		t.Fatalf("order not marked failed: %+v", order)
	}

	// a later capture for the same order still wins
	captured := capturedBody("order_1", "pay_2")
	if err := svc.HandleWebhook(context.Background(), SignHex(captured, "webhook-secret"), captured); err != nil {
		t.Fatal(err)
	}
	if order.Status != domain.OrderPaid {
		t.Fatalf("capture after failure dropped: status = %s, want paid", order.Status)
	}
}

func TestHandleWebhook_CapturedWithoutOrderID(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestWebhookService(repo, &mockReceiptWriter{}, newMockDedup(), &mockPublisher{})

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	if err := svc.HandleWebhook(context.Background(), SignHex(body, "webhook-secret"), body); err != nil {
		t.Fatalf("captured event without order id should ack, got %v", err)
	}
	if repo.markPaidCalls != 0 {
		t.Fatal("order repo touched without an order id")
	}
}
