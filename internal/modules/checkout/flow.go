package checkout

import (
	"context"
	"sync"

	"cinebook/internal/domain"
	"cinebook/internal/modules/booking"
	"cinebook/internal/modules/payment"
)

// State names the stages of a single checkout attempt.
type State string

const (
	StateIdle               State = "idle"
	StateOrderRequested     State = "order_requested"
	StateOrderCreated       State = "order_created"
	StatePaymentInProgress  State = "payment_in_progress"
	StateVerified           State = "verified"
	StateVerificationFailed State = "verification_failed"
	StatePaymentCancelled   State = "payment_cancelled"
)

// terminal reports whether the flow finished and can be reset.
func (s State) terminal() bool {
	switch s {
	case StateVerified, StateVerificationFailed, StatePaymentCancelled:
		return true
	}
	return false
}

// CheckoutRequest carries everything one booking attempt needs: who is
// buying, what they are buying, and the price in major currency units.
type CheckoutRequest struct {
	UserID     int64
	UserName   string
	MovieID    string
	MovieTitle string
	Showtime   string
	Seats      []string
	Amount     float64
	Currency   string
}

// Flow runs one checkout attempt from order creation through signature
// verification to the saved receipt. A Flow handles one attempt at a time;
// call Reset after a terminal state to start over.
type Flow struct {
	orders    orderCreator
	collector collector
	verifier  paymentVerifier
	receipts  receiptSaver
	loggerf   func(format string, args ...interface{})

	mu      sync.Mutex
	state   State
	order   *payment.OrderResponse
	receipt *domain.Receipt
	lastErr error
}

func NewFlow(orders orderCreator, collector collector, verifier paymentVerifier, receipts receiptSaver, loggerf func(format string, args ...interface{})) *Flow {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Flow{
		orders:    orders,
		collector: collector,
		verifier:  verifier,
		receipts:  receipts,
		loggerf:   loggerf,
		state:     StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Receipt returns the booking confirmation produced by a verified run,
// nil otherwise.
func (f *Flow) Receipt() *domain.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Flow) transition(to State) {
	f.mu.Lock()
	from := f.state
	f.state = to
	f.mu.Unlock()
	f.loggerf("level=info msg=checkout transition from=%s to=%s", from, to)
}

func (f *Flow) fail(to State, err error) (State, error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
	f.transition(to)
	return to, err
}

// Run executes the whole checkout sequence. It blocks until the payer
// finishes with the gateway widget or ctx is cancelled.
func (f *Flow) Run(ctx context.Context, req CheckoutRequest) (State, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		st := f.state
		f.mu.Unlock()
		return st, ErrFlowBusy
	}
	f.lastErr = nil
	f.order = nil
	f.receipt = nil
	f.mu.Unlock()

	if req.Amount <= 0 || req.MovieTitle == "" || len(req.Seats) == 0 {
		return f.fail(StateIdle, ErrMissingCheckoutData)
	}

	f.transition(StateOrderRequested)

	order, err := f.orders.CreateOrder(ctx, req.UserID, payment.CreateOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		f.loggerf("level=error msg=checkout order creation failed err=%v", err)
		return f.fail(StateIdle, err)
	}

	f.mu.Lock()
	f.order = order
	f.mu.Unlock()
	f.transition(StateOrderCreated)

	results, err := f.collector.Collect(ctx, *order)
	if err != nil {
		f.loggerf("level=error msg=checkout collector failed order_id=%s err=%v", order.ID, err)
		return f.fail(StateIdle, err)
	}

	f.transition(StatePaymentInProgress)

	var res CollectResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return f.fail(StatePaymentCancelled, ctx.Err())
	}

	if res.Err != nil {
		return f.fail(StatePaymentCancelled, res.Err)
	}
	if res.Dismissed {
		return f.fail(StatePaymentCancelled, ErrPaymentDismissed)
	}

	result, err := f.verifier.VerifyPayment(ctx, payment.VerifyPaymentRequest{
		RazorpayPaymentID: res.PaymentID,
		RazorpayOrderID:   res.OrderID,
		RazorpaySignature: res.Signature,
	})
	if err != nil || result == nil || !result.Verified {
		f.loggerf("level=warn msg=checkout verification failed order_id=%s err=%v", order.ID, err)
		return f.fail(StateVerificationFailed, err)
	}

	receipt, err := f.receipts.SaveReceipt(ctx, req.UserID, req.UserName, booking.SaveReceiptRequest{
		MovieID:    req.MovieID,
		MovieTitle: req.MovieTitle,
		Showtime:   req.Showtime,
		Seats:      req.Seats,
		Amount:     req.Amount,
		Currency:   order.Currency,
		PaymentID:  result.PaymentID,
		OrderID:    result.OrderID,
	})
	if err != nil {
		// Payment went through. The webhook path will still settle the
		// order, so the run counts as verified even without a receipt.
		f.loggerf("level=error msg=checkout receipt save failed order_id=%s err=%v", order.ID, err)
		f.mu.Lock()
		f.lastErr = ErrReceiptNotSaved
		f.mu.Unlock()
		f.transition(StateVerified)
		return StateVerified, ErrReceiptNotSaved
	}

	f.mu.Lock()
	f.receipt = receipt
	f.mu.Unlock()
	f.transition(StateVerified)
	return StateVerified, nil
}

// Reset returns a finished flow to idle so the user can retry.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle && !f.state.terminal() {
		return ErrFlowNotResettable
	}

	f.loggerf("level=info msg=checkout reset from=%s", f.state)
	f.state = StateIdle
	f.order = nil
	f.receipt = nil
	f.lastErr = nil
	return nil
}
