package payment

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
)

const (
	defaultCurrency = "INR"

	msgProcessing   = "Processing payment..."
	msgMockSuccess  = "Payment recorded in test mode. No money was charged."
	msgSuccess      = "Payment successful."
	msgDismissed    = "Payment was dismissed, please try again."
	msgWidgetOpened = "Complete the payment in the checkout window."
)

// nowFunc is overridden in tests.
var nowFunc = time.Now

type (
	Settings struct {
		CheckoutKey  string // empty means mock-payment mode
		Currency     string
		MerchantName string
	}

	Deps struct {
		Intents IntentService
		Gateway Gateway
		Mailer  core.EmailService // optional; receipts are skipped when nil
		Logger  core.Logger
	}

	// Orchestrator drives at most one checkout attempt per fee record.
	Orchestrator struct {
		intents IntentService
		gateway Gateway
		mailer  core.EmailService
		log     core.Logger
		conf    Settings

		mu       sync.Mutex
		attempts map[string]*Attempt
		seq      int // last attempt sequence number, never reused
	}
)

func NewOrchestrator(deps Deps, conf Settings) (*Orchestrator, error) {
	err := vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Intents, "intents"),
		vala.IsNotNil(deps.Gateway, "gateway"),
		vala.IsNotNil(deps.Logger, "logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "payment.NewOrchestrator")
	}
	if conf.Currency == "" {
		conf.Currency = defaultCurrency
	}
	return &Orchestrator{
		intents:  deps.Intents,
		gateway:  deps.Gateway,
		mailer:   deps.Mailer,
		log:      deps.Logger,
		conf:     conf,
		attempts: make(map[string]*Attempt),
	}, nil
}

// Live reports whether checkouts go through the real widget.
func (o *Orchestrator) Live() bool {
	return o.conf.CheckoutKey != ""
}

// Attempt returns the current attempt of a fee record (idle when there is none).
func (o *Orchestrator) Attempt(feeID string) Attempt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.attemptLocked(feeID)
}

// Reset forgets every attempt, e.g. when the session ends.
// Callbacks of checkouts that are still open are ignored afterwards.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts = make(map[string]*Attempt)
}

func (o *Orchestrator) attemptLocked(feeID string) *Attempt {
	att, ok := o.attempts[feeID]
	if !ok {
		att = &Attempt{FeeID: feeID, State: StateIdle, UpdatedAt: nowFunc().UTC()}
		o.attempts[feeID] = att
	}
	return att
}

// PayOutstanding starts a checkout for the outstanding amount of f.
// It is a no-op when nothing is outstanding and is ignored while an attempt is processing
// or after it succeeded. An order-intent failure never surfaces: a mock order is used instead.
// The only returned error is ErrGatewayLoading, after which the attempt is back to idle.
func (o *Orchestrator) PayOutstanding(ctx context.Context, f fee.Record, payer Payer, method string) (Attempt, error) {
	outstanding := f.Outstanding()
	if outstanding <= 0 {
		return o.Attempt(f.ID), nil
	}

	seq, ok := o.begin(f.ID, method)
	if !ok {
		return o.Attempt(f.ID), nil
	}

	order := o.resolveOrder(ctx, OrderRequest{
		Amount:      MinorUnits(outstanding),
		Currency:    o.conf.Currency,
		Description: f.Label,
		Receipt:     f.ID,
		Payer:       payer,
	})
	o.update(f.ID, seq, func(att *Attempt) { att.Order = &order })

	if !o.Live() || order.Status == OrderMock {
		o.capture(ctx, Capture{OrderID: order.OrderID})
		o.finish(f.ID, seq, StateSuccess, msgMockSuccess, "")
		o.sendReceipt(f, payer, order, "")
		return o.Attempt(f.ID), nil
	}

	// a failed load goes on to Open, which fails the attempt
	if !o.gateway.Ready() && o.gateway.Err() == nil {
		o.finish(f.ID, seq, StateIdle, ErrGatewayLoading.Error(), "")
		return o.Attempt(f.ID), ErrGatewayLoading
	}

	opts := CheckoutOptions{
		Key:         o.conf.CheckoutKey,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        o.conf.MerchantName,
		Description: f.Label,
		OrderID:     order.OrderID,
		Prefill:     payer,
		Notes: map[string]string{
			"feeId":    f.ID,
			"category": string(f.Category),
			"method":   method,
		},
	}
	callbacks := CheckoutCallbacks{
		OnSuccess: func(ctx context.Context, resp WidgetResponse) {
			if resp.OrderID != "" && resp.OrderID != order.OrderID {
				o.log.Warn("checkout response order id does not match", map[string]interface{}{
					"feeId": f.ID, "orderId": order.OrderID, "responseOrderId": resp.OrderID,
				})
			}
			if !o.isCurrent(f.ID, seq, StateProcessing) {
				return
			}
			o.capture(ctx, Capture{OrderID: order.OrderID, PaymentID: resp.PaymentID, Signature: resp.Signature})
			if o.finish(f.ID, seq, StateSuccess, msgSuccess, resp.PaymentID) {
				o.sendReceipt(f, payer, order, resp.PaymentID)
			}
		},
		OnDismiss: func() {
			o.finish(f.ID, seq, StateIdle, msgDismissed, "")
		},
	}

	ref, err := o.gateway.Open(ctx, opts, callbacks)
	if err != nil {
		o.log.Warn("checkout widget could not be opened", err)
		o.finish(f.ID, seq, StateFailed, errors.Cause(err).Error(), "")
		return o.Attempt(f.ID), nil
	}
	o.update(f.ID, seq, func(att *Attempt) {
		att.CheckoutRef = ref
		att.Message = msgWidgetOpened
	})
	return o.Attempt(f.ID), nil
}

// begin moves the attempt to processing and returns its sequence number.
func (o *Orchestrator) begin(feeID, method string) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	att := o.attemptLocked(feeID)
	if att.State == StateFailed {
		att.State, _ = Transition(att.State, StateIdle)
	}
	next, err := Transition(att.State, StateProcessing)
	if err != nil {
		return 0, false
	}
	o.seq++
	*att = Attempt{
		FeeID:     feeID,
		State:     next,
		Method:    method,
		Message:   msgProcessing,
		UpdatedAt: nowFunc().UTC(),
		seq:       o.seq,
	}
	return att.seq, true
}

// finish applies a transition out of processing, unless the attempt moved on.
func (o *Orchestrator) finish(feeID string, seq int, to State, msg, paymentID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	att := o.attemptLocked(feeID)
	if att.seq != seq {
		return false
	}
	next, err := Transition(att.State, to)
	if err != nil {
		o.log.Debug("checkout transition ignored", err, map[string]interface{}{"feeId": feeID})
		return false
	}
	att.State = next
	att.Message = msg
	if paymentID != "" {
		att.PaymentID = paymentID
	}
	att.UpdatedAt = nowFunc().UTC()
	return true
}

func (o *Orchestrator) update(feeID string, seq int, fn func(att *Attempt)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if att := o.attemptLocked(feeID); att.seq == seq {
		fn(att)
		att.UpdatedAt = nowFunc().UTC()
	}
}

func (o *Orchestrator) isCurrent(feeID string, seq int, state State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	att := o.attemptLocked(feeID)
	return att.seq == seq && att.State == state
}

// resolveOrder is the single place where an intent failure turns into a mock order.
func (o *Orchestrator) resolveOrder(ctx context.Context, req OrderRequest) Order {
	order, err := o.createOrder(ctx, req)
	if err != nil {
		o.log.Warn("order intent unavailable, continuing with a mock order", err, map[string]interface{}{
			"receipt": req.Receipt,
		})
		return mockOrder(req, nowFunc())
	}
	return order
}

func (o *Orchestrator) createOrder(ctx context.Context, req OrderRequest) (Order, error) {
	order, err := o.intents.CreateOrder(ctx, req)
	if err != nil {
		return Order{}, errors.Wrap(err, "payment.createOrder")
	}
	if order.OrderID == "" {
		return Order{}, errMalformedOrder
	}
	if order.Currency == "" {
		order.Currency = req.Currency
	}
	if order.Status == "" {
		order.Status = OrderCreated
	}
	return order, nil
}

func mockOrder(req OrderRequest, now time.Time) Order {
	return Order{
		OrderID:  "mock_" + strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10),
		Amount:   req.Amount,
		Currency: defaultCurrency,
		Status:   OrderMock,
	}
}

// capture notifies the payment service; failures are logged only.
func (o *Orchestrator) capture(ctx context.Context, c Capture) {
	if err := o.intents.Capture(ctx, c); err != nil {
		o.log.Warn("payment capture notification failed", err, map[string]interface{}{
			"orderId": c.OrderID,
		})
	}
}
