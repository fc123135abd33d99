package payment

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type intentsStub struct {
	mu         sync.Mutex
	order      Order
	createErr  error
	captureErr error
	requests   []OrderRequest
	captures   []Capture

	started chan struct{} // signalled when CreateOrder is entered
	release chan struct{} // CreateOrder blocks until closed
}

func (s *intentsStub) CreateOrder(_ context.Context, req OrderRequest) (Order, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	if s.createErr != nil {
		return Order{}, s.createErr
	}
	order := s.order
	order.Amount = req.Amount
	return order, nil
}

func (s *intentsStub) Capture(_ context.Context, c Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures = append(s.captures, c)
	return s.captureErr
}

func (s *intentsStub) createCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type gatewayStub struct {
	ready   bool
	loadErr error
	openErr error
	opened  []CheckoutOptions
	cb      CheckoutCallbacks
}

func (g *gatewayStub) Ready() bool { return g.ready }
func (g *gatewayStub) Err() error  { return g.loadErr }

func (g *gatewayStub) Open(_ context.Context, opts CheckoutOptions, cb CheckoutCallbacks) (string, error) {
	if g.openErr != nil {
		return "", g.openErr
	}
	if g.loadErr != nil {
		return "", ErrSDKUnavailable
	}
	g.opened = append(g.opened, opts)
	g.cb = cb
	return "ref-1", nil
}

type mailerStub struct {
	sent []*core.EmailMessage
}

func (m *mailerStub) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

var (
	tuition = fee.Record{ID: "fee-1", Category: fee.CategoryTuition, Label: "Tuition Term 1", AmountDue: 1000, AmountPaid: 400}
	payer   = Payer{Name: "Asha", Email: "asha@example.com"}
)

func setup(t *testing.T, key string) (*Orchestrator, *intentsStub, *gatewayStub, *mailerStub) {
	t.Helper()
	intents := &intentsStub{order: Order{OrderID: "order_abc", Currency: "INR", Status: OrderCreated}}
	gateway := &gatewayStub{ready: true}
	mailer := new(mailerStub)
	orch, err := NewOrchestrator(
		Deps{Intents: intents, Gateway: gateway, Mailer: mailer, Logger: nopLogger{}},
		Settings{CheckoutKey: key, MerchantName: "GradeKart"},
	)
	if err != nil {
		t.Fatalf("NewOrchestrator() failed! err = %v", err)
	}
	return orch, intents, gateway, mailer
}

func TestNewOrchestrator_missingDeps(t *testing.T) {
	if _, err := NewOrchestrator(Deps{Logger: nopLogger{}}, Settings{}); err == nil {
		t.Error("NewOrchestrator() failed! want an error without intents and gateway")
	}
}

func TestOrchestrator_mockModeEndToEnd(t *testing.T) {
	orch, intents, gateway, mailer := setup(t, "")

	att, err := orch.PayOutstanding(context.Background(), tuition, payer, "upi")
	if err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	if att.State != StateSuccess {
		t.Fatalf("PayOutstanding() failed! state = %v; want %v", att.State, StateSuccess)
	}
	if att.Message != msgMockSuccess {
		t.Errorf("PayOutstanding() failed! message = %q; want %q", att.Message, msgMockSuccess)
	}

	wantReq := OrderRequest{Amount: 60000, Currency: "INR", Description: "Tuition Term 1", Receipt: "fee-1", Payer: payer}
	if !reflect.DeepEqual(intents.requests, []OrderRequest{wantReq}) {
		t.Errorf("CreateOrder() failed! requests = %+v; want %+v", intents.requests, wantReq)
	}
	if !reflect.DeepEqual(intents.captures, []Capture{{OrderID: "order_abc"}}) {
		t.Errorf("Capture() failed! captures = %+v; want order id only", intents.captures)
	}
	if len(gateway.opened) != 0 {
		t.Error("PayOutstanding() failed! mock mode must not open the widget")
	}
	if len(mailer.sent) != 1 || mailer.sent[0].TemplateName != receiptTemplate {
		t.Fatalf("PayOutstanding() failed! sent = %+v; want one receipt", mailer.sent)
	}
	if data := mailer.sent[0].TemplateData.(Receipt); data.Amount != "600.00" || !data.TestMode {
		t.Errorf("PayOutstanding() failed! receipt = %+v", data)
	}
}

func TestOrchestrator_orderFallback(t *testing.T) {
	oldNow := nowFunc
	nowFunc = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { nowFunc = oldNow }()

	tests := []struct {
		name      string
		key       string
		createErr error
		order     Order
	}{
		{name: "intent error", createErr: core.NewRemoteError("payments", 500, "boom")},
		{name: "malformed response", order: Order{Status: OrderCreated}},
		{name: "intent error in live mode", key: "rzp_test_key", createErr: errors.New("dial tcp: refused")},
	}
	mockID := regexp.MustCompile(`^mock_\d+$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, intents, gateway, _ := setup(t, tt.key)
			intents.createErr = tt.createErr
			intents.order = tt.order

			att, err := orch.PayOutstanding(context.Background(), tuition, payer, "")
			if err != nil {
				t.Fatalf("PayOutstanding() failed! err = %v", err)
			}
			if att.State != StateSuccess {
				t.Fatalf("PayOutstanding() failed! state = %v; want %v", att.State, StateSuccess)
			}
			if att.Order == nil || !mockID.MatchString(att.Order.OrderID) {
				t.Fatalf("PayOutstanding() failed! order = %+v; want a mock order", att.Order)
			}
			if att.Order.OrderID != "mock_1700000000000" {
				t.Errorf("PayOutstanding() failed! order id = %q", att.Order.OrderID)
			}
			if att.Order.Amount != 60000 || att.Order.Status != OrderMock || att.Order.Currency != "INR" {
				t.Errorf("PayOutstanding() failed! order = %+v", att.Order)
			}
			if len(gateway.opened) != 0 {
				t.Error("PayOutstanding() failed! a mock order must never reach the widget")
			}
		})
	}
}

func TestOrchestrator_nothingOutstanding(t *testing.T) {
	orch, intents, _, _ := setup(t, "")
	paid := tuition
	paid.AmountPaid = paid.AmountDue

	att, err := orch.PayOutstanding(context.Background(), paid, payer, "")
	if err != nil || att.State != StateIdle {
		t.Errorf("PayOutstanding() failed! got = %v, %v; want idle, nil", att.State, err)
	}
	if intents.createCalls() != 0 {
		t.Errorf("PayOutstanding() failed! create calls = %d; want 0", intents.createCalls())
	}
}

func TestOrchestrator_reentrancy(t *testing.T) {
	orch, intents, _, _ := setup(t, "")
	intents.started = make(chan struct{}, 1)
	intents.release = make(chan struct{})

	done := make(chan Attempt)
	go func() {
		att, _ := orch.PayOutstanding(context.Background(), tuition, payer, "")
		done <- att
	}()
	<-intents.started

	att, err := orch.PayOutstanding(context.Background(), tuition, payer, "")
	if err != nil || att.State != StateProcessing {
		t.Errorf("PayOutstanding() failed! got = %v, %v; want processing, nil", att.State, err)
	}
	close(intents.release)

	if first := <-done; first.State != StateSuccess {
		t.Errorf("PayOutstanding() failed! first attempt = %v; want %v", first.State, StateSuccess)
	}
	if n := intents.createCalls(); n != 1 {
		t.Errorf("PayOutstanding() failed! create calls = %d; want 1", n)
	}

	// success is terminal for the fee record
	if att, _ := orch.PayOutstanding(context.Background(), tuition, payer, ""); att.State != StateSuccess {
		t.Errorf("PayOutstanding() failed! state = %v; want %v", att.State, StateSuccess)
	}
	if n := intents.createCalls(); n != 1 {
		t.Errorf("PayOutstanding() failed! create calls = %d; want 1", n)
	}
}

func TestOrchestrator_liveGatewayLoading(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")
	gateway.ready = false

	att, err := orch.PayOutstanding(context.Background(), tuition, payer, "card")
	if err != ErrGatewayLoading {
		t.Fatalf("PayOutstanding() failed! err = %v; want %v", err, ErrGatewayLoading)
	}
	if att.State != StateIdle {
		t.Errorf("PayOutstanding() failed! state = %v; want %v", att.State, StateIdle)
	}

	gateway.ready = true
	att, err = orch.PayOutstanding(context.Background(), tuition, payer, "card")
	if err != nil || att.State != StateProcessing || att.CheckoutRef != "ref-1" {
		t.Errorf("PayOutstanding() failed! got = %+v, %v; want processing with a checkout ref", att, err)
	}
	if n := intents.createCalls(); n != 2 {
		t.Errorf("PayOutstanding() failed! create calls = %d; want 2", n)
	}
}

func TestOrchestrator_liveSuccess(t *testing.T) {
	orch, intents, gateway, mailer := setup(t, "rzp_test_key")

	att, err := orch.PayOutstanding(context.Background(), tuition, payer, "netbanking")
	if err != nil || att.State != StateProcessing {
		t.Fatalf("PayOutstanding() failed! got = %v, %v; want processing, nil", att.State, err)
	}
	wantOpts := CheckoutOptions{
		Key:         "rzp_test_key",
		Amount:      60000,
		Currency:    "INR",
		Name:        "GradeKart",
		Description: "Tuition Term 1",
		OrderID:     "order_abc",
		Prefill:     payer,
		Notes:       map[string]string{"feeId": "fee-1", "category": "tuition", "method": "netbanking"},
	}
	if !reflect.DeepEqual(gateway.opened, []CheckoutOptions{wantOpts}) {
		t.Errorf("Open() failed! opts = %+v; want %+v", gateway.opened, wantOpts)
	}
	if len(intents.captures) != 0 {
		t.Error("PayOutstanding() failed! capture must wait for the widget")
	}

	gateway.cb.OnSuccess(context.Background(), WidgetResponse{PaymentID: "pay_1", OrderID: "order_abc", Signature: "sig"})

	att = orch.Attempt("fee-1")
	if att.State != StateSuccess || att.PaymentID != "pay_1" {
		t.Errorf("OnSuccess() failed! attempt = %+v", att)
	}
	if want := []Capture{{OrderID: "order_abc", PaymentID: "pay_1", Signature: "sig"}}; !reflect.DeepEqual(intents.captures, want) {
		t.Errorf("Capture() failed! captures = %+v; want %+v", intents.captures, want)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("OnSuccess() failed! receipts = %d; want 1", len(mailer.sent))
	}

	// a late duplicate callback changes nothing
	gateway.cb.OnSuccess(context.Background(), WidgetResponse{PaymentID: "pay_2"})
	if len(intents.captures) != 1 || orch.Attempt("fee-1").PaymentID != "pay_1" {
		t.Error("OnSuccess() failed! duplicate callback was applied")
	}
}

func TestOrchestrator_liveCaptureFailureIsSwallowed(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")
	intents.captureErr = errors.New("capture down")

	if _, err := orch.PayOutstanding(context.Background(), tuition, payer, ""); err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	gateway.cb.OnSuccess(context.Background(), WidgetResponse{PaymentID: "pay_1", OrderID: "order_abc"})
	if att := orch.Attempt("fee-1"); att.State != StateSuccess {
		t.Errorf("OnSuccess() failed! state = %v; want %v", att.State, StateSuccess)
	}
}

func TestOrchestrator_liveDismiss(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")

	if _, err := orch.PayOutstanding(context.Background(), tuition, payer, ""); err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	stale := gateway.cb
	stale.OnDismiss()

	att := orch.Attempt("fee-1")
	if att.State != StateIdle || att.Message != msgDismissed {
		t.Fatalf("OnDismiss() failed! attempt = %+v", att)
	}

	// a new attempt is not affected by callbacks of the dismissed one
	if _, err := orch.PayOutstanding(context.Background(), tuition, payer, ""); err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	stale.OnSuccess(context.Background(), WidgetResponse{PaymentID: "pay_old"})
	if att := orch.Attempt("fee-1"); att.State != StateProcessing {
		t.Errorf("OnSuccess() failed! stale callback moved state to %v", att.State)
	}
	if len(intents.captures) != 0 {
		t.Errorf("OnSuccess() failed! stale callback captured %+v", intents.captures)
	}
}

func TestOrchestrator_liveOpenFailure(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")
	gateway.openErr = ErrSDKUnavailable

	att, err := orch.PayOutstanding(context.Background(), tuition, payer, "")
	if err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	if att.State != StateFailed || att.Message != ErrSDKUnavailable.Error() {
		t.Fatalf("PayOutstanding() failed! attempt = %+v", att)
	}

	// failed attempts can be retried with a new order
	gateway.openErr = nil
	att, _ = orch.PayOutstanding(context.Background(), tuition, payer, "")
	if att.State != StateProcessing {
		t.Errorf("PayOutstanding() failed! state = %v; want %v", att.State, StateProcessing)
	}
	if n := intents.createCalls(); n != 2 {
		t.Errorf("PayOutstanding() failed! create calls = %d; want 2", n)
	}
}

func TestOrchestrator_liveLoadFailure(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")
	gateway.ready = false
	gateway.loadErr = core.NewRemoteError("checkout-sdk", 503, "Service Unavailable")

	for i := 1; i <= 2; i++ {
		att, err := orch.PayOutstanding(context.Background(), tuition, payer, "")
		if err != nil {
			t.Fatalf("PayOutstanding() failed! err = %v", err)
		}
		if att.State != StateFailed || att.Message != ErrSDKUnavailable.Error() {
			t.Fatalf("PayOutstanding() failed! attempt = %+v; want failed", att)
		}
		if n := intents.createCalls(); n != i {
			t.Errorf("PayOutstanding() failed! create calls = %d; want %d", n, i)
		}
	}
	if len(gateway.opened) != 0 || len(intents.captures) != 0 {
		t.Errorf("PayOutstanding() failed! opened = %v captures = %v", gateway.opened, intents.captures)
	}
}

func TestOrchestrator_Reset(t *testing.T) {
	orch, intents, gateway, _ := setup(t, "rzp_test_key")

	if _, err := orch.PayOutstanding(context.Background(), tuition, payer, ""); err != nil {
		t.Fatalf("PayOutstanding() failed! err = %v", err)
	}
	stale := gateway.cb
	orch.Reset()

	if att := orch.Attempt("fee-1"); att.State != StateIdle || att.Order != nil {
		t.Fatalf("Reset() failed! attempt = %+v", att)
	}
	stale.OnSuccess(context.Background(), WidgetResponse{PaymentID: "pay_old"})
	if att := orch.Attempt("fee-1"); att.State != StateIdle {
		t.Errorf("OnSuccess() failed! callback from before Reset() moved state to %v", att.State)
	}
	if len(intents.captures) != 0 {
		t.Errorf("OnSuccess() failed! callback from before Reset() captured %+v", intents.captures)
	}
}
