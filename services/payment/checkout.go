package paymentsvc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

var ErrCheckoutNotFound = errors.New("checkout not found")

type (
	SDK interface {
		Ready() bool
		Err() error
	}

	// WebCheckout opens checkouts for the browser: Open registers the widget options under a
	// reference, the front-end runs the widget and reports back through Complete or Dismiss.
	WebCheckout struct {
		sdk SDK
		key string
		log core.Logger

		mu      sync.Mutex
		pending map[string]pendingCheckout
	}

	pendingCheckout struct {
		opts      payment.CheckoutOptions
		cb        payment.CheckoutCallbacks
		createdAt time.Time
	}
)

var _ payment.Gateway = (*WebCheckout)(nil)

func NewWebCheckout(sdk SDK, key string, logger core.Logger) *WebCheckout {
	return &WebCheckout{
		sdk:     sdk,
		key:     key,
		log:     logger,
		pending: make(map[string]pendingCheckout),
	}
}

func (wc *WebCheckout) Ready() bool {
	return wc.key != "" && wc.sdk.Ready()
}

func (wc *WebCheckout) Err() error {
	return wc.sdk.Err()
}

func (wc *WebCheckout) Open(_ context.Context, opts payment.CheckoutOptions, cb payment.CheckoutCallbacks) (string, error) {
	if wc.key == "" {
		return "", payment.ErrGatewayUnconfigured
	}
	if err := wc.sdk.Err(); err != nil {
		if !errors.Is(err, payment.ErrSDKUnavailable) {
			wc.log.Warn("checkout sdk failed to load", err)
		}
		return "", payment.ErrSDKUnavailable
	}
	if !wc.sdk.Ready() {
		return "", payment.ErrGatewayLoading
	}

	if opts.Key == "" {
		opts.Key = wc.key
	}

	ref := uuid.New().String()
	wc.mu.Lock()
	wc.pending[ref] = pendingCheckout{opts: opts, cb: cb, createdAt: time.Now().UTC()}
	wc.mu.Unlock()
	return ref, nil
}

// Checkout returns the widget options of a pending checkout.
func (wc *WebCheckout) Checkout(ref string) (payment.CheckoutOptions, error) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	pc, ok := wc.pending[ref]
	if !ok {
		return payment.CheckoutOptions{}, ErrCheckoutNotFound
	}
	return pc.opts, nil
}

func (wc *WebCheckout) take(ref string) (pendingCheckout, error) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	pc, ok := wc.pending[ref]
	if !ok {
		return pendingCheckout{}, ErrCheckoutNotFound
	}
	delete(wc.pending, ref)
	return pc, nil
}

// Complete runs the success handler of the checkout with the widget's response.
func (wc *WebCheckout) Complete(ctx context.Context, ref string, resp payment.WidgetResponse) error {
	pc, err := wc.take(ref)
	if err != nil {
		return err
	}
	if pc.cb.OnSuccess != nil {
		pc.cb.OnSuccess(ctx, resp)
	}
	return nil
}

// Dismiss runs the dismiss handler of the checkout.
func (wc *WebCheckout) Dismiss(ref string) error {
	pc, err := wc.take(ref)
	if err != nil {
		return err
	}
	if pc.cb.OnDismiss != nil {
		pc.cb.OnDismiss()
	}
	return nil
}

// Prune drops checkouts left open for longer than maxAge and returns how many were dropped.
func (wc *WebCheckout) Prune(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	var stale []pendingCheckout

	wc.mu.Lock()
	for ref, pc := range wc.pending {
		if pc.createdAt.Before(cutoff) {
			stale = append(stale, pc)
			delete(wc.pending, ref)
		}
	}
	wc.mu.Unlock()

	for _, pc := range stale {
		if pc.cb.OnDismiss != nil {
			pc.cb.OnDismiss()
		}
	}
	if len(stale) > 0 {
		wc.log.Info("pruned abandoned checkouts", map[string]interface{}{"count": len(stale)})
	}
	return len(stale)
}
