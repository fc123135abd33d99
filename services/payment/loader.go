package paymentsvc

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/sendgrid/rest"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

// sdkConstructor must be defined by the checkout script.
const sdkConstructor = "Razorpay"

// Loader fetches the checkout SDK script once, in the background.
type Loader struct {
	rest      *rest.Client
	scriptURL string
	log       core.Logger

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	ready bool
	err   error
}

func NewLoader(conf core.PaymentConfig, logger core.Logger) *Loader {
	return &Loader{
		rest:      &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		scriptURL: conf.CheckoutScriptURL,
		log:       logger,
		done:      make(chan struct{}),
	}
}

// Load starts loading the SDK. Only the first call does anything.
func (l *Loader) Load(ctx context.Context) {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			err := l.fetch(ctx)

			l.mu.Lock()
			l.ready, l.err = err == nil, err
			l.mu.Unlock()

			if err != nil {
				l.log.Error("checkout SDK failed to load", err)
			} else {
				l.log.Info("checkout SDK loaded")
			}
		}()
	})
}

func (l *Loader) fetch(ctx context.Context) error {
	resp, err := l.rest.SendWithContext(ctx, rest.Request{Method: rest.Get, BaseURL: l.scriptURL})
	if err != nil {
		return core.NewRemoteError("checkout-sdk", 0, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.NewRemoteError("checkout-sdk", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if !strings.Contains(resp.Body, sdkConstructor) {
		return payment.ErrSDKUnavailable
	}
	return nil
}

// Done is closed once loading finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ready
}

func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
