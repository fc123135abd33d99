package payment

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrGatewayLoading means the checkout SDK has not finished loading yet.
	ErrGatewayLoading = errors.New("payment gateway is still loading, please wait a moment and try again")
	// ErrGatewayUnconfigured means no checkout key is configured.
	ErrGatewayUnconfigured = errors.New("payment gateway is not configured")
	// ErrSDKUnavailable means the checkout script failed to load or does not expose the checkout constructor.
	ErrSDKUnavailable = errors.New("payment gateway SDK is unavailable")

	errMalformedOrder = errors.New("order intent response has no order id")
)

// MinorUnits converts whole rupees to paise. Orders are always expressed in minor units.
func MinorUnits(amount int64) int64 {
	return amount * 100
}

type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderMock    OrderStatus = "mock"
)

type (
	Order struct {
		OrderID  string      `json:"orderId"`
		Amount   int64       `json:"amount"` // minor units
		Currency string      `json:"currency"`
		Status   OrderStatus `json:"status"`
	}

	Payer struct {
		Name    string `json:"name,omitempty"`
		Email   string `json:"email,omitempty"`
		Contact string `json:"contact,omitempty"`
	}

	OrderRequest struct {
		Amount      int64 // minor units
		Currency    string
		Description string
		Receipt     string
		Payer       Payer
	}

	// Capture notifies the payment service of a completed payment. PaymentID and
	// Signature are empty for mock orders.
	Capture struct {
		OrderID   string
		PaymentID string
		Signature string
	}

	IntentService interface {
		CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
		Capture(ctx context.Context, c Capture) error
	}

	// WidgetResponse is what the checkout widget hands to its success handler.
	WidgetResponse struct {
		PaymentID string `json:"razorpay_payment_id"`
		OrderID   string `json:"razorpay_order_id"`
		Signature string `json:"razorpay_signature"`
	}

	// CheckoutOptions are the checkout widget constructor options.
	CheckoutOptions struct {
		Key         string            `json:"key"`
		Amount      int64             `json:"amount"`
		Currency    string            `json:"currency"`
		Name        string            `json:"name"`
		Description string            `json:"description"`
		OrderID     string            `json:"order_id"`
		Prefill     Payer             `json:"prefill"`
		Notes       map[string]string `json:"notes,omitempty"`
	}

	CheckoutCallbacks struct {
		OnSuccess func(ctx context.Context, resp WidgetResponse)
		OnDismiss func()
	}

	// Gateway opens the third-party checkout overlay.
	Gateway interface {
		// Ready reports whether the checkout SDK is loaded.
		Ready() bool
		// Err is the reason the SDK failed to load, nil while it is still loading.
		Err() error
		// Open fails fast on an unconfigured key or an SDK that is not ready.
		// It returns a reference to the opened checkout.
		Open(ctx context.Context, opts CheckoutOptions, cb CheckoutCallbacks) (string, error)
	}
)

// Attempt is the state of the checkout of one fee record.
type Attempt struct {
	FeeID       string    `json:"feeId"`
	State       State     `json:"state"`
	Method      string    `json:"method,omitempty"`
	Order       *Order    `json:"order,omitempty"`
	CheckoutRef string    `json:"checkoutRef,omitempty"`
	PaymentID   string    `json:"paymentId,omitempty"`
	Message     string    `json:"message,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`

	seq int
}
