// Package paymentsvc talks to the payment intent service and the checkout widget.
package paymentsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

const serviceName = "payments"

type (
	// Client is the HTTP client of the order-intent and capture-notify endpoints.
	Client struct {
		rest    *rest.Client
		baseURL string
	}

	createOrderBody struct {
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency,omitempty"`
		Description  string `json:"description,omitempty"`
		Receipt      string `json:"receipt,omitempty"`
		PayerName    string `json:"payerName,omitempty"`
		PayerEmail   string `json:"payerEmail,omitempty"`
		PayerContact string `json:"payerContact,omitempty"`
	}

	captureBody struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId,omitempty"`
		Signature string `json:"signature,omitempty"`
	}
)

var _ payment.IntentService = (*Client)(nil)

func NewClient(conf core.PaymentConfig) *Client {
	return &Client{
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		baseURL: strings.TrimRight(conf.ServiceURL, "/"),
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*rest.Response, error) {
	if c.baseURL == "" {
		return nil, core.NewConfigError("payment service URL is not configured")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "paymentsvc.post")
	}
	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    data,
	})
	if err != nil {
		return nil, core.NewRemoteError(serviceName, 0, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewRemoteError(serviceName, resp.StatusCode, errorMessage(resp))
	}
	return resp, nil
}

func (c *Client) CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.Order, error) {
	resp, err := c.post(ctx, "/create-order", createOrderBody{
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		Receipt:      req.Receipt,
		PayerName:    req.Payer.Name,
		PayerEmail:   req.Payer.Email,
		PayerContact: req.Payer.Contact,
	})
	if err != nil {
		return payment.Order{}, err
	}

	var order payment.Order
	if err := json.Unmarshal([]byte(resp.Body), &order); err != nil {
		return payment.Order{}, core.NewRemoteError(serviceName, resp.StatusCode, "malformed order: "+err.Error())
	}
	if order.OrderID == "" {
		return payment.Order{}, core.NewRemoteError(serviceName, resp.StatusCode, "malformed order: missing orderId")
	}
	return order, nil
}

// Capture only observes the status of the call; the body is ignored.
func (c *Client) Capture(ctx context.Context, cp payment.Capture) error {
	_, err := c.post(ctx, "/capture", captureBody{
		OrderID:   cp.OrderID,
		PaymentID: cp.PaymentID,
		Signature: cp.Signature,
	})
	return err
}

func errorMessage(resp *rest.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
