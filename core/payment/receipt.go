package payment

import (
	"fmt"
	"net/mail"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
)

const receiptTemplate = "payment_receipt"

// Receipt is the template data of the payment receipt e-mail.
type Receipt struct {
	PayerName string
	Label     string
	FeeID     string
	OrderID   string
	PaymentID string
	Amount    string
	Currency  string
	TestMode  bool
}

func (o *Orchestrator) sendReceipt(f fee.Record, payer Payer, order Order, paymentID string) {
	if o.mailer == nil || payer.Email == "" {
		return
	}
	name := payer.Name
	if name == "" {
		name = payer.Email
	}
	if paymentID == "" {
		paymentID = "-"
	}
	o.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: payer.Name, Address: payer.Email}},
		Subject:      "Payment receipt: " + f.Label,
		TemplateName: receiptTemplate,
		TemplateData: Receipt{
			PayerName: name,
			Label:     f.Label,
			FeeID:     f.ID,
			OrderID:   order.OrderID,
			PaymentID: paymentID,
			Amount:    formatMinor(order.Amount),
			Currency:  order.Currency,
			TestMode:  order.Status == OrderMock || !o.Live(),
		},
	})
}

func formatMinor(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
