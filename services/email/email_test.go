package emailsvc

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{AppName: "GradeKart", FrontendBaseURL: "https://portal.example.com", SendgridApiKey: "SG.key"}
}

func receiptMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Asha", Address: "asha@example.com"}},
		Subject:      "Payment receipt: Tuition Fee",
		TemplateName: "payment_receipt",
		TemplateData: payment.Receipt{
			PayerName: "Asha",
			Label:     "Tuition Fee",
			FeeID:     "fee-1",
			OrderID:   "order_abc",
			PaymentID: "pay_1",
			Amount:    "600.00",
			Currency:  "INR",
			TestMode:  true,
		},
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	svc := NewConsoleServiceMock(testConfig(), nopLogger{})
	svc.SendMessages(
		receiptMessage(),
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "x@example.com"}}, Subject: "plain", BodyStr: "hello"},
	)

	sent := svc.Sent()
	if len(sent) != 2 {
		t.Fatalf("SendMessages() failed! sent = %d; want 2", len(sent))
	}
	receipt := sent[0]
	for _, want := range []string{"Hi Asha", "order_abc", "600.00 INR", "test-mode", "GradeKart"} {
		if !strings.Contains(receipt.TextContent, want) {
			t.Errorf("SendMessages() failed! text content missing %q:\n%s", want, receipt.TextContent)
		}
	}
	if !strings.Contains(receipt.HTMLContent, "<strong>Tuition Fee</strong>") {
		t.Errorf("SendMessages() failed! html content = %s", receipt.HTMLContent)
	}
	if sent[1].TextContent != "hello" || sent[1].HTMLContent != "" {
		t.Errorf("SendMessages() failed! plain message = %+v", sent[1])
	}
}

func TestSendgridService_send(t *testing.T) {
	var (
		mu      sync.Mutex
		payload map[string]interface{}
		auth    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		data, _ := ioutil.ReadAll(r.Body)
		_ = json.Unmarshal(data, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := newSendgridService(testConfig(), nopLogger{}, srv.URL)
	svc.sendMessage(receiptMessage())

	mu.Lock()
	defer mu.Unlock()
	if auth != "Bearer SG.key" {
		t.Errorf("send() failed! auth = %q", auth)
	}
	pers, _ := payload["personalizations"].([]interface{})
	if len(pers) != 1 {
		t.Fatalf("send() failed! payload = %v", payload)
	}
	if subj := pers[0].(map[string]interface{})["subject"]; subj != "[GradeKart] Payment receipt: Tuition Fee" {
		t.Errorf("send() failed! subject = %v", subj)
	}
	if content, _ := payload["content"].([]interface{}); len(content) != 2 {
		t.Errorf("send() failed! content = %v; want text and html", payload["content"])
	}
}
