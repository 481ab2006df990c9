package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GuiSantosdev/clivus/app/models"
)

func testMercadoPagoAdapter(baseURL string) *MercadoPagoAdapter {
	return NewMercadoPagoAdapter(MercadoPagoConfig{
		SandboxAccessToken:    "sandbox-token",
		ProductionAccessToken: "production-token",
		WebhookSecret:         "mp-secret",
		BaseURL:               baseURL,
		NotificationURL:       "https://clivus.example/api/webhooks/mercadopago",
		BackURL:               "https://clivus.example/checkout/return",
	})
}

func signMercadoPago(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "ts=1712345678,v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestMercadoPagoVerifyWebhookSignature(t *testing.T) {
	m := testMercadoPagoAdapter("http://unused")
	body := []byte(`{"type":"payment"}`)

	if !m.VerifyWebhookSignature(body, signMercadoPago(body, "mp-secret")) {
		t.Fatalf("expected valid signature to pass")
	}
	if m.VerifyWebhookSignature(body, signMercadoPago(body, "other-secret")) {
		t.Fatalf("expected signature with wrong secret to fail")
	}
	if m.VerifyWebhookSignature(body, "ts=1712345678") {
		t.Fatalf("expected header without v1 to fail")
	}
	if m.VerifyWebhookSignature(body, "") {
		t.Fatalf("expected empty header to fail")
	}
	if m.VerifyWebhookSignature([]byte(`tampered`), signMercadoPago(body, "mp-secret")) {
		t.Fatalf("expected tampered body to fail")
	}
}

func TestMercadoPagoParseWebhookEvent(t *testing.T) {
	m := testMercadoPagoAdapter("http://unused")

	tests := []struct {
		status string
		want   EventKind
	}{
		{status: "approved", want: EventChargeCompleted},
		{status: "expired", want: EventChargeExpired},
		{status: "cancelled", want: EventChargeExpired},
		{status: "rejected", want: EventChargeFailed},
		{status: "in_process", want: EventUnknown},
	}

	for _, tt := range tests {
		raw := []byte(`{
			"id": 9001,
			"action": "payment.updated",
			"type": "payment",
			"data": { "id": "555", "status": "` + tt.status + `", "external_reference": "42" }
		}`)

		got, err := m.ParseWebhookEvent(raw)
		if err != nil {
			t.Fatalf("ParseWebhookEvent(%s) returned error: %v", tt.status, err)
		}
		if got.Kind != tt.want {
			t.Fatalf("ParseWebhookEvent(%s) kind = %q, want %q", tt.status, got.Kind, tt.want)
		}
		if got.PaymentID != 42 {
			t.Fatalf("expected correlation id 42, got %d", got.PaymentID)
		}
		if got.EventID != "9001" {
			t.Fatalf("expected event id 9001, got %q", got.EventID)
		}
	}
}

func TestMercadoPagoParseWebhookEvent_TopLevelCorrelation(t *testing.T) {
	m := testMercadoPagoAdapter("http://unused")

	got, err := m.ParseWebhookEvent([]byte(`{
		"id": 1,
		"type": "payment",
		"data": { "id": "555", "status": "approved" },
		"external_reference": "7"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentID != 7 {
		t.Fatalf("expected top-level correlation fallback 7, got %d", got.PaymentID)
	}
}

func TestMercadoPagoParseWebhookEvent_NonPaymentTopic(t *testing.T) {
	m := testMercadoPagoAdapter("http://unused")

	got, err := m.ParseWebhookEvent([]byte(`{"id":2,"type":"plan","data":{"id":"x"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != EventUnknown {
		t.Fatalf("expected non-payment topic to map to unknown, got %q", got.Kind)
	}
}

func TestMercadoPagoCreateCharge(t *testing.T) {
	var gotAuth string
	var gotReq mpPreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("could not decode request: %v", err)
		}
		json.NewEncoder(w).Encode(mpPreferenceResponse{
			ID:               "pref_1",
			InitPoint:        "https://mp.example/live",
			SandboxInitPoint: "https://mp.example/sandbox",
		})
	}))
	defer srv.Close()

	m := testMercadoPagoAdapter(srv.URL)
	result, err := m.CreateCharge(context.Background(), ChargeRequest{
		PaymentID:   42,
		UserID:      7,
		Amount:      29.90,
		Description: "Assinatura Pro",
		Customer:    Customer{Name: "Maria", Email: "maria@example.com"},
	}, models.GatewayEnvironmentSandbox)
	if err != nil {
		t.Fatalf("CreateCharge returned error: %v", err)
	}

	if gotAuth != "Bearer sandbox-token" {
		t.Fatalf("expected sandbox bearer token, got %q", gotAuth)
	}
	if gotReq.ExternalReference != "42" {
		t.Fatalf("expected correlation id 42 in request, got %q", gotReq.ExternalReference)
	}
	if gotReq.Metadata["payment_id"] != "42" || gotReq.Metadata["user_id"] != "7" {
		t.Fatalf("unexpected metadata: %v", gotReq.Metadata)
	}
	if len(gotReq.Items) != 1 || gotReq.Items[0].CurrencyID != "BRL" {
		t.Fatalf("unexpected items: %+v", gotReq.Items)
	}
	if result.RedirectURL != "https://mp.example/sandbox" {
		t.Fatalf("expected sandbox init point, got %q", result.RedirectURL)
	}
}

func TestMercadoPagoCreateCharge_ProductionInitPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(mpPreferenceResponse{
			ID:               "pref_1",
			InitPoint:        "https://mp.example/live",
			SandboxInitPoint: "https://mp.example/sandbox",
		})
	}))
	defer srv.Close()

	m := testMercadoPagoAdapter(srv.URL)
	result, err := m.CreateCharge(context.Background(), ChargeRequest{PaymentID: 1, Amount: 10}, models.GatewayEnvironmentProduction)
	if err != nil {
		t.Fatalf("CreateCharge returned error: %v", err)
	}
	if result.RedirectURL != "https://mp.example/live" {
		t.Fatalf("expected live init point, got %q", result.RedirectURL)
	}
}

func TestMercadoPagoCreateCharge_ProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid unit_price"}`))
	}))
	defer srv.Close()

	m := testMercadoPagoAdapter(srv.URL)
	_, err := m.CreateCharge(context.Background(), ChargeRequest{PaymentID: 1, Amount: -1}, models.GatewayEnvironmentSandbox)
	if !errors.Is(err, ErrProviderRejected) {
		t.Fatalf("expected ErrProviderRejected, got %v", err)
	}
}
