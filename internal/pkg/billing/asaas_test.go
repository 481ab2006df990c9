package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GuiSantosdev/clivus/app/models"
)

func testAsaasAdapter(baseURL string) *AsaasAdapter {
	return NewAsaasAdapter(AsaasConfig{
		SandboxAPIKey:     "sandbox-key",
		ProductionAPIKey:  "production-key",
		WebhookToken:      "hook-token",
		SandboxBaseURL:    baseURL,
		ProductionBaseURL: baseURL,
	})
}

func TestAsaasVerifyWebhookSignature(t *testing.T) {
	a := testAsaasAdapter("http://unused")

	if !a.VerifyWebhookSignature([]byte(`{}`), "hook-token") {
		t.Fatalf("expected matching token to validate")
	}
	if !a.VerifyWebhookSignature([]byte(`{}`), " hook-token ") {
		t.Fatalf("expected trimmed token to validate")
	}
	if a.VerifyWebhookSignature([]byte(`{}`), "wrong-token") {
		t.Fatalf("expected wrong token to fail")
	}
	if a.VerifyWebhookSignature([]byte(`{}`), "") {
		t.Fatalf("expected missing token to fail")
	}
}

func TestAsaasParseWebhookEvent(t *testing.T) {
	a := testAsaasAdapter("http://unused")

	tests := []struct {
		event string
		want  EventKind
	}{
		{event: "PAYMENT_CONFIRMED", want: EventChargeCompleted},
		{event: "PAYMENT_RECEIVED", want: EventChargeCompleted},
		{event: "PAYMENT_OVERDUE", want: EventChargeExpired},
		{event: "PAYMENT_REPROVED_BY_RISK_ANALYSIS", want: EventChargeFailed},
		{event: "PAYMENT_CHARGEBACK_REQUESTED", want: EventChargeFailed},
		{event: "PAYMENT_CREATED", want: EventUnknown},
	}

	for _, tt := range tests {
		raw := []byte(`{
			"id": "evt_123",
			"event": "` + tt.event + `",
			"payment": { "id": "pay_9", "externalReference": "42" }
		}`)

		got, err := a.ParseWebhookEvent(raw)
		if err != nil {
			t.Fatalf("ParseWebhookEvent(%s) returned error: %v", tt.event, err)
		}
		if got.Kind != tt.want {
			t.Fatalf("ParseWebhookEvent(%s) kind = %q, want %q", tt.event, got.Kind, tt.want)
		}
		if got.EventID != "evt_123" {
			t.Fatalf("expected event id evt_123, got %q", got.EventID)
		}
		if got.PaymentID != 42 {
			t.Fatalf("expected correlation id 42, got %d", got.PaymentID)
		}
		if got.ExternalReference != "pay_9" {
			t.Fatalf("expected external reference pay_9, got %q", got.ExternalReference)
		}
	}
}

func TestAsaasParseWebhookEvent_MissingCorrelation(t *testing.T) {
	a := testAsaasAdapter("http://unused")

	got, err := a.ParseWebhookEvent([]byte(`{"id":"evt_1","event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentID != 0 {
		t.Fatalf("expected zero correlation id, got %d", got.PaymentID)
	}
}

func TestAsaasCreateCharge(t *testing.T) {
	var gotAuth string
	var gotReq asaasPaymentLinkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("access_token")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("could not decode request: %v", err)
		}
		json.NewEncoder(w).Encode(asaasPaymentLinkResponse{
			ID:  "link_1",
			URL: "https://pay.example/link_1",
		})
	}))
	defer srv.Close()

	a := testAsaasAdapter(srv.URL)
	result, err := a.CreateCharge(context.Background(), ChargeRequest{
		PaymentID:   42,
		UserID:      7,
		Amount:      29.90,
		Description: "Assinatura Pro",
	}, models.GatewayEnvironmentSandbox)
	if err != nil {
		t.Fatalf("CreateCharge returned error: %v", err)
	}

	if gotAuth != "sandbox-key" {
		t.Fatalf("expected sandbox key, got %q", gotAuth)
	}
	if gotReq.ExternalReference != "42" {
		t.Fatalf("expected correlation id 42 in request, got %q", gotReq.ExternalReference)
	}
	if gotReq.BillingType != "UNDEFINED" || gotReq.ChargeType != "DETACHED" {
		t.Fatalf("unexpected charge shape: %+v", gotReq)
	}
	if result.RedirectURL != "https://pay.example/link_1" {
		t.Fatalf("unexpected redirect url %q", result.RedirectURL)
	}
	if result.ExternalReference != "link_1" {
		t.Fatalf("unexpected external reference %q", result.ExternalReference)
	}
}

func TestAsaasCreateCharge_UsesProductionKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("access_token")
		json.NewEncoder(w).Encode(asaasPaymentLinkResponse{ID: "link_1", URL: "https://pay.example/link_1"})
	}))
	defer srv.Close()

	a := testAsaasAdapter(srv.URL)
	if _, err := a.CreateCharge(context.Background(), ChargeRequest{PaymentID: 1, Amount: 10}, models.GatewayEnvironmentProduction); err != nil {
		t.Fatalf("CreateCharge returned error: %v", err)
	}
	if gotAuth != "production-key" {
		t.Fatalf("expected production key, got %q", gotAuth)
	}
}

func TestAsaasCreateCharge_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: ErrProviderUnavailable,
		},
		{
			name:    "validation error",
			status:  http.StatusBadRequest,
			body:    `{"errors":[{"code":"invalid_value","description":"value is invalid"}]}`,
			wantErr: ErrProviderRejected,
		},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		a := testAsaasAdapter(srv.URL)
		_, err := a.CreateCharge(context.Background(), ChargeRequest{PaymentID: 1, Amount: 10}, models.GatewayEnvironmentSandbox)
		srv.Close()

		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestAsaasCreateCharge_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	a := testAsaasAdapter(srv.URL)
	_, err := a.CreateCharge(context.Background(), ChargeRequest{PaymentID: 1, Amount: 10}, models.GatewayEnvironmentSandbox)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestAsaasIsConfigured(t *testing.T) {
	if !testAsaasAdapter("http://unused").IsConfigured() {
		t.Fatalf("expected fully configured adapter")
	}
	if NewAsaasAdapter(AsaasConfig{SandboxAPIKey: "only-sandbox"}).IsConfigured() {
		t.Fatalf("expected partially configured adapter to report false")
	}
}
