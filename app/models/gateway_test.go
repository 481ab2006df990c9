package models

import "testing"

func TestDefaultDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "stripe", want: "Stripe"},
		{in: "mercadopago", want: "Mercadopago"},
		{in: " asaas ", want: "Asaas"},
		{in: "", want: ""},
		{in: "x", want: "X"},
	}

	for _, tt := range tests {
		if got := DefaultDisplayName(tt.in); got != tt.want {
			t.Fatalf("DefaultDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGatewayActiveConfig(t *testing.T) {
	g := Gateway{
		Environment:       GatewayEnvironmentSandbox,
		SandboxConfig:     "sandbox-cfg",
		ProductionConfig:  "production-cfg",
		SandboxWebhook:    "https://example.com/sandbox",
		ProductionWebhook: "https://example.com/production",
	}

	if g.ActiveConfig() != "sandbox-cfg" {
		t.Fatalf("expected sandbox config, got %q", g.ActiveConfig())
	}
	if g.ActiveWebhook() != "https://example.com/sandbox" {
		t.Fatalf("expected sandbox webhook, got %q", g.ActiveWebhook())
	}

	g.Environment = GatewayEnvironmentProduction
	if g.ActiveConfig() != "production-cfg" {
		t.Fatalf("expected production config, got %q", g.ActiveConfig())
	}
	if g.ActiveWebhook() != "https://example.com/production" {
		t.Fatalf("expected production webhook, got %q", g.ActiveWebhook())
	}
}

func TestPaymentIsTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: PaymentStatusPending, want: false},
		{status: PaymentStatusCompleted, want: true},
		{status: PaymentStatusFailed, want: true},
	}

	for _, tt := range tests {
		p := Payment{Status: tt.status}
		if got := p.IsTerminal(); got != tt.want {
			t.Fatalf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
