package billing

import (
	"strings"

	"github.com/GuiSantosdev/clivus/internal/pkg/env"
)

// Provider credentials are injected as explicit config structs at adapter
// construction instead of being read ad hoc inside methods, so adapters can
// be tested with fake credentials.

const (
	defaultAsaasSandboxBaseURL    = "https://sandbox.asaas.com/api"
	defaultAsaasProductionBaseURL = "https://api.asaas.com"
	defaultMercadoPagoBaseURL     = "https://api.mercadopago.com"
)

// AsaasConfig holds Asaas REST credentials for both environments plus the
// webhook access token Asaas echoes back on callbacks.
type AsaasConfig struct {
	SandboxAPIKey     string
	ProductionAPIKey  string
	WebhookToken      string
	SandboxBaseURL    string
	ProductionBaseURL string
}

func LoadAsaasConfig() AsaasConfig {
	return AsaasConfig{
		SandboxAPIKey:     strings.TrimSpace(env.GetEnv("ASAAS_SANDBOX_API_KEY", "")),
		ProductionAPIKey:  strings.TrimSpace(env.GetEnv("ASAAS_PRODUCTION_API_KEY", "")),
		WebhookToken:      strings.TrimSpace(env.GetEnv("ASAAS_WEBHOOK_TOKEN", "")),
		SandboxBaseURL:    strings.TrimSpace(env.GetEnv("ASAAS_SANDBOX_BASE_URL", defaultAsaasSandboxBaseURL)),
		ProductionBaseURL: strings.TrimSpace(env.GetEnv("ASAAS_PRODUCTION_BASE_URL", defaultAsaasProductionBaseURL)),
	}
}

// MercadoPagoConfig holds Mercado Pago REST credentials. The same API host
// serves both environments; sandbox and production differ by access token.
type MercadoPagoConfig struct {
	SandboxAccessToken    string
	ProductionAccessToken string
	WebhookSecret         string
	BaseURL               string
	NotificationURL       string
	BackURL               string
}

func LoadMercadoPagoConfig() MercadoPagoConfig {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	return MercadoPagoConfig{
		SandboxAccessToken:    strings.TrimSpace(env.GetEnv("MERCADOPAGO_SANDBOX_ACCESS_TOKEN", "")),
		ProductionAccessToken: strings.TrimSpace(env.GetEnv("MERCADOPAGO_PRODUCTION_ACCESS_TOKEN", "")),
		WebhookSecret:         strings.TrimSpace(env.GetEnv("MERCADOPAGO_WEBHOOK_SECRET", "")),
		BaseURL:               strings.TrimSpace(env.GetEnv("MERCADOPAGO_BASE_URL", defaultMercadoPagoBaseURL)),
		NotificationURL:       base + "/api/webhooks/mercadopago",
		BackURL:               base + "/checkout/return",
	}
}

// StripeConfig holds the card processor SDK credentials. Sandbox uses the
// test-mode secret key.
type StripeConfig struct {
	SandboxSecretKey    string
	ProductionSecretKey string
	WebhookSecret       string
	SuccessURL          string
	CancelURL           string
}

func LoadStripeConfig() StripeConfig {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	return StripeConfig{
		SandboxSecretKey:    strings.TrimSpace(env.GetEnv("STRIPE_TEST_SECRET_KEY", "")),
		ProductionSecretKey: strings.TrimSpace(env.GetEnv("STRIPE_LIVE_SECRET_KEY", "")),
		WebhookSecret:       strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		SuccessURL:          base + "/checkout/success",
		CancelURL:           base + "/checkout/cancel",
	}
}
