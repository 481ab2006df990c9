package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GuiSantosdev/clivus/app/models"
)

// GatewayAsaas is the registry key for the Asaas PIX/boleto processor.
const GatewayAsaas = "asaas"

// AsaasAdapter integrates the Asaas charge API. Charges are created as
// payment links so the buyer lands on a hosted page offering PIX and boleto;
// webhooks are authenticated by the shared access token Asaas sends in the
// asaas-access-token header.
type AsaasAdapter struct {
	cfg        AsaasConfig
	HTTPClient *http.Client
}

func NewAsaasAdapter(cfg AsaasConfig) *AsaasAdapter {
	return &AsaasAdapter{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (a *AsaasAdapter) Name() string { return GatewayAsaas }

func (a *AsaasAdapter) IsConfigured() bool {
	return a.cfg.SandboxAPIKey != "" && a.cfg.ProductionAPIKey != "" && a.cfg.WebhookToken != ""
}

func (a *AsaasAdapter) credentials(environment string) (apiKey, baseURL string) {
	if environment == models.GatewayEnvironmentProduction {
		return a.cfg.ProductionAPIKey, strings.TrimRight(a.cfg.ProductionBaseURL, "/")
	}
	return a.cfg.SandboxAPIKey, strings.TrimRight(a.cfg.SandboxBaseURL, "/")
}

type asaasPaymentLinkRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Value             float64 `json:"value"`
	BillingType       string  `json:"billingType"`
	ChargeType        string  `json:"chargeType"`
	ExternalReference string  `json:"externalReference"`
}

type asaasPaymentLinkResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type asaasErrorResponse struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

func (a *AsaasAdapter) CreateCharge(ctx context.Context, req ChargeRequest, environment string) (*ChargeResult, error) {
	apiKey, baseURL := a.credentials(environment)

	payload := asaasPaymentLinkRequest{
		Name:              req.Description,
		Description:       req.Description,
		Value:             req.Amount,
		BillingType:       "UNDEFINED", // buyer picks PIX or boleto on the hosted page
		ChargeType:        "DETACHED",
		ExternalReference: strconv.FormatUint(uint64(req.PaymentID), 10),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v3/paymentLinks", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("access_token", apiKey)

	resp, err := a.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, providerUnavailable(GatewayAsaas, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 500 {
		return nil, providerUnavailable(GatewayAsaas, statusError(resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, providerRejected(GatewayAsaas, asaasErrorMessage(respBody, resp.StatusCode))
	}

	var out asaasPaymentLinkResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, providerRejected(GatewayAsaas, "unparseable charge response")
	}
	if strings.TrimSpace(out.URL) == "" {
		return nil, providerRejected(GatewayAsaas, "charge response missing payment link url")
	}

	return &ChargeResult{
		ExternalReference: strings.TrimSpace(out.ID),
		RedirectURL:       strings.TrimSpace(out.URL),
	}, nil
}

// VerifyWebhookSignature compares the asaas-access-token header against the
// configured webhook token in constant time. Asaas does not HMAC-sign
// payloads; the shared token is its documented authentication scheme.
func (a *AsaasAdapter) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	_ = rawBody
	return constantTimeEquals(strings.TrimSpace(signatureHeader), a.cfg.WebhookToken)
}

type asaasWebhookPayload struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		ExternalReference string `json:"externalReference"`
	} `json:"payment"`
}

func (a *AsaasAdapter) ParseWebhookEvent(rawBody []byte) (*NormalizedEvent, error) {
	var raw asaasWebhookPayload
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return nil, err
	}

	eventType := strings.ToUpper(strings.TrimSpace(raw.Event))
	kind := EventUnknown
	switch eventType {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED":
		kind = EventChargeCompleted
	case "PAYMENT_OVERDUE":
		kind = EventChargeExpired
	case "PAYMENT_REPROVED_BY_RISK_ANALYSIS", "PAYMENT_CHARGEBACK_REQUESTED":
		kind = EventChargeFailed
	}

	return &NormalizedEvent{
		Kind:              kind,
		EventID:           strings.TrimSpace(raw.ID),
		EventType:         eventType,
		ExternalReference: strings.TrimSpace(raw.Payment.ID),
		PaymentID:         parseCorrelationID(raw.Payment.ExternalReference),
	}, nil
}

func asaasErrorMessage(body []byte, status int) string {
	var e asaasErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && len(e.Errors) > 0 {
		return e.Errors[0].Description
	}
	return statusError(status).Error()
}
