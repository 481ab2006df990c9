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

// GatewayMercadoPago is the registry key for the Mercado Pago processor.
const GatewayMercadoPago = "mercadopago"

// MercadoPagoAdapter integrates Mercado Pago checkout preferences. Webhooks
// carry an x-signature header of the form "ts=...,v1=..." where v1 is a
// hex HMAC-SHA256 computed with the account's webhook secret.
type MercadoPagoAdapter struct {
	cfg        MercadoPagoConfig
	HTTPClient *http.Client
}

func NewMercadoPagoAdapter(cfg MercadoPagoConfig) *MercadoPagoAdapter {
	return &MercadoPagoAdapter{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (m *MercadoPagoAdapter) Name() string { return GatewayMercadoPago }

func (m *MercadoPagoAdapter) IsConfigured() bool {
	return m.cfg.SandboxAccessToken != "" && m.cfg.ProductionAccessToken != "" && m.cfg.WebhookSecret != ""
}

func (m *MercadoPagoAdapter) accessToken(environment string) string {
	if environment == models.GatewayEnvironmentProduction {
		return m.cfg.ProductionAccessToken
	}
	return m.cfg.SandboxAccessToken
}

type mpPreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type mpPreferenceRequest struct {
	Items             []mpPreferenceItem `json:"items"`
	ExternalReference string             `json:"external_reference"`
	Metadata          map[string]string  `json:"metadata"`
	NotificationURL   string             `json:"notification_url,omitempty"`
	BackURLs          struct {
		Success string `json:"success,omitempty"`
		Failure string `json:"failure,omitempty"`
	} `json:"back_urls"`
	Payer struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	} `json:"payer"`
}

type mpPreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type mpErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m *MercadoPagoAdapter) CreateCharge(ctx context.Context, req ChargeRequest, environment string) (*ChargeResult, error) {
	paymentID := strconv.FormatUint(uint64(req.PaymentID), 10)

	payload := mpPreferenceRequest{
		Items: []mpPreferenceItem{{
			Title:      req.Description,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: "BRL",
		}},
		ExternalReference: paymentID,
		Metadata: map[string]string{
			"payment_id": paymentID,
			"user_id":    strconv.FormatUint(uint64(req.UserID), 10),
		},
		NotificationURL: m.cfg.NotificationURL,
	}
	payload.BackURLs.Success = m.cfg.BackURL
	payload.BackURLs.Failure = m.cfg.BackURL
	payload.Payer.Name = req.Customer.Name
	payload.Payer.Email = req.Customer.Email

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(m.cfg.BaseURL, "/") + "/checkout/preferences"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.accessToken(environment))

	resp, err := m.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, providerUnavailable(GatewayMercadoPago, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 500 {
		return nil, providerUnavailable(GatewayMercadoPago, statusError(resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, providerRejected(GatewayMercadoPago, mpErrorMessage(respBody, resp.StatusCode))
	}

	var out mpPreferenceResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, providerRejected(GatewayMercadoPago, "unparseable preference response")
	}

	redirect := strings.TrimSpace(out.InitPoint)
	if environment != models.GatewayEnvironmentProduction && strings.TrimSpace(out.SandboxInitPoint) != "" {
		redirect = strings.TrimSpace(out.SandboxInitPoint)
	}
	if redirect == "" {
		return nil, providerRejected(GatewayMercadoPago, "preference response missing init point")
	}

	return &ChargeResult{
		ExternalReference: strings.TrimSpace(out.ID),
		RedirectURL:       redirect,
	}, nil
}

// VerifyWebhookSignature validates the v1 component of the x-signature
// header: a hex HMAC-SHA256 over the raw notification body.
func (m *MercadoPagoAdapter) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	v1 := extractSignatureComponent(signatureHeader, "v1")
	if v1 == "" {
		return false
	}
	return verifyHMACSHA256(rawBody, v1, m.cfg.WebhookSecret)
}

type mpWebhookPayload struct {
	ID     json.Number `json:"id"`
	Action string      `json:"action"`
	Type   string      `json:"type"`
	Data   struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	} `json:"data"`
	ExternalReference string `json:"external_reference"`
}

func (m *MercadoPagoAdapter) ParseWebhookEvent(rawBody []byte) (*NormalizedEvent, error) {
	var raw mpWebhookPayload
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return nil, err
	}

	kind := EventUnknown
	if strings.EqualFold(strings.TrimSpace(raw.Type), "payment") {
		switch strings.ToLower(strings.TrimSpace(raw.Data.Status)) {
		case "approved":
			kind = EventChargeCompleted
		case "expired", "cancelled":
			kind = EventChargeExpired
		case "rejected":
			kind = EventChargeFailed
		}
	}

	// Correlation metadata can appear on the data object or at top level
	// depending on notification topic.
	correlation := raw.Data.ExternalReference
	if correlation == "" {
		correlation = raw.ExternalReference
	}

	return &NormalizedEvent{
		Kind:              kind,
		EventID:           raw.ID.String(),
		EventType:         strings.TrimSpace(raw.Action),
		ExternalReference: strings.TrimSpace(raw.Data.ID),
		PaymentID:         parseCorrelationID(correlation),
	}, nil
}

// extractSignatureComponent pulls one key from a "k1=v1,k2=v2" header.
func extractSignatureComponent(header, key string) string {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), key) {
			return strings.TrimSpace(kv[1])
		}
	}
	return ""
}

func mpErrorMessage(body []byte, status int) string {
	var e mpErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return statusError(status).Error()
}
