package billing

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/GuiSantosdev/clivus/app/models"
)

// GatewayStripe is the registry key for the card processor.
const GatewayStripe = "stripe"

// StripeAdapter integrates the card processor through the official SDK.
// Charges are hosted checkout sessions; webhooks are verified with the SDK's
// signed-payload scheme (HMAC over the raw body via the Stripe-Signature
// header).
type StripeAdapter struct {
	cfg StripeConfig
}

func NewStripeAdapter(cfg StripeConfig) *StripeAdapter {
	return &StripeAdapter{cfg: cfg}
}

func (s *StripeAdapter) Name() string { return GatewayStripe }

func (s *StripeAdapter) IsConfigured() bool {
	return s.cfg.SandboxSecretKey != "" && s.cfg.ProductionSecretKey != "" && s.cfg.WebhookSecret != ""
}

func (s *StripeAdapter) api(environment string) *client.API {
	key := s.cfg.SandboxSecretKey
	if environment == models.GatewayEnvironmentProduction {
		key = s.cfg.ProductionSecretKey
	}
	api := &client.API{}
	api.Init(key, nil)
	return api
}

func (s *StripeAdapter) CreateCharge(ctx context.Context, req ChargeRequest, environment string) (*ChargeResult, error) {
	paymentID := strconv.FormatUint(uint64(req.PaymentID), 10)

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(paymentID),
		CustomerEmail:     stripe.String(req.Customer.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("brl"),
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("payment_id", paymentID)
	params.AddMetadata("user_id", strconv.FormatUint(uint64(req.UserID), 10))

	sess, err := s.api(environment).CheckoutSessions.New(params)
	if err != nil {
		return nil, classifyStripeError(err)
	}
	if sess.URL == "" {
		return nil, providerRejected(GatewayStripe, "checkout session missing redirect url")
	}

	return &ChargeResult{
		ExternalReference: sess.ID,
		RedirectURL:       sess.URL,
	}, nil
}

func (s *StripeAdapter) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	if strings.TrimSpace(signatureHeader) == "" || s.cfg.WebhookSecret == "" {
		return false
	}
	_, err := webhook.ConstructEvent(rawBody, signatureHeader, s.cfg.WebhookSecret)
	return err == nil
}

type stripeWebhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string `json:"id"`
			ClientReferenceID string `json:"client_reference_id"`
			Metadata          struct {
				PaymentID string `json:"payment_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (s *StripeAdapter) ParseWebhookEvent(rawBody []byte) (*NormalizedEvent, error) {
	var raw stripeWebhookPayload
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return nil, err
	}

	kind := EventUnknown
	switch raw.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		kind = EventChargeCompleted
	case "checkout.session.expired":
		kind = EventChargeExpired
	case "checkout.session.async_payment_failed":
		kind = EventChargeFailed
	}

	// client_reference_id is the primary correlation carrier; metadata is the
	// fallback for events forwarded without it.
	correlation := raw.Data.Object.ClientReferenceID
	if correlation == "" {
		correlation = raw.Data.Object.Metadata.PaymentID
	}

	return &NormalizedEvent{
		Kind:              kind,
		EventID:           raw.ID,
		EventType:         raw.Type,
		ExternalReference: raw.Data.Object.ID,
		PaymentID:         parseCorrelationID(correlation),
	}, nil
}

func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= 500 {
			return providerUnavailable(GatewayStripe, err)
		}
		return providerRejected(GatewayStripe, stripeErr.Msg)
	}
	// Network-level failure or timeout.
	return providerUnavailable(GatewayStripe, err)
}
