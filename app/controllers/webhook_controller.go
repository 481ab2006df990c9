package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// signatureHeaders maps each provider to the header its webhook deliveries
// carry the signature (or shared token) in.
var signatureHeaders = map[string]string{
	"stripe":      "Stripe-Signature",
	"asaas":       "asaas-access-token",
	"mercadopago": "x-signature",
}

// webhookSignature reads the provider's signature header. Unknown providers
// have no header mapping and yield an empty signature; the reconciler
// rejects them by name before the signature matters.
func webhookSignature(c *fiber.Ctx, provider string) string {
	header, ok := signatureHeaders[provider]
	if !ok {
		return ""
	}
	return c.Get(header)
}

// HandleProviderWebhook receives one provider callback. The raw body is
// handed to the reconciler untouched so signature verification runs over the
// exact bytes the provider signed. Responses follow provider retry semantics:
// 2xx stops retries, 4xx marks a delivery we will never accept, 5xx asks the
// provider to retry after a transient write failure.
func HandleProviderWebhook(c *fiber.Ctx) error {
	provider := c.Params("provider")

	signature := webhookSignature(c, provider)

	rawBody := c.Body()
	result, err := billingService().HandleWebhook(c.Context(), provider, rawBody, signature)
	if err != nil {
		return mapBillingError(c, err)
	}

	if result.Duplicate {
		log.Debugf("[Webhook] Duplicate %s delivery acknowledged", provider)
	}
	if result.Ignored {
		log.Debugf("[Webhook] Ignored %s delivery acknowledged", provider)
	}

	return c.JSON(fiber.Map{"received": result.Received})
}
