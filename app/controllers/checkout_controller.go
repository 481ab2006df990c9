package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

type checkoutRequest struct {
	PlanSlug string `json:"plan_slug"`
	Gateway  string `json:"gateway_name"`
}

// HandleStartCheckout creates the pending payment and returns the provider's
// hosted checkout URL.
func HandleStartCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.PlanSlug == "" || req.Gateway == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plan_slug and gateway_name are required")
	}

	userID := usercontext.GetUserID(c)
	result, err := billingService().StartCheckout(c.Context(), userID, req.PlanSlug, req.Gateway)
	if err != nil {
		log.Warnf("[Checkout] Checkout failed for user %d plan %s gateway %s: %v", userID, req.PlanSlug, req.Gateway, err)
		return mapBillingError(c, err)
	}

	return c.JSON(fiber.Map{
		"payment_id":   result.PaymentID,
		"redirect_url": result.RedirectURL,
	})
}

// HandleListGateways lists the gateways currently enabled for checkout.
// Public projection only: name and display name.
func HandleListGateways(c *fiber.Ctx) error {
	gateways, err := billingService().EnabledGateways()
	if err != nil {
		log.Errorf("[Checkout] Could not list enabled gateways: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	return c.JSON(fiber.Map{"gateways": gateways})
}
