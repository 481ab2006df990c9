package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/GuiSantosdev/clivus/internal/pkg/billing"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

type gatewayUpsertRequest struct {
	DisplayName       *string `json:"display_name"`
	IsEnabled         *bool   `json:"is_enabled"`
	Environment       *string `json:"environment"`
	SandboxConfig     *string `json:"sandbox_config"`
	ProductionConfig  *string `json:"production_config"`
	SandboxWebhook    *string `json:"sandbox_webhook"`
	ProductionWebhook *string `json:"production_webhook"`
}

// HandleAdminListGateways returns every gateway configuration row.
func HandleAdminListGateways(c *fiber.Ctx) error {
	role := usercontext.GetUserContext(c).Role
	gateways, err := billingService().ListGateways(role)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(fiber.Map{"gateways": gateways})
}

// HandleAdminUpsertGateway creates or partially updates the gateway named in
// the route. Absent body fields leave the stored values untouched.
func HandleAdminUpsertGateway(c *fiber.Ctx) error {
	var req gatewayUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	role := usercontext.GetUserContext(c).Role
	name := c.Params("name")

	gateway, err := billingService().UpsertGateway(role, name, billing.GatewayPatch{
		DisplayName:       req.DisplayName,
		IsEnabled:         req.IsEnabled,
		Environment:       req.Environment,
		SandboxConfig:     req.SandboxConfig,
		ProductionConfig:  req.ProductionConfig,
		SandboxWebhook:    req.SandboxWebhook,
		ProductionWebhook: req.ProductionWebhook,
	})
	if err != nil {
		log.Warnf("[Admin] Gateway upsert failed for %s: %v", name, err)
		return mapBillingError(c, err)
	}
	return c.JSON(gateway)
}

// HandleAdminGatewayConfigCheck reports whether each registered provider has
// credentials present in the environment. Booleans only, never the values.
func HandleAdminGatewayConfigCheck(c *fiber.Ctx) error {
	role := usercontext.GetUserContext(c).Role
	status, err := billingService().GatewayConfigStatus(role)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(fiber.Map{"configured": status})
}
