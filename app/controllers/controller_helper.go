package controllers

import (
	"errors"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/GuiSantosdev/clivus/app/repository"
	"github.com/GuiSantosdev/clivus/internal/pkg/billing"
	"github.com/GuiSantosdev/clivus/internal/pkg/database"
)

var (
	repoFactory     *repository.Factory
	repoFactoryOnce sync.Once

	billingSvc     *billing.Service
	billingSvcOnce sync.Once
)

// repos returns the shared repository bundle.
func repos() *repository.Repositories {
	repoFactoryOnce.Do(func() {
		repoFactory = repository.NewFactory(database.GetDB())
	})
	return repoFactory.GetRepositories()
}

// billingService returns the shared billing service with the
// environment-configured provider adapters.
func billingService() *billing.Service {
	billingSvcOnce.Do(func() {
		billingSvc = billing.NewServiceFromDB(database.GetDB())
	})
	return billingSvc
}

// mapBillingError translates the billing error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error.
func mapBillingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, billing.ErrNotAuthorized):
		return jsonError(c, fiber.StatusForbidden, "not_authorized", "administrative access required")
	case errors.Is(err, billing.ErrPlanNotFound):
		return jsonError(c, fiber.StatusNotFound, "plan_not_found", "plan not found or inactive")
	case errors.Is(err, billing.ErrGatewayDisabled):
		return jsonError(c, fiber.StatusUnprocessableEntity, "gateway_disabled", "gateway not found or disabled")
	case errors.Is(err, billing.ErrUnknownProvider):
		return jsonError(c, fiber.StatusNotFound, "unknown_provider", "unknown payment provider")
	case errors.Is(err, billing.ErrInvalidSignature):
		return jsonError(c, fiber.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
	case errors.Is(err, billing.ErrProviderRejected):
		// Keep the provider's rejection detail for diagnosis.
		return jsonError(c, fiber.StatusBadGateway, "provider_rejected", err.Error())
	case errors.Is(err, billing.ErrProviderUnavailable):
		return jsonError(c, fiber.StatusServiceUnavailable, "provider_unavailable", "payment provider unavailable, try again later")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// parseIDParam reads a numeric :id route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
