package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/GuiSantosdev/clivus/internal/pkg/entitlements"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

// HandleDashboard returns the monthly summary: income, expenses, balance and
// the per-category breakdown. Month defaults to the current one and is
// overridable with ?year= and ?month=.
func HandleDashboard(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	now := time.Now()
	year := now.Year()
	month := now.Month()
	if v := c.Query("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 2000 && y <= 2100 {
			year = y
		}
	}
	if v := c.Query("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}

	summary, err := repos().Transaction.GetMonthlySummary(userID, year, month)
	if err != nil {
		log.Errorf("[Dashboard] Could not build summary for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	serveAds := true
	if user, err := repos().User.GetByID(userID); err == nil {
		serveAds = entitlements.ShouldServeAds(user)
	}

	return c.JSON(fiber.Map{
		"year":      year,
		"month":     int(month),
		"summary":   summary,
		"serve_ads": serveAds,
	})
}
