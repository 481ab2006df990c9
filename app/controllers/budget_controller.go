package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

type budgetRequest struct {
	CategoryID uint    `json:"category_id"`
	Month      string  `json:"month"`
	Limit      float64 `json:"limit"`
}

// HandleListBudgets returns the user's budgets for one month (?month=YYYY-MM,
// defaults to the current month) with actual spend per category alongside.
func HandleListBudgets(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	month := c.Query("month", time.Now().Format("2006-01"))
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "month must be YYYY-MM")
	}

	budgets, err := repos().Budget.GetByUserIDAndMonth(userID, month)
	if err != nil {
		log.Errorf("[Budgets] Could not list budgets for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	spent := map[uint]float64{}
	if summary, err := repos().Transaction.GetMonthlySummary(userID, parsed.Year(), parsed.Month()); err == nil {
		for _, ct := range summary.ByCategory {
			spent[ct.CategoryID] = ct.Total
		}
	}

	type budgetStatus struct {
		models.Budget
		Spent float64 `json:"spent"`
	}
	out := make([]budgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetStatus{Budget: b, Spent: spent[b.CategoryID]})
	}

	return c.JSON(fiber.Map{"month": month, "budgets": out})
}

// HandleUpsertBudget creates or replaces the limit for one category/month.
func HandleUpsertBudget(c *fiber.Ctx) error {
	var req budgetRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.Month == "" {
		req.Month = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "month must be YYYY-MM")
	}
	if req.CategoryID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "category_id is required")
	}

	budget := &models.Budget{
		UserID:     usercontext.GetUserID(c),
		CategoryID: req.CategoryID,
		Month:      req.Month,
		Limit:      req.Limit,
	}
	if err := budget.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Budget.Upsert(budget); err != nil {
		log.Errorf("[Budgets] Could not upsert budget for user %d category %d: %v", budget.UserID, budget.CategoryID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not save budget")
	}
	return c.JSON(budget)
}

// HandleDeleteBudget removes an owned budget row.
func HandleDeleteBudget(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	budget, err := repos().Budget.GetByID(id)
	if err != nil || budget.UserID != usercontext.GetUserID(c) {
		return jsonError(c, fiber.StatusNotFound, "budget_not_found", "budget not found")
	}

	if err := repos().Budget.Delete(id); err != nil {
		log.Errorf("[Budgets] Could not delete budget %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not delete budget")
	}
	return c.JSON(fiber.Map{"deleted": true})
}
