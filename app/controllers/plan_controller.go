package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
)

type planRequest struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Features  []string `json:"features"`
	SortOrder int      `json:"sort_order"`
	IsActive  *bool    `json:"is_active"`
}

type planResponse struct {
	models.Plan
	Features []string `json:"features"`
}

func toPlanResponse(p models.Plan) planResponse {
	return planResponse{Plan: p, Features: p.Features()}
}

// HandleListPlans returns the active plans in their declared order.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repos().Plan.GetActive()
	if err != nil {
		log.Errorf("[Plans] Could not list active plans: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return c.JSON(fiber.Map{"plans": out})
}

// HandleAdminListPlans returns every plan, inactive ones included.
func HandleAdminListPlans(c *fiber.Ctx) error {
	plans, err := repos().Plan.GetAll()
	if err != nil {
		log.Errorf("[Admin] Could not list plans: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return c.JSON(fiber.Map{"plans": out})
}

// HandleAdminCreatePlan creates a purchasable plan.
func HandleAdminCreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	plan := &models.Plan{
		Slug:      req.Slug,
		Name:      req.Name,
		Price:     req.Price,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := plan.SetFeatures(req.Features); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid feature list")
	}
	if err := plan.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if existing, err := repos().Plan.GetBySlug(plan.Slug); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "slug_taken", "a plan with this slug already exists")
	}

	if err := repos().Plan.Create(plan); err != nil {
		log.Errorf("[Admin] Could not create plan %s: %v", plan.Slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create plan")
	}
	return c.Status(fiber.StatusCreated).JSON(toPlanResponse(*plan))
}

// HandleAdminUpdatePlan updates an existing plan in place.
func HandleAdminUpdatePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	plan, err := repos().Plan.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "plan_not_found", "plan not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.Slug != "" {
		plan.Slug = req.Slug
	}
	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Price > 0 {
		plan.Price = req.Price
	}
	plan.SortOrder = req.SortOrder
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Features != nil {
		if err := plan.SetFeatures(req.Features); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid feature list")
		}
	}
	if err := plan.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Plan.Update(plan); err != nil {
		log.Errorf("[Admin] Could not update plan %d: %v", plan.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not update plan")
	}
	return c.JSON(toPlanResponse(*plan))
}

// HandleAdminDeletePlan removes a plan. Payments referencing it keep their
// stored plan id for audit purposes.
func HandleAdminDeletePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := repos().Plan.Delete(id); err != nil {
		log.Errorf("[Admin] Could not delete plan %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not delete plan")
	}
	return c.JSON(fiber.Map{"deleted": true})
}
