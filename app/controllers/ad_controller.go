package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/entitlements"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

// HandleServeAd picks an active ad for the :placement slot. Paid users get an
// empty response; free users get the least-shown active ad and an impression
// is recorded.
func HandleServeAd(c *fiber.Ctx) error {
	placement := c.Params("placement")
	switch placement {
	case models.AdPlacementDashboard, models.AdPlacementTransactions, models.AdPlacementReports:
	default:
		return jsonError(c, fiber.StatusNotFound, "placement_not_found", "unknown ad placement")
	}

	if userID := usercontext.GetUserID(c); userID != 0 {
		if user, err := repos().User.GetByID(userID); err == nil && !entitlements.ShouldServeAds(user) {
			return c.JSON(fiber.Map{"ad": nil})
		}
	}

	ad, err := repos().Ad.PickActiveForPlacement(placement)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"ad": nil})
		}
		log.Errorf("[Ads] Could not pick ad for placement %s: %v", placement, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	if err := repos().Ad.RecordImpression(ad.ID); err != nil {
		log.Warnf("[Ads] Could not record impression for ad %d: %v", ad.ID, err)
	}

	return c.JSON(fiber.Map{"ad": fiber.Map{
		"id":         ad.ID,
		"title":      ad.Title,
		"image_url":  ad.ImageURL,
		"target_url": ad.TargetURL,
	}})
}

// HandleAdClick counts a click and redirects to the ad's target.
func HandleAdClick(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ad, err := repos().Ad.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "ad_not_found", "ad not found")
	}

	if err := repos().Ad.RecordClick(ad.ID); err != nil {
		log.Warnf("[Ads] Could not record click for ad %d: %v", ad.ID, err)
	}

	return c.Redirect(ad.TargetURL, fiber.StatusFound)
}

// HandleAdminListAds returns the full inventory with counters.
func HandleAdminListAds(c *fiber.Ctx) error {
	ads, err := repos().Ad.GetAll()
	if err != nil {
		log.Errorf("[Admin] Could not list ads: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	return c.JSON(fiber.Map{"ads": ads})
}

// HandleAdminCreateAd adds an inventory item.
func HandleAdminCreateAd(c *fiber.Ctx) error {
	var ad models.Ad
	if err := c.BodyParser(&ad); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	ad.ID = 0
	ad.Impressions = 0
	ad.Clicks = 0
	if err := ad.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Ad.Create(&ad); err != nil {
		log.Errorf("[Admin] Could not create ad: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create ad")
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

// HandleAdminUpdateAd edits an inventory item. Counters are not editable.
func HandleAdminUpdateAd(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ad, err := repos().Ad.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "ad_not_found", "ad not found")
	}

	var req models.Ad
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.Title != "" {
		ad.Title = req.Title
	}
	if req.ImageURL != "" {
		ad.ImageURL = req.ImageURL
	}
	if req.TargetURL != "" {
		ad.TargetURL = req.TargetURL
	}
	if req.Placement != "" {
		ad.Placement = req.Placement
	}
	ad.IsActive = req.IsActive
	if err := ad.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Ad.Update(ad); err != nil {
		log.Errorf("[Admin] Could not update ad %d: %v", ad.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not update ad")
	}
	return c.JSON(ad)
}

// HandleAdminDeleteAd removes an inventory item.
func HandleAdminDeleteAd(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := repos().Ad.Delete(id); err != nil {
		log.Errorf("[Admin] Could not delete ad %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not delete ad")
	}
	return c.JSON(fiber.Map{"deleted": true})
}
