package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/mail"
)

type adminCreateUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	PlanSlug     string `json:"plan_slug"`
	GrantAccess  bool   `json:"grant_access"`
}

type adminUpdateUserRequest struct {
	Role      *string `json:"role"`
	Status    *string `json:"status"`
	HasAccess *bool   `json:"has_access"`
}

// HandleAdminListUsers returns a page of accounts.
func HandleAdminListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	const pageSize = 50

	users, err := repos().User.List((page-1)*pageSize, pageSize)
	if err != nil {
		log.Errorf("[Admin] Could not list users: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	total, err := repos().User.Count()
	if err != nil {
		log.Errorf("[Admin] Could not count users: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	return c.JSON(fiber.Map{
		"users": users,
		"page":  page,
		"total": total,
	})
}

// HandleAdminCreateUser creates an account with a generated password and
// emails the credentials to the new user.
func HandleAdminCreateUser(c *fiber.Ctx) error {
	var req adminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.DocumentType == "" {
		req.DocumentType = models.DOCUMENT_TYPE_CPF
	}

	password, err := generatePassword()
	if err != nil {
		log.Errorf("[Admin] Could not generate password: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	user, err := models.CreateUser(req.Name, req.Email, password, req.DocumentType, req.Document)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	user.HasAccess = req.GrantAccess

	if existing, err := repos().User.GetByEmail(user.Email); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "an account with this email already exists")
	}

	if err := repos().User.Create(user); err != nil {
		log.Errorf("[Admin] Could not create user %s: %v", user.Email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create account")
	}

	planName := "Gratuito"
	if req.PlanSlug != "" {
		if plan, err := repos().Plan.GetBySlug(req.PlanSlug); err == nil {
			planName = plan.Name
		}
	}

	if err := mail.SendWelcomeEmail(mail.WelcomeEmailInput{
		To:       user.Email,
		Name:     user.Name,
		Email:    user.Email,
		Password: password,
		PlanName: planName,
	}); err != nil {
		log.Warnf("[Admin] Could not send welcome email to %s: %v", user.Email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleAdminUpdateUser changes role, status or the access flag.
func HandleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := repos().User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user_not_found", "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	var req adminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.HasAccess != nil {
		user.HasAccess = *req.HasAccess
	}
	if err := user.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().User.Update(user); err != nil {
		log.Errorf("[Admin] Could not update user %d: %v", user.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not update user")
	}
	return c.JSON(user)
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
