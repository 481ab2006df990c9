package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/hcaptcha"
	"github.com/GuiSantosdev/clivus/internal/pkg/session"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and opens a session for it.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.DocumentType == "" {
		req.DocumentType = models.DOCUMENT_TYPE_CPF
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); !ok {
			log.Warnf("[Auth] Captcha verification failed: %v", err)
			return jsonError(c, fiber.StatusBadRequest, "captcha_failed", "captcha verification failed")
		}
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, req.DocumentType, req.Document)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if existing, err := repos().User.GetByEmail(user.Email); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "an account with this email already exists")
	}

	if err := repos().User.Create(user); err != nil {
		log.Errorf("[Auth] Could not create user %s: %v", user.Email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create account")
	}

	if err := openSession(c, user); err != nil {
		log.Errorf("[Auth] Could not open session for user %d: %v", user.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin authenticates by email and password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	user, err := repos().User.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		}
		log.Errorf("[Auth] Login lookup failed for %s: %v", req.Email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	if !user.IsActive() || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repos().User.Update(user); err != nil {
		log.Warnf("[Auth] Could not record last login for user %d: %v", user.ID, err)
	}

	if err := openSession(c, user); err != nil {
		log.Errorf("[Auth] Could not open session for user %d: %v", user.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not open session")
	}

	return c.JSON(user)
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	store := session.GetSessionStore()
	if store != nil {
		if sess, err := store.Get(c); err == nil {
			if err := sess.Destroy(); err != nil {
				log.Warnf("[Auth] Could not destroy session: %v", err)
			}
		}
	}
	return c.JSON(fiber.Map{"logged_out": true})
}

// HandleMe returns the fresh profile of the logged-in user. HasAccess here
// reflects any payment completed before this request.
func HandleMe(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	user, err := repos().User.GetByID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "not_authenticated", "login required")
	}
	return c.JSON(user)
}

func openSession(c *fiber.Ctx, user *models.User) error {
	if err := session.SetSessionValue(c, usercontext.SessionKeyUserID, strconv.FormatUint(uint64(user.ID), 10)); err != nil {
		return err
	}
	if err := session.SetSessionValue(c, usercontext.SessionKeyUserName, user.Name); err != nil {
		return err
	}
	return session.SetSessionValue(c, usercontext.SessionKeyUserRole, user.Role)
}
