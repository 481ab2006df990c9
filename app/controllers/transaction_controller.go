package controllers

import (
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/entitlements"
	"github.com/GuiSantosdev/clivus/internal/pkg/storage"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

const (
	transactionPageSize  = 50
	attachmentMaxBytes   = 5 * 1024 * 1024
	attachmentURLExpires = 15 * time.Minute
)

var (
	storageClient     *storage.Client
	storageClientOnce sync.Once
)

func attachmentStorage() *storage.Client {
	storageClientOnce.Do(func() {
		cfg, err := storage.LoadConfig()
		if err != nil {
			log.Warnf("[Transactions] Attachment storage misconfigured: %v", err)
			return
		}
		if !cfg.IsEnabled() {
			return
		}
		client, err := storage.NewClient(cfg)
		if err != nil {
			log.Errorf("[Transactions] Could not initialize attachment storage: %v", err)
			return
		}
		storageClient = client
	})
	return storageClient
}

type transactionRequest struct {
	CategoryID  *uint   `json:"category_id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Paid        *bool   `json:"paid"`
}

// HandleListTransactions returns the user's ledger for a date range,
// newest first, paginated.
func HandleListTransactions(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	from, to := monthBounds(time.Now())
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	transactions, err := repos().Transaction.GetByUserID(userID, from, to, (page-1)*transactionPageSize, transactionPageSize)
	if err != nil {
		log.Errorf("[Transactions] Could not list transactions for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"page":         page,
	})
}

// HandleCreateTransaction records a ledger entry, enforcing the free-tier
// monthly cap for users without paid access.
func HandleCreateTransaction(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	user, err := repos().User.GetByID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "not_authenticated", "login required")
	}

	monthStart, _ := monthBounds(time.Now())
	count, err := repos().Transaction.CountByUserIDSince(userID, monthStart)
	if err != nil {
		log.Errorf("[Transactions] Could not count monthly transactions for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	if !entitlements.CanCreateTransaction(user, count) {
		return jsonError(c, fiber.StatusPaymentRequired, "free_limit_reached",
			"monthly transaction limit reached, upgrade to keep recording")
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	date := time.Now()
	if req.Date != "" {
		if t, err := time.Parse("2006-01-02", req.Date); err == nil {
			date = t
		} else {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Paid:        true,
	}
	if req.Paid != nil {
		transaction.Paid = *req.Paid
	}
	if err := transaction.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Transaction.Create(transaction); err != nil {
		log.Errorf("[Transactions] Could not create transaction for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not record transaction")
	}
	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// HandleUpdateTransaction edits an owned ledger entry.
func HandleUpdateTransaction(c *fiber.Ctx) error {
	transaction, err := ownedTransaction(c)
	if transaction == nil {
		return err
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.Type != "" {
		transaction.Type = req.Type
	}
	if req.Description != "" {
		transaction.Description = req.Description
	}
	if req.Amount > 0 {
		transaction.Amount = req.Amount
	}
	if req.CategoryID != nil {
		transaction.CategoryID = req.CategoryID
	}
	if req.Paid != nil {
		transaction.Paid = *req.Paid
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
		}
		transaction.Date = t
	}
	if err := transaction.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Transaction.Update(transaction); err != nil {
		log.Errorf("[Transactions] Could not update transaction %d: %v", transaction.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not update transaction")
	}
	return c.JSON(transaction)
}

// HandleDeleteTransaction removes an owned ledger entry and its attachment.
func HandleDeleteTransaction(c *fiber.Ctx) error {
	transaction, err := ownedTransaction(c)
	if transaction == nil {
		return err
	}

	if transaction.AttachmentKey != "" {
		if client := attachmentStorage(); client != nil {
			if err := client.Delete(c.Context(), transaction.AttachmentKey); err != nil {
				log.Warnf("[Transactions] Could not delete attachment %s: %v", transaction.AttachmentKey, err)
			}
		}
	}

	if err := repos().Transaction.Delete(transaction.ID); err != nil {
		log.Errorf("[Transactions] Could not delete transaction %d: %v", transaction.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not delete transaction")
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// HandleUploadAttachment stores a receipt file for an owned transaction.
func HandleUploadAttachment(c *fiber.Ctx) error {
	client := attachmentStorage()
	if client == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_disabled", "attachment storage is not available")
	}

	transaction, err := ownedTransaction(c)
	if transaction == nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "file field is required")
	}
	if fileHeader.Size > attachmentMaxBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "attachment exceeds the 5 MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "could not read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := storage.NewObjectKey(transaction.UserID, filepath.Ext(fileHeader.Filename))
	if err := client.Upload(c.Context(), objectKey, file, contentType, fileHeader.Size); err != nil {
		log.Errorf("[Transactions] Attachment upload failed for transaction %d: %v", transaction.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not store attachment")
	}

	previousKey := transaction.AttachmentKey
	transaction.AttachmentKey = objectKey
	if err := repos().Transaction.Update(transaction); err != nil {
		log.Errorf("[Transactions] Could not persist attachment key for transaction %d: %v", transaction.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not store attachment")
	}
	if previousKey != "" {
		if err := client.Delete(c.Context(), previousKey); err != nil {
			log.Warnf("[Transactions] Could not delete replaced attachment %s: %v", previousKey, err)
		}
	}

	return c.JSON(fiber.Map{"attachment_key": objectKey})
}

// HandleGetAttachmentURL returns a short-lived download URL for a receipt.
func HandleGetAttachmentURL(c *fiber.Ctx) error {
	client := attachmentStorage()
	if client == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_disabled", "attachment storage is not available")
	}

	transaction, err := ownedTransaction(c)
	if transaction == nil {
		return err
	}
	if transaction.AttachmentKey == "" {
		return jsonError(c, fiber.StatusNotFound, "attachment_not_found", "transaction has no attachment")
	}

	url, err := client.GetURL(c.Context(), transaction.AttachmentKey, attachmentURLExpires)
	if err != nil {
		log.Errorf("[Transactions] Could not presign attachment %s: %v", transaction.AttachmentKey, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not generate download URL")
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleListCategories returns the user's categories.
func HandleListCategories(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	categories, err := repos().Transaction.GetCategoriesByUserID(userID)
	if err != nil {
		log.Errorf("[Transactions] Could not list categories for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleCreateCategory creates a category, enforcing the free-tier cap.
func HandleCreateCategory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	user, err := repos().User.GetByID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "not_authenticated", "login required")
	}

	existing, err := repos().Transaction.CountCategoriesByUserID(userID)
	if err != nil {
		log.Errorf("[Transactions] Could not count categories for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	if !entitlements.CanCreateCategory(user, existing) {
		return jsonError(c, fiber.StatusPaymentRequired, "free_limit_reached",
			"category limit reached, upgrade to add more")
	}

	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	category.ID = 0
	category.UserID = userID
	if category.Kind == "" {
		category.Kind = models.TransactionTypeExpense
	}
	if err := category.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repos().Transaction.CreateCategory(&category); err != nil {
		log.Errorf("[Transactions] Could not create category for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory removes an owned category. Transactions keep their
// category id pointing at nothing; listings render them uncategorized.
func HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	userID := usercontext.GetUserID(c)
	categories, err := repos().Transaction.GetCategoriesByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	owned := false
	for _, cat := range categories {
		if cat.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		return jsonError(c, fiber.StatusNotFound, "category_not_found", "category not found")
	}

	if err := repos().Transaction.DeleteCategory(id); err != nil {
		log.Errorf("[Transactions] Could not delete category %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not delete category")
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// ownedTransaction loads the :id transaction and checks it belongs to the
// logged-in user. Foreign rows read as not found. On a nil transaction the
// response has already been written; callers just return the error value.
func ownedTransaction(c *fiber.Ctx) (*models.Transaction, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	transaction, err := repos().Transaction.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "transaction_not_found", "transaction not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
	if transaction.UserID != usercontext.GetUserID(c) {
		return nil, jsonError(c, fiber.StatusNotFound, "transaction_not_found", "transaction not found")
	}
	return transaction, nil
}

// monthBounds returns the first and last instants of t's month.
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
