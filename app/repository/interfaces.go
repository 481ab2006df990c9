package repository

import (
	"time"

	"github.com/GuiSantosdev/clivus/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	GetActive() ([]models.Plan, error)
	GetAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// CategoryTotal is one slice of the per-category aggregation.
type CategoryTotal struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

// MonthlySummary aggregates a user's ledger for one month.
type MonthlySummary struct {
	Income     float64         `json:"income"`
	Expense    float64         `json:"expense"`
	Balance    float64         `json:"balance"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// TransactionRepository defines the interface for ledger operations
type TransactionRepository interface {
	Create(t *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	GetByUserID(userID uint, from, to time.Time, offset, limit int) ([]models.Transaction, error)
	Update(t *models.Transaction) error
	Delete(id uint) error
	CountByUserIDSince(userID uint, since time.Time) (int64, error)
	GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)

	CreateCategory(c *models.Category) error
	GetCategoriesByUserID(userID uint) ([]models.Category, error)
	CountCategoriesByUserID(userID uint) (int64, error)
	DeleteCategory(id uint) error
}

// BudgetRepository defines the interface for budget operations
type BudgetRepository interface {
	GetByID(id uint) (*models.Budget, error)
	GetByUserIDAndMonth(userID uint, month string) ([]models.Budget, error)
	Upsert(b *models.Budget) error
	Delete(id uint) error
}

// AdRepository defines the interface for ad inventory operations
type AdRepository interface {
	Create(ad *models.Ad) error
	GetByID(id uint) (*models.Ad, error)
	GetAll() ([]models.Ad, error)
	PickActiveForPlacement(placement string) (*models.Ad, error)
	Update(ad *models.Ad) error
	Delete(id uint) error
	RecordImpression(id uint) error
	RecordClick(id uint) error
}
