package repository

import (
	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// budgetRepository implements the BudgetRepository interface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) GetByID(id uint) (*models.Budget, error) {
	var b models.Budget
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *budgetRepository) GetByUserIDAndMonth(userID uint, month string) ([]models.Budget, error) {
	var out []models.Budget
	err := r.db.Where("user_id = ? AND month = ?", userID, month).Find(&out).Error
	return out, err
}

// Upsert creates or updates the budget row keyed by (user, category, month)
func (r *budgetRepository) Upsert(b *models.Budget) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "category_id"},
			{Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"monthly_limit", "updated_at"}),
	}).Create(b).Error; err != nil {
		return err
	}

	return r.db.Where("user_id = ? AND category_id = ? AND month = ?", b.UserID, b.CategoryID, b.Month).
		First(b).Error
}

func (r *budgetRepository) Delete(id uint) error {
	return r.db.Delete(&models.Budget{}, id).Error
}
