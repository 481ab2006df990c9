package repository

import (
	"time"

	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
)

// transactionRepository implements the TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByUserID returns a page of a user's transactions within a date window
func (r *transactionRepository) GetByUserID(userID uint, from, to time.Time, offset, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	q := r.db.Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}
	err := q.Order("date desc, id desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

func (r *transactionRepository) Update(t *models.Transaction) error {
	return r.db.Save(t).Error
}

func (r *transactionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Transaction{}, id).Error
}

func (r *transactionRepository) CountByUserIDSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// GetMonthlySummary aggregates income, expense and per-category totals for
// one calendar month.
func (r *transactionRepository) GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	type totalRow struct {
		Type  string
		Total float64
	}
	var totals []totalRow
	err := r.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("type").
		Find(&totals).Error
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{}
	for _, row := range totals {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.Income = row.Total
		case models.TransactionTypeExpense:
			summary.Expense = row.Total
		}
	}
	summary.Balance = summary.Income - summary.Expense

	err = r.db.Model(&models.Transaction{}).
		Select("transactions.category_id, categories.name as category_name, COALESCE(SUM(transactions.amount), 0) as total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("transactions.category_id, categories.name").
		Order("total desc").
		Find(&summary.ByCategory).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *transactionRepository) CreateCategory(c *models.Category) error {
	return r.db.Create(c).Error
}

func (r *transactionRepository) GetCategoriesByUserID(userID uint) ([]models.Category, error) {
	var out []models.Category
	err := r.db.Where("user_id = ?", userID).Order("name").Find(&out).Error
	return out, err
}

func (r *transactionRepository) CountCategoriesByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *transactionRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}
