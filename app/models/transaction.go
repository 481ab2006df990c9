package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is a user-owned ledger entry.
type Transaction struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index:idx_transactions_user_date,priority:1" json:"user_id"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	Type          string         `gorm:"type:varchar(20);not null;index" json:"type" validate:"oneof=income expense"`
	Description   string         `gorm:"type:varchar(255);not null" json:"description" validate:"required,min=1,max=255"`
	Amount        float64        `gorm:"type:decimal(10,2);not null" json:"amount" validate:"gt=0"`
	Date          time.Time      `gorm:"not null;index:idx_transactions_user_date,priority:2" json:"date"`
	Paid          bool           `gorm:"default:true" json:"paid"`
	AttachmentKey string         `gorm:"type:varchar(255)" json:"attachment_key"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Transaction) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// Category groups transactions for budgeting and reporting.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_categories_user_name,unique,priority:1" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null;index:ux_categories_user_name,unique,priority:2" json:"name" validate:"required,min=1,max=100"`
	Kind      string    `gorm:"type:varchar(20);not null;default:'expense'" json:"kind" validate:"oneof=income expense"`
	Color     string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Category) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
