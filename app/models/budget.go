package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Budget is a per-user monthly spending limit for one category.
// Month is stored as "YYYY-MM".
type Budget struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:ux_budgets_user_category_month,unique,priority:1" json:"user_id"`
	CategoryID uint      `gorm:"not null;index:ux_budgets_user_category_month,unique,priority:2" json:"category_id"`
	Month      string    `gorm:"type:varchar(7);not null;index:ux_budgets_user_category_month,unique,priority:3" json:"month" validate:"required,len=7"`
	Limit      float64   `gorm:"column:monthly_limit;type:decimal(10,2);not null" json:"limit" validate:"gte=0"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Budget) Validate() error {
	v := validator.New()

	return v.Struct(b)
}
