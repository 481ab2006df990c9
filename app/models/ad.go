package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	AdPlacementDashboard    = "dashboard"
	AdPlacementTransactions = "transactions"
	AdPlacementReports      = "reports"
)

// Ad is internal ad inventory served to free-tier users.
type Ad struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(150);not null" json:"title" validate:"required,min=1,max=150"`
	ImageURL    string    `gorm:"type:varchar(255);not null" json:"image_url" validate:"required,max=255"`
	TargetURL   string    `gorm:"type:varchar(255);not null" json:"target_url" validate:"required,max=255"`
	Placement   string    `gorm:"type:varchar(50);not null;index" json:"placement" validate:"oneof=dashboard transactions reports"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	Impressions uint64    `gorm:"default:0" json:"impressions"`
	Clicks      uint64    `gorm:"default:0" json:"clicks"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Ad) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
