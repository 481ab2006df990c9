package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Plan is a purchasable subscription tier. Features are stored as a JSON
// array of strings to keep their declared ordering.
type Plan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug" validate:"required,min=2,max=100"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	FeaturesJSON string    `gorm:"column:features;type:text" json:"-"`
	SortOrder    int       `gorm:"default:0;index" json:"sort_order"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// Features decodes the stored feature list, preserving order.
func (p *Plan) Features() []string {
	if p.FeaturesJSON == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(p.FeaturesJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetFeatures encodes the feature list for storage.
func (p *Plan) SetFeatures(features []string) error {
	b, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.FeaturesJSON = string(b)
	return nil
}
