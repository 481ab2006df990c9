package repository

import (
	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
)

// adRepository implements the AdRepository interface
type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new ad repository instance
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ad *models.Ad) error {
	return r.db.Create(ad).Error
}

func (r *adRepository) GetByID(id uint) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.First(&ad, id).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepository) GetAll() ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.Order("id").Find(&ads).Error
	return ads, err
}

// PickActiveForPlacement selects the least-shown active ad for a placement
// so inventory rotates evenly.
func (r *adRepository) PickActiveForPlacement(placement string) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.Where("placement = ? AND is_active = ?", placement, true).
		Order("impressions asc, id asc").
		First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepository) Update(ad *models.Ad) error {
	return r.db.Save(ad).Error
}

func (r *adRepository) Delete(id uint) error {
	return r.db.Delete(&models.Ad{}, id).Error
}

func (r *adRepository) RecordImpression(id uint) error {
	return r.db.Model(&models.Ad{}).Where("id = ?", id).
		UpdateColumn("impressions", gorm.Expr("impressions + 1")).Error
}

func (r *adRepository) RecordClick(id uint) error {
	return r.db.Model(&models.Ad{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
}
