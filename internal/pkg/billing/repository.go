package billing

import (
	"time"

	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GatewayPatch carries a partial gateway update. Nil fields are untouched.
type GatewayPatch struct {
	DisplayName       *string
	IsEnabled         *bool
	Environment       *string
	SandboxConfig     *string
	ProductionConfig  *string
	SandboxWebhook    *string
	ProductionWebhook *string
}

// Repository provides DB operations used by the checkout orchestrator and
// the webhook reconciler.
type Repository interface {
	GetUserByID(id uint) (*models.User, error)
	GetPlanBySlug(slug string) (*models.Plan, error)
	GetGatewayByName(name string) (*models.Gateway, error)
	ListEnabledGateways() ([]models.GatewaySummary, error)
	UpsertGateway(name string, patch GatewayPatch) (*models.Gateway, error)
	ListGateways() ([]models.Gateway, error)

	CreatePayment(p *models.Payment) error
	GetPaymentByID(id uint) (*models.Payment, error)
	SetPaymentExternalRef(id uint, externalRef string) error
	CompletePendingPayment(paymentID, userID uint, externalRef string) (bool, error)
	FailPendingPayment(paymentID uint) (bool, error)

	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) GetPlanBySlug(slug string) (*models.Plan, error) {
	var p models.Plan
	if err := r.db.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetGatewayByName(name string) (*models.Gateway, error) {
	var g models.Gateway
	if err := r.db.Where("name = ?", name).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gormRepository) ListEnabledGateways() ([]models.GatewaySummary, error) {
	var out []models.GatewaySummary
	err := r.db.Model(&models.Gateway{}).
		Select("name", "display_name").
		Where("is_enabled = ?", true).
		Order("name").
		Find(&out).Error
	return out, err
}

func (r *gormRepository) ListGateways() ([]models.Gateway, error) {
	var out []models.Gateway
	err := r.db.Order("name").Find(&out).Error
	return out, err
}

// UpsertGateway creates the row on first write and merges only the patched
// columns on conflict, so concurrent first-time writers for the same name
// cannot produce duplicates and concurrent patches merge instead of clobber.
func (r *gormRepository) UpsertGateway(name string, patch GatewayPatch) (*models.Gateway, error) {
	row := models.Gateway{
		Name:        name,
		DisplayName: models.DefaultDisplayName(name),
		Environment: models.GatewayEnvironmentSandbox,
	}

	columns := make([]string, 0, 8)
	apply := func(col string, set func()) {
		set()
		columns = append(columns, col)
	}
	if patch.DisplayName != nil {
		apply("display_name", func() { row.DisplayName = *patch.DisplayName })
	}
	if patch.IsEnabled != nil {
		apply("is_enabled", func() { row.IsEnabled = *patch.IsEnabled })
	}
	if patch.Environment != nil {
		apply("environment", func() { row.Environment = *patch.Environment })
	}
	if patch.SandboxConfig != nil {
		apply("sandbox_config", func() { row.SandboxConfig = *patch.SandboxConfig })
	}
	if patch.ProductionConfig != nil {
		apply("production_config", func() { row.ProductionConfig = *patch.ProductionConfig })
	}
	if patch.SandboxWebhook != nil {
		apply("sandbox_webhook", func() { row.SandboxWebhook = *patch.SandboxWebhook })
	}
	if patch.ProductionWebhook != nil {
		apply("production_webhook", func() { row.ProductionWebhook = *patch.ProductionWebhook })
	}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}
	if len(columns) > 0 {
		conflict.DoNothing = false
		conflict.DoUpdates = clause.AssignmentColumns(append(columns, "updated_at"))
	}

	if err := r.db.Clauses(conflict).Create(&row).Error; err != nil {
		return nil, err
	}

	// Reload so the caller sees the merged row regardless of race outcome.
	var stored models.Gateway
	if err := r.db.Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *gormRepository) CreatePayment(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) SetPaymentExternalRef(id uint, externalRef string) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ?", id).
		Update("gateway_payment_id", externalRef).Error
}

// CompletePendingPayment applies the access-granting transition as a single
// atomic unit: the status flip is a conditional update guarded by the
// expected current state, and the entitlement write shares its transaction.
// Returns false when another delivery already won the race.
func (r *gormRepository) CompletePendingPayment(paymentID, userID uint, externalRef string) (bool, error) {
	won := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":             models.PaymentStatusCompleted,
				"gateway_payment_id": externalRef,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("has_access", true).Error
	})
	return won, err
}

// FailPendingPayment marks the payment failed only if it is still pending.
func (r *gormRepository) FailPendingPayment(paymentID uint) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
