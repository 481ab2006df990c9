package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is one checkout attempt. Its ID doubles as the correlation key
// embedded in the outbound charge request so provider webhooks can be matched
// back. Valid transitions: pending -> completed, pending -> failed. Both
// terminal states are frozen; the reconciler enforces this with conditional
// updates, never read-then-write.
type Payment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	PlanID           uint      `gorm:"not null;index" json:"plan_id"`
	Gateway          string    `gorm:"type:varchar(50);not null;index" json:"gateway"`
	Amount           float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	GatewayPaymentID string    `gorm:"type:varchar(191);index" json:"gateway_payment_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the payment reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
