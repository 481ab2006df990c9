package models

import (
	"strings"
	"time"
	"unicode"
)

const (
	GatewayEnvironmentSandbox    = "sandbox"
	GatewayEnvironmentProduction = "production"
)

// Gateway holds the persisted configuration for one external payment provider.
// Name is the stable identifier used to locate the matching adapter; the
// config blobs are opaque per-provider credential/setting bundles.
type Gateway struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	DisplayName       string    `gorm:"type:varchar(100);not null" json:"display_name"`
	IsEnabled         bool      `gorm:"default:false;index" json:"is_enabled"`
	Environment       string    `gorm:"type:varchar(20);not null;default:'sandbox'" json:"environment"`
	SandboxConfig     string    `gorm:"type:text" json:"sandbox_config"`
	ProductionConfig  string    `gorm:"type:text" json:"production_config"`
	SandboxWebhook    string    `gorm:"type:varchar(255)" json:"sandbox_webhook"`
	ProductionWebhook string    `gorm:"type:varchar(255)" json:"production_webhook"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GatewaySummary is the projection exposed to the checkout page.
type GatewaySummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// DefaultDisplayName derives a display name from a gateway name by
// capitalizing its first letter.
func DefaultDisplayName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	r := []rune(n)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ActiveConfig returns the config blob for the gateway's current environment.
func (g *Gateway) ActiveConfig() string {
	if g.Environment == GatewayEnvironmentProduction {
		return g.ProductionConfig
	}
	return g.SandboxConfig
}

// ActiveWebhook returns the webhook URL for the gateway's current environment.
func (g *Gateway) ActiveWebhook() string {
	if g.Environment == GatewayEnvironmentProduction {
		return g.ProductionWebhook
	}
	return g.SandboxWebhook
}
