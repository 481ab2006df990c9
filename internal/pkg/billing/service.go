package billing

import (
	"fmt"
	"strings"

	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
)

// Service ties the gateway registry, the provider adapters, the checkout
// orchestrator and the webhook reconciler together over one repository.
type Service struct {
	repo     Repository
	registry *Registry
}

// NewService creates a billing service from an injected repository and
// adapter registry.
func NewService(repo Repository, registry *Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

// NewServiceFromDB creates a billing service from a GORM DB handle with the
// environment-configured adapters.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewRegistryFromEnv())
}

// EnabledGateways returns the gateways available for checkout, projected to
// name and display name. Side-effect-free.
func (s *Service) EnabledGateways() ([]models.GatewaySummary, error) {
	return s.repo.ListEnabledGateways()
}

// ListGateways returns the full configuration rows. Administrative surface.
func (s *Service) ListGateways(role string) ([]models.Gateway, error) {
	if !isAdminRole(role) {
		return nil, ErrNotAuthorized
	}
	return s.repo.ListGateways()
}

// UpsertGateway creates or partially updates a gateway configuration.
// Creation derives the display name from the gateway name; nil patch fields
// are left untouched. Administrative surface.
func (s *Service) UpsertGateway(role, name string, patch GatewayPatch) (*models.Gateway, error) {
	if !isAdminRole(role) {
		return nil, ErrNotAuthorized
	}
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil, fmt.Errorf("%w: gateway name is required", ErrInvalidInput)
	}
	if patch.Environment != nil {
		e := strings.ToLower(strings.TrimSpace(*patch.Environment))
		if e != models.GatewayEnvironmentSandbox && e != models.GatewayEnvironmentProduction {
			return nil, fmt.Errorf("%w: environment must be sandbox or production", ErrInvalidInput)
		}
		patch.Environment = &e
	}
	return s.repo.UpsertGateway(n, patch)
}

// GatewayConfigStatus reports credential presence per provider, never the
// credential values themselves. Administrative surface.
func (s *Service) GatewayConfigStatus(role string) (map[string]bool, error) {
	if !isAdminRole(role) {
		return nil, ErrNotAuthorized
	}
	return s.registry.ConfigStatus(), nil
}

func isAdminRole(role string) bool {
	switch role {
	case models.ROLE_ADMIN, models.ROLE_SUPERADMIN:
		return true
	default:
		return false
	}
}
