package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/GuiSantosdev/clivus/app/models"
)

// fakeRepository is an in-memory Repository for orchestrator and reconciler
// tests. Call flags let tests assert which writes happened.
type fakeRepository struct {
	users    map[uint]*models.User
	plans    map[string]*models.Plan
	gateways map[string]*models.Gateway
	payments map[uint]*models.Payment
	events   map[string]*models.WebhookEvent

	nextPaymentID uint
	nextEventID   uint

	failCreatePayment bool
	failComplete      bool
	completeNotWon    bool
	failFail          bool
	failEventInsert   bool

	completedCalls int
	failedCalls    int
	eventInserts   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         map[uint]*models.User{},
		plans:         map[string]*models.Plan{},
		gateways:      map[string]*models.Gateway{},
		payments:      map[uint]*models.Payment{},
		events:        map[string]*models.WebhookEvent{},
		nextPaymentID: 1,
		nextEventID:   1,
	}
}

func (f *fakeRepository) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeRepository) GetPlanBySlug(slug string) (*models.Plan, error) {
	p, ok := f.plans[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepository) GetGatewayByName(name string) (*models.Gateway, error) {
	g, ok := f.gateways[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (f *fakeRepository) ListEnabledGateways() ([]models.GatewaySummary, error) {
	var out []models.GatewaySummary
	for _, g := range f.gateways {
		if g.IsEnabled {
			out = append(out, models.GatewaySummary{Name: g.Name, DisplayName: g.DisplayName})
		}
	}
	return out, nil
}

func (f *fakeRepository) UpsertGateway(name string, patch GatewayPatch) (*models.Gateway, error) {
	g, ok := f.gateways[name]
	if !ok {
		g = &models.Gateway{
			Name:        name,
			DisplayName: models.DefaultDisplayName(name),
			Environment: models.GatewayEnvironmentSandbox,
		}
		f.gateways[name] = g
	}
	if patch.DisplayName != nil {
		g.DisplayName = *patch.DisplayName
	}
	if patch.IsEnabled != nil {
		g.IsEnabled = *patch.IsEnabled
	}
	if patch.Environment != nil {
		g.Environment = *patch.Environment
	}
	if patch.SandboxConfig != nil {
		g.SandboxConfig = *patch.SandboxConfig
	}
	if patch.ProductionConfig != nil {
		g.ProductionConfig = *patch.ProductionConfig
	}
	if patch.SandboxWebhook != nil {
		g.SandboxWebhook = *patch.SandboxWebhook
	}
	if patch.ProductionWebhook != nil {
		g.ProductionWebhook = *patch.ProductionWebhook
	}
	return g, nil
}

func (f *fakeRepository) ListGateways() ([]models.Gateway, error) {
	var out []models.Gateway
	for _, g := range f.gateways {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeRepository) CreatePayment(p *models.Payment) error {
	if f.failCreatePayment {
		return errors.New("insert failed")
	}
	p.ID = f.nextPaymentID
	f.nextPaymentID++
	f.payments[p.ID] = p
	return nil
}

func (f *fakeRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepository) SetPaymentExternalRef(id uint, externalRef string) error {
	p, ok := f.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.GatewayPaymentID = externalRef
	return nil
}

func (f *fakeRepository) CompletePendingPayment(paymentID, userID uint, externalRef string) (bool, error) {
	f.completedCalls++
	if f.failComplete {
		return false, errors.New("write failed")
	}
	if f.completeNotWon {
		return false, nil
	}
	p, ok := f.payments[paymentID]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusCompleted
	if externalRef != "" {
		p.GatewayPaymentID = externalRef
	}
	if u, ok := f.users[userID]; ok {
		u.HasAccess = true
	}
	return true, nil
}

func (f *fakeRepository) FailPendingPayment(paymentID uint) (bool, error) {
	f.failedCalls++
	if f.failFail {
		return false, errors.New("write failed")
	}
	p, ok := f.payments[paymentID]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusFailed
	return true, nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	f.eventInserts++
	if f.failEventInsert {
		return false, nil, errors.New("insert failed")
	}
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	event.ID = f.nextEventID
	f.nextEventID++
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
		}
	}
	return nil
}

// fakeAdapter is a scriptable Adapter for orchestrator and reconciler tests.
type fakeAdapter struct {
	name        string
	chargeErr   error
	charge      *ChargeResult
	sigValid    bool
	parsedEvent *NormalizedEvent
	parseErr    error
	configured  bool

	chargeCalls int
	lastRequest ChargeRequest
	lastEnv     string
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) CreateCharge(ctx context.Context, req ChargeRequest, environment string) (*ChargeResult, error) {
	a.chargeCalls++
	a.lastRequest = req
	a.lastEnv = environment
	if a.chargeErr != nil {
		return nil, a.chargeErr
	}
	return a.charge, nil
}

func (a *fakeAdapter) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	return a.sigValid
}

func (a *fakeAdapter) ParseWebhookEvent(rawBody []byte) (*NormalizedEvent, error) {
	if a.parseErr != nil {
		return nil, a.parseErr
	}
	return a.parsedEvent, nil
}

func (a *fakeAdapter) IsConfigured() bool { return a.configured }

func checkoutFixture() (*fakeRepository, *fakeAdapter, *Service) {
	repo := newFakeRepository()
	repo.users[7] = &models.User{ID: 7, Name: "Maria", Email: "maria@example.com", Document: "12345678901"}
	repo.plans["pro"] = &models.Plan{ID: 3, Slug: "pro", Name: "Pro", Price: 29.90, IsActive: true}
	repo.gateways["asaas"] = &models.Gateway{
		Name:        "asaas",
		DisplayName: "Asaas",
		IsEnabled:   true,
		Environment: models.GatewayEnvironmentSandbox,
	}

	adapter := &fakeAdapter{
		name:       "asaas",
		charge:     &ChargeResult{ExternalReference: "link_1", RedirectURL: "https://pay.example/link_1"},
		sigValid:   true,
		configured: true,
	}
	return repo, adapter, NewService(repo, NewRegistry(adapter))
}

func TestStartCheckout(t *testing.T) {
	repo, adapter, svc := checkoutFixture()

	result, err := svc.StartCheckout(context.Background(), 7, "pro", "asaas")
	if err != nil {
		t.Fatalf("StartCheckout returned error: %v", err)
	}

	if result.RedirectURL != "https://pay.example/link_1" {
		t.Fatalf("unexpected redirect url %q", result.RedirectURL)
	}
	payment := repo.payments[result.PaymentID]
	if payment == nil {
		t.Fatalf("expected payment row to exist")
	}
	if payment.Status != models.PaymentStatusPending {
		t.Fatalf("expected payment to stay pending until webhook, got %q", payment.Status)
	}
	if payment.Amount != 29.90 || payment.Gateway != "asaas" {
		t.Fatalf("unexpected payment row: %+v", payment)
	}
	if payment.GatewayPaymentID != "link_1" {
		t.Fatalf("expected external reference stored, got %q", payment.GatewayPaymentID)
	}
	if adapter.lastRequest.PaymentID != result.PaymentID {
		t.Fatalf("expected payment id %d embedded in charge, got %d", result.PaymentID, adapter.lastRequest.PaymentID)
	}
	if adapter.lastEnv != models.GatewayEnvironmentSandbox {
		t.Fatalf("expected sandbox environment, got %q", adapter.lastEnv)
	}
}

func TestStartCheckout_PlanNotFound(t *testing.T) {
	_, _, svc := checkoutFixture()

	if _, err := svc.StartCheckout(context.Background(), 7, "missing", "asaas"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for unknown slug, got %v", err)
	}
}

func TestStartCheckout_InactivePlan(t *testing.T) {
	repo, _, svc := checkoutFixture()
	repo.plans["pro"].IsActive = false

	if _, err := svc.StartCheckout(context.Background(), 7, "pro", "asaas"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for inactive plan, got %v", err)
	}
}

func TestStartCheckout_GatewayDisabled(t *testing.T) {
	repo, _, svc := checkoutFixture()
	repo.gateways["asaas"].IsEnabled = false

	if _, err := svc.StartCheckout(context.Background(), 7, "pro", "asaas"); !errors.Is(err, ErrGatewayDisabled) {
		t.Fatalf("expected ErrGatewayDisabled for disabled gateway, got %v", err)
	}

	delete(repo.gateways, "asaas")
	if _, err := svc.StartCheckout(context.Background(), 7, "pro", "asaas"); !errors.Is(err, ErrGatewayDisabled) {
		t.Fatalf("expected ErrGatewayDisabled for missing gateway row, got %v", err)
	}
}

func TestStartCheckout_UnknownProvider(t *testing.T) {
	repo, _, svc := checkoutFixture()
	repo.gateways["novel"] = &models.Gateway{Name: "novel", IsEnabled: true}

	if _, err := svc.StartCheckout(context.Background(), 7, "pro", "novel"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestStartCheckout_AdapterFailureMarksPaymentFailed(t *testing.T) {
	repo, adapter, svc := checkoutFixture()
	adapter.chargeErr = providerUnavailable("asaas", errors.New("timeout"))

	_, err := svc.StartCheckout(context.Background(), 7, "pro", "asaas")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}

	if len(repo.payments) != 1 {
		t.Fatalf("expected the pending row to exist, got %d rows", len(repo.payments))
	}
	for _, p := range repo.payments {
		if p.Status != models.PaymentStatusFailed {
			t.Fatalf("expected orphaned pending row to be marked failed, got %q", p.Status)
		}
	}
}

func TestUpsertGateway_RequiresAdmin(t *testing.T) {
	_, _, svc := checkoutFixture()

	if _, err := svc.UpsertGateway(models.ROLE_USER, "asaas", GatewayPatch{}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for user role, got %v", err)
	}
	if _, err := svc.ListGateways(models.ROLE_USER); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for list, got %v", err)
	}
	if _, err := svc.GatewayConfigStatus(models.ROLE_USER); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for config status, got %v", err)
	}
}

func TestUpsertGateway(t *testing.T) {
	repo, _, svc := checkoutFixture()

	enabled := true
	gw, err := svc.UpsertGateway(models.ROLE_ADMIN, " MercadoPago ", GatewayPatch{IsEnabled: &enabled})
	if err != nil {
		t.Fatalf("UpsertGateway returned error: %v", err)
	}
	if gw.Name != "mercadopago" {
		t.Fatalf("expected normalized name, got %q", gw.Name)
	}
	if gw.DisplayName != "Mercadopago" {
		t.Fatalf("expected derived display name, got %q", gw.DisplayName)
	}
	if !gw.IsEnabled {
		t.Fatalf("expected gateway enabled")
	}

	// Patch one field; others stay put.
	env := models.GatewayEnvironmentProduction
	gw, err = svc.UpsertGateway(models.ROLE_ADMIN, "mercadopago", GatewayPatch{Environment: &env})
	if err != nil {
		t.Fatalf("UpsertGateway returned error: %v", err)
	}
	if !gw.IsEnabled || gw.Environment != models.GatewayEnvironmentProduction {
		t.Fatalf("expected merged patch, got %+v", gw)
	}

	if _, ok := repo.gateways["mercadopago"]; !ok {
		t.Fatalf("expected gateway row persisted")
	}
}

func TestUpsertGateway_Validation(t *testing.T) {
	_, _, svc := checkoutFixture()

	if _, err := svc.UpsertGateway(models.ROLE_ADMIN, "  ", GatewayPatch{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	bad := "staging"
	if _, err := svc.UpsertGateway(models.ROLE_ADMIN, "asaas", GatewayPatch{Environment: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad environment, got %v", err)
	}
}

func TestGatewayConfigStatus(t *testing.T) {
	_, adapter, svc := checkoutFixture()

	status, err := svc.GatewayConfigStatus(models.ROLE_SUPERADMIN)
	if err != nil {
		t.Fatalf("GatewayConfigStatus returned error: %v", err)
	}
	if !status[adapter.name] {
		t.Fatalf("expected configured adapter to report true")
	}

	adapter.configured = false
	status, _ = svc.GatewayConfigStatus(models.ROLE_SUPERADMIN)
	if status[adapter.name] {
		t.Fatalf("expected unconfigured adapter to report false")
	}
}
