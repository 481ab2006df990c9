package billing

import (
	"context"
	"sort"
	"strings"
)

// Adapter is the common capability set implemented once per payment provider.
// Providers have incompatible native protocols (SDK-based card processing,
// token-based REST for PIX/boleto); this interface is the single extension
// point the orchestrator and reconciler select on, keyed by gateway name.
type Adapter interface {
	// Name returns the stable gateway name this adapter serves.
	Name() string

	// CreateCharge creates the external charge for the given environment and
	// returns the provider reference plus the hosted payment page URL. The
	// request's PaymentID must be embedded as correlation metadata.
	CreateCharge(ctx context.Context, req ChargeRequest, environment string) (*ChargeResult, error)

	// VerifyWebhookSignature authenticates a callback over the raw, unparsed
	// body. Must reject a missing or empty signature header. Runs before any
	// payload parsing so unverified content is never trusted.
	VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool

	// ParseWebhookEvent maps the provider's event taxonomy onto the
	// normalized kinds. Unrecognized events come back as EventUnknown.
	ParseWebhookEvent(rawBody []byte) (*NormalizedEvent, error)

	// IsConfigured reports whether all required credential fields are set.
	// Used by the admin config-check surface only, never on the payment path.
	IsConfigured() bool
}

// Registry holds the configured adapters keyed by gateway name.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// NewRegistryFromEnv builds the registry with every supported provider,
// credentials injected from process-wide configuration.
func NewRegistryFromEnv() *Registry {
	return NewRegistry(
		NewStripeAdapter(LoadStripeConfig()),
		NewAsaasAdapter(LoadAsaasConfig()),
		NewMercadoPagoAdapter(LoadMercadoPagoConfig()),
	)
}

func (r *Registry) Register(a Adapter) {
	r.adapters[strings.ToLower(strings.TrimSpace(a.Name()))] = a
}

// Lookup resolves an adapter by gateway name.
func (r *Registry) Lookup(name string) (Adapter, bool) {
	a, ok := r.adapters[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// Names returns the registered gateway names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigStatus reports credential presence per provider for the admin
// config-check endpoint. Values are booleans only, never credentials.
func (r *Registry) ConfigStatus() map[string]bool {
	status := make(map[string]bool, len(r.adapters))
	for name, a := range r.adapters {
		status[name] = a.IsConfigured()
	}
	return status
}
