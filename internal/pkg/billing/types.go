package billing

// EventKind is the normalized webhook event taxonomy shared by all adapters.
type EventKind string

const (
	EventChargeCompleted EventKind = "charge_completed"
	EventChargeExpired   EventKind = "charge_expired"
	EventChargeFailed    EventKind = "charge_failed"
	EventUnknown         EventKind = "unknown"
)

// Customer carries the buyer details adapters forward to the provider.
type Customer struct {
	Name     string
	Email    string
	Document string
}

// ChargeRequest is the provider-agnostic input for creating an external
// charge. PaymentID is the correlation key every adapter must embed in the
// outbound request so the later webhook can be matched back without a lookup
// keyed only on amount or time.
type ChargeRequest struct {
	PaymentID   uint
	UserID      uint
	Amount      float64
	Description string
	Customer    Customer
}

// ChargeResult is what an adapter returns after the provider accepted the
// charge: the provider-side reference and the hosted payment page URL.
type ChargeResult struct {
	ExternalReference string
	RedirectURL       string
}

// NormalizedEvent is a provider webhook mapped onto the shared taxonomy.
// PaymentID is zero when the provider payload carried no usable correlation
// metadata; the reconciler treats that as an anomaly, not a failure.
type NormalizedEvent struct {
	Kind              EventKind
	EventID           string
	EventType         string
	ExternalReference string
	PaymentID         uint
}

// CheckoutResult is returned by the orchestrator to the checkout endpoint.
type CheckoutResult struct {
	PaymentID   uint
	RedirectURL string
}

// WebhookResult reports how a webhook delivery was handled. Received is true
// whenever the provider should stop retrying.
type WebhookResult struct {
	Received  bool
	Duplicate bool
	Ignored   bool
}
