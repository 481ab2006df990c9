package billing

import (
	"errors"
	"fmt"
)

// Error taxonomy. Controllers map these onto HTTP statuses; nothing below the
// controller layer knows about status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthorized    = errors.New("caller is not authorized")
	ErrPlanNotFound     = errors.New("plan not found or inactive")
	ErrGatewayDisabled  = errors.New("gateway not found or disabled")
	ErrUnknownProvider  = errors.New("unknown payment provider")
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrProviderUnavailable marks network failures, timeouts and provider
	// 5xx responses. Safe for the caller to retry later.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrProviderRejected marks provider 4xx validation responses. The
	// provider's own message is preserved for diagnostics.
	ErrProviderRejected = errors.New("payment provider rejected the charge")
)

// providerRejected wraps ErrProviderRejected with the provider's message.
func providerRejected(provider, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrProviderRejected, provider, message)
}

// providerUnavailable wraps ErrProviderUnavailable with cause context.
func providerUnavailable(provider string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, provider, cause)
}
