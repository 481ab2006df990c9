package billing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
)

// HandleWebhook verifies and applies one provider callback.
//
// Per-payment state machine: pending -> completed on a verified completion
// event, pending -> failed on a verified expiry/failure event. Both terminal
// states are frozen; replays and provider retries are acknowledged without
// side effects. Signature verification happens over the raw body before the
// payload is parsed and before any database write.
func (s *Service) HandleWebhook(ctx context.Context, providerName string, rawBody []byte, signatureHeader string) (*WebhookResult, error) {
	_ = ctx

	adapter, ok := s.registry.Lookup(providerName)
	if !ok {
		return nil, ErrUnknownProvider
	}

	if !adapter.VerifyWebhookSignature(rawBody, signatureHeader) {
		// Logged as a potential tampering attempt; nothing was written.
		log.Printf("[billing] invalid webhook signature for provider %s", adapter.Name())
		return nil, ErrInvalidSignature
	}

	event, err := adapter.ParseWebhookEvent(rawBody)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable payload: %v", ErrInvalidSignature, err)
	}

	created, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
		Provider:        adapter.Name(),
		ProviderEventID: dedupEventID(event, rawBody),
		EventType:       event.EventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook persist failed: %w", err)
	}
	if !created {
		if stored.ProcessedAt != nil && stored.ProcessingError == "" {
			return &WebhookResult{Received: true, Duplicate: true}, nil
		}
		// The earlier delivery of this event failed before its transition
		// was applied and the provider is retrying. Fall through; the
		// conditional update keeps re-application safe.
	}

	if event.Kind == EventUnknown {
		// Providers interpret non-2xx as "retry later"; unknown kinds are
		// acknowledged so they do not storm the endpoint.
		s.markProcessed(stored.ID, nil)
		return &WebhookResult{Received: true, Ignored: true}, nil
	}

	if event.PaymentID == 0 {
		log.Printf("[billing] reconciliation anomaly: %s event %s carries no correlation id", adapter.Name(), event.EventType)
		s.markProcessed(stored.ID, errors.New("missing correlation id"))
		return &WebhookResult{Received: true, Ignored: true}, nil
	}

	payment, err := s.repo.GetPaymentByID(event.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Retrying cannot fix an unknown correlation id; acknowledge.
			log.Printf("[billing] reconciliation anomaly: %s event references unknown payment %d", adapter.Name(), event.PaymentID)
			s.markProcessed(stored.ID, errors.New("payment not found"))
			return &WebhookResult{Received: true, Ignored: true}, nil
		}
		s.markProcessed(stored.ID, err)
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}

	if payment.IsTerminal() {
		s.markProcessed(stored.ID, nil)
		return &WebhookResult{Received: true, Duplicate: true}, nil
	}

	switch event.Kind {
	case EventChargeCompleted:
		won, err := s.repo.CompletePendingPayment(payment.ID, payment.UserID, event.ExternalReference)
		if err != nil {
			s.markProcessed(stored.ID, err)
			return nil, fmt.Errorf("completion write failed: %w", err)
		}
		if !won {
			// A concurrent delivery applied the transition first.
			s.markProcessed(stored.ID, nil)
			return &WebhookResult{Received: true, Duplicate: true}, nil
		}
	case EventChargeExpired, EventChargeFailed:
		if _, err := s.repo.FailPendingPayment(payment.ID); err != nil {
			s.markProcessed(stored.ID, err)
			return nil, fmt.Errorf("failure write failed: %w", err)
		}
	}

	s.markProcessed(stored.ID, nil)
	return &WebhookResult{Received: true}, nil
}

func (s *Service) markProcessed(eventID uint, processingErr error) {
	msg := ""
	if processingErr != nil {
		msg = processingErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(eventID, msg); err != nil {
		log.Printf("[billing] could not mark webhook event %d processed: %v", eventID, err)
	}
}

// dedupEventID prefers the provider's own event id and falls back to a hash
// of the payload so providers without delivery ids still deduplicate.
func dedupEventID(event *NormalizedEvent, rawBody []byte) string {
	if event.EventID != "" {
		return event.EventID
	}
	return payloadHash(rawBody)
}
