package billing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/GuiSantosdev/clivus/app/models"
	"gorm.io/gorm"
)

// StartCheckout creates the pending Payment row and delegates charge
// creation to the adapter matching the chosen gateway. This is the only
// place Payment rows are created. When the adapter fails, the fresh row is
// marked failed so no orphaned pending payment points at a charge that was
// never created.
func (s *Service) StartCheckout(ctx context.Context, userID uint, planSlug, gatewayName string) (*CheckoutResult, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.GetPlanBySlug(planSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}

	gateway, err := s.repo.GetGatewayByName(gatewayName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatewayDisabled
		}
		return nil, err
	}
	if !gateway.IsEnabled {
		return nil, ErrGatewayDisabled
	}

	adapter, ok := s.registry.Lookup(gateway.Name)
	if !ok {
		return nil, ErrUnknownProvider
	}

	payment := &models.Payment{
		UserID:  user.ID,
		PlanID:  plan.ID,
		Gateway: gateway.Name,
		Amount:  plan.Price,
		Status:  models.PaymentStatusPending,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	charge, err := adapter.CreateCharge(ctx, ChargeRequest{
		PaymentID:   payment.ID,
		UserID:      user.ID,
		Amount:      plan.Price,
		Description: fmt.Sprintf("Assinatura %s", plan.Name),
		Customer: Customer{
			Name:     user.Name,
			Email:    user.Email,
			Document: user.Document,
		},
	}, gateway.Environment)
	if err != nil {
		if _, failErr := s.repo.FailPendingPayment(payment.ID); failErr != nil {
			log.Printf("[billing] could not mark payment %d failed after charge error: %v", payment.ID, failErr)
		}
		return nil, err
	}

	if err := s.repo.SetPaymentExternalRef(payment.ID, charge.ExternalReference); err != nil {
		// The charge exists; the webhook still correlates via the payment id.
		log.Printf("[billing] could not store external ref for payment %d: %v", payment.ID, err)
	}

	return &CheckoutResult{
		PaymentID:   payment.ID,
		RedirectURL: charge.RedirectURL,
	}, nil
}
