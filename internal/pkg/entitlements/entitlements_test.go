package entitlements

import (
	"testing"

	"github.com/GuiSantosdev/clivus/app/models"
)

func TestHasPaidAccess(t *testing.T) {
	if HasPaidAccess(nil) {
		t.Fatalf("expected nil user without access")
	}
	if HasPaidAccess(&models.User{}) {
		t.Fatalf("expected fresh user without access")
	}
	if !HasPaidAccess(&models.User{HasAccess: true}) {
		t.Fatalf("expected paid user with access")
	}
}

func TestShouldServeAds(t *testing.T) {
	if ShouldServeAds(&models.User{HasAccess: true}) {
		t.Fatalf("expected no ads for paid users")
	}
	if !ShouldServeAds(&models.User{}) {
		t.Fatalf("expected ads for free users")
	}
	if !ShouldServeAds(nil) {
		t.Fatalf("expected ads for anonymous visitors")
	}
}

func TestCanCreateTransaction(t *testing.T) {
	free := &models.User{}
	paid := &models.User{HasAccess: true}

	if !CanCreateTransaction(free, FreeMaxTransactionsPerMonth-1) {
		t.Fatalf("expected free user under the cap to pass")
	}
	if CanCreateTransaction(free, FreeMaxTransactionsPerMonth) {
		t.Fatalf("expected free user at the cap to fail")
	}
	if !CanCreateTransaction(paid, FreeMaxTransactionsPerMonth*10) {
		t.Fatalf("expected paid user to be uncapped")
	}
}

func TestCanCreateCategory(t *testing.T) {
	free := &models.User{}
	paid := &models.User{HasAccess: true}

	if !CanCreateCategory(free, FreeMaxCategories-1) {
		t.Fatalf("expected free user under the cap to pass")
	}
	if CanCreateCategory(free, FreeMaxCategories) {
		t.Fatalf("expected free user at the cap to fail")
	}
	if !CanCreateCategory(paid, FreeMaxCategories*10) {
		t.Fatalf("expected paid user to be uncapped")
	}
}
