package entitlements

import "github.com/GuiSantosdev/clivus/app/models"

// Free-tier limits. Paid access lifts them entirely.
const (
	FreeMaxTransactionsPerMonth = 100
	FreeMaxCategories           = 10
)

// HasPaidAccess reports whether the user bought access via a completed
// payment. There is no automatic revocation on expiry; the flag stays set
// until changed administratively.
func HasPaidAccess(u *models.User) bool {
	return u != nil && u.HasAccess
}

// ShouldServeAds reports whether the internal ad inventory is shown to this
// user. Paid users never see ads.
func ShouldServeAds(u *models.User) bool {
	return !HasPaidAccess(u)
}

// CanCreateTransaction enforces the free-tier monthly ledger cap.
func CanCreateTransaction(u *models.User, countThisMonth int64) bool {
	if HasPaidAccess(u) {
		return true
	}
	return countThisMonth < FreeMaxTransactionsPerMonth
}

// CanCreateCategory enforces the free-tier category cap.
func CanCreateCategory(u *models.User, existing int64) bool {
	if HasPaidAccess(u) {
		return true
	}
	return existing < FreeMaxCategories
}
