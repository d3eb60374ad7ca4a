package dat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// ComputeAvailable returns the interest still available to transfer out of
// a deposit account: totalInterest − totalTransferred, floored at zero.
// A nil account (not yet created by the backend) has nothing available.
func ComputeAvailable(account *domain.DepositAccount) decimal.Decimal {
	if account == nil {
		return decimal.Zero
	}
	available := account.TotalInterest.Sub(account.TotalTransferred)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// ValidateTransfer checks a transfer request against the available interest
// and returns the amount to transfer. A nil requested amount means the full
// available balance.
//
// This only validates and computes the bound; the backend re-validates the
// same invariant authoritatively and does the actual bookkeeping.
func ValidateTransfer(account *domain.DepositAccount, requested *decimal.Decimal) (decimal.Decimal, error) {
	available := ComputeAvailable(account)
	if !available.IsPositive() {
		return decimal.Zero, &domain.ErrPrecondition{
			Action: "transfer",
			Reason: "no interest available to transfer",
		}
	}
	if requested == nil {
		return available, nil
	}
	if !requested.IsPositive() || requested.GreaterThan(available) {
		return decimal.Zero, &domain.ErrValidation{
			Field:   "transferAmount",
			Message: fmt.Sprintf("amount exceeds available interest (available: %s)", available.StringFixed(2)),
		}
	}
	return *requested, nil
}
