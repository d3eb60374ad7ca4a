// Package dat implements the time-deposit engine: day-count arithmetic,
// interest schedule simulation, maturity classification and transfer
// reconciliation. Everything in this package is pure and deterministic;
// orchestration and I/O live in the service layer.
package dat

import (
	"math"
	"time"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// AddMonths returns t shifted by n calendar months. Month-end overflow
// normalizes forward (Jan 31 + 1 month lands in early March), matching
// calendar-aware maturity derivation rather than fixed 30-day months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// DaysBetween returns the day count from a to b as ceil((b−a)/24h).
// It is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}

// YearBasis returns the annualization denominator for a day-count basis.
// Unknown values fall back to ACT/360, the backend's default convention.
func YearBasis(basis domain.DayCountBasis) int {
	if basis == domain.BasisAct365 {
		return 365
	}
	return 360
}
