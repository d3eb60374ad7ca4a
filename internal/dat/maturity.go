package dat

import "time"

// nearMaturityWindowDays is how close to maturity a term must be before
// renew/stop actions unlock.
const nearMaturityWindowDays = 7

// cancelWindow is how long after creation a term may still be deleted.
const cancelWindow = 24 * time.Hour

// IsNearMaturity reports whether the maturity date is between today and
// seven days out, inclusive on both ends. A matured term is not "near"
// maturity.
func IsNearMaturity(maturity, now time.Time) bool {
	d := DaysBetween(now, maturity)
	return d >= 0 && d <= nearMaturityWindowDays
}

// IsMatured reports whether the maturity date has passed.
func IsMatured(maturity, now time.Time) bool {
	return maturity.Before(now)
}

// CanCancel reports whether a term is still inside its 24-hour cancellation
// window. Fails closed when the creation timestamp is missing.
func CanCancel(createdAt, now time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return now.Sub(createdAt) < cancelWindow
}
