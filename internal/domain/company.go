package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Companies
// ============================================================

// Company is a client company holding deposit terms.
//
// MobilizedBalance is computed server-side and passed through verbatim: it
// is the authoritative spending ceiling and is never re-derived from
// NetBalance/TotalPendingAmount in this layer.
type Company struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	RegistrationNumber string          `json:"registrationNumber,omitempty"`
	ActivitySectorID   string          `json:"activitySectorId,omitempty"`
	ActivitySector     string          `json:"activitySector,omitempty"`
	Currency           string          `json:"currency"`
	NetBalance         decimal.Decimal `json:"netBalance"`
	TotalPendingAmount decimal.Decimal `json:"totalPendingAmount"`
	MobilizedBalance   decimal.Decimal `json:"mobilizedBalance"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ActivitySector is a classification entry used by company forms.
type ActivitySector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
