package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Interest simulation (ephemeral, never persisted)
// ============================================================

// SimulationRequest is the input to an interest simulation. The same shape
// is used for the simulate endpoint and for previewing a term before
// creation.
type SimulationRequest struct {
	Amount                   decimal.Decimal  `json:"amount"`
	InterestRate             decimal.Decimal  `json:"interestRate"`
	DurationMonths           int              `json:"durationMonths"`
	InterestPaymentFrequency PaymentFrequency `json:"interestPaymentFrequency"`
	DayCountBasis            DayCountBasis    `json:"dayCountBasis"`
	StartDate                time.Time        `json:"startDate"`
}

// PaymentPeriod is one slice of the simulated payment schedule.
type PaymentPeriod struct {
	Label              string          `json:"label"`
	PeriodStart        time.Time       `json:"periodStart"`
	PeriodEnd          time.Time       `json:"periodEnd"`
	Days               int             `json:"days"`
	Interest           decimal.Decimal `json:"interest"`
	CumulativeInterest decimal.Decimal `json:"cumulativeInterest"`
}

// SimulationResult is the full simulated schedule plus totals.
// TotalInterest is always the exact sum of the per-period interests.
type SimulationResult struct {
	TotalInterest decimal.Decimal `json:"totalInterest"`
	FinalAmount   decimal.Decimal `json:"finalAmount"`
	MaturityDate  time.Time       `json:"maturityDate"`
	Payments      []PaymentPeriod `json:"payments"`
}
