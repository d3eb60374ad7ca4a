package dat

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Simulate produces the payment schedule and totals for a deposit term.
// It is a pure function: no I/O, no clock reads, deterministic for a given
// request.
//
// A request with zero amount, zero rate or no duration yields a
// zero-interest result with an empty schedule; that is a defined edge case
// for incomplete form input, not an error.
func Simulate(req domain.SimulationRequest) domain.SimulationResult {
	result := domain.SimulationResult{
		TotalInterest: decimal.Zero,
		FinalAmount:   req.Amount,
		Payments:      []domain.PaymentPeriod{},
	}
	if req.DurationMonths > 0 && !req.StartDate.IsZero() {
		result.MaturityDate = AddMonths(req.StartDate, req.DurationMonths)
	}
	if req.Amount.IsZero() || req.InterestRate.IsZero() || req.DurationMonths <= 0 || req.StartDate.IsZero() {
		return result
	}

	maturity := result.MaturityDate
	rate := req.InterestRate.Div(oneHundred)
	basis := decimal.NewFromInt(int64(YearBasis(req.DayCountBasis)))

	switch req.InterestPaymentFrequency {
	case domain.FrequencyMonthly:
		result.Payments = slicePeriods(req.StartDate, maturity, 1, "Month", req.Amount, rate, basis)
	case domain.FrequencyQuarterly:
		result.Payments = slicePeriods(req.StartDate, maturity, 3, "Quarter", req.Amount, rate, basis)
	default: // AT_MATURITY
		days := DaysBetween(req.StartDate, maturity)
		interest := periodInterest(req.Amount, rate, days, basis)
		result.Payments = []domain.PaymentPeriod{{
			Label:              "At maturity",
			PeriodStart:        req.StartDate,
			PeriodEnd:          maturity,
			Days:               days,
			Interest:           interest,
			CumulativeInterest: interest,
		}}
	}

	for _, p := range result.Payments {
		result.TotalInterest = result.TotalInterest.Add(p.Interest)
	}
	result.FinalAmount = req.Amount.Add(result.TotalInterest)
	return result
}

// slicePeriods cuts [start, maturity] into stepMonths-sized slices. Period
// boundaries are derived from the original start date (never from the
// previous boundary) so month-end normalization does not drift across the
// schedule. The final period is clamped to the maturity date: it may be
// shorter than a full step but never extends past maturity.
func slicePeriods(start, maturity time.Time, stepMonths int, label string, amount, rate, basis decimal.Decimal) []domain.PaymentPeriod {
	var periods []domain.PaymentPeriod
	cumulative := decimal.Zero

	for i := 1; ; i++ {
		periodStart := AddMonths(start, (i-1)*stepMonths)
		if !periodStart.Before(maturity) {
			break
		}
		periodEnd := AddMonths(start, i*stepMonths)
		if periodEnd.After(maturity) {
			periodEnd = maturity
		}

		days := DaysBetween(periodStart, periodEnd)
		interest := periodInterest(amount, rate, days, basis)
		cumulative = cumulative.Add(interest)

		periods = append(periods, domain.PaymentPeriod{
			Label:              fmt.Sprintf("%s %d", label, i),
			PeriodStart:        periodStart,
			PeriodEnd:          periodEnd,
			Days:               days,
			Interest:           interest,
			CumulativeInterest: cumulative,
		})

		if periodEnd.Equal(maturity) {
			break
		}
	}
	return periods
}

// periodInterest applies the day-count formula amount × rate × days/basis,
// rounded to cents. Totals are sums of the rounded per-period values so the
// schedule always adds up to what is displayed.
func periodInterest(amount, rate decimal.Decimal, days int, basis decimal.Decimal) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return amount.Mul(rate).Mul(decimal.NewFromInt(int64(days))).Div(basis).Round(2)
}
