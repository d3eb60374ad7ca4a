// Package domain defines the core business entities for the DAT back-office.
// These models are independent of the persistence backend and represent the
// canonical data structures used throughout the BFF.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Deposit terms (DAT)
// ============================================================

// PaymentFrequency is how often interest on a deposit term is paid out.
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "MONTHLY"
	FrequencyQuarterly  PaymentFrequency = "QUARTERLY"
	FrequencyAtMaturity PaymentFrequency = "AT_MATURITY"
)

// DayCountBasis is the convention for the denominator used to annualize
// interest.
type DayCountBasis string

const (
	BasisAct360 DayCountBasis = "ACT_360"
	BasisAct365 DayCountBasis = "ACT_365"
)

// MaturityInstructions tells the bank what to do when the term matures.
type MaturityInstructions string

const (
	InstructionRenew MaturityInstructions = "RENEW"
	InstructionStop  MaturityInstructions = "STOP"
)

// TermStatus is a terminal status of a deposit term. An empty status means
// the term is still open (active, or matured but untouched).
type TermStatus string

const (
	StatusCancelled TermStatus = "CANCELLED"
	StatusRenewed   TermStatus = "RENEWED"
)

// DepositTerm represents a single time-deposit (DAT) held at a bank.
type DepositTerm struct {
	ID                       string               `json:"id"`
	CompanyID                string               `json:"companyId"`
	BankID                   string               `json:"bankId"`
	BankName                 string               `json:"bankName"`
	Amount                   decimal.Decimal      `json:"amount"`
	Currency                 string               `json:"currency"`
	DurationMonths           int                  `json:"durationMonths"`
	InterestRate             decimal.Decimal      `json:"interestRate"` // percent, e.g. 5 = 5% p.a.
	InterestPaymentFrequency PaymentFrequency     `json:"interestPaymentFrequency"`
	DayCountBasis            DayCountBasis        `json:"dayCountBasis"`
	StartDate                time.Time            `json:"startDate"`
	MaturityDate             time.Time            `json:"maturityDate"` // always startDate + durationMonths
	MaturityInstructions     MaturityInstructions `json:"maturityInstructions"`
	Status                   TermStatus           `json:"status,omitempty"`
	IsActive                 bool                 `json:"isActive"`
	CreatedAt                time.Time            `json:"createdAt"`

	// Nested resources returned by the backend on list/detail reads.
	Company *Company        `json:"company,omitempty"`
	Account *DepositAccount `json:"datAccount,omitempty"`
}

// IsOpen reports whether the term has not reached a terminal status.
// Open covers both active terms and matured-but-untouched terms.
func (t *DepositTerm) IsOpen() bool {
	return t.Status != StatusCancelled && t.Status != StatusRenewed
}

// ============================================================
// Deposit accounts (interest bookkeeping)
// ============================================================

// DepositAccount tracks the interest credited to a deposit term and the
// amounts transferred out of it. It is created lazily by the backend when
// the first interest posting occurs.
//
// Invariant (backend-enforced, client-validated): TotalTransferred never
// exceeds TotalInterest.
type DepositAccount struct {
	ID               string            `json:"id"`
	DepositID        string            `json:"depositId"`
	TotalInterest    decimal.Decimal   `json:"totalInterest"`
	TotalTransferred decimal.Decimal   `json:"totalTransferred"`
	InterestPayments []InterestPayment `json:"interestPayments,omitempty"`
	Transfers        []Transfer        `json:"transfers,omitempty"`
}

// InterestPayment is a historical interest posting on a deposit account.
type InterestPayment struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	PostedAt time.Time       `json:"postedAt"`
}

// Transfer is a historical withdrawal of credited interest.
type Transfer struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Author      string          `json:"author,omitempty"`
}

// ============================================================
// Mutation payloads
// ============================================================

// CreateDepositRequest is the payload to open a new deposit term.
type CreateDepositRequest struct {
	CompanyID                string               `json:"companyId"`
	BankID                   string               `json:"bankId"`
	BankName                 string               `json:"bankName,omitempty"`
	Amount                   decimal.Decimal      `json:"amount"`
	Currency                 string               `json:"currency"`
	DurationMonths           int                  `json:"durationMonths"`
	InterestRate             decimal.Decimal      `json:"interestRate"`
	InterestPaymentFrequency PaymentFrequency     `json:"interestPaymentFrequency"`
	DayCountBasis            DayCountBasis        `json:"dayCountBasis"`
	StartDate                time.Time            `json:"startDate"`
	MaturityInstructions     MaturityInstructions `json:"maturityInstructions,omitempty"`

	// MaturityDate is derived from StartDate + DurationMonths by the service
	// before the request reaches the backend; client-supplied values are
	// overwritten.
	MaturityDate time.Time `json:"maturityDate"`
}

// UpdateDepositRequest carries the editable fields of an open term.
// Nil fields are left unchanged.
type UpdateDepositRequest struct {
	BankID                   *string               `json:"bankId,omitempty"`
	BankName                 *string               `json:"bankName,omitempty"`
	Amount                   *decimal.Decimal      `json:"amount,omitempty"`
	DurationMonths           *int                  `json:"durationMonths,omitempty"`
	InterestRate             *decimal.Decimal      `json:"interestRate,omitempty"`
	InterestPaymentFrequency *PaymentFrequency     `json:"interestPaymentFrequency,omitempty"`
	DayCountBasis            *DayCountBasis        `json:"dayCountBasis,omitempty"`
	StartDate                *time.Time            `json:"startDate,omitempty"`
	MaturityInstructions     *MaturityInstructions `json:"maturityInstructions,omitempty"`

	// Service-managed fields. Handlers clear these after decoding; only the
	// lifecycle operations set them (re-derived maturity, renewal/stop flips).
	MaturityDate *time.Time  `json:"maturityDate,omitempty"`
	Status       *TermStatus `json:"status,omitempty"`
	IsActive     *bool       `json:"isActive,omitempty"`
}

// TransferRequest asks to move credited interest out of a deposit account.
// A nil Amount means "transfer everything available".
type TransferRequest struct {
	Amount      *decimal.Decimal `json:"transferAmount,omitempty"`
	Description string           `json:"description,omitempty"`
}

// RenewResult is the outcome of a successful renewal: the freshly opened
// successor term and the predecessor with its status flipped to RENEWED.
// Renewal is exposed as a single operation; partial failures are reported
// as errors, never as a half-applied result.
type RenewResult struct {
	NewTerm     *DepositTerm `json:"newTerm"`
	Predecessor *DepositTerm `json:"predecessor"`
}

// ============================================================
// Derived read model
// ============================================================

// DepositView is a deposit term decorated with the client-side
// classifications the mobile screens render: maturity proximity, the
// cancellation window, and the interest still available to transfer.
type DepositView struct {
	DepositTerm

	NearMaturity      bool            `json:"nearMaturity"`
	Matured           bool            `json:"matured"`
	Cancellable       bool            `json:"cancellable"`
	AvailableInterest decimal.Decimal `json:"availableInterest"`
}
