package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// ============================================================
// Deposits — implements port.DepositStore and port.AdvisoryTrigger
// ============================================================

// depositRow is the wire shape of a deposit term. Optional fields the backend
// may omit are pointers; defaulting happens once, in toDomain.
type depositRow struct {
	ID                       string                      `json:"id"`
	CompanyID                string                      `json:"companyId"`
	BankID                   string                      `json:"bankId"`
	BankName                 string                      `json:"bankName"`
	Amount                   decimal.Decimal             `json:"amount"`
	Currency                 string                      `json:"currency"`
	DurationMonths           int                         `json:"durationMonths"`
	InterestRate             decimal.Decimal             `json:"interestRate"`
	InterestPaymentFrequency domain.PaymentFrequency     `json:"interestPaymentFrequency"`
	DayCountBasis            domain.DayCountBasis        `json:"dayCountBasis"`
	StartDate                time.Time                   `json:"startDate"`
	MaturityDate             time.Time                   `json:"maturityDate"`
	MaturityInstructions     domain.MaturityInstructions `json:"maturityInstructions"`
	Status                   domain.TermStatus           `json:"status"`
	IsActive                 *bool                       `json:"isActive"`
	CreatedAt                time.Time                   `json:"createdAt"`
	Company                  *domain.Company             `json:"company"`
	Account                  *accountRow                 `json:"datAccount"`
}

func (r *depositRow) toDomain() *domain.DepositTerm {
	t := &domain.DepositTerm{
		ID:                       r.ID,
		CompanyID:                r.CompanyID,
		BankID:                   r.BankID,
		BankName:                 r.BankName,
		Amount:                   r.Amount,
		Currency:                 r.Currency,
		DurationMonths:           r.DurationMonths,
		InterestRate:             r.InterestRate,
		InterestPaymentFrequency: r.InterestPaymentFrequency,
		DayCountBasis:            r.DayCountBasis,
		StartDate:                r.StartDate,
		MaturityDate:             r.MaturityDate,
		MaturityInstructions:     r.MaturityInstructions,
		Status:                   r.Status,
		IsActive:                 r.IsActive == nil || *r.IsActive,
		CreatedAt:                r.CreatedAt,
		Company:                  r.Company,
	}
	if t.InterestPaymentFrequency == "" {
		t.InterestPaymentFrequency = domain.FrequencyAtMaturity
	}
	if t.DayCountBasis == "" {
		t.DayCountBasis = domain.BasisAct360
	}
	if r.Account != nil {
		t.Account = r.Account.toDomain()
	}
	return t
}

// accountRow is the wire shape of a deposit account. Interest totals may be
// absent on accounts the backend has not yet posted to.
type accountRow struct {
	ID               string                   `json:"id"`
	DepositID        string                   `json:"depositId"`
	TotalInterest    *decimal.Decimal         `json:"totalInterest"`
	TotalTransferred *decimal.Decimal         `json:"totalTransferred"`
	InterestPayments []domain.InterestPayment `json:"interestPayments"`
	Transfers        []domain.Transfer        `json:"transfers"`
}

func (r *accountRow) toDomain() *domain.DepositAccount {
	a := &domain.DepositAccount{
		ID:               r.ID,
		DepositID:        r.DepositID,
		InterestPayments: r.InterestPayments,
		Transfers:        r.Transfers,
	}
	if r.TotalInterest != nil {
		a.TotalInterest = *r.TotalInterest
	}
	if r.TotalTransferred != nil {
		a.TotalTransferred = *r.TotalTransferred
	}
	return a
}

// ListDeposits fetches all deposit terms visible to the service.
func (c *Client) ListDeposits(ctx context.Context) ([]domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListDeposits")
	defer span.End()

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodGet, "/deposits", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []domain.DepositTerm{}, nil
	}

	var rows []depositRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode deposits: %w", err)}
	}

	terms := make([]domain.DepositTerm, 0, len(rows))
	for i := range rows {
		terms = append(terms, *rows[i].toDomain())
	}
	return terms, nil
}

// GetDeposit fetches one deposit term by id.
func (c *Client) GetDeposit(ctx context.Context, id string) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetDeposit")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodGet, "/deposits/"+id, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &domain.ErrNotFound{Resource: "deposit", ID: id}
	}

	var row depositRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode deposit: %w", err)}
	}
	return row.toDomain(), nil
}

// GetDepositAccount fetches the interest account of a deposit term. A term
// with no postings yet has no account; that reads as nil, not an error.
func (c *Client) GetDepositAccount(ctx context.Context, depositID string) (*domain.DepositAccount, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetDepositAccount")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", depositID))

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodGet, "/deposits/"+depositID+"/account", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var row accountRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode account: %w", err)}
	}
	return row.toDomain(), nil
}

// createDepositPayload wraps the create request with an idempotency key, so a
// POST retried after a timeout cannot open the same term twice.
type createDepositPayload struct {
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	*domain.CreateDepositRequest
}

// CreateDeposit opens a new deposit term. The idempotency key is minted once
// per call and shared by every retry attempt.
func (c *Client) CreateDeposit(ctx context.Context, req *domain.CreateDepositRequest) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateDeposit")
	defer span.End()

	payload := createDepositPayload{IdempotencyKey: uuid.NewString(), CreateDepositRequest: req}

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodPost, "/deposits", payload)
		return err
	})
	if err != nil {
		return nil, err
	}

	var row depositRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode created deposit: %w", err)}
	}
	return row.toDomain(), nil
}

// UpdateDeposit edits an open term. Nil request fields are left unchanged.
func (c *Client) UpdateDeposit(ctx context.Context, id string, req *domain.UpdateDepositRequest) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "Backend.UpdateDeposit")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodPut, "/deposits/"+id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &domain.ErrNotFound{Resource: "deposit", ID: id}
	}

	var row depositRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode updated deposit: %w", err)}
	}
	return row.toDomain(), nil
}

// DeleteDeposit removes a term. The backend enforces its own guards again.
func (c *Client) DeleteDeposit(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Backend.DeleteDeposit")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	return c.call(ctx, "backend/deposits", func() error {
		_, err := c.doRequest(ctx, http.MethodDelete, "/deposits/"+id, nil)
		return err
	})
}

// transferPayload is the wire shape of an interest transfer. The idempotency
// key lets the backend drop duplicate submissions after a retried POST.
type transferPayload struct {
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	TransferAmount decimal.Decimal `json:"transferAmount"`
	Description    string          `json:"description,omitempty"`
}

// CreateTransfer posts an interest transfer against a deposit account.
func (c *Client) CreateTransfer(ctx context.Context, depositID string, t *domain.Transfer) (*domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", depositID))

	payload := transferPayload{IdempotencyKey: t.ID, TransferAmount: t.Amount, Description: t.Description}

	var body []byte
	err := c.call(ctx, "backend/deposits", func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodPost, "/deposits/"+depositID+"/account", payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return t, nil
	}

	var created domain.Transfer
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/deposits", Err: fmt.Errorf("decode transfer: %w", err)}
	}
	return &created, nil
}

// ProcessInterests asks the backend to bring interest bookkeeping up to date.
// Callers treat this as advisory; it carries no retries beyond the standard
// policy and its failures are never surfaced to the mobile client.
func (c *Client) ProcessInterests(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Backend.ProcessInterests")
	defer span.End()

	return c.call(ctx, "backend/deposits", func() error {
		_, err := c.doRequest(ctx, http.MethodGet, "/deposits/process-interests", nil)
		return err
	})
}
