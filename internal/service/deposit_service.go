// Package service provides the business logic layer (use cases).
// DepositService owns the DAT lifecycle: simulation, creation, edits,
// renewals, stops, cancellation and interest transfers.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vaultline/dat-backoffice-go/internal/dat"
	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/infra/observability"
	"github.com/vaultline/dat-backoffice-go/internal/port"
)

var tracer = otel.Tracer("service/deposits")

const depositListCacheKey = "deposits:all"

// DepositService orchestrates deposit operations against the backend store.
// All lifecycle preconditions are checked here, before any backend call;
// the backend re-validates authoritatively.
type DepositService struct {
	store           port.DepositStore
	advisory        port.AdvisoryTrigger
	listCache       port.Cache[[]domain.DepositView]
	metrics         *observability.Metrics
	logger          *zap.Logger
	advisoryTimeout time.Duration

	// now is injectable for tests of time-window preconditions.
	now func() time.Time
}

// Option configures a DepositService.
type Option func(*DepositService)

// WithClock replaces the wall clock used for time-window preconditions.
func WithClock(now func() time.Time) Option {
	return func(s *DepositService) { s.now = now }
}

// NewDepositService creates the deposit service with all dependencies injected.
func NewDepositService(
	store port.DepositStore,
	advisory port.AdvisoryTrigger,
	listCache port.Cache[[]domain.DepositView],
	metrics *observability.Metrics,
	logger *zap.Logger,
	advisoryTimeout time.Duration,
	opts ...Option,
) *DepositService {
	s := &DepositService{
		store:           store,
		advisory:        advisory,
		listCache:       listCache,
		metrics:         metrics,
		logger:          logger,
		advisoryTimeout: advisoryTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================
// Simulation
// ============================================================

// Simulate computes an interest schedule without touching the backend.
func (s *DepositService) Simulate(ctx context.Context, req domain.SimulationRequest) (domain.SimulationResult, error) {
	_, span := tracer.Start(ctx, "DepositService.Simulate")
	defer span.End()

	if req.Amount.IsNegative() {
		return domain.SimulationResult{}, &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	if req.InterestRate.IsNegative() {
		return domain.SimulationResult{}, &domain.ErrValidation{Field: "interestRate", Message: "must not be negative"}
	}
	if req.DurationMonths < 0 {
		return domain.SimulationResult{}, &domain.ErrValidation{Field: "durationMonths", Message: "must not be negative"}
	}

	start := time.Now()
	result := dat.Simulate(req)
	s.metrics.RecordRequestDuration("simulate", time.Since(start))
	s.metrics.IncrSimulation()

	return result, nil
}

// ============================================================
// Reads
// ============================================================

// ListDeposits returns all deposit terms decorated for the mobile screens.
// An advisory interest-processing trigger runs first so the backend's
// bookkeeping is as fresh as possible; its failure never blocks the read.
func (s *DepositService) ListDeposits(ctx context.Context) ([]domain.DepositView, error) {
	ctx, span := tracer.Start(ctx, "DepositService.ListDeposits")
	defer span.End()

	if cached, ok := s.listCache.Get(depositListCacheKey); ok {
		s.metrics.IncrCacheHit("deposits")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("deposits")

	s.triggerAdvisory(ctx)

	terms, err := s.store.ListDeposits(ctx)
	if err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	now := s.now()
	views := make([]domain.DepositView, 0, len(terms))
	for i := range terms {
		views = append(views, s.decorate(&terms[i], now))
	}

	s.listCache.Set(depositListCacheKey, views)
	return views, nil
}

// GetDeposit returns one term with its interest account, fetched concurrently.
func (s *DepositService) GetDeposit(ctx context.Context, id string) (*domain.DepositView, error) {
	ctx, span := tracer.Start(ctx, "DepositService.GetDeposit")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	var (
		term    *domain.DepositTerm
		account *domain.DepositAccount
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.store.GetDeposit(gCtx, id)
		if err != nil {
			return err
		}
		term = t
		return nil
	})
	g.Go(func() error {
		a, err := s.store.GetDepositAccount(gCtx, id)
		if err != nil {
			return err
		}
		account = a
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	if account != nil {
		term.Account = account
	}
	view := s.decorate(term, s.now())
	return &view, nil
}

// triggerAdvisory asks the backend to bring interest postings up to date.
// Best-effort: failures are counted and debug-logged, never surfaced.
func (s *DepositService) triggerAdvisory(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.advisoryTimeout)
	defer cancel()

	if err := s.advisory.ProcessInterests(ctx); err != nil {
		s.metrics.IncrAdvisoryFailure()
		s.logger.Debug("advisory interest processing failed", zap.Error(err))
	}
}

// decorate computes the client-side classifications for one term.
func (s *DepositService) decorate(t *domain.DepositTerm, now time.Time) domain.DepositView {
	return domain.DepositView{
		DepositTerm:  *t,
		NearMaturity: t.IsOpen() && dat.IsNearMaturity(t.MaturityDate, now),
		Matured:      dat.IsMatured(t.MaturityDate, now),
		Cancellable: dat.CanCancel(t.CreatedAt, now) &&
			t.Status != domain.StatusCancelled &&
			(t.Account == nil || t.Account.TotalTransferred.IsZero()),
		AvailableInterest: dat.ComputeAvailable(t.Account),
	}
}

// ============================================================
// Create / edit
// ============================================================

// CreateDeposit opens a new term. The maturity date is always derived here
// from startDate + durationMonths; whatever the caller sent is overwritten.
func (s *DepositService) CreateDeposit(ctx context.Context, req *domain.CreateDepositRequest) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "DepositService.CreateDeposit")
	defer span.End()

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	req.MaturityDate = dat.AddMonths(req.StartDate, req.DurationMonths)

	term, err := s.store.CreateDeposit(ctx, req)
	if err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	s.listCache.Delete(depositListCacheKey)
	s.logger.Info("deposit created",
		zap.String("deposit_id", term.ID),
		zap.String("company_id", term.CompanyID),
		zap.String("maturity", term.MaturityDate.Format(time.DateOnly)),
	)
	return term, nil
}

func validateCreate(req *domain.CreateDepositRequest) error {
	switch {
	case req.CompanyID == "":
		return &domain.ErrValidation{Field: "companyId", Message: "required"}
	case req.BankID == "":
		return &domain.ErrValidation{Field: "bankId", Message: "required"}
	case !req.Amount.IsPositive():
		return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	case req.DurationMonths <= 0:
		return &domain.ErrValidation{Field: "durationMonths", Message: "must be positive"}
	case req.InterestRate.IsNegative():
		return &domain.ErrValidation{Field: "interestRate", Message: "must not be negative"}
	case req.StartDate.IsZero():
		return &domain.ErrValidation{Field: "startDate", Message: "required"}
	}
	return nil
}

// UpdateDeposit edits an open term. When the start date or duration changes,
// the maturity date is re-derived; the invariant maturity = start + duration
// always holds.
func (s *DepositService) UpdateDeposit(ctx context.Context, id string, req *domain.UpdateDepositRequest) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "DepositService.UpdateDeposit")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	term, err := s.store.GetDeposit(ctx, id)
	if err != nil {
		return nil, err
	}
	if !term.IsOpen() {
		return nil, &domain.ErrPrecondition{Action: "edit", Reason: "term is " + string(term.Status)}
	}

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if req.DurationMonths != nil && *req.DurationMonths <= 0 {
		return nil, &domain.ErrValidation{Field: "durationMonths", Message: "must be positive"}
	}
	if req.InterestRate != nil && req.InterestRate.IsNegative() {
		return nil, &domain.ErrValidation{Field: "interestRate", Message: "must not be negative"}
	}

	if req.StartDate != nil || req.DurationMonths != nil {
		start := term.StartDate
		if req.StartDate != nil {
			start = *req.StartDate
		}
		duration := term.DurationMonths
		if req.DurationMonths != nil {
			duration = *req.DurationMonths
		}
		maturity := dat.AddMonths(start, duration)
		req.MaturityDate = &maturity
	}

	updated, err := s.store.UpdateDeposit(ctx, id, req)
	if err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	s.listCache.Delete(depositListCacheKey)
	return updated, nil
}

// ============================================================
// Lifecycle transitions
// ============================================================

// Renew rolls a term that is at or near maturity into a successor term and
// flips the predecessor to RENEWED, as one operation. If the flip fails
// after the successor was created, the successor is deleted (best effort);
// two active terms are never left behind silently.
func (s *DepositService) Renew(ctx context.Context, id string) (*domain.RenewResult, error) {
	ctx, span := tracer.Start(ctx, "DepositService.Renew")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	term, err := s.store.GetDeposit(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case !term.IsOpen():
		return nil, &domain.ErrPrecondition{Action: "renew", Reason: "term is " + string(term.Status)}
	case term.MaturityInstructions == domain.InstructionStop:
		return nil, &domain.ErrPrecondition{Action: "renew", Reason: "maturity instructions are STOP"}
	case !dat.IsNearMaturity(term.MaturityDate, now) && !dat.IsMatured(term.MaturityDate, now):
		return nil, &domain.ErrPrecondition{Action: "renew", Reason: "term is not near maturity"}
	}

	renewalID := uuid.NewString()
	span.SetAttributes(attribute.String("renewal.id", renewalID))

	successor, err := s.store.CreateDeposit(ctx, &domain.CreateDepositRequest{
		CompanyID:                term.CompanyID,
		BankID:                   term.BankID,
		BankName:                 term.BankName,
		Amount:                   term.Amount,
		Currency:                 term.Currency,
		DurationMonths:           term.DurationMonths,
		InterestRate:             term.InterestRate,
		InterestPaymentFrequency: term.InterestPaymentFrequency,
		DayCountBasis:            term.DayCountBasis,
		StartDate:                now,
		MaturityDate:             dat.AddMonths(now, term.DurationMonths),
		MaturityInstructions:     term.MaturityInstructions,
	})
	if err != nil {
		s.metrics.IncrRenewal("failed")
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	renewed := domain.StatusRenewed
	inactive := false
	predecessor, err := s.store.UpdateDeposit(ctx, id, &domain.UpdateDepositRequest{
		Status:   &renewed,
		IsActive: &inactive,
	})
	if err != nil {
		s.metrics.IncrRenewal("failed")
		s.logger.Error("renewal flip failed, deleting successor",
			zap.String("renewal_id", renewalID),
			zap.String("deposit_id", id),
			zap.String("successor_id", successor.ID),
			zap.Error(err),
		)
		if delErr := s.store.DeleteDeposit(ctx, successor.ID); delErr != nil {
			s.logger.Error("renewal compensation failed",
				zap.String("renewal_id", renewalID),
				zap.String("successor_id", successor.ID),
				zap.Error(delErr),
			)
			return nil, &domain.ErrConflict{
				Message: "renewal partially applied: successor " + successor.ID +
					" was created but the original term could not be marked RENEWED; manual reconciliation required",
			}
		}
		return nil, err
	}

	s.metrics.IncrRenewal("completed")
	s.listCache.Delete(depositListCacheKey)
	s.logger.Info("deposit renewed",
		zap.String("renewal_id", renewalID),
		zap.String("deposit_id", id),
		zap.String("successor_id", successor.ID),
	)

	return &domain.RenewResult{NewTerm: successor, Predecessor: predecessor}, nil
}

// Stop records a STOP instruction on a term that is near maturity, so the
// bank pays out instead of rolling over.
func (s *DepositService) Stop(ctx context.Context, id string) (*domain.DepositTerm, error) {
	ctx, span := tracer.Start(ctx, "DepositService.Stop")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	term, err := s.store.GetDeposit(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case !term.IsOpen():
		return nil, &domain.ErrPrecondition{Action: "stop", Reason: "term is " + string(term.Status)}
	case dat.IsMatured(term.MaturityDate, now):
		return nil, &domain.ErrPrecondition{Action: "stop", Reason: "term has already matured"}
	case !dat.IsNearMaturity(term.MaturityDate, now):
		return nil, &domain.ErrPrecondition{Action: "stop", Reason: "term is not near maturity"}
	}

	stop := domain.InstructionStop
	inactive := false
	updated, err := s.store.UpdateDeposit(ctx, id, &domain.UpdateDepositRequest{
		MaturityInstructions: &stop,
		IsActive:             &inactive,
	})
	if err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	s.listCache.Delete(depositListCacheKey)
	return updated, nil
}

// Delete cancels a term inside the 24h window. Terms with transferred
// interest can never be deleted.
func (s *DepositService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DepositService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", id))

	term, err := s.store.GetDeposit(ctx, id)
	if err != nil {
		return err
	}
	if term.Status == domain.StatusCancelled {
		return &domain.ErrPrecondition{Action: "delete", Reason: "term is already cancelled"}
	}
	if !dat.CanCancel(term.CreatedAt, s.now()) {
		return &domain.ErrPrecondition{Action: "delete", Reason: "24h cancellation window has passed"}
	}

	account, err := s.store.GetDepositAccount(ctx, id)
	if err != nil {
		return err
	}
	if account != nil && account.TotalTransferred.IsPositive() {
		return &domain.ErrPrecondition{Action: "delete", Reason: "interest has already been transferred"}
	}

	if err := s.store.DeleteDeposit(ctx, id); err != nil {
		s.metrics.IncrExternalError("deposits")
		return err
	}

	s.listCache.Delete(depositListCacheKey)
	s.logger.Info("deposit deleted", zap.String("deposit_id", id))
	return nil
}

// ============================================================
// Interest transfers
// ============================================================

// Transfer moves credited interest out of a deposit account. A request with
// no amount transfers everything available.
func (s *DepositService) Transfer(ctx context.Context, depositID string, req *domain.TransferRequest) (*domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "DepositService.Transfer")
	defer span.End()
	span.SetAttributes(attribute.String("deposit.id", depositID))

	account, err := s.store.GetDepositAccount(ctx, depositID)
	if err != nil {
		return nil, err
	}

	amount, err := dat.ValidateTransfer(account, req.Amount)
	if err != nil {
		s.metrics.IncrTransfer("rejected")
		return nil, err
	}
	s.metrics.IncrTransfer("validated")

	created, err := s.store.CreateTransfer(ctx, depositID, &domain.Transfer{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        s.now(),
		Description: req.Description,
	})
	if err != nil {
		s.metrics.IncrExternalError("deposits")
		return nil, err
	}

	s.listCache.Delete(depositListCacheKey)
	s.logger.Info("interest transferred",
		zap.String("deposit_id", depositID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return created, nil
}
