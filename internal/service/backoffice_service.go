package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/infra/observability"
	"github.com/vaultline/dat-backoffice-go/internal/port"
)

var boTracer = otel.Tracer("service/backoffice")

const companyListCacheKey = "companies:all"

// BackofficeService serves the directory data around deposits: companies,
// users, roles, activity sectors and audit logs. These are passthrough reads;
// in particular mobilizedBalance is never recomputed here.
type BackofficeService struct {
	store        port.BackofficeStore
	companyCache port.Cache[[]domain.Company]
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewBackofficeService creates the back-office directory service.
func NewBackofficeService(
	store port.BackofficeStore,
	companyCache port.Cache[[]domain.Company],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BackofficeService {
	return &BackofficeService{
		store:        store,
		companyCache: companyCache,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *BackofficeService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListCompanies")
	defer span.End()

	if cached, ok := s.companyCache.Get(companyListCacheKey); ok {
		s.metrics.IncrCacheHit("companies")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("companies")

	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		s.metrics.IncrExternalError("companies")
		return nil, err
	}

	s.companyCache.Set(companyListCacheKey, companies)
	return companies, nil
}

func (s *BackofficeService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetCompany")
	defer span.End()
	span.SetAttributes(attribute.String("company.id", id))

	return s.store.GetCompany(ctx, id)
}

func (s *BackofficeService) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListUsers")
	defer span.End()

	return s.store.ListUsers(ctx)
}

func (s *BackofficeService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetUser")
	defer span.End()

	return s.store.GetUser(ctx, id)
}

func (s *BackofficeService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListRoles")
	defer span.End()

	return s.store.ListRoles(ctx)
}

func (s *BackofficeService) ListActivitySectors(ctx context.Context) ([]domain.ActivitySector, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListActivitySectors")
	defer span.End()

	return s.store.ListActivitySectors(ctx)
}

func (s *BackofficeService) ListLogs(ctx context.Context, filter domain.LogFilter) ([]domain.AuditLog, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListLogs")
	defer span.End()

	return s.store.ListLogs(ctx, filter)
}

// Overview snapshots the service's own operational counters for the
// dashboard screen.
func (s *BackofficeService) Overview(ctx context.Context) *domain.OpsOverview {
	_, span := boTracer.Start(ctx, "BackofficeService.Overview")
	defer span.End()

	return s.metrics.GetOverviewSnapshot()
}
