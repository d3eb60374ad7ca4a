// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// DepositStore handles time-deposit data operations against the backend.
type DepositStore interface {
	ListDeposits(ctx context.Context) ([]domain.DepositTerm, error)
	GetDeposit(ctx context.Context, id string) (*domain.DepositTerm, error)
	GetDepositAccount(ctx context.Context, depositID string) (*domain.DepositAccount, error)
	CreateDeposit(ctx context.Context, req *domain.CreateDepositRequest) (*domain.DepositTerm, error)
	UpdateDeposit(ctx context.Context, id string, req *domain.UpdateDepositRequest) (*domain.DepositTerm, error)
	DeleteDeposit(ctx context.Context, id string) error
	CreateTransfer(ctx context.Context, depositID string, t *domain.Transfer) (*domain.Transfer, error)
}

// AdvisoryTrigger asks the backend to recompute interest bookkeeping.
// Callers treat failures as advisory: a failed trigger never blocks a read.
type AdvisoryTrigger interface {
	ProcessInterests(ctx context.Context) error
}

// BackofficeStore handles the directory data surrounding deposits:
// companies, users, roles, activity sectors, and audit logs.
type BackofficeStore interface {
	// Companies
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)

	// Users and roles
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// Activity sectors
	ListActivitySectors(ctx context.Context) ([]domain.ActivitySector, error)

	// Audit logs
	ListLogs(ctx context.Context, filter domain.LogFilter) ([]domain.AuditLog, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
