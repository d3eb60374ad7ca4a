package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// ============================================================
// Directory reads — implements port.BackofficeStore
// ============================================================

// ListCompanies fetches all client companies. mobilizedBalance comes back
// verbatim from the backend.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListCompanies")
	defer span.End()

	var companies []domain.Company
	if err := c.getJSON(ctx, "backend/companies", "/companies", &companies); err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, nil
}

// GetCompany fetches one company by id.
func (c *Client) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetCompany")
	defer span.End()
	span.SetAttributes(attribute.String("company.id", id))

	var company domain.Company
	found, err := c.getJSONOptional(ctx, "backend/companies", "/companies/"+id, &company)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "company", ID: id}
	}
	return &company, nil
}

// ListUsers fetches the back-office user directory.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListUsers")
	defer span.End()

	var users []domain.User
	if err := c.getJSON(ctx, "backend/users", "/users", &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	var user domain.User
	found, err := c.getJSONOptional(ctx, "backend/users", "/users/"+id, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return &user, nil
}

// ListRoles fetches role definitions.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListRoles")
	defer span.End()

	var roles []domain.Role
	if err := c.getJSON(ctx, "backend/roles", "/roles", &roles); err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return roles, nil
}

// ListActivitySectors fetches the sector classification list.
func (c *Client) ListActivitySectors(ctx context.Context) ([]domain.ActivitySector, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListActivitySectors")
	defer span.End()

	var sectors []domain.ActivitySector
	if err := c.getJSON(ctx, "backend/activity-sectors", "/activity-sectors", &sectors); err != nil {
		return nil, err
	}
	if sectors == nil {
		sectors = []domain.ActivitySector{}
	}
	return sectors, nil
}

// ListLogs fetches audit log entries matching the filter.
func (c *Client) ListLogs(ctx context.Context, filter domain.LogFilter) ([]domain.AuditLog, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListLogs")
	defer span.End()

	q := url.Values{}
	if filter.Actor != "" {
		q.Set("actor", filter.Actor)
	}
	if filter.Entity != "" {
		q.Set("entity", filter.Entity)
	}
	if !filter.From.IsZero() {
		q.Set("from", filter.From.Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		q.Set("to", filter.To.Format(time.RFC3339))
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(filter.PageSize))
	}

	path := "/logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var logs []domain.AuditLog
	if err := c.getJSON(ctx, "backend/logs", path, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return logs, nil
}

// getJSON fetches path and decodes into out. An empty body decodes to the
// zero value.
func (c *Client) getJSON(ctx context.Context, service, path string, out any) error {
	_, err := c.getJSONOptional(ctx, service, path, out)
	return err
}

// getJSONOptional is getJSON reporting whether the resource existed.
func (c *Client) getJSONOptional(ctx context.Context, service, path string, out any) (bool, error) {
	var body []byte
	err := c.call(ctx, service, func() error {
		var err error
		body, err = c.doRequest(ctx, http.MethodGet, path, nil)
		return err
	})
	if err != nil {
		return false, err
	}
	if len(body) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, &domain.ErrExternalService{Service: service, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return true, nil
}
