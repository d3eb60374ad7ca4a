package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/service"
)

// ============================================================
// Companies
// ============================================================

func listCompaniesHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies")
		defer span.End()

		companies, err := svc.ListCompanies(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
	}
}

func getCompanyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyId}")
		defer span.End()

		company, err := svc.GetCompany(ctx, chi.URLParam(r, "companyId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

// ============================================================
// Users & roles
// ============================================================

func listUsersHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users")
		defer span.End()

		users, err := svc.ListUsers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	}
}

func getUserHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}")
		defer span.End()

		user, err := svc.GetUser(ctx, chi.URLParam(r, "userId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func listRolesHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/roles")
		defer span.End()

		roles, err := svc.ListRoles(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
	}
}

// ============================================================
// Activity sectors & audit logs
// ============================================================

func listActivitySectorsHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/activity-sectors")
		defer span.End()

		sectors, err := svc.ListActivitySectors(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"activitySectors": sectors})
	}
}

func listLogsHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/logs")
		defer span.End()

		page, pageSize := parsePagination(r)
		filter := domain.LogFilter{
			Actor:    r.URL.Query().Get("actor"),
			Entity:   r.URL.Query().Get("entity"),
			Page:     page,
			PageSize: pageSize,
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.From = t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.To = t
			}
		}

		logs, err := svc.ListLogs(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
	}
}

// ============================================================
// Metrics & health
// ============================================================

func overviewHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Overview(r.Context()))
	}
}

func healthzHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "datbo-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		_, err := svc.ListActivitySectors(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			status = "degraded"
		}
		services = append(services, domain.ServiceHealth{
			Name: "backend", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overall := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overall = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
