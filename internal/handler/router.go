package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/infra/observability"
	"github.com/vaultline/dat-backoffice-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Every /v1 route requires a valid capability token; mutating deposit
// routes additionally require the matching capability.
func NewRouter(
	depositSvc *service.DepositService,
	boSvc *service.BackofficeService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	jwtSecret string,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.RequestCounterMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(boSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(CapabilityAuthMiddleware(jwtSecret, logger))

		// Deposits (DAT)
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/simulate", simulateHandler(depositSvc, logger))
			r.Get("/", listDepositsHandler(depositSvc, logger))
			r.Get("/{depositId}", getDepositHandler(depositSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(RequireCapability(CapDepositUpdate))
				r.Post("/", createDepositHandler(depositSvc, logger))
				r.Put("/{depositId}", updateDepositHandler(depositSvc, logger))
				r.Post("/{depositId}/renew", renewDepositHandler(depositSvc, logger))
				r.Post("/{depositId}/stop", stopDepositHandler(depositSvc, logger))
				r.Post("/{depositId}/transfers", transferHandler(depositSvc, logger))
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireCapability(CapDepositDelete))
				r.Delete("/{depositId}", deleteDepositHandler(depositSvc, logger))
			})
		})

		// Companies
		r.Get("/companies", listCompaniesHandler(boSvc, logger))
		r.Get("/companies/{companyId}", getCompanyHandler(boSvc, logger))

		// Directory
		r.Get("/users", listUsersHandler(boSvc, logger))
		r.Get("/users/{userId}", getUserHandler(boSvc, logger))
		r.Get("/roles", listRolesHandler(boSvc, logger))
		r.Get("/activity-sectors", listActivitySectorsHandler(boSvc, logger))
		r.Get("/logs", listLogsHandler(boSvc, logger))

		// Dashboard metrics
		r.Get("/metrics/overview", overviewHandler(boSvc, logger))
	})

	return r
}
