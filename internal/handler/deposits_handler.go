package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/service"
)

// ============================================================
// Simulation — POST /v1/deposits/simulate
// ============================================================

func simulateHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/deposits/simulate")
		defer span.End()

		var req domain.SimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Simulate(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// Reads — GET /v1/deposits, GET /v1/deposits/{depositId}
// ============================================================

func listDepositsHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/deposits")
		defer span.End()

		views, err := svc.ListDeposits(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deposits": views})
	}
}

func getDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/deposits/{depositId}")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		view, err := svc.GetDeposit(ctx, depositID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// ============================================================
// Create / edit — POST /v1/deposits, PUT /v1/deposits/{depositId}
// ============================================================

func createDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/deposits")
		defer span.End()

		var req domain.CreateDepositRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		term, err := svc.CreateDeposit(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, term)
	}
}

func updateDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/deposits/{depositId}")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		var req domain.UpdateDepositRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		// Lifecycle fields are service-managed, never client-settable.
		req.MaturityDate = nil
		req.Status = nil
		req.IsActive = nil

		term, err := svc.UpdateDeposit(ctx, depositID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, term)
	}
}

// ============================================================
// Lifecycle — renew / stop / delete
// ============================================================

func renewDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/deposits/{depositId}/renew")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		result, err := svc.Renew(ctx, depositID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("deposit renewed",
			zap.String("deposit_id", depositID),
			zap.String("actor", ActorFromContext(ctx)),
		)
		writeJSON(w, http.StatusCreated, result)
	}
}

func stopDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/deposits/{depositId}/stop")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		term, err := svc.Stop(ctx, depositID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, term)
	}
}

func deleteDepositHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/deposits/{depositId}")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		if err := svc.Delete(ctx, depositID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("deposit deleted",
			zap.String("deposit_id", depositID),
			zap.String("actor", ActorFromContext(ctx)),
		)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Interest transfers — POST /v1/deposits/{depositId}/transfers
// ============================================================

func transferHandler(svc *service.DepositService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/deposits/{depositId}/transfers")
		defer span.End()

		depositID := chi.URLParam(r, "depositId")
		span.SetAttributes(attribute.String("deposit.id", depositID))

		var req domain.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		transfer, err := svc.Transfer(ctx, depositID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, transfer)
	}
}
