package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/handler"
	"github.com/vaultline/dat-backoffice-go/internal/infra/cache"
	"github.com/vaultline/dat-backoffice-go/internal/infra/observability"
	"github.com/vaultline/dat-backoffice-go/internal/service"
)

const testSecret = "test-secret"

// ============================================================
// Fakes
// ============================================================

type fakeDepositStore struct {
	terms    map[string]*domain.DepositTerm
	accounts map[string]*domain.DepositAccount
	deleted  []string
}

func newFakeDepositStore() *fakeDepositStore {
	return &fakeDepositStore{
		terms:    make(map[string]*domain.DepositTerm),
		accounts: make(map[string]*domain.DepositAccount),
	}
}

func (f *fakeDepositStore) ListDeposits(ctx context.Context) ([]domain.DepositTerm, error) {
	out := make([]domain.DepositTerm, 0, len(f.terms))
	for _, t := range f.terms {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeDepositStore) GetDeposit(ctx context.Context, id string) (*domain.DepositTerm, error) {
	t, ok := f.terms[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "deposit", ID: id}
	}
	cp := *t
	return &cp, nil
}

func (f *fakeDepositStore) GetDepositAccount(ctx context.Context, depositID string) (*domain.DepositAccount, error) {
	a, ok := f.accounts[depositID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeDepositStore) CreateDeposit(ctx context.Context, req *domain.CreateDepositRequest) (*domain.DepositTerm, error) {
	term := &domain.DepositTerm{
		ID:                       "dat-new",
		CompanyID:                req.CompanyID,
		BankID:                   req.BankID,
		Amount:                   req.Amount,
		DurationMonths:           req.DurationMonths,
		InterestRate:             req.InterestRate,
		InterestPaymentFrequency: req.InterestPaymentFrequency,
		DayCountBasis:            req.DayCountBasis,
		StartDate:                req.StartDate,
		MaturityDate:             req.MaturityDate,
		IsActive:                 true,
		CreatedAt:                time.Now(),
	}
	f.terms[term.ID] = term
	return term, nil
}

func (f *fakeDepositStore) UpdateDeposit(ctx context.Context, id string, req *domain.UpdateDepositRequest) (*domain.DepositTerm, error) {
	t, ok := f.terms[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "deposit", ID: id}
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.MaturityInstructions != nil {
		t.MaturityInstructions = *req.MaturityInstructions
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.MaturityDate != nil {
		t.MaturityDate = *req.MaturityDate
	}
	cp := *t
	return &cp, nil
}

func (f *fakeDepositStore) DeleteDeposit(ctx context.Context, id string) error {
	if _, ok := f.terms[id]; !ok {
		return &domain.ErrNotFound{Resource: "deposit", ID: id}
	}
	delete(f.terms, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDepositStore) CreateTransfer(ctx context.Context, depositID string, t *domain.Transfer) (*domain.Transfer, error) {
	cp := *t
	return &cp, nil
}

type fakeAdvisory struct{}

func (f *fakeAdvisory) ProcessInterests(ctx context.Context) error { return nil }

type fakeBackofficeStore struct {
	companies []domain.Company
}

func (f *fakeBackofficeStore) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return f.companies, nil
}

func (f *fakeBackofficeStore) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	for i := range f.companies {
		if f.companies[i].ID == id {
			return &f.companies[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "company", ID: id}
}

func (f *fakeBackofficeStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	return []domain.User{{ID: "u1", Email: "ops@example.com", Role: "admin"}}, nil
}

func (f *fakeBackofficeStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (f *fakeBackofficeStore) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return []domain.Role{{ID: "r1", Name: "admin"}}, nil
}

func (f *fakeBackofficeStore) ListActivitySectors(ctx context.Context) ([]domain.ActivitySector, error) {
	return []domain.ActivitySector{{ID: "s1", Name: "Agriculture"}}, nil
}

func (f *fakeBackofficeStore) ListLogs(ctx context.Context, filter domain.LogFilter) ([]domain.AuditLog, error) {
	return []domain.AuditLog{}, nil
}

// ============================================================
// Test setup
// ============================================================

func newTestRouter(t *testing.T, store *fakeDepositStore) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	depositSvc := service.NewDepositService(
		store,
		&fakeAdvisory{},
		cache.New[[]domain.DepositView](time.Minute),
		metrics,
		logger,
		time.Second,
	)
	boSvc := service.NewBackofficeService(
		&fakeBackofficeStore{companies: []domain.Company{{ID: "c1", Name: "Acme"}}},
		cache.New[[]domain.Company](time.Minute),
		metrics,
		logger,
	)

	return handler.NewRouter(depositSvc, boSvc, metrics, logger, testSecret, []string{"*"})
}

func signToken(t *testing.T, subject string, capabilities ...string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":          subject,
		"capabilities": capabilities,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func openTerm(id string, maturesIn time.Duration) *domain.DepositTerm {
	now := time.Now()
	return &domain.DepositTerm{
		ID:                       id,
		CompanyID:                "c1",
		BankID:                   "b1",
		Amount:                   decimal.NewFromInt(100000),
		DurationMonths:           12,
		InterestRate:             decimal.NewFromInt(5),
		InterestPaymentFrequency: domain.FrequencyAtMaturity,
		DayCountBasis:            domain.BasisAct360,
		StartDate:                now.AddDate(-1, 0, 0),
		MaturityDate:             now.Add(maturesIn),
		MaturityInstructions:     domain.InstructionRenew,
		IsActive:                 true,
		CreatedAt:                now.AddDate(-1, 0, 0),
	}
}

// ============================================================
// Auth
// ============================================================

func TestRouter_MissingToken(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	rec := doRequest(t, router, http.MethodGet, "/v1/deposits", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_InvalidTokenFormat(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/deposits", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_TamperedToken(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	rec := doRequest(t, router, http.MethodGet, "/v1/deposits", "eyJhbGciOiJIUzI1NiJ9.tampered.sig", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_MissingCapability(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)

	token := signToken(t, "reader") // no capabilities

	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/dat-1/stop", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stop without dat:update: expected 403, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/v1/deposits/dat-1", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("delete without dat:delete: expected 403, got %d", rec.Code)
	}
}

func TestRouter_UpdateCapabilityDoesNotGrantDelete(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)

	token := signToken(t, "ops", handler.CapDepositUpdate)

	rec := doRequest(t, router, http.MethodDelete, "/v1/deposits/dat-1", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// ============================================================
// Deposits
// ============================================================

func TestRouter_SimulateOK(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "reader")

	body := domain.SimulationRequest{
		Amount:                   decimal.NewFromInt(100000),
		InterestRate:             decimal.NewFromInt(5),
		DurationMonths:           12,
		InterestPaymentFrequency: domain.FrequencyAtMaturity,
		DayCountBasis:            domain.BasisAct360,
		StartDate:                time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/simulate", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.SimulationResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.TotalInterest.IsPositive() {
		t.Errorf("expected positive total interest, got %s", result.TotalInterest)
	}
	if len(result.Payments) != 1 {
		t.Errorf("expected one payment period, got %d", len(result.Payments))
	}
}

func TestRouter_SimulateNegativeAmount(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "reader")

	body := domain.SimulationRequest{
		Amount:         decimal.NewFromInt(-1),
		InterestRate:   decimal.NewFromInt(5),
		DurationMonths: 12,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/simulate", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_ListDeposits(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "reader")

	rec := doRequest(t, router, http.MethodGet, "/v1/deposits", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Deposits []domain.DepositView `json:"deposits"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Deposits) != 1 {
		t.Fatalf("expected 1 deposit, got %d", len(resp.Deposits))
	}
	if resp.Deposits[0].ID != "dat-1" {
		t.Errorf("unexpected deposit ID %q", resp.Deposits[0].ID)
	}
}

func TestRouter_GetDepositNotFound(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "reader")

	rec := doRequest(t, router, http.MethodGet, "/v1/deposits/missing", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_CreateDepositDerivesMaturity(t *testing.T) {
	store := newFakeDepositStore()
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	body := map[string]any{
		"companyId":                "c1",
		"bankId":                   "b1",
		"amount":                   "50000",
		"durationMonths":           6,
		"interestRate":             "4.5",
		"interestPaymentFrequency": "MONTHLY",
		"dayCountBasis":            "ACT_360",
		"startDate":                "2024-03-10T00:00:00Z",
		// Client-supplied maturity must be overwritten.
		"maturityDate": "2030-01-01T00:00:00Z",
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/deposits", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var term domain.DepositTerm
	if err := json.NewDecoder(rec.Body).Decode(&term); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	if !term.MaturityDate.Equal(want) {
		t.Errorf("maturity date = %s, want %s", term.MaturityDate, want)
	}
}

func TestRouter_CreateDepositValidation(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "ops", handler.CapDepositUpdate)

	body := map[string]any{
		"bankId":         "b1",
		"amount":         "50000",
		"durationMonths": 6,
		"startDate":      "2024-03-10T00:00:00Z",
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/deposits", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing companyId, got %d", rec.Code)
	}
}

func TestRouter_UpdateIgnoresLifecycleFields(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	body := map[string]any{
		"amount":   "200000",
		"status":   "RENEWED",
		"isActive": false,
	}
	rec := doRequest(t, router, http.MethodPut, "/v1/deposits/dat-1", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored := store.terms["dat-1"]
	if stored.Status == domain.StatusRenewed {
		t.Error("client-supplied status must not be applied")
	}
	if !stored.IsActive {
		t.Error("client-supplied isActive must not be applied")
	}
	if !stored.Amount.Equal(decimal.NewFromInt(200000)) {
		t.Errorf("amount = %s, want 200000", stored.Amount)
	}
}

func TestRouter_RenewNotNearMaturity(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 60*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/dat-1/renew", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RenewNearMaturity(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 3*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/dat-1/renew", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.RenewResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.NewTerm == nil || result.Predecessor == nil {
		t.Fatal("expected both successor and predecessor in response")
	}
	if result.Predecessor.Status != domain.StatusRenewed {
		t.Errorf("predecessor status = %q, want RENEWED", result.Predecessor.Status)
	}
}

func TestRouter_DeleteInsideWindow(t *testing.T) {
	store := newFakeDepositStore()
	term := openTerm("dat-1", 365*24*time.Hour)
	term.CreatedAt = time.Now().Add(-2 * time.Hour)
	store.terms["dat-1"] = term
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositDelete)

	rec := doRequest(t, router, http.MethodDelete, "/v1/deposits/dat-1", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.deleted) != 1 || store.deleted[0] != "dat-1" {
		t.Errorf("expected dat-1 deleted, got %v", store.deleted)
	}
}

func TestRouter_DeleteOutsideWindow(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 365*24*time.Hour) // created a year ago
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositDelete)

	rec := doRequest(t, router, http.MethodDelete, "/v1/deposits/dat-1", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestRouter_TransferNothingAvailable(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/dat-1/transfers", token, map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_TransferAvailableInterest(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	store.accounts["dat-1"] = &domain.DepositAccount{
		ID:            "acc-1",
		DepositID:     "dat-1",
		TotalInterest: decimal.NewFromFloat(125.50),
	}
	router := newTestRouter(t, store)
	token := signToken(t, "ops", handler.CapDepositUpdate)

	rec := doRequest(t, router, http.MethodPost, "/v1/deposits/dat-1/transfers", token, map[string]any{
		"description": "quarterly sweep",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var transfer domain.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&transfer); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !transfer.Amount.Equal(decimal.NewFromFloat(125.50)) {
		t.Errorf("amount = %s, want 125.50", transfer.Amount)
	}
}

// ============================================================
// Back-office reads
// ============================================================

func TestRouter_ListCompanies(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "reader")

	rec := doRequest(t, router, http.MethodGet, "/v1/companies", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Companies []domain.Company `json:"companies"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Companies) != 1 || resp.Companies[0].ID != "c1" {
		t.Errorf("unexpected companies: %+v", resp.Companies)
	}
}

func TestRouter_MetricsOverview(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())
	token := signToken(t, "reader")

	rec := doRequest(t, router, http.MethodGet, "/v1/metrics/overview", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var overview domain.OpsOverview
	if err := json.NewDecoder(rec.Body).Decode(&overview); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if overview.Period != "all_time" {
		t.Errorf("period = %q, want all_time", overview.Period)
	}
}

func TestRouter_OverviewReflectsTraffic(t *testing.T) {
	store := newFakeDepositStore()
	store.terms["dat-1"] = openTerm("dat-1", 30*24*time.Hour)
	router := newTestRouter(t, store)
	token := signToken(t, "reader")

	if rec := doRequest(t, router, http.MethodGet, "/v1/deposits", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/v1/deposits/missing", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/v1/metrics/overview", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview: expected 200, got %d", rec.Code)
	}

	var overview domain.OpsOverview
	if err := json.NewDecoder(rec.Body).Decode(&overview); err != nil {
		t.Fatalf("decoding overview: %v", err)
	}
	if overview.TotalRequests < 2 {
		t.Errorf("totalRequests = %d, want at least 2", overview.TotalRequests)
	}
	if overview.ErrorRate != 0 {
		t.Errorf("errorRate = %f, want 0 (404 is not a service error)", overview.ErrorRate)
	}
}

// ============================================================
// Operational endpoints (no auth)
// ============================================================

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var health domain.HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
}

func TestRouter_PrometheusEndpoint(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	rec := doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Ping(t *testing.T) {
	router := newTestRouter(t, newFakeDepositStore())

	rec := doRequest(t, router, http.MethodGet, "/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
