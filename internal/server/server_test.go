package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arvyo/arvyo-server/internal/app"
	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/services/dashboard"
	"github.com/arvyo/arvyo-server/internal/services/ledger"
	"github.com/arvyo/arvyo-server/internal/services/report"
	"github.com/arvyo/arvyo-server/internal/services/statement"
	"github.com/arvyo/arvyo-server/internal/services/user"
	"github.com/arvyo/arvyo-server/internal/services/wallet"
	"github.com/arvyo/arvyo-server/internal/storage"
)

// newTestServer creates a fully wired server backed by real file storage.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Internal.Path = filepath.Join(dir, "internal")
	cfg.Storage.Finance.Path = filepath.Join(dir, "finance")
	cfg.Storage.Charts.Path = filepath.Join(dir, "charts")

	mgr, err := storage.NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	ledgerSvc := ledger.NewService(mgr, logger)
	walletSvc := wallet.NewService(mgr, logger)

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          mgr,
		UserService:      user.NewService(mgr, logger),
		LedgerService:    ledgerSvc,
		WalletService:    walletSvc,
		DashboardService: dashboard.NewService(mgr, ledgerSvc, logger),
		ReportService:    report.NewService(mgr, walletSvc, logger),
		StatementService: statement.NewService(ledgerSvc, logger),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

// doRequest sends a request through the full middleware stack.
func doRequest(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// registerTestUser registers a user through the API and returns the token.
func registerTestUser(t *testing.T, srv *Server, email string) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q", resp["status"])
	}
}

func TestHealthMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/health", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Error("Allow header missing")
	}
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["version"] == "" {
		t.Error("version missing from response")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodOptions, "/api/accounts", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS origin header missing")
	}
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("correlation ID header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-corr-1")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Correlation-ID"); got != "test-corr-1" {
		t.Errorf("correlation ID = %q, want test-corr-1", got)
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	srv := newTestServer(t)

	token := registerTestUser(t, srv, "route@example.com")
	rec := doRequest(t, srv, http.MethodGet, "/api/accounts/acc_x/unknown", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
