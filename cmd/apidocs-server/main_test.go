package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/carebridge/apidocs/internal/config"
	"github.com/carebridge/apidocs/internal/platform/auth"
	"github.com/carebridge/apidocs/internal/platform/openapi"
	"github.com/carebridge/apidocs/internal/platform/publish"
	"github.com/carebridge/apidocs/internal/platform/telemetry"
)

// ---------------------------------------------------------------------------
// CLI commands
// ---------------------------------------------------------------------------

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExport_JSONToStdout(t *testing.T) {
	out, err := runCLI(t, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "{\n") || !strings.Contains(out, `"openapi": "3.0.3"`) {
		t.Errorf("unexpected output prefix %.60q", out)
	}
}

func TestExport_YAMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if _, err := runCLI(t, "export", "--format", "yaml", "--out", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "openapi: 3.0.3\n") {
		t.Errorf("unexpected yaml prefix %.40q", data)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := runCLI(t, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLint_DefaultCatalog(t *testing.T) {
	out, err := runCLI(t, "lint")
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, out)
	}
	if !strings.Contains(out, "288 operations") || !strings.HasSuffix(out, "OK\n") {
		t.Errorf("unexpected lint output %q", out)
	}
}

func TestSnapshot_SaveListDiff(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "snapshots.db"))

	out, err := runCLI(t, "snapshot", "save", "--note", "initial")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(out, "Saved snapshot ") {
		t.Fatalf("unexpected save output %q", out)
	}
	id := strings.Fields(out)[2]

	out, err = runCLI(t, "snapshot", "save")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if !strings.Contains(out, "Unchanged since snapshot "+id) {
		t.Errorf("expected unchanged, got %q", out)
	}

	out, err = runCLI(t, "snapshot", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "initial") || !strings.Contains(out, "1 of 1") {
		t.Errorf("unexpected list output %q", out)
	}

	out, err = runCLI(t, "snapshot", "diff", id)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if out != "No changes.\n" {
		t.Errorf("unexpected diff output %q", out)
	}
}

func TestSnapshot_DiffInvalidID(t *testing.T) {
	if _, err := runCLI(t, "snapshot", "diff", "not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := runCLI(t, "migrate", "status"); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestPublish_RequiresBucket(t *testing.T) {
	t.Setenv("S3_BUCKET", "")
	if _, err := runCLI(t, "publish"); err == nil {
		t.Fatal("expected error without S3_BUCKET")
	}
}

func TestPrintChanges(t *testing.T) {
	var buf bytes.Buffer
	printChanges(&buf, &openapi.Changes{
		Added:   []openapi.OperationRef{{Method: "POST", Path: "/api/v1/patients/{id}/archive"}},
		Changed: []openapi.OperationRef{{Method: "GET", Path: "/api/v1/patients"}},
	})
	want := "+ POST    /api/v1/patients/{id}/archive\n~ GET     /api/v1/patients\n1 added, 0 removed, 1 changed\n"
	if buf.String() != want {
		t.Errorf("printChanges =\n%s\nwant\n%s", buf.String(), want)
	}
}

// ---------------------------------------------------------------------------
// HTTP server wiring
// ---------------------------------------------------------------------------

func testConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		APIVersion:     "1.0.0",
		BaseURL:        "http://localhost:8000",
		DocsPath:       "/api-docs",
		StoreDriver:    config.DriverMemory,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		RequestTimeout: 5 * time.Second,
		BodyLimit:      "1M",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, pub *publish.Publisher) http.Handler {
	t.Helper()
	st, err := openStore(t.Context(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(st.close)
	return newServer(serverDeps{
		cfg:       cfg,
		logger:    zerolog.Nop(),
		gen:       newGenerator(cfg),
		store:     st,
		metrics:   telemetry.NewProvider(telemetry.Config{}),
		publisher: pub,
	})
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(), nil)

	for _, target := range []string{"/health", "/health/db", "/api-docs/openapi.json", "/api-docs/openapi.yaml", "/api-docs/tags", "/api-docs/operations", "/api-docs/snapshots"} {
		rec := serve(h, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", target, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: missing request id", target)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	h := newTestServer(t, testConfig(), nil)
	serve(h, http.MethodGet, "/api-docs/tags", "")

	rec := serve(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "apidocs_document_operations 288") {
		t.Error("expected document operations gauge")
	}
	if !strings.Contains(body, "apidocs_http_requests_total") {
		t.Error("expected request counter")
	}
}

func TestServer_DevAuthAllowsWrites(t *testing.T) {
	h := newTestServer(t, testConfig(), nil)
	rec := serve(h, http.MethodPost, "/api-docs/snapshots", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func signToken(t *testing.T, key string, roles ...string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	})
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestServer_JWTGuardsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.AuthSigningKey = "test-signing-key"
	h := newTestServer(t, cfg, nil)

	if rec := serve(h, http.MethodGet, "/api-docs/openapi.json", ""); rec.Code != http.StatusOK {
		t.Errorf("reads should stay public, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/api-docs/snapshots", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/api-docs/snapshots", signToken(t, "test-signing-key", "viewer")); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for viewer, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/api-docs/snapshots", signToken(t, "test-signing-key", auth.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for admin, got %d", rec.Code)
	}
}

func TestServer_PublishRoute(t *testing.T) {
	store := publish.NewMemoryStore()
	h := newTestServer(t, testConfig(), publish.NewPublisher(store, "api-docs"))

	rec := serve(h, http.MethodPost, "/api-docs/publish", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.Get(t.Context(), "api-docs/latest/openapi.json"); err != nil {
		t.Errorf("expected latest document: %v", err)
	}
}

func TestServer_PublishDisabled(t *testing.T) {
	h := newTestServer(t, testConfig(), nil)
	if rec := serve(h, http.MethodPost, "/api-docs/publish", ""); rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected publish route to be absent, got %d", rec.Code)
	}
}
