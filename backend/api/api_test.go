package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect/sql/schema"
	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/auth"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/test"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/shared/config"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type ClientServiceCall[Request any, Response any] func(ctx context.Context, client *api_client.Client, req *Request) (Response, error)

type ServiceTestSetup[Request any, Response any] struct {
	Call       ClientServiceCall[Request, Response]
	CmpOptions []cmp.Option
	Debug      bool
}

type ServiceTestExpectation[Response any] struct {
	Response Response
	Error    string
}

type ServiceTestScenario[Request any, Response any] struct {
	Name string
	// SeedDatabase runs after the calling user was created.
	SeedDatabase func(ctx context.Context, db *memory.Client, caller *memory.User)
	// Caller customizes the user the request is authenticated as.
	Caller    func(b *test.UserBuilder) *test.UserBuilder
	Anonymous bool
	Request   *Request
	Expected  ServiceTestExpectation[Response]
}

func (s *ServiceTestSetup[Request, Response]) RunServiceTests(t *testing.T, scenarios []ServiceTestScenario[Request, Response]) {
	if len(scenarios) == 0 {
		t.Fatalf("no scenarios provided")
	}

	if s.Call == nil {
		t.Fatalf("no call function provided")
	}

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			ctx := context.Background()
			server := NewTestServer(t, DefaultTestHandlerOptions(t))
			server.Start(ctx)
			defer server.Close()

			if s.Debug {
				server.DebugSchema(ctx, t)
			}

			builder := test.NewUserBuilder(t, server.Options.DB)
			if scenario.Caller != nil {
				builder = scenario.Caller(builder)
			}
			caller := builder.Build(ctx)

			if scenario.SeedDatabase != nil {
				scenario.SeedDatabase(ctx, server.Options.DB, caller)
			}

			apiClient := server.Client(t, caller)
			if scenario.Anonymous {
				apiClient = server.Client(t, nil)
			}

			actual := ServiceTestExpectation[Response]{}
			response, err := s.Call(ctx, apiClient, scenario.Request)
			if err != nil {
				actual.Error = err.Error()
			} else {
				actual.Response = response
			}

			if diff := cmp.Diff(scenario.Expected, actual, s.CmpOptions...); diff != "" {
				t.Errorf("%s() mismatch (-want +got):\n%s", scenario.Name, diff)
			}
		})
	}
}

func DefaultTestHandlerOptions(t *testing.T) HandlerOptions {
	db := test.NewDatabase(t)

	keyset, err := secret.GenerateKeyset()
	if err != nil {
		t.Fatalf("failed generating keyset: %v", err)
	}

	encryption, err := secret.NewClient(keyset)
	if err != nil {
		t.Fatalf("failed creating encryption client: %v", err)
	}

	authService, err := auth.NewService(db, config.AuthConfig{
		JWTSecret:  "test-secret",
		Issuer:     "deepagents-test",
		TokenTTL:   time.Hour,
		BcryptCost: 4,
	})
	if err != nil {
		t.Fatalf("failed creating auth service: %v", err)
	}

	return HandlerOptions{
		DB:         db,
		Encryption: encryption,
		Auth:       authService,
		Bus:        event.NewBus(),
		Analytics:  analytics.NewInMemoryClient(),
		Registry:   prometheus.NewRegistry(),
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:    "test",
	}
}

type TestServer struct {
	API     *httptest.Server
	Options HandlerOptions

	t *testing.T
}

func NewTestServer(t *testing.T, handlerOptions HandlerOptions) *TestServer {
	server := httptest.NewUnstartedServer(NewHandler(handlerOptions))

	return &TestServer{
		API:     server,
		Options: handlerOptions,
		t:       t,
	}
}

func (s *TestServer) Start(ctx context.Context) {
	s.API.Start()
}

func (s *TestServer) Close() {
	s.API.Close()
}

// Client returns an API client authenticated as user, or an anonymous one
// when user is nil.
func (s *TestServer) Client(t *testing.T, user *memory.User) *api_client.Client {
	t.Helper()

	opts := []api_client.Option{api_client.WithHTTPClient(s.API.Client())}
	if user != nil {
		token, err := s.Options.Auth.IssueToken(user)
		if err != nil {
			t.Fatalf("failed issuing token: %v", err)
		}
		opts = append(opts, api_client.WithToken(token.AccessToken))
	}

	return api_client.NewClient(api_client.EndpointContext{
		Address: s.API.URL,
		Kind:    "http",
	}, opts...)
}

func (s *TestServer) DebugSchema(ctx context.Context, t *testing.T) {
	t.Helper()

	tempFile, err := os.CreateTemp("", "schema.sql")
	if err != nil {
		t.Fatalf("failed creating schema file: %v", err)
	}
	defer tempFile.Close()

	err = s.Options.DB.Schema.WriteTo(ctx, tempFile, schema.WithIndent(" "))
	if err != nil {
		t.Fatalf("failed writing schema: %v", err)
	}
	t.Logf("schema written to %s", tempFile.Name())
}

func ignoreMetadata() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(v1.Agent{}, "ID", "CreatedAt", "UpdatedAt", "DeletedAt"),
		cmpopts.IgnoreFields(v1.Subagent{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(v1.Tool{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(v1.Template{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(v1.User{}, "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(v1.Execution{}, "ID", "CreatedAt", "StartedAt", "CompletedAt"),
		cmpopts.IgnoreFields(v1.ExecutionEvent{}, "CreatedAt"),
		cmpopts.EquateEmpty(),
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	}
}

func TestHealth(t *testing.T) {
	server := NewTestServer(t, DefaultTestHandlerOptions(t))
	server.Start(context.Background())
	defer server.Close()

	health, err := server.Client(t, nil).Health().Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if diff := cmp.Diff(&v1.Health{Status: "ok", Version: "test"}, health); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}

	resp, err := server.API.Client().Get(server.API.URL + "/health/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d", resp.StatusCode)
	}
}

func TestReadyReportsUnavailableDatabase(t *testing.T) {
	opts := DefaultTestHandlerOptions(t)
	server := NewTestServer(t, opts)
	server.Start(context.Background())
	defer server.Close()

	opts.DB.Close()

	resp, err := server.API.Client().Get(server.API.URL + "/health/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", resp.StatusCode)
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	server := NewTestServer(t, DefaultTestHandlerOptions(t))
	server.Start(context.Background())
	defer server.Close()

	resp, err := server.API.Client().Get(server.API.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id")
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}

	req, _ := http.NewRequest(http.MethodGet, server.API.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	resp, err = server.API.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "caller-id" {
		t.Errorf("request id = %q, want the caller's", got)
	}
}

func TestCORS(t *testing.T) {
	opts := DefaultTestHandlerOptions(t)
	opts.CORSOrigins = []string{"https://app.example.com"}
	server := NewTestServer(t, opts)
	server.Start(context.Background())
	defer server.Close()

	preflight, _ := http.NewRequest(http.MethodOptions, server.API.URL+"/api/v1/agents", nil)
	preflight.Header.Set("Origin", "https://app.example.com")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := server.API.Client().Do(preflight)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	other, _ := http.NewRequest(http.MethodGet, server.API.URL+"/health", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	resp, err = server.API.Client().Do(other)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin must not be allowed, got %q", got)
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	opts := DefaultTestHandlerOptions(t)
	opts.Metrics.Enabled = false
	server := NewTestServer(t, opts)
	server.Start(context.Background())
	defer server.Close()

	resp, err := server.API.Client().Get(server.API.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	opts := DefaultTestHandlerOptions(t)
	opts.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2, ClientTTL: time.Minute}
	server := NewTestServer(t, opts)
	server.Start(context.Background())
	defer server.Close()

	var codes []int
	for range 3 {
		resp, err := server.API.Client().Get(server.API.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("status codes mismatch (-want +got):\n%s", diff)
	}
}

func TestRecovererHandlesPanics(t *testing.T) {
	handler := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), recoverer(slog.New(slog.NewTextHandler(io.Discard, nil))))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"detail\":\"Internal Server Error\"}\n" {
		t.Errorf("body = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := NewTestServer(t, DefaultTestHandlerOptions(t))
	server.Start(context.Background())
	defer server.Close()

	if _, err := server.Client(t, nil).Health().Health(context.Background()); err != nil {
		t.Fatal(err)
	}

	resp, err := server.API.Client().Get(server.API.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if want := `http_requests_total{code="200",method="GET",route="/health"} 1`; !strings.Contains(string(body), want) {
		t.Errorf("metrics output misses %q", want)
	}
}
