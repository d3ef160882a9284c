package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/notify"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *capturingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *capturingMailer) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.Kind)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:          "thisisasecretkeythatis32charslong!!",
			TokenLifetimeHours: 1,
			BcryptCost:         4,
		},
	}
}

type testServer struct {
	handler http.Handler
	users   *mocks.MockUserStore
	tasks   *mocks.MockTaskStore
	mailer  *capturingMailer
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	ts := &testServer{
		users:  mocks.NewMockUserStore(),
		tasks:  mocks.NewMockTaskStore(),
		mailer: &capturingMailer{},
	}
	app, err := buildApplication(cfg, log, dependencies{
		users:  ts.users,
		tasks:  ts.tasks,
		tx:     &mocks.MockTxManager{},
		mailer: ts.mailer,
		mail:   []notify.HandlerOption{notify.WithDispatcher(func(f func()) { f() })},
	})
	require.NoError(t, err)
	ts.handler = app.setupRouter()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type authBody struct {
	User struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
	Token string `json:"token"`
}

func (ts *testServer) signup(t *testing.T, name, email string) authBody {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/users", "", map[string]any{
		"name": name, "email": email, "password": "ilovepepper",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	ts.do(t, http.MethodGet, "/tasks", "", nil)

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/tasks",status="401"}`)
	assert.Contains(t, rec.Body.String(), "taskmanager_auth_events_total")
}

func TestResponsesCarryTraceID(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(t, http.MethodGet, "/users/me", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Please authenticate.", body.Error)
	assert.NotEmpty(t, body.TraceID)
	assert.Equal(t, body.TraceID, rec.Header().Get("X-Trace-ID"))
}

func TestAccountLifecycle(t *testing.T) {
	ts := newTestServer(t, testConfig())

	tony := ts.signup(t, "Tony Stark", "tony@starkindustries.us")
	thor := ts.signup(t, "Thor", "thor@asgard.com")

	stored, err := ts.users.GetByID(context.Background(), tony.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "ilovepepper", stored.HashedPassword, "passwords are hashed at rest")

	for _, d := range []string{"Build suit", "Call Pepper"} {
		rec := ts.do(t, http.MethodPost, "/tasks", tony.Token, map[string]any{"description": d})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := ts.do(t, http.MethodPost, "/tasks", thor.Token, map[string]any{"description": "Find hammer"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "tony@starkindustries.us", "password": "ilovepepper",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var second authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/users/logout", tony.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/tasks", tony.Token, nil).Code)

	rec = ts.do(t, http.MethodGet, "/tasks", second.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/users/me", second.Token, nil).Code)
	assert.Zero(t, ts.tasks.CountForOwner(tony.User.ID))
	assert.Equal(t, 1, ts.tasks.CountForOwner(thor.User.ID))

	assert.Eventually(t, func() bool {
		return len(ts.mailer.kinds()) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{notify.KindWelcome, notify.KindWelcome, notify.KindFarewell}, ts.mailer.kinds())
}

func TestMaintenanceMode(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaintenanceMode = true
	ts := newTestServer(t, cfg)

	rec := ts.do(t, http.MethodPost, "/users", "", map[string]any{
		"name": "Tony Stark", "email": "tony@starkindustries.us", "password": "ilovepepper",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, ts.users.Count())

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/users/me", "", nil).Code,
		"reads still reach authentication")
}

func TestForgedTokenRejected(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.signup(t, "Tony Stark", "tony@starkindustries.us")

	other := testConfig()
	other.Auth.JWTSecret = "adifferentsecretthatisalso32chars!!"
	forger := newTestServer(t, other)
	forged := forger.signup(t, "Tony Stark", "tony@starkindustries.us")

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/users/me", forged.Token, nil).Code)
}

func TestStartHTTPServerShutsDownOnCancel(t *testing.T) {
	ts := newTestServer(t, testConfig())
	log, _ := logger.GetTestLogger(t)
	app := &application{config: testConfig(), logger: log}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, ts.handler) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
