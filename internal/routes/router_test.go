package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"job-board/internal/config"
	"job-board/internal/database"
	"job-board/internal/domain/notification"
	"job-board/internal/logger"
	"job-board/internal/metrics"
	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type capturingNotifier struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (n *capturingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *capturingNotifier) last(t *testing.T, to, template string) notification.Message {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.messages) - 1; i >= 0; i-- {
		if n.messages[i].To == to && n.messages[i].Template == template {
			return n.messages[i]
		}
	}
	t.Fatalf("no %s message sent to %s", template, to)
	return notification.Message{}
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testServer struct {
	router   *gin.Engine
	notifier *capturingNotifier
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T, opts ...func(*Dependencies)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Set(zaptest.NewLogger(t))

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test", MaxBodyBytes: 1 << 20},
		JWT: config.JWTConfig{
			AccessExpiryHours:       72,
			RefreshExpiryHours:      168,
			ActivationExpiryMinutes: 60,
		},
		Auth: config.AuthConfig{
			VerifyCodeTTLMinutes: 60,
			ResetTokenTTLMinutes: 60,
			ResetURL:             "http://localhost:3000/reset-password",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         600,
		},
	}

	tokens, err := utils.NewTokenIssuer(map[utils.TokenPurpose]string{
		utils.PurposeActivation: "activation-secret",
		utils.PurposeAccess:     "access-secret",
		utils.PurposeRefresh:    "refresh-secret",
	})
	require.NoError(t, err)

	notifier := &capturingNotifier{}
	m := metrics.New()

	deps := &Dependencies{
		Store:    database.NewMemoryStore(),
		Tokens:   tokens,
		Hasher:   utils.NewBcryptHasher(bcrypt.MinCost),
		Notifier: notifier,
		Metrics:  m,
	}
	for _, opt := range opts {
		opt(deps)
	}
	router := SetupRoutes(cfg, deps)

	return &testServer{router: router, notifier: notifier, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(path, "/api/") && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// signUp registers, activates and logs in, returning the session cookies.
func (s *testServer) signUp(t *testing.T, username, email, role string) (access, refresh *http.Cookie, id string) {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	activation := cookieByName(rec, "activation_token")
	require.NotNil(t, activation)
	assert.True(t, activation.HttpOnly)

	code := s.notifier.last(t, email, notification.TemplateActivation).Data["ActivationCode"]
	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/activate", map[string]any{"activation_code": code}, activation)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	var profile map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	access = cookieByName(rec, "accessToken")
	refresh = cookieByName(rec, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh, profile["id"]
}

func TestRegisterActivateLogin(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret123",
		"role":     "applicant",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Verification code send Successfully", env.Message)
	activation := cookieByName(rec, "activation_token")
	require.NotNil(t, activation)

	code := s.notifier.last(t, "a@x.com", notification.TemplateActivation).Data["ActivationCode"]
	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/activate", map[string]any{"activation_code": code}, activation)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Len(t, profile, 3)
	assert.NotEmpty(t, profile["id"])
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, "a@x.com", profile["email"])

	access := cookieByName(rec, "accessToken")
	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, int((72 * time.Hour).Seconds()), access.MaxAge)
	assert.Equal(t, int((168 * time.Hour).Seconds()), refresh.MaxAge)

	rec, env = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"is_verified":true`)
}

func TestAuthErrorStatuses(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", env.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "bob", "email": "b@x.com", "password": "secret123", "role": "applicant",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "b@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "b@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "nobody@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/activate", map[string]string{"activation_code": "123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/activate", map[string]string{"activation_code": "123456"},
		&http.Cookie{Name: "activation_token", Value: "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.signUp(t, "carol", "c@x.com", "applicant")
	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "carol", "email": "other@x.com", "password": "secret123", "role": "applicant",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "c@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User logged Out", env.Message)

	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookieByName(rec, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)
	access, refresh, _ := s.signUp(t, "dave", "d@x.com", "applicant")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/refresh-token", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieByName(rec, "accessToken"))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/refresh-token", map[string]string{"refresh_token": refresh.Value})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/refresh-token", map[string]string{"refresh_token": access.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotAndResetPassword(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "erin", "e@x.com", "applicant")

	rec, unknown := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "ghost@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, known := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "e@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, unknown.Message, known.Message)

	link := s.notifier.last(t, "e@x.com", notification.TemplateForgotPassword).Data["ResetLink"].(string)
	require.True(t, strings.HasPrefix(link, "http://localhost:3000/reset-password/"))
	token := strings.TrimPrefix(link, "http://localhost:3000/reset-password/")

	rec, body := s.do(t, http.MethodPost, "/api/v1/auth/reset-password/not-a-real-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "reset link is invalid or has expired", body.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/reset-password/"+token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/reset-password/"+token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/reset-password/"+token, map[string]string{"password": "newsecret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/reset-password/"+token, map[string]string{"password": "again"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "e@x.com", "password": "newsecret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t)
	recruiter, _, recruiterID := s.signUp(t, "rita", "r@x.com", "recruiter")
	rival, _, _ := s.signUp(t, "rob", "rob@x.com", "recruiter")
	applicant, _, _ := s.signUp(t, "amy", "amy@x.com", "applicant")

	payload := map[string]any{
		"title":                "Backend Engineer",
		"description":          "Build APIs in Go",
		"company_name":         "Acme",
		"location":             "Berlin",
		"employment_type":      "full-time",
		"job_type":             "engineering",
		"skills":               []string{"go", "postgres"},
		"application_deadline": time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"contact_email":        "jobs@acme.io",
	}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/jobs", payload, applicant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/jobs", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/jobs", map[string]any{"title": "Incomplete"}, recruiter)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please fill in all the required fields", env.Message)

	rec, env = s.do(t, http.MethodPost, "/api/v1/jobs", payload, recruiter)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	jobID := created["id"].(string)
	assert.Equal(t, recruiterID, created["posted_by"])
	assert.Equal(t, true, created["is_active"])
	assert.Equal(t, float64(1), created["number_of_openings"])

	rec, env = s.do(t, http.MethodGet, "/api/v1/jobs?keyword=backend&location=ber", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, float64(1), list["total"])
	assert.Equal(t, float64(1), list["total_pages"])

	rec, _ = s.do(t, http.MethodGet, "/api/v1/jobs?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/jobs/user/"+recruiterID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, float64(1), list["total"])

	rec, _ = s.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/jobs/"+jobID, map[string]any{"title": "Hijacked"}, rival)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPut, "/api/v1/jobs/"+jobID, map[string]any{"title": "Senior Backend Engineer"}, recruiter)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"title":"Senior Backend Engineer"`)
	assert.Contains(t, string(env.Data), `"company_name":"Acme"`)

	rec, env = s.do(t, http.MethodPatch, "/api/v1/jobs/"+jobID+"/status", nil, recruiter)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"is_active":false`)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID, nil, rival)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID, nil, recruiter)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/jobs/"+jobID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"driver":"memory"`)

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `job_board_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

type brokerStatus struct {
	connected atomic.Bool
}

func (b *brokerStatus) IsConnected() bool { return b.connected.Load() }

func TestHealthReportsBroker(t *testing.T) {
	broker := &brokerStatus{}
	broker.connected.Store(true)
	s := newTestServer(t, func(d *Dependencies) { d.Broker = broker })

	rec, _ := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mqtt":"connected"`)

	broker.connected.Store(false)
	rec, _ = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "MQTT broker disconnected")
}
