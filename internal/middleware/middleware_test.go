package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"job-board/internal/logger"
	"job-board/internal/metrics"
	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newIssuer(t *testing.T) *utils.TokenIssuer {
	t.Helper()
	issuer, err := utils.NewTokenIssuer(map[utils.TokenPurpose]string{
		utils.PurposeAccess:  "access-secret",
		utils.PurposeRefresh: "refresh-secret",
	})
	require.NoError(t, err)
	return issuer
}

func protectedRouter(verifier TokenVerifier, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(verifier)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(ContextUserID).(uuid.UUID).String(),
			"role":    c.GetString(ContextRole),
		})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	issuer := newIssuer(t)
	userID := uuid.New()
	subject := utils.Subject{UserID: userID, Email: "a@x.com", Role: utils.RoleRecruiter}

	access, _, err := issuer.Issue(subject, utils.PurposeAccess, time.Hour)
	require.NoError(t, err)
	refresh, _, err := issuer.Issue(subject, utils.PurposeRefresh, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(issuer)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{
			name:   "no credentials",
			setup:  func(r *http.Request) {},
			status: http.StatusUnauthorized,
		},
		{
			name:   "bearer header",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+access) },
			status: http.StatusOK,
		},
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access}) },
			status: http.StatusOK,
		},
		{
			name:   "malformed header",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Token "+access) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "refresh token is not an access token",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) },
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), userID.String())
			}
		})
	}
}

func TestRecruiterOnly(t *testing.T) {
	issuer := newIssuer(t)
	router := protectedRouter(issuer, RecruiterOnly())

	for role, status := range map[string]int{
		utils.RoleRecruiter: http.StatusOK,
		utils.RoleApplicant: http.StatusForbidden,
	} {
		token, _, err := issuer.Issue(utils.Subject{UserID: uuid.New(), Role: role}, utils.PurposeAccess, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, status, rec.Code, role)
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "bearer abc", "Basic abc"} {
		_, ok := BearerToken(header)
		assert.False(t, ok, header)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := metrics.New()
	r := gin.New()
	r.Use(RateLimitMiddleware(ctx, 0.001, 2, m))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal))
}

func TestRateLimiter_SweepStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rl := newRateLimiter(ctx, 1000, 1, 5*time.Millisecond)

	rl.getLimiter("10.0.0.1").Allow()
	rl.getLimiter("10.0.0.2")
	assert.Eventually(t, func() bool { return rl.size() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-rl.done:
	case <-time.After(time.Second):
		t.Fatal("limiter sweep still running after cancel")
	}
}

func TestRateLimiter_NilContextStartsNoSweep(t *testing.T) {
	rl := NewRateLimiter(nil, 1, 1)

	select {
	case <-rl.done:
	default:
		t.Fatal("sweep started without a context")
	}
	rl.getLimiter("10.0.0.1")
	assert.Equal(t, 1, rl.size())
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(nil, 0, 0, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	req.ContentLength = 64
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequestSizeLimit_CapsUndeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/jobs/:job_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/jobs/:job_id", "204")))
}

func TestSecurityHeaders(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeadersMiddleware(hsts))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Equal(t, hsts, rec.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestRequestIDMiddleware_ReplacesMalformedIDs(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	for _, bad := range []string{"evil\nlevel=error", strings.Repeat("a", 65), "a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
		assert.Equal(t, got, rec.Body.String())
	}
}

func TestLoggingMiddleware_LogsRouteAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	previous := logger.Logger
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(previous) })

	userID := uuid.New()
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggingMiddleware())
	r.GET("/jobs/:job_id", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, utils.RoleRecruiter)
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Request completed with client error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/jobs/:job_id", fields["route"])
	assert.Equal(t, userID.String(), fields["user_id"])
	assert.Equal(t, utils.RoleRecruiter, fields["role"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.EqualValues(t, http.StatusNotFound, fields["status_code"])
}
