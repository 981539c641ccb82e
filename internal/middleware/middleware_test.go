package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, redisClient *redis.Client) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:   config.Primary{Env: "test"},
			RateLimit: &config.RateLimitConfig{UploadsPerWindow: 2, WindowSeconds: 60},
		},
		Logger: &logger,
		Redis:  redisClient,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "domain not found",
			err:        errs.NotFound("Business not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "forbidden",
			err:        errs.Forbidden("You do not own this business"),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "file too large",
			err:        errs.FileTooLarge(5 << 20),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "FILE_TOO_LARGE",
		},
		{
			name:       "wrapped record update failure",
			err:        errors.Join(errors.New("ctx"), errs.RecordUpdateFailed(errors.New("db down"), true)),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "RECORD_UPDATE_FAILED",
		},
		{
			name:       "http error passes through",
			err:        errs.NewUnauthorizedError("Unauthorized", false),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "echo body limit",
			err:        echo.ErrStatusRequestEntityTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "REQUEST_ENTITY_TOO_LARGE",
		},
		{
			name:       "check violation",
			err:        &pgconn.PgError{Code: "23514", TableName: "businesses", ConstraintName: "businesses_rating_check"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BUSINESS_INVALID",
		},
		{
			name:       "no rows",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown",
			err:        errors.New("secret connection string leaked"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(newTestServer(t, nil))
			e.GET("/boom", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotContains(t, rec.Body.String(), "secret")
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	e := newTestEcho(newTestServer(t, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(newTestServer(t, nil))
	e.GET("/id", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestContextEnhancer_LoggerReachesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(t, nil)
	logger := zerolog.New(&buf)
	s.Logger = &logger

	e := newTestEcho(s)
	e.GET("/ctx/:id", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ctx/1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"path":"/ctx/:id"`)
	assert.Contains(t, buf.String(), "from service")
}

func TestRedisRateLimiterStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()

	now := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	store := NewRedisRateLimiterStore(client, "uploads", 2, time.Minute, &logger)
	store.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		allowed, err := store.Allow("user:a")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := store.Allow("user:a")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.Allow("user:b")
	require.NoError(t, err)
	assert.True(t, allowed, "limits are per identifier")

	now = now.Add(time.Minute)
	allowed, err = store.Allow("user:a")
	require.NoError(t, err)
	assert.True(t, allowed, "a new window resets the count")

	key := "ratelimit:uploads:user:a:" + strconvUnix(now.Truncate(time.Minute))
	assert.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestRedisRateLimiterStore_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()
	store := NewRedisRateLimiterStore(client, "uploads", 1, time.Minute, &logger)

	mr.Close()

	for j := 0; j < 3; j++ {
		allowed, err := store.Allow("user:a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestUploadsRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestServer(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	rl := NewRateLimitMiddleware(s)

	e := newTestEcho(s)
	e.POST("/upload/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserIDKey, "user_1")
			return next(c)
		}
	}, rl.Uploads())

	before := testutil.ToFloat64(rateLimitHits.WithLabelValues("/upload/:id"))

	codes := make([]int, 0, 3)
	for j := 0; j < 3; j++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload/1", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)
		}
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitHits.WithLabelValues("/upload/:id")))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	e := newTestEcho(newTestServer(t, nil))
	e.Use(Metrics())
	e.GET("/items/:id", func(c echo.Context) error { return errs.NotFound("missing") })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestBodyLimitMapsTo413(t *testing.T) {
	e := newTestEcho(newTestServer(t, nil))
	e.POST("/upload", func(c echo.Context) error {
		_, err := c.FormFile("image")
		return err
	}, middleware.BodyLimit("1K"))

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 4096)))
	req.Header.Set(echo.HeaderContentType, "application/octet-stream")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func strconvUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
