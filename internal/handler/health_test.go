package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func newTestHealthHandler(checks ...healthCheck) *HealthHandler {
	logger := zerolog.Nop()
	h := NewHealthHandler(&server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	})
	h.checks = checks
	h.timeout = time.Second
	return h
}

func runHealth(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func pingOK(context.Context) error { return nil }

func TestCheckHealth(t *testing.T) {
	code, body := runHealth(t, newTestHealthHandler(
		healthCheck{name: "database", required: true, ping: pingOK},
		healthCheck{name: "redis", ping: pingOK},
	))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestCheckHealth_OptionalFailureStaysHealthy(t *testing.T) {
	code, body := runHealth(t, newTestHealthHandler(
		healthCheck{name: "database", required: true, ping: pingOK},
		healthCheck{name: "redis", ping: func(context.Context) error { return errors.New("refused") }},
	))
	assert.Equal(t, http.StatusOK, code)

	redis := body["checks"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "unhealthy", redis["status"])
}

func TestCheckHealth_RequiredFailure(t *testing.T) {
	code, body := runHealth(t, newTestHealthHandler(
		healthCheck{name: "database", required: true, ping: func(context.Context) error { return errors.New("down") }},
	))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
}
