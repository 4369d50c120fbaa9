package server

import (
	"context"
	"io"
	"net/http"
	"testing"

	"socialapi/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	_, app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body["message"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestHealthChecks(t *testing.T) {
	s, app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/health/live", nil, ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, jsonRequest(t, http.MethodGet, "/health/ready", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, "unavailable", body.Checks["redis"])

	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer s.redis.Close()

	resp = doRequest(t, app, jsonRequest(t, http.MethodGet, "/health/ready", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Checks["redis"])

	mr.Close()
	resp = doRequest(t, app, jsonRequest(t, http.MethodGet, "/health/ready", nil, ""))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	_, app := newTestApp(t)
	register(t, app, "metrics@x.com", "pw")
	login(t, app, "metrics@x.com", "pw")
	bad := doRequest(t, app, loginRequest("metrics@x.com", "wrong"))
	require.Equal(t, http.StatusForbidden, bad.StatusCode)

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/metrics", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	// Domain counters and the HTTP collectors are served from one registry.
	assert.Contains(t, body, "socialapi_tokens_issued_total")
	assert.Contains(t, body, `socialapi_auth_failures_total{reason="invalid_credentials"}`)
	assert.Contains(t, body, "http_requests_total")
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	_, app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/nope", nil, ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody models.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.NotEmpty(t, errBody.Detail)
	assert.Equal(t, models.CodeNotFound, errBody.Code)
}

func TestShutdownReleasesResources(t *testing.T) {
	s, _ := newTestApp(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, s.Shutdown(context.Background()))

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
	assert.Error(t, s.redis.Ping(context.Background()).Err())
}

func TestNewServerWithDeps_RejectsBadTokenConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.JWTAlgorithm = "RS256"

	_, err := NewServerWithDeps(cfg, newTestDB(t), nil)
	assert.Error(t, err)
}
