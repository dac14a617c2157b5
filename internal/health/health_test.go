package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, handler *Handler) (int, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w.Code, response
}

func TestHealthHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))

	code, response := serveHealth(t, handler)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "v1.0.0", response.Version)
	assert.Len(t, response.Checks, 1)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func() error {
		return errors.New("data dir unavailable")
	}))

	code, response := serveHealth(t, handler)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Equal(t, "data dir unavailable", response.Checks["storage"].Message)
}

func TestHealthHandler_DegradedKeepsOK(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))
	handler.RegisterChecker("kafka", NewPingChecker("kafka", time.Second, false, func(context.Context) error {
		return errors.New("no brokers")
	}))

	code, response := serveHealth(t, handler)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, response.Status)
	assert.Equal(t, StatusDegraded, response.Checks["kafka"].Status)
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	cases := []struct {
		name     string
		checkErr error
		critical bool
		draining bool
		wantCode int
		wantBody string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantBody: "ready"},
		{name: "critical failure", checkErr: errors.New("down"), critical: true, wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
		{name: "optional failure", checkErr: errors.New("down"), wantCode: http.StatusOK, wantBody: "ready"},
		{name: "draining", draining: true, wantCode: http.StatusServiceUnavailable, wantBody: "shutting down"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0")
			handler.RegisterChecker("component", NewPingChecker("component", time.Second, tc.critical, func(context.Context) error {
				return tc.checkErr
			}))
			handler.SetDraining(tc.draining)

			w := httptest.NewRecorder()
			handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestSimpleChecker_Error(t *testing.T) {
	check := NewSimpleChecker("test", func() error { return errors.New("test error") }).Check()

	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "test error", check.Message)
}

func TestPingChecker_AppliesTimeout(t *testing.T) {
	checker := NewPingChecker("slow", 20*time.Millisecond, true, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	check := checker.Check()

	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Contains(t, check.Message, "deadline exceeded")
}
