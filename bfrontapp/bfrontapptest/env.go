package bfrontapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bfrontapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [bfrontapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BF_SERVICE_NAME: "test"
//   - BF_READINESS_CHECK_PATH: "/health"
//   - BF_OTEL_EXPORTER: "none"
//   - BF_LOG_LEVEL: "error"
//
// Use the returned [Env] to override individual values:
//
//	bfrontapptest.SetBaseEnv(t, 18085).ErrorHandler("Error").MaxLoop(3)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BF_PORT", strconv.Itoa(port))
	t.Setenv("BF_SERVICE_NAME", "test")
	t.Setenv("BF_READINESS_CHECK_PATH", "/health")
	t.Setenv("BF_OTEL_EXPORTER", "none")
	t.Setenv("BF_LOG_LEVEL", "error")
	return &Env{t: t}
}

// ServiceName overrides BF_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_SERVICE_NAME", name)
	return e
}

// ReadinessCheckPath overrides BF_READINESS_CHECK_PATH.
func (e *Env) ReadinessCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_READINESS_CHECK_PATH", path)
	return e
}

// ErrorHandler sets BF_ERROR_HANDLER.
func (e *Env) ErrorHandler(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_ERROR_HANDLER", name)
	return e
}

// MaxLoop overrides BF_MAX_LOOP.
func (e *Env) MaxLoop(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BF_MAX_LOOP", strconv.Itoa(n))
	return e
}

// RoutesFile sets BF_ROUTES_FILE.
func (e *Env) RoutesFile(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_ROUTES_FILE", path)
	return e
}
