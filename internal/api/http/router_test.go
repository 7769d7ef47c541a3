package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/user-auth-service/internal/api/http/handlers"
	"github.com/spec-kit/user-auth-service/internal/auth"
	"github.com/spec-kit/user-auth-service/internal/config"
	"github.com/spec-kit/user-auth-service/internal/events"
	"github.com/spec-kit/user-auth-service/internal/observability"
	"github.com/spec-kit/user-auth-service/internal/repository"
	"github.com/spec-kit/user-auth-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}

	userRepo := repository.NewInMemoryUserRepository()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: events.NewInMemoryDispatcher(),
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) (*nethttp.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	// The app is built with no Postgres or Redis at all: liveness must not care.
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/health", nil, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "I am ok", string(body))
}

func TestReadinessReportsMissingDependencies(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Equal(t, "DEPENDENCY_UNAVAILABLE", parsed["code"])
}

func TestRegisterCreatesUser(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/register", fiber.Map{
		"name":     "Joana",
		"email":    "joana@example.com",
		"password": "secret123",
		"role":     "ANALISTA",
	}, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Equal(t, "joana@example.com", parsed["email"])
	require.EqualValues(t, 1, parsed["id"])
	require.NotContains(t, parsed, "password")
	require.NotContains(t, parsed, "password_hash")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	tests := []struct {
		name    string
		payload fiber.Map
	}{
		{"missing name", fiber.Map{"email": "a@b.com", "password": "x", "role": "ANALISTA"}},
		{"missing email", fiber.Map{"name": "A", "password": "x", "role": "ANALISTA"}},
		{"missing password", fiber.Map{"name": "A", "email": "a@b.com", "role": "ANALISTA"}},
		{"invalid role", fiber.Map{"name": "A", "email": "a@b.com", "password": "x", "role": "SUPERADMIN"}},
		{"missing role", fiber.Map{"name": "A", "email": "a@b.com", "password": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/register", tt.payload, nil)
			require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

			var parsed map[string]any
			require.NoError(t, json.Unmarshal(body, &parsed))
			require.Equal(t, "VALIDATION_FAILED", parsed["code"])
		})
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	payload := fiber.Map{
		"name":     "Joana",
		"email":    "joana@example.com",
		"password": "secret123",
		"role":     "GESTAO",
	}

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/auth/register", payload, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/register", payload, nil)
	require.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Equal(t, "DUPLICATE_EMAIL", parsed["code"])
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/auth/register", fiber.Map{
		"name":     "Joana",
		"email":    "joana@example.com",
		"password": "secret123",
		"role":     "COMERCIAL",
	}, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/login", fiber.Map{
		"email":    "joana@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.NotEmpty(t, parsed["token"])
}

func TestLoginFailuresShareOneResponse(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/auth/register", fiber.Map{
		"name":     "Joana",
		"email":    "joana@example.com",
		"password": "secret123",
		"role":     "ANALISTA",
	}, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	wrongResp, wrongBody := doJSON(t, app, nethttp.MethodPost, "/auth/login", fiber.Map{
		"email":    "joana@example.com",
		"password": "wrong",
	}, nil)
	unknownResp, unknownBody := doJSON(t, app, nethttp.MethodPost, "/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "secret123",
	}, nil)

	require.Equal(t, nethttp.StatusUnauthorized, wrongResp.StatusCode)
	require.Equal(t, nethttp.StatusUnauthorized, unknownResp.StatusCode)
	require.JSONEq(t, string(wrongBody), string(unknownBody))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(wrongBody, &parsed))
	require.Equal(t, "invalid credentials", parsed["error"])
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/auth/register", fiber.Map{
		"name":     "Joana",
		"email":    "joana@example.com",
		"password": "secret123",
		"role":     "GESTAO",
	}, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/login", fiber.Map{
		"email":    "joana@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var login map[string]string
	require.NoError(t, json.Unmarshal(body, &login))

	resp, body = doJSON(t, app, nethttp.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + login["token"],
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var me map[string]any
	require.NoError(t, json.Unmarshal(body, &me))
	require.Equal(t, "joana@example.com", me["email"])
	require.Equal(t, "Joana", me["name"])
	require.Equal(t, "GESTAO", me["role"])
	require.NotContains(t, me, "password_hash")
}

func TestMeRejectsBadTokens(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodGet, "/auth/me", nil, nil)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Bearer not.a.jwt",
	})
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Basic abc123",
	})
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}
