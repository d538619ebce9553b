package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agroapi/internal/auth"
	"agroapi/internal/config"
	"agroapi/internal/http/middleware"
	"agroapi/internal/service"
	serviceMocks "agroapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClaims injects verified claims the way RequireAuth would, so handlers
// that read the caller identity can be tested without a real token.
func withClaims(claims *auth.Claims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ClaimsLocalKey, claims)
		return c.Next()
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db, config.HealthConfig{TimeoutSec: 1}, "1.0.0"))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, "1.0.0", body["version"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "disconnected", body["database"])
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoot(t *testing.T) {
	cfg := &config.AppConfig{
		HTTP: config.HTTPConfig{FrontendURL: "https://app.example.com"},
	}
	app := fiber.New()
	app.Get("/", Root(cfg, "2.1.0"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "agroapi", body["service"])
	assert.Equal(t, "2.1.0", body["version"])
	assert.Equal(t, "https://app.example.com", body["frontend_url"])
	assert.Equal(t, "/docs", body["documentation"])
	assert.Equal(t, true, body["mobile_compatible"])
}

func TestNetworkTest(t *testing.T) {
	app := fiber.New()
	app.Get("/network-test", NetworkTest())
	app.Post("/network-test", NetworkTest())

	t.Run("reports mobile user agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/network-test", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 13) Mobile")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "reachable", body["status"])

		network, ok := body["network"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, network["mobile_user_agent"])
		assert.Equal(t, "203.0.113.7", network["forwarded_for"])
	})

	t.Run("echoes posted payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/network-test", strings.NewReader(`{"ping":"pong"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		received, ok := body["received_data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "pong", received["ping"])
	})

	t.Run("echoes non-JSON body as string", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/network-test", strings.NewReader("plain text probe"))
		req.Header.Set("Content-Type", "text/plain")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "plain text probe", body["received_data"])
	})
}

func TestEnvInfo(t *testing.T) {
	t.Setenv("PORT", "9090")

	app := fiber.New()
	app.Get("/api/env-info", EnvInfo())

	req := httptest.NewRequest(http.MethodGet, "/api/env-info", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Variables map[string]bool `json:"variables"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Len(t, body.Variables, len(envProbeKeys))
	assert.True(t, body.Variables["PORT"])

	// Values must never appear, only presence booleans.
	for k := range body.Variables {
		assert.Contains(t, envProbeKeys, k)
	}
}

func TestRouting(t *testing.T) {
	tokens, err := auth.NewTokenProvider(config.AuthConfig{JWTSecret: "test-secret", TokenTTLMin: 60})
	require.NoError(t, err)

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	adminMock := new(serviceMocks.MockAdminService)
	adminMock.On("Roles").Return([]service.RoleInfo{{Role: auth.RoleAdmin, Prefix: "ADM-", Manager: true}})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{
		Cfg:           &config.AppConfig{},
		DB:            db,
		Tokens:        tokens,
		Auth:          new(serviceMocks.MockAuthService),
		Workers:       new(serviceMocks.MockWorkerService),
		Admin:         adminMock,
		Attendance:    new(serviceMocks.MockAttendanceService),
		JobTypes:      new(serviceMocks.MockJobTypeService),
		Provisions:    new(serviceMocks.MockProvisionService),
		GPS:           new(serviceMocks.MockGPSService),
		Faces:         new(serviceMocks.MockFaceService),
		Onboarding:    new(serviceMocks.MockOnboardingService),
		Notifications: new(serviceMocks.MockNotificationService),
		Lots:          new(serviceMocks.MockLotService),
	})

	bearer := func(staffID, role string) string {
		token, _, issueErr := tokens.Issue(staffID, role, false)
		require.NoError(t, issueErr)
		return "Bearer " + token
	}

	t.Run("health is public", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown route lists endpoints", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.NotEmpty(t, res.Endpoints)
		assert.Contains(t, res.Hint, "/docs")
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
	})

	t.Run("admin route rejects driver", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/roles", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer("DRV-MANI001", auth.RoleDriver))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FORBIDDEN", res.Error.Code)
	})

	t.Run("admin route admits admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/roles", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer("ADM-RAJ001", auth.RoleAdmin))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		adminMock.AssertExpectations(t)
	})
}
