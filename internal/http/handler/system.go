package handler

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/config"
	"agroapi/internal/http/middleware"
)

// Root serves the landing JSON phones hit when someone opens the API URL
// directly in a browser.
//
// @Summary Service status
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Root(cfg *config.AppConfig, version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":           "agroapi",
			"status":            "ok",
			"version":           version,
			"frontend_url":      cfg.HTTP.FrontendURL,
			"documentation":     "/docs",
			"mobile_compatible": true,
			"timestamp":         time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthCheck reports API and database health. The DB ping is bounded by the
// configured timeout so a dead database cannot hang the probe.
//
// @Summary API and database health
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func HealthCheck(db *sql.DB, cfg config.HealthConfig, version string) fiber.Handler {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		health := "healthy"
		database := "connected"
		status := fiber.StatusOK
		if err := db.PingContext(ctx); err != nil {
			health = "unhealthy"
			database = "disconnected"
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":    health,
			"database":  database,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// LivenessProbe is the bare liveness endpoint for platform health checks.
//
// @Summary Liveness probe
// @Tags system
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// NetworkTest answers connectivity diagnostics from phones on carrier data.
// The GET reports what the server sees of the client; the POST echoes the
// payload back so apps can verify both directions.
//
// @Summary Connectivity diagnostic
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /network-test [get]
// @Router /network-test [post]
func NetworkTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := fiber.Map{
			"status":    "reachable",
			"message":   "network test successful",
			"client":    middleware.ClientClassFrom(c),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"network": fiber.Map{
				"remote_ip":         c.IP(),
				"protocol":          c.Protocol(),
				"forwarded_for":     c.Get(fiber.HeaderXForwardedFor),
				"forwarded_proto":   c.Get("X-Forwarded-Proto"),
				"user_agent":        c.Get(fiber.HeaderUserAgent),
				"mobile_user_agent": middleware.IsMobileUA(c.Get(fiber.HeaderUserAgent)),
			},
		}

		if c.Method() == fiber.MethodPost {
			var payload any
			if len(c.Body()) > 0 {
				if err := c.BodyParser(&payload); err != nil {
					payload = string(c.Body())
				}
			}
			info["received_data"] = payload
		}
		return c.JSON(info)
	}
}

// CORSTest reports the effective cross-origin policy so a failing browser
// can be debugged without reading server config.
//
// @Summary Effective CORS policy
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/cors-test [get]
func CORSTest(cfg config.CORSConfig, frontendURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origins := cfg.AllowedOrigins
		if frontendURL != "" {
			origins = append([]string{frontendURL}, origins...)
		}
		return c.JSON(fiber.Map{
			"message":           "CORS is working",
			"allow_all_origins": cfg.AllowAllOrigins,
			"allowed_origins":   origins,
			"allow_credentials": cfg.AllowCredentials,
			"max_age_sec":       cfg.MaxAgeSec,
			"request_origin":    c.Get(fiber.HeaderOrigin),
			"client":            middleware.ClientClassFrom(c),
		})
	}
}

// envProbeKeys are the variables the service reads; only presence is
// reported, never values.
var envProbeKeys = []string{
	"PORT",
	"HOST",
	"HTTP_DUAL_STACK",
	"FRONTEND_URL",
	"CORS_ALLOWED_ORIGINS",
	"CORS_ALLOW_ALL_ORIGINS",
	"DATABASE_URL",
	"DB_HOST",
	"DB_NAME",
	"JWT_SECRET",
	"MINIO_ENDPOINT",
	"MINIO_BUCKET",
	"REDIS_ADDR",
	"NOTIFY_API_URL",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"APP_TZ",
}

// EnvInfo reports which configuration variables are set, for diagnosing a
// misdeployed environment. Values are redacted to set/unset.
//
// @Summary Environment presence report
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/env-info [get]
func EnvInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vars := make(map[string]bool, len(envProbeKeys))
		for _, k := range envProbeKeys {
			vars[k] = os.Getenv(k) != ""
		}
		return c.JSON(fiber.Map{
			"message":   "environment presence report; values are never exposed",
			"variables": vars,
		})
	}
}
