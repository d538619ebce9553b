package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"agroapi/internal/config"
)

// Headers phone browsers and carrier proxies are known to send. Wildcards do
// not cover credentialed requests, so the list is explicit.
const corsAllowHeaders = "Accept, Accept-Language, Content-Language, Content-Type, Authorization, " +
	"X-Requested-With, X-Request-ID, User-Agent, Referer, Origin, DNT, Cache-Control, " +
	"Keep-Alive, If-Modified-Since, X-Forwarded-For, X-Forwarded-Proto, X-Real-IP"

const corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS, PATCH, HEAD"

// CORS builds the cross-origin policy from configuration.
//
// With AllowAllOrigins the middleware echoes the caller's origin instead of
// sending a wildcard: "Access-Control-Allow-Origin: *" is rejected by browsers
// when the request carries credentials, which is exactly what mobile clients
// on carrier data do. Otherwise only the configured origins are allowed.
func CORS(cfg config.CORSConfig, frontendURL string) fiber.Handler {
	c := cors.Config{
		AllowMethods:     corsAllowMethods,
		AllowHeaders:     corsAllowHeaders,
		AllowCredentials: cfg.AllowCredentials,
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		MaxAge:           cfg.MaxAgeSec,
	}

	if cfg.AllowAllOrigins {
		c.AllowOriginsFunc = func(origin string) bool { return origin != "" }
		return cors.New(c)
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins)+1)
	if frontendURL != "" {
		origins = append(origins, frontendURL)
	}
	for _, o := range cfg.AllowedOrigins {
		if o != "" && o != frontendURL {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		// Nothing configured: stay usable for local development.
		origins = append(origins, "http://localhost:3000", "http://localhost:5173")
	}
	c.AllowOrigins = strings.Join(origins, ", ")
	return cors.New(c)
}
