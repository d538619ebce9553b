package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientClassLocalKey is the locals key holding the detected client class,
// either "mobile" or "desktop".
const ClientClassLocalKey = "client_class"

var mobileUAMarkers = []string{"android", "iphone", "ipad", "ipod", "opera mini", "mobile"}

// IsMobileUA reports whether a User-Agent string looks like a phone browser.
func IsMobileUA(ua string) bool {
	ua = strings.ToLower(ua)
	for _, marker := range mobileUAMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// ClientClassFrom returns the client class stored by MobileCompat, defaulting
// to "desktop" when the middleware is disabled.
func ClientClassFrom(c *fiber.Ctx) string {
	if class, ok := c.Locals(ClientClassLocalKey).(string); ok && class != "" {
		return class
	}
	return "desktop"
}

// MobileCompat classifies the caller from its User-Agent and disables caching
// on API responses. Carrier proxies aggressively cache JSON bodies, which
// serves phones stale login and attendance state.
func MobileCompat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := "desktop"
		if IsMobileUA(c.Get(fiber.HeaderUserAgent)) {
			class = "mobile"
		}
		c.Locals(ClientClassLocalKey, class)

		err := c.Next()

		if strings.HasPrefix(c.Path(), "/api") {
			c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
			c.Set("Pragma", "no-cache")
			c.Set("Expires", "0")
		}
		if class == "mobile" {
			c.Set("X-Mobile-Optimized", "true")
		}
		return err
	}
}
