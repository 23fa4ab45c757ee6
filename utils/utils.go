package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP extracts the real client address from proxy headers, in order
// of reliability, falling back to the socket address.
func ClientIP(c *fiber.Ctx) string {
	// X-Forwarded-For can contain multiple IPs; the first one is the client
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	return c.IP()
}

// UserAgent returns the request's user agent string.
func UserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
