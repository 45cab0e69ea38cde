package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets defensive response headers. The server only answers
// with JSON and WebSocket upgrades, so the CSP forbids loading anything.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
