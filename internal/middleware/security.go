package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/common"
)

// SecurityHeaders sets the headers of a JSON-only API
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// MaxBodyBytes caps request bodies; oversized JSON fails to bind and yields 400
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

var injectionPatterns = []string{"<script", "javascript:", "onerror=", "onload=", "document.cookie"}

// InputSanitizer rejects query values carrying script injection.
// Message bodies are stored verbatim; escaping them is the client's job.
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		for key, values := range c.Request.URL.Query() {
			for _, v := range values {
				if hasInjection(v) {
					common.ErrorResponse(c, http.StatusBadRequest, "Potentially dangerous input detected in "+key, nil)
					c.Abort()
					return
				}
			}
		}
		c.Next()
	}
}

func hasInjection(v string) bool {
	lower := strings.ToLower(v)
	for _, pattern := range injectionPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
