package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const actingUserKey = "acting_user_id"

// ActingUser records the optional X-User-ID header.
// It only feeds request logs and per-user throttling; it grants nothing.
func ActingUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-User-ID"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
				c.Set(actingUserKey, uint(id))
			}
		}
		c.Next()
	}
}

// GetActingUserID returns the id recorded by ActingUser, or 0
func GetActingUserID(c *gin.Context) uint {
	if v, ok := c.Get(actingUserKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
