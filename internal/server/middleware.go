package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallerHeader carries the upstream-authenticated caller identity. The
// service trusts whatever authenticated it; it only compares identities.
const CallerHeader = "X-Caller-Id"

const callerContextKey = "caller_id"

func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := strings.TrimSpace(c.GetHeader(CallerHeader))
		if caller != "" {
			c.Set(callerContextKey, caller)
		}
		c.Next()
	}
}

// Caller returns the caller identity, or "" when the request carried none.
func Caller(c *gin.Context) string {
	return c.GetString(callerContextKey)
}

func RequestLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
