package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/foundation/logger"
)

// quietPaths are probed often and logged only on failure.
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// RequestLogger returns a Gin middleware logging method, path, status and
// duration of every request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < 500 {
			return
		}

		latency := time.Since(start)
		fields := map[string]interface{}{
			"method":              c.Request.Method,
			"path":                c.Request.URL.Path,
			logger.FieldStatus:    status,
			logger.FieldDuration:  latency.Milliseconds(),
			logger.FieldRequestID: c.GetString(RequestIDKey),
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}
		logByStatus(log, fields, status)
	}
}

// logByStatus logs request fields at a level chosen by HTTP status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
