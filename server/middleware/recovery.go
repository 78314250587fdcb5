package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the stack
// and answers with a PROVIDER_PANIC error body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				log.Error("panic recovered", map[string]interface{}{
					logger.FieldError:     fmt.Sprintf("%v", v),
					logger.FieldRequestID: c.GetString(RequestIDKey),
					"stack":               string(debug.Stack()),
					"path":                c.Request.URL.Path,
					"method":              c.Request.Method,
				})
				appErr := apperrors.Panic(c.Request.Method+" "+c.FullPath(), v)
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
