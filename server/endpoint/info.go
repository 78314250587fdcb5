package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/foundation/component"
	"github.com/kbukum/foundation/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Describer lists component descriptions.
type Describer func() []component.Description

// Info returns a handler that reports build information and components.
func Info(serviceName string, describe Describer) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease,
			"is_dirty":   v.IsDirty,
			"uptime":     time.Since(startTime).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		}
		if describe != nil {
			body["components"] = describe()
		}
		c.JSON(http.StatusOK, body)
	}
}
