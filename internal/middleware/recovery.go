package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/tc108/internal/logger"
)

// Recovery turns a panic in a handler into a logged 500 with the standard
// error envelope. gin's own stack dump is discarded; the stack goes into
// the structured entry instead.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		l := GetLogger(c)
		if l == nil {
			l = log.WithRequestID(GetRequestID(c))
		}
		l.Error("Panic recovered", fmt.Errorf("panic: %v", recovered), logger.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"stack":  string(debug.Stack()),
		})

		// internal/errors imports this package, so the envelope is built here.
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":       "INTERNAL_SERVER_ERROR",
				"message":    "An unexpected error occurred",
				"request_id": GetRequestID(c),
			},
		})
	})
}
