package middleware

import (
	"errors"
	"net/http"

	"github.com/davicafu/hexatransactions/internal/infra/metrics"
	"github.com/davicafu/hexatransactions/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler es el único punto donde los errores adjuntados con c.Error
// se convierten en respuesta. Los errores que no son HTTPError se
// responden como 500 con un mensaje genérico.
func ErrorHandler(log *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := MsgInternalServerError

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Status
			message = httpErr.Message
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", status),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", fields...)
		} else {
			log.Warn("Request rejected", fields...)
		}

		if m != nil {
			m.IncAPIError(c.FullPath(), status)
		}

		if c.Writer.Written() {
			return
		}
		utils.SendError(c, status, message)
	}
}
