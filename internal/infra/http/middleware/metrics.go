package middleware

import (
	"time"

	"github.com/davicafu/hexatransactions/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics cuenta y mide cada petición por ruta registrada.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
