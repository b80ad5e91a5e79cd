package middleware

import (
	"github.com/davicafu/hexatransactions/internal/infra/metrics"
	"github.com/davicafu/hexatransactions/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit rechaza con 429 a los clientes (por ip) que superan el límite.
// Si el backend del limitador falla la petición pasa.
func RateLimit(limiter ratelimit.Limiter, log *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("⚠️ Rate limiter no disponible, petición permitida",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			if m != nil {
				m.IncRateLimited()
			}
			_ = c.Error(ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
