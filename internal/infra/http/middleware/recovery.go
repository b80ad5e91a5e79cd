package middleware

import (
	"fmt"

	"github.com/davicafu/hexatransactions/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery captura los panics, los registra con su stack y responde 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.String("panic", fmt.Sprintf("%v", r)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack_trace"),
				)

				if !c.Writer.Written() {
					utils.SendInternalServerError(c, MsgInternalServerError)
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
