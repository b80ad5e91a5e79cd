package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader es la cabecera en la que viaja el id de la petición.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey es la clave del id en el contexto de gin.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID acepta el id que envía el cliente o genera uno nuevo, y lo
// devuelve en la respuesta.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID devuelve el id de la petición o "" si no hay.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
