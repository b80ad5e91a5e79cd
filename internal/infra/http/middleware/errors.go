package middleware

import (
	"fmt"
	"net/http"
)

// HTTPError permite a cualquier capa elegir el status y el mensaje que
// verá el cliente.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Mensajes públicos
const (
	MsgInternalServerError = "internal server error"
	MsgTooManyRequests     = "too many requests"
)

// ErrTooManyRequests lo emite el limitador de peticiones.
var ErrTooManyRequests = &HTTPError{Status: http.StatusTooManyRequests, Message: MsgTooManyRequests}
