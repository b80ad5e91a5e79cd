package http

import "github.com/gin-gonic/gin"

// RegisterTransactionRoutes registra las rutas HTTP para el dominio de Transacciones.
func RegisterTransactionRoutes(r gin.IRouter, handler *TransactionHandler) {
	// Mismo handler con y sin prefijo de versión
	for _, prefix := range []string{"/transactions", "/v1/transactions"} {
		transactions := r.Group(prefix)
		{
			transactions.GET("", handler.ListTransactions) // Listar transacciones paginadas
		}
	}
}
