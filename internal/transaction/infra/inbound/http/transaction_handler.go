// en internal/transaction/infra/inbound/http/transaction_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexatransactions/internal/transaction/application"
	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"
	"github.com/davicafu/hexatransactions/pkg/utils"
)

// TransactionHandler encapsula los endpoints HTTP relacionados con Transaction.
type TransactionHandler struct {
	service      *application.TransactionService
	defaultLimit int
}

// NewTransactionHandler crea un nuevo TransactionHandler. defaultLimit es el
// tamaño de página cuando la petición no trae limit.
func NewTransactionHandler(service *application.TransactionService, defaultLimit int) *TransactionHandler {
	return &TransactionHandler{service: service, defaultLimit: defaultLimit}
}

// ListTransactions endpoint GET /transactions
//
// Los parámetros mal formados nunca son error: se corrigen o se ignoran.
// Los fallos del almacén se adjuntan al contexto y los responde el
// ErrorHandler.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	query := transactionDomain.NewListQuery(transactionDomain.RawListParams{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Status:    c.Query("status"),
		Substatus: c.Query("substatus"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	}, h.defaultLimit)

	page, err := h.service.ListTransactions(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SendJSON(c, http.StatusOK, page)
}
