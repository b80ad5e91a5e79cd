// en internal/transaction/application/transaction_service.go
package application

import (
	"context"
	"time"

	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"
	"go.uber.org/zap"
)

// QueryObserver recibe la duración y el resultado de cada consulta al
// almacén. Lo implementa la capa de métricas.
type QueryObserver interface {
	ObserveStoreQuery(operation string, elapsed time.Duration, err error)
}

// TransactionService define los casos de uso de lectura de transacciones.
type TransactionService struct {
	repo     transactionDomain.TransactionRepository
	log      *zap.Logger
	observer QueryObserver
}

// NewTransactionService es el constructor del servicio. observer puede ser nil.
func NewTransactionService(repo transactionDomain.TransactionRepository, log *zap.Logger, observer QueryObserver) *TransactionService {
	return &TransactionService{
		repo:     repo,
		log:      log,
		observer: observer,
	}
}

// ListTransactions ejecuta la consulta en una sola ida al almacén y devuelve
// el sobre de paginación. Los errores del almacén se devuelven sin tocar.
func (s *TransactionService) ListTransactions(ctx context.Context, q transactionDomain.ListQuery) (*transactionDomain.Page, error) {
	start := time.Now()
	data, total, err := s.repo.ListByCriteria(ctx, q.Criteria(), q.Pagination(), transactionDomain.SortNewestFirst)
	if s.observer != nil {
		s.observer.ObserveStoreQuery("list_transactions", time.Since(start), err)
	}
	if err != nil {
		s.log.Warn("Failed to list transactions",
			zap.Int("page", q.Page),
			zap.Int("limit", q.Limit),
			zap.String("status", q.Status),
			zap.String("substatus", q.Substatus),
			zap.Timep("start_date", q.StartDate),
			zap.Timep("end_date", q.EndDate),
			zap.Error(err),
		)
		return nil, err
	}

	// data nunca viaja como null
	if data == nil {
		data = []transactionDomain.Transaction{}
	}

	return &transactionDomain.Page{
		Data:  data,
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	}, nil
}
