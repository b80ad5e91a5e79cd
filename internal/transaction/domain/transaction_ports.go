package domain

import (
	"context"

	sharedDomain "github.com/davicafu/hexatransactions/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexatransactions/internal/shared/infra/platform/query"
)

// CollectionName es la colección donde viven las transacciones.
const CollectionName = "transactions"

// SortNewestFirst es el único orden del listado: createdAt descendente.
var SortNewestFirst = sharedQuery.Sort{Field: FieldCreatedAt, Desc: true}

// --- Repositorio de Transactions ---
type TransactionRepository interface {
	// ListByCriteria devuelve la página pedida y el total de coincidencias
	// sin paginar, calculados en una única operación contra el almacén.
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.OffsetPagination, sort sharedQuery.Sort) ([]Transaction, int64, error)
}

// TransactionSeeder carga transacciones en el almacén. Sólo lo usan las
// herramientas de carga de datos, nunca la API.
type TransactionSeeder interface {
	Seed(ctx context.Context, txs []Transaction) error
}

// Page es el sobre de respuesta del listado.
type Page struct {
	Data  []Transaction `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}
