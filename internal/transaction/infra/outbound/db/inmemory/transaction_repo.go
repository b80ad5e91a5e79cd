// Package inmemory implementa TransactionRepository sobre un slice en
// memoria. Sirve para arrancar el servicio sin MongoDB y para los tests.
package inmemory

import (
	"context"
	"maps"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	sharedDomain "github.com/davicafu/hexatransactions/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexatransactions/internal/shared/infra/platform/query"
	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"
)

// TransactionRepoInMemory guarda las transacciones en orden de inserción.
type TransactionRepoInMemory struct {
	mu  sync.RWMutex
	txs []transactionDomain.Transaction
	now func() time.Time
}

// Verificación estática de los puertos.
var (
	_ transactionDomain.TransactionRepository = (*TransactionRepoInMemory)(nil)
	_ transactionDomain.TransactionSeeder     = (*TransactionRepoInMemory)(nil)
)

func NewTransactionRepoInMemory() *TransactionRepoInMemory {
	return &TransactionRepoInMemory{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Seed añade transacciones. Igual que el Store de Mongo, rellena createdAt y
// updatedAt cuando no vienen informados.
func (r *TransactionRepoInMemory) Seed(ctx context.Context, txs []transactionDomain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range txs {
		doc := maps.Clone(tx)
		if doc == nil {
			doc = transactionDomain.Transaction{}
		}
		if _, ok := doc[transactionDomain.FieldCreatedAt]; !ok {
			doc[transactionDomain.FieldCreatedAt] = now
		}
		if _, ok := doc[transactionDomain.FieldUpdatedAt]; !ok {
			doc[transactionDomain.FieldUpdatedAt] = now
		}
		r.txs = append(r.txs, doc)
	}
	return nil
}

// Len devuelve el número de transacciones almacenadas.
func (r *TransactionRepoInMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.txs)
}

// ListByCriteria filtra, ordena, cuenta y pagina bajo el mismo bloqueo de
// lectura, de modo que página y total salen de la misma foto.
func (r *TransactionRepoInMemory) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.OffsetPagination, s sharedQuery.Sort) ([]transactionDomain.Transaction, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	conds := sharedDomain.Conditions(criteria)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]transactionDomain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		if matchAll(tx, conds) {
			matched = append(matched, tx)
		}
	}

	// Ordenar (estable: los empates conservan el orden de inserción)
	if s.Field != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			c := compareValues(matched[i][s.Field], matched[j][s.Field])
			if s.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := int64(len(matched))

	// Paginar
	start := pagination.Offset
	if start < 0 {
		start = 0
	}
	if start >= total {
		return []transactionDomain.Transaction{}, total, nil
	}
	end := total
	if pagination.Limit > 0 && int64(pagination.Limit) < total-start {
		end = start + int64(pagination.Limit)
	}

	page := make([]transactionDomain.Transaction, 0, end-start)
	for _, tx := range matched[start:end] {
		page = append(page, maps.Clone(tx))
	}
	return page, total, nil
}

// --- Lógica de filtrado y ordenamiento ---

func matchAll(tx transactionDomain.Transaction, conds []sharedDomain.Criterion) bool {
	for _, cond := range conds {
		if !matchCriterion(tx, cond) {
			return false // Si una condición no coincide, el registro no pasa el filtro
		}
	}
	return true
}

// matchCriterion sigue la semántica de MongoDB: un campo ausente o de otro
// tipo no cumple ninguna comparación.
func matchCriterion(tx transactionDomain.Transaction, cond sharedDomain.Criterion) bool {
	val, ok := tx[cond.Field]
	if !ok {
		return false
	}

	if cond.Op == sharedDomain.OpEq {
		return reflect.DeepEqual(val, cond.Value)
	}

	if !sameKind(val, cond.Value) {
		return false
	}
	c := compareValues(val, cond.Value)
	switch cond.Op {
	case sharedDomain.OpGt:
		return c > 0
	case sharedDomain.OpGte:
		return c >= 0
	case sharedDomain.OpLt:
		return c < 0
	case sharedDomain.OpLte:
		return c <= 0
	default:
		return false
	}
}

func sameKind(a, b interface{}) bool {
	switch a.(type) {
	case time.Time:
		_, ok := b.(time.Time)
		return ok
	case string:
		_, ok := b.(string)
		return ok
	}
	_, okA := toFloat(a)
	_, okB := toFloat(b)
	return okA && okB
}

// compareValues ordena valores heterogéneos. Un valor ausente (nil) es el
// menor de todos, como null en MongoDB.
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
