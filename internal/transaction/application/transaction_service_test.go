// en internal/transaction/application/transaction_service_test.go
package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sharedDomain "github.com/davicafu/hexatransactions/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexatransactions/internal/shared/infra/platform/query"
	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"
	"github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/db/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockTransactionRepo simula un almacén que puede fallar.
type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.OffsetPagination, sort sharedQuery.Sort) ([]transactionDomain.Transaction, int64, error) {
	args := m.Called(ctx, criteria, pagination, sort)
	data, _ := args.Get(0).([]transactionDomain.Transaction)
	return data, args.Get(1).(int64), args.Error(2)
}

// recordingObserver guarda las observaciones de consultas.
type recordingObserver struct {
	operations []string
	errs       []error
}

func (o *recordingObserver) ObserveStoreQuery(operation string, _ time.Duration, err error) {
	o.operations = append(o.operations, operation)
	o.errs = append(o.errs, err)
}

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// seedRepo crea n transacciones con createdAt creciente (minuto a minuto).
// La referencia "tx-01" es la más antigua.
func seedRepo(t *testing.T, n int, status string) *inmemory.TransactionRepoInMemory {
	t.Helper()
	repo := inmemory.NewTransactionRepoInMemory()
	var txs []transactionDomain.Transaction
	for i := 1; i <= n; i++ {
		txs = append(txs, transactionDomain.Transaction{
			"reference":                      fmt.Sprintf("tx-%02d", i),
			transactionDomain.FieldCreatedAt: base.Add(time.Duration(i) * time.Minute),
			transactionDomain.FieldStatus:    status,
		})
	}
	require.NoError(t, repo.Seed(context.Background(), txs))
	return repo
}

func query(raw transactionDomain.RawListParams) transactionDomain.ListQuery {
	return transactionDomain.NewListQuery(raw, transactionDomain.DefaultLimit)
}

func refs(txs []transactionDomain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx["reference"].(string))
	}
	return out
}

func TestListTransactions_SecondPageOfTwentyFive(t *testing.T) {
	// Arrange
	repo := seedRepo(t, 25, transactionDomain.StatusCompleted)
	service := NewTransactionService(repo, zap.NewNop(), nil)

	// Act
	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Page: "2", Limit: "10"}))

	// Assert: posiciones 11 a 20 por createdAt descendente
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(25), page.Total)
	require.Len(t, page.Data, 10)
	var expected []string
	for i := 15; i >= 6; i-- {
		expected = append(expected, fmt.Sprintf("tx-%02d", i))
	}
	assert.Equal(t, expected, refs(page.Data))
}

func TestListTransactions_NoMatchesIsNotAnError(t *testing.T) {
	repo := seedRepo(t, 5, transactionDomain.StatusCompleted)
	service := NewTransactionService(repo, zap.NewNop(), nil)

	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Status: transactionDomain.StatusRefunded}))

	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Total)
}

func TestListTransactions_StartDateFilter(t *testing.T) {
	repo := seedRepo(t, 3, transactionDomain.StatusPending) // T1 < T2 < T3
	service := NewTransactionService(repo, zap.NewNop(), nil)
	t2 := base.Add(2 * time.Minute).Format(time.RFC3339)

	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{StartDate: t2}))

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, []string{"tx-03", "tx-02"}, refs(page.Data))
}

func TestListTransactions_InclusiveDateRange(t *testing.T) {
	repo := seedRepo(t, 5, transactionDomain.StatusPending)
	service := NewTransactionService(repo, zap.NewNop(), nil)

	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{
		StartDate: base.Add(2 * time.Minute).Format(time.RFC3339),
		EndDate:   base.Add(4 * time.Minute).Format(time.RFC3339),
	}))

	require.NoError(t, err)
	assert.Equal(t, []string{"tx-04", "tx-03", "tx-02"}, refs(page.Data))
}

func TestListTransactions_InvalidStartDateEqualsNoStartDate(t *testing.T) {
	repo := seedRepo(t, 7, transactionDomain.StatusPending)
	service := NewTransactionService(repo, zap.NewNop(), nil)

	withInvalid, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{StartDate: "not-a-date", Limit: "5"}))
	require.NoError(t, err)
	without, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Limit: "5"}))
	require.NoError(t, err)

	assert.Equal(t, without, withInvalid)
}

func TestListTransactions_IsIdempotent(t *testing.T) {
	repo := seedRepo(t, 12, transactionDomain.StatusPending)
	service := NewTransactionService(repo, zap.NewNop(), nil)
	q := query(transactionDomain.RawListParams{Page: "2", Limit: "5", Status: transactionDomain.StatusPending})

	first, err := service.ListTransactions(context.Background(), q)
	require.NoError(t, err)
	second, err := service.ListTransactions(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestListTransactions_PaginationIsComplete(t *testing.T) {
	repo := seedRepo(t, 23, transactionDomain.StatusPending)
	service := NewTransactionService(repo, zap.NewNop(), nil)
	const limit = 4

	all, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Limit: "100"}))
	require.NoError(t, err)

	var collected []string
	pages := int((all.Total + limit - 1) / limit)
	for p := 1; p <= pages; p++ {
		page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{
			Page:  fmt.Sprint(p),
			Limit: fmt.Sprint(limit),
		}))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Data), limit)
		collected = append(collected, refs(page.Data)...)
	}

	// Sin duplicados ni huecos, en el mismo orden que la consulta completa
	assert.Equal(t, refs(all.Data), collected)
}

func TestListTransactions_ClampedValuesAreReported(t *testing.T) {
	repo := seedRepo(t, 3, transactionDomain.StatusPending)
	service := NewTransactionService(repo, zap.NewNop(), nil)

	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Page: "0", Limit: "9999"}))

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, transactionDomain.MaxLimit, page.Limit)
	assert.Len(t, page.Data, 3)
}

func TestListTransactions_StoreFailureIsPropagated(t *testing.T) {
	// Arrange
	storeErr := errors.New("connection reset by peer")
	repo := new(mockTransactionRepo)
	repo.On("ListByCriteria", mock.Anything, mock.Anything,
		sharedQuery.OffsetPagination{Limit: 10, Offset: 10},
		transactionDomain.SortNewestFirst,
	).Return(nil, int64(0), storeErr).Once()
	observer := &recordingObserver{}
	service := NewTransactionService(repo, zap.NewNop(), observer)

	// Act
	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{Page: "2", Limit: "10"}))

	// Assert: mismo error, sin resultados parciales
	assert.Nil(t, page)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, []string{"list_transactions"}, observer.operations)
	assert.Equal(t, []error{storeErr}, observer.errs)
	repo.AssertExpectations(t)
}

func TestListTransactions_NilDataBecomesEmptySlice(t *testing.T) {
	repo := new(mockTransactionRepo)
	repo.On("ListByCriteria", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, int64(0), nil).Once()
	service := NewTransactionService(repo, zap.NewNop(), nil)

	page, err := service.ListTransactions(context.Background(), query(transactionDomain.RawListParams{}))

	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Equal(t, transactionDomain.DefaultLimit, page.Limit)
}
