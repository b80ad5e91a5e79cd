package fake

import (
	"fmt"
	"math"
	"time"

	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"

	"github.com/brianvoe/gofakeit/v7"
)

// Subestados posibles por estado.
var substatuses = map[string][]string{
	transactionDomain.StatusPending:   {"awaiting_payment", "processing", "under_review"},
	transactionDomain.StatusCompleted: {"settled", "captured"},
	transactionDomain.StatusFailed:    {"insufficient_funds", "card_declined", "timeout"},
	transactionDomain.StatusRefunded:  {"partial", "full"},
}

var statuses = []string{
	transactionDomain.StatusPending,
	transactionDomain.StatusCompleted,
	transactionDomain.StatusFailed,
	transactionDomain.StatusRefunded,
}

// Generator produce transacciones falsas reproducibles para pruebas y carga.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
	// Ventana hacia atrás desde now en la que caen los createdAt.
	Window time.Duration
}

// NewGenerator crea un generador. seed=0 usa una semilla aleatoria.
func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		faker:  gofakeit.New(seed),
		now:    now,
		Window: 90 * 24 * time.Hour,
	}
}

// Generate devuelve n transacciones con referencia tx-00001, tx-00002...
func (g *Generator) Generate(n int) []transactionDomain.Transaction {
	if n <= 0 {
		return []transactionDomain.Transaction{}
	}

	end := g.now().UTC()
	start := end.Add(-g.Window)
	txs := make([]transactionDomain.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		status := g.faker.RandomString(statuses)
		tx := transactionDomain.Transaction{
			"reference":     fmt.Sprintf("tx-%05d", i),
			"amount":        math.Round(g.faker.Float64Range(1, 5000)*100) / 100,
			"currency":      g.faker.CurrencyShort(),
			"description":   g.faker.Sentence(5),
			"merchant":      g.faker.Company(),
			"customerEmail": g.faker.Email(),
		}
		tx[transactionDomain.FieldStatus] = status
		tx[transactionDomain.FieldSubstatus] = g.faker.RandomString(substatuses[status])
		tx[transactionDomain.FieldCreatedAt] = g.faker.DateRange(start, end).UTC().Truncate(time.Millisecond)
		txs = append(txs, tx)
	}
	return txs
}
