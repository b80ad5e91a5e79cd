package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	config "github.com/davicafu/hexatransactions/internal/config"
	infraMongo "github.com/davicafu/hexatransactions/internal/infra/db/mongodb"
	transactionRepoMongo "github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/db/mongodb"
	"github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/fake"
	"github.com/davicafu/hexatransactions/pkg/logger"

	"go.uber.org/zap"
)

// seed carga transacciones falsas en MongoDB usando la misma configuración
// que el servicio.
func main() {
	count := flag.Int("count", 1000, "Number of fake transactions to generate")
	seed := flag.Uint64("seed", 1, "Generator seed (0 = random)")
	upsert := flag.Bool("upsert", false, "Upsert by reference instead of inserting")
	show := flag.Int64("show", 0, "Print the N most recent transactions after loading")
	flag.Parse()

	if *count < 0 || *show < 0 {
		fmt.Println("Error: -count and -show must be >= 0.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", "production")
		logger.Logger().Fatal("❌ Configuración inválida", zap.Error(err))
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.Logger()
	sugar := logger.Sugar()
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := infraMongo.Connect(ctx, cfg.MongoOptions(), log)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer store.Close(context.Background())

	repo := transactionRepoMongo.NewTransactionRepoMongoDB(store)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	txs := fake.NewGenerator(*seed, nil).Generate(*count)
	if *upsert {
		inserted, err := repo.UpsertBy(ctx, "reference", txs)
		if err != nil {
			log.Fatal("upsert failed", zap.Int64("inserted", inserted), zap.Error(err))
		}
		sugar.Infof("✅ %d transacciones sincronizadas (%d nuevas, %d actualizadas)", len(txs), inserted, int64(len(txs))-inserted)
	} else {
		if err := repo.Seed(ctx, txs); err != nil {
			log.Fatal("insert failed", zap.Error(err))
		}
		sugar.Infof("✅ %d transacciones insertadas", len(txs))
	}

	if *show > 0 {
		latest, err := repo.FindLatest(ctx, *show)
		if err != nil {
			log.Fatal("failed to read back transactions", zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(latest)
	}
}
