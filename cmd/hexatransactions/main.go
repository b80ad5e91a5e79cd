package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	config "github.com/davicafu/hexatransactions/internal/config"
	infraMongo "github.com/davicafu/hexatransactions/internal/infra/db/mongodb"
	infraHttp "github.com/davicafu/hexatransactions/internal/infra/http"
	"github.com/davicafu/hexatransactions/internal/infra/metrics"
	"github.com/davicafu/hexatransactions/internal/infra/ratelimit"
	transactionApp "github.com/davicafu/hexatransactions/internal/transaction/application"
	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"
	transactionHttp "github.com/davicafu/hexatransactions/internal/transaction/infra/inbound/http"
	transactionRepoMemory "github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/db/inmemory"
	transactionRepoMongo "github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/db/mongodb"
	"github.com/davicafu/hexatransactions/internal/transaction/infra/outbound/fake"
	"github.com/davicafu/hexatransactions/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", "production")
		logger.Logger().Fatal("❌ Configuración inválida", zap.Error(err))
	}

	logger.Init(cfg.LogLevel, cfg.Environment) // inicializa zap
	log := logger.Logger()                     // obtiene logger estructurado
	defer log.Sync()                           // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appMetrics := metrics.New(nil)

	// ---------------- Store ----------------
	var (
		repo  transactionDomain.TransactionRepository
		store *infraMongo.Store
	)
	switch cfg.StoreDriver {
	case "memory":
		memoryRepo := transactionRepoMemory.NewTransactionRepoInMemory()
		if cfg.SeedFakeTransactions > 0 {
			txs := fake.NewGenerator(1, nil).Generate(cfg.SeedFakeTransactions)
			if err := memoryRepo.Seed(ctx, txs); err != nil {
				log.Fatal("failed to seed in-memory store", zap.Error(err))
			}
		}
		log.Info("⚡️ Usando almacén en memoria", zap.Int("transactions", memoryRepo.Len()))
		repo = memoryRepo
	default:
		store, err = infraMongo.Connect(ctx, cfg.MongoOptions(), log)
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}

		mongoRepo := transactionRepoMongo.NewTransactionRepoMongoDB(store)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Warn("⚠️ No se pudieron crear los índices", zap.Error(err))
		}
		repo = mongoRepo
	}

	// ------------- Rate limit --------------
	var (
		limiter     ratelimit.Limiter
		stopLimiter = func() {}
	)
	if cfg.RateLimitPerMinute > 0 {
		limiter, stopLimiter = ratelimit.New(ctx, cfg.RedisAddr, cfg.RateLimitPerMinute, cfg.RateLimitBurst, log)
	} else {
		log.Info("Rate limit desactivado")
	}

	// --------------- Servicio --------------
	transactionService := transactionApp.NewTransactionService(repo, log, appMetrics)

	// ---------------- HTTP ----------------
	router := infraHttp.NewEngine(infraHttp.EngineOptions{
		Log:         log,
		Metrics:     appMetrics,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	transactionHandler := transactionHttp.NewTransactionHandler(transactionService, cfg.DefaultPageLimit)
	transactionHttp.RegisterTransactionRoutes(router, transactionHandler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := infraHttp.Serve(ctx, srv, cfg.ShutdownTimeout, log); err != nil {
		log.Error("HTTP server stopped with error", zap.Error(err))
	}

	stopLimiter()

	if store != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn("failed to disconnect MongoDB", zap.Error(err))
		}
	}
	log.Info("👋 Servicio detenido")
}
