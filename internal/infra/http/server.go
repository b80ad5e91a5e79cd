package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/davicafu/hexatransactions/internal/infra/http/middleware"
	"github.com/davicafu/hexatransactions/internal/infra/metrics"
	"github.com/davicafu/hexatransactions/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineOptions reúne las dependencias de la cadena de middleware.
type EngineOptions struct {
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	Limiter     ratelimit.Limiter // nil desactiva el límite de peticiones
	CORSOrigins []string
}

// NewEngine crea el engine de gin con la cadena de middleware, /health y
// /metrics. Las rutas de negocio se registran después sobre el engine.
func NewEngine(opts EngineOptions) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.Recovery(opts.Log),
		middleware.RequestID(),
		middleware.Logger(opts.Log),
		middleware.SecurityHeaders(),
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.ErrorHandler(opts.Log, opts.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// El límite sólo aplica a las rutas registradas a partir de aquí.
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter, opts.Log, opts.Metrics))
	}

	return r
}

// Serve arranca srv y lo apaga de forma ordenada cuando ctx se cancela,
// esperando como mucho shutdownTimeout a las peticiones en curso.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Apagando servidor HTTP", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
