package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// New usa Redis si redisAddr está configurado y responde; si no, memoria.
// stop libera el limitador elegido (goroutine de limpieza o cliente Redis).
func New(ctx context.Context, redisAddr string, perMinute, burst int, log *zap.Logger) (limiter Limiter, stop func()) {
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("⚠️ Redis no disponible, rate limit en memoria:", zap.Error(err))
			_ = rdb.Close()
		} else {
			log.Info("✅ Redis conectado, rate limit distribuido")
			return NewRedisLimiter(rdb, perMinute, time.Minute), func() { _ = rdb.Close() }
		}
	}

	memoryLimiter := NewMemoryLimiter(perMinute, burst, 3*time.Minute)
	return memoryLimiter, memoryLimiter.Stop
}
