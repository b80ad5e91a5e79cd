package ratelimit

import "context"

// Limiter decide si la petición identificada por key puede pasar.
type Limiter interface {
	// Allow devuelve (false, nil) cuando se ha superado el límite.
	// Un error indica que el backend no pudo consultarse.
	Allow(ctx context.Context, key string) (bool, error)
}
