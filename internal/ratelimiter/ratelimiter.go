package ratelimiter

import (
	"fmt"
	"time"

	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimit builds a limiter middleware for one route group.
func NewRateLimit(store limiter.Store, rate limiter.Rate, keyGetter stdlib.KeyGetter) *stdlib.Middleware {
	instance := limiter.New(store, rate)

	return stdlib.NewMiddleware(instance, stdlib.WithKeyGetter(keyGetter))
}

// NewRedisStore backs the limiter with the shared redis client so limits
// hold across instances.
func NewRedisStore(client *libredis.Client, prefix string) (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: prefix,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return store, nil
}

// PerPeriod is a convenience constructor for "N requests per period"
// rates.
func PerPeriod(limit int64, period time.Duration) limiter.Rate {
	return limiter.Rate{
		Limit:  limit,
		Period: period,
	}
}
