package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const mutationKeyPrefix = "messages:rl:"

// mutationWindowScript cuenta la escritura y devuelve {count, pttl} de la ventana fija.
// Si la clave quedó sin TTL (p. ej. tras un PERSIST manual) se le vuelve a poner.
var mutationWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type redisMutationRateLimiter struct {
	logger  *zap.Logger
	client  redis.Scripter
	window  time.Duration
	max     int
	timeout time.Duration
}

// NewRedisMutationRateLimiter comparte el límite entre réplicas usando una ventana fija en Redis.
func NewRedisMutationRateLimiter(logger *zap.Logger, client redis.Scripter, window time.Duration, max int) (MutationRateLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if max <= 0 {
		return unlimitedRateLimiter{}, nil
	}
	if window < time.Second {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisMutationRateLimiter{
		logger:  logger,
		client:  client,
		window:  window,
		max:     max,
		timeout: 500 * time.Millisecond,
	}, nil
}

func (l *redisMutationRateLimiter) Allow(ctx context.Context, shop string, op MutationOp) RateDecision {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	key := mutationKeyPrefix + mutationBucket(shop, op)
	reply, err := mutationWindowScript.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err == nil && len(reply) != 2 {
		err = errors.New("unexpected rate limit reply")
	}
	if err != nil {
		// Redis caído no bloquea al panel.
		l.logger.Warn("mutation rate limit check failed", zap.Error(err), zap.String("key", key))
		return RateDecision{Allowed: true, Limit: l.max, Remaining: l.max}
	}

	count, ttl := int(reply[0]), time.Duration(reply[1])*time.Millisecond
	if count > l.max {
		return RateDecision{Limit: l.max, RetryAfter: ttl}
	}
	return RateDecision{Allowed: true, Limit: l.max, Remaining: l.max - count}
}
