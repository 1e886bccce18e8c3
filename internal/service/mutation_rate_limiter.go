package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MutationOp identifica la escritura que se cuenta contra el límite.
type MutationOp string

const (
	MutationCreate MutationOp = "create"
	MutationUpdate MutationOp = "update"
	MutationDelete MutationOp = "delete"
)

const anonymousShop = "anonymous"

// RateDecision es la respuesta del limiter para una escritura.
// Limit == 0 significa que no hay límite configurado.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// MutationRateLimiter limita create/update/delete por tienda y operación.
type MutationRateLimiter interface {
	Allow(ctx context.Context, shop string, op MutationOp) RateDecision
}

// mutationBucket arma la clave tienda:operación. Una tienda vacía cae en el bucket anónimo
// en todos los backends.
func mutationBucket(shop string, op MutationOp) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if shop == "" {
		shop = anonymousShop
	}
	return shop + ":" + string(op)
}

type memoryMutationRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryMutationRateLimiter crea un limiter en memoria con ventana deslizante.
// max <= 0 deshabilita el límite.
func NewMemoryMutationRateLimiter(window time.Duration, max int) MutationRateLimiter {
	if max <= 0 {
		return unlimitedRateLimiter{}
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryMutationRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryMutationRateLimiter) Allow(_ context.Context, shop string, op MutationOp) RateDecision {
	bucket := mutationBucket(shop, op)
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.hits[bucket][:0]
	for _, ts := range l.hits[bucket] {
		if now.Sub(ts) < l.window {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= l.max {
		l.hits[bucket] = recent
		// El hit más viejo es el próximo en salir de la ventana.
		return RateDecision{
			Limit:      l.max,
			RetryAfter: recent[0].Add(l.window).Sub(now),
		}
	}
	l.hits[bucket] = append(recent, now)
	return RateDecision{
		Allowed:   true,
		Limit:     l.max,
		Remaining: l.max - len(l.hits[bucket]),
	}
}

type unlimitedRateLimiter struct{}

func (unlimitedRateLimiter) Allow(context.Context, string, MutationOp) RateDecision {
	return RateDecision{Allowed: true}
}
