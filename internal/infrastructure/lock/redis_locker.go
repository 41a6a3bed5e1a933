// Package lock implementa billing.NumberLocker y payment.Locker: en Redis para varias instancias y en
// memoria para una sola.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	keyPrefix       = "facturacion:lock:"
	defaultTTL      = 10 * time.Second
	defaultWait     = 5 * time.Second
	defaultInterval = 25 * time.Millisecond
)

var (
	_ billing.NumberLocker = (*RedisLocker)(nil)
	_ payment.Locker       = (*RedisLocker)(nil)
)

// RedisLocker lock con SET NX + TTL y liberación por token (script Lua).
// El TTL evita que una instancia caída deje la clave bloqueada.
type RedisLocker struct {
	client   *redis.Client
	script   *redis.Script
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
}

// NewRedisLocker construye el locker. ttl <= 0 usa 10s.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocker{
		client:   client,
		script:   redis.NewScript(lockReleaseScript),
		ttl:      ttl,
		wait:     defaultWait,
		interval: defaultInterval,
	}
}

// WithWait cambia cuánto espera Lock antes de rendirse.
func (l *RedisLocker) WithWait(wait time.Duration) *RedisLocker {
	l.wait = wait
	return l
}

// Lock espera hasta obtener la clave o agotar el tiempo (domain.ErrConflict).
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l == nil || l.client == nil {
		return nil, errors.New("lock: cliente redis no configurado")
	}
	if key == "" {
		return nil, errors.New("lock: clave vacía")
	}
	fullKey := keyPrefix + key
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock %s ocupado: %w", key, domain.ErrConflict)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.interval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// La liberación no depende del contexto de la petición.
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = l.script.Run(ctx, l.client, []string{fullKey}, token).Err()
		})
	}, nil
}
