package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCommander interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis conta falhas numa janela fixa e bloqueia ao atingir o máximo.
type Redis struct {
	client   redisCommander
	window   time.Duration
	maxFails int
	blockFor time.Duration
}

// NewRedis cria o limiter sobre um cliente Redis.
func NewRedis(client redisCommander, window time.Duration, maxFails int, blockFor time.Duration) *Redis {
	return &Redis{client: client, window: window, maxFails: maxFails, blockFor: blockFor}
}

func failKey(email, ip string) string  { return "login:fail:" + email + ":" + HashIP(ip) }
func blockKey(email, ip string) string { return "login:block:" + email + ":" + HashIP(ip) }

// Allow consulta o bloqueio vigente.
func (l *Redis) Allow(ctx context.Context, email, ip string) (bool, time.Duration, error) {
	ttl, err := l.client.TTL(ctx, blockKey(email, ip)).Result()
	if err != nil {
		return false, 0, err
	}
	// -2 chave ausente, -1 sem expiração
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

// Success remove contadores e bloqueio.
func (l *Redis) Success(ctx context.Context, email, ip string) error {
	return l.client.Del(ctx, failKey(email, ip), blockKey(email, ip)).Err()
}

// Failure incrementa o contador e bloqueia quando atinge maxFails.
func (l *Redis) Failure(ctx context.Context, email, ip string) (bool, time.Duration, error) {
	key := failKey(email, ip)

	fails, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if fails == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if int(fails) < l.maxFails {
		return false, 0, nil
	}

	if err := l.client.Set(ctx, blockKey(email, ip), "1", l.blockFor).Err(); err != nil {
		return false, 0, err
	}
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return false, 0, err
	}
	return true, l.blockFor, nil
}
