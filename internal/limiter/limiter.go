// Package limiter controla tentativas de login e bloqueios temporários.
package limiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Limiter controla tentativas de login por (email, ip).
type Limiter interface {
	// Allow indica se o login está liberado e, se não, quanto falta.
	Allow(ctx context.Context, email, ip string) (bool, time.Duration, error)
	// Success zera os contadores após login válido.
	Success(ctx context.Context, email, ip string) error
	// Failure registra falha; pode aplicar bloqueio temporário.
	Failure(ctx context.Context, email, ip string) (bool, time.Duration, error)
}

// HashIP evita guardar o endereço em claro nas chaves.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

// Noop nunca bloqueia; usado quando não há Redis configurado.
type Noop struct{}

func (Noop) Allow(context.Context, string, string) (bool, time.Duration, error) {
	return true, 0, nil
}

func (Noop) Success(context.Context, string, string) error { return nil }

func (Noop) Failure(context.Context, string, string) (bool, time.Duration, error) {
	return false, 0, nil
}
