package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal identifica quem executa a requisição.
type Principal struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	SenhaHash   string    `json:"-"`
	Authorities []string  `json:"authorities"`
}

// HasAuthority indica se o principal possui ao menos uma das autoridades.
func (p *Principal) HasAuthority(authorities ...string) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Authorities {
		for _, required := range authorities {
			if held == required {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal anexa o principal ao contexto da requisição.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom recupera o principal do contexto.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
