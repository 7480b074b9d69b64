package pessoa

import (
	"context"

	"github.com/google/uuid"
)

// Store persiste pessoas. Buscas sem resultado devolvem errs.ErrNotFound.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Pessoa, error)
	GetByCPF(ctx context.Context, cpf string) (*Pessoa, error)
	GetByEmail(ctx context.Context, email string) (*Pessoa, error)
	ListByPerfil(ctx context.Context, perfil Perfil) ([]Pessoa, error)
	Create(ctx context.Context, p *Pessoa) error
	Update(ctx context.Context, p *Pessoa) error
	Delete(ctx context.Context, id uuid.UUID) error
}
