package pessoa

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/errs"
)

// Mensagens de integridade exibidas ao cliente.
const (
	MsgCPFDuplicado   = "CPF já cadastrado no sistema!"
	MsgEmailDuplicado = "E-mail já cadastrado no sistema!"
)

// ReferenceMessage devolve a mensagem de exclusão bloqueada para o perfil.
func ReferenceMessage(perfil Perfil) string {
	return fmt.Sprintf("%s possui ordens de serviço e não pode ser deletado!", perfil.Label())
}

type identityLookup interface {
	GetByCPF(ctx context.Context, cpf string) (*Pessoa, error)
	GetByEmail(ctx context.Context, email string) (*Pessoa, error)
}

// TicketCounter conta chamados que referenciam uma pessoa como técnico ou cliente.
type TicketCounter interface {
	CountByPessoa(ctx context.Context, pessoaID uuid.UUID) (int, error)
}

// Guard aplica as regras de integridade antes de gravar ou remover pessoas.
type Guard struct {
	lookup  identityLookup
	tickets TicketCounter
}

// NewGuard cria o guard.
func NewGuard(lookup identityLookup, tickets TicketCounter) *Guard {
	return &Guard{lookup: lookup, tickets: tickets}
}

// CheckUniqueness falha quando cpf ou email pertencem a outra pessoa.
// excluding é o ID do próprio registro na atualização (uuid.Nil na criação).
func (g *Guard) CheckUniqueness(ctx context.Context, candidate *Pessoa, excluding uuid.UUID) error {
	existing, err := g.lookup.GetByCPF(ctx, candidate.CPF)
	switch {
	case err == nil:
		if existing.ID != excluding {
			return errs.Integrity(MsgCPFDuplicado)
		}
	case !errors.Is(err, errs.ErrNotFound):
		return err
	}

	existing, err = g.lookup.GetByEmail(ctx, candidate.Email)
	switch {
	case err == nil:
		if existing.ID != excluding {
			return errs.Integrity(MsgEmailDuplicado)
		}
	case !errors.Is(err, errs.ErrNotFound):
		return err
	}

	return nil
}

// CheckReferentialIntegrity impede a exclusão de quem ainda tem chamados.
func (g *Guard) CheckReferentialIntegrity(ctx context.Context, pessoaID uuid.UUID, perfil Perfil) error {
	count, err := g.tickets.CountByPessoa(ctx, pessoaID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Integrity("%s", ReferenceMessage(perfil))
	}
	return nil
}
