package pessoa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/util"
)

// Service aplica o ciclo de vida de pessoas de um perfil (técnicos ou clientes).
type Service struct {
	perfil Perfil
	store  Store
	guard  *Guard
	hash   func(string) (string, error)
	now    func() time.Time
}

// NewService cria o serviço para o perfil informado.
func NewService(perfil Perfil, store Store, guard *Guard) *Service {
	return &Service{perfil: perfil, store: store, guard: guard, hash: auth.Hash, now: util.Now}
}

// Perfil devolve o perfil gerenciado pelo serviço.
func (s *Service) Perfil() Perfil {
	return s.perfil
}

// FindByID busca a pessoa exigindo o perfil do serviço.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Pessoa, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return nil, err
	}
	if !p.HasPerfil(s.perfil) {
		return nil, errs.NotFound("Objeto não encontrado! Id: %s", id)
	}
	return p, nil
}

// List devolve todas as pessoas do perfil.
func (s *Service) List(ctx context.Context) ([]Pessoa, error) {
	return s.store.ListByPerfil(ctx, s.perfil)
}

// Create valida, aplica o guard e persiste uma nova pessoa.
func (s *Service) Create(ctx context.Context, in Input) (*Pessoa, error) {
	if strings.TrimSpace(in.Senha) == "" {
		return nil, errs.Validation("O campo SENHA é requerido")
	}

	p, err := s.build(uuid.New(), in)
	if err != nil {
		return nil, err
	}
	p.DataCriacao = util.DateOf(s.now())

	if p.HasPerfil(Admin) && !actingAdmin(ctx) {
		return nil, errGrantAdmin
	}

	if err := s.guard.CheckUniqueness(ctx, p, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Senha)
	if err != nil {
		return nil, err
	}
	p.SenhaHash = hash

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("perfil", s.perfil.String()).Str("pessoa_id", p.ID.String()).Msg("pessoa criada")
	return p, nil
}

// Update substitui os dados da pessoa; senha vazia mantém o hash atual.
// Perfis de outros subtipos são preservados; ADMIN só muda quando Perfis é enviado.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Pessoa, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.HasPerfil(Admin) && !actingAdmin(ctx) {
		return nil, errs.New(errs.ErrAuthorization, "Acesso negado: somente administradores alteram administradores")
	}

	p, err := s.build(id, in)
	if err != nil {
		return nil, err
	}
	for _, held := range current.Perfis {
		if held != Admin || in.Perfis == nil {
			p.AddPerfil(held)
		}
	}
	if p.HasPerfil(Admin) && !actingAdmin(ctx) {
		return nil, errGrantAdmin
	}
	p.DataCriacao = current.DataCriacao
	p.SenhaHash = current.SenhaHash

	if err := s.guard.CheckUniqueness(ctx, p, id); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Senha) != "" {
		hash, err := s.hash(in.Senha)
		if err != nil {
			return nil, err
		}
		p.SenhaHash = hash
	}

	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return nil, err
	}

	return p, nil
}

// Delete remove a pessoa quando nenhum chamado a referencia.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.guard.CheckReferentialIntegrity(ctx, id, s.perfil); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, errs.ErrIntegrityViolation):
			// chamado criado entre a checagem e o delete; FK barrou
			return errs.Integrity("%s", ReferenceMessage(s.perfil))
		case errors.Is(err, errs.ErrNotFound):
			return errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return err
	}

	log.Info().Str("perfil", s.perfil.String()).Str("pessoa_id", id.String()).Msg("pessoa removida")
	return nil
}

var errGrantAdmin = errs.New(errs.ErrAuthorization, "Acesso negado: somente administradores concedem o perfil ADMIN")

// actingAdmin indica se o principal da requisição é administrador.
func actingAdmin(ctx context.Context) bool {
	p, _ := auth.PrincipalFrom(ctx)
	return p.HasAuthority(RoleAdmin)
}

func (s *Service) build(id uuid.UUID, in Input) (*Pessoa, error) {
	p := &Pessoa{
		ID:    id,
		Nome:  strings.TrimSpace(in.Nome),
		CPF:   strings.TrimSpace(in.CPF),
		Email: NormalizeEmail(in.Email),
	}
	for _, code := range in.Perfis {
		perfil, err := PerfilFromCode(code)
		if err != nil {
			return nil, err
		}
		p.AddPerfil(perfil)
	}
	p.AddPerfil(s.perfil)
	return p, nil
}
