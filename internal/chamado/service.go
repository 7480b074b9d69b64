package chamado

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/pessoa"
	"github.com/turmab/helpdesk/internal/util"
)

// Store persiste chamados. Buscas sem resultado devolvem errs.ErrNotFound.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Chamado, error)
	List(ctx context.Context) ([]Chamado, error)
	ListByTecnico(ctx context.Context, tecnicoID uuid.UUID) ([]Chamado, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]Chamado, error)
	Create(ctx context.Context, c *Chamado) error
	Update(ctx context.Context, c *Chamado) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pessoaFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*pessoa.Pessoa, error)
}

// Service aplica o ciclo de vida dos chamados.
type Service struct {
	store    Store
	tecnicos pessoaFinder
	clientes pessoaFinder
	now      func() time.Time
}

// NewService cria o serviço; tecnicos e clientes resolvem as referências por perfil.
func NewService(store Store, tecnicos, clientes pessoaFinder) *Service {
	return &Service{store: store, tecnicos: tecnicos, clientes: clientes, now: util.Now}
}

// Get busca um chamado.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Chamado, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return nil, err
	}
	return c, nil
}

// List devolve todos os chamados.
func (s *Service) List(ctx context.Context) ([]Chamado, error) {
	return s.store.List(ctx)
}

// ListByTecnico lista os chamados atendidos pelo técnico.
func (s *Service) ListByTecnico(ctx context.Context, tecnicoID uuid.UUID) ([]Chamado, error) {
	if _, err := s.tecnicos.FindByID(ctx, tecnicoID); err != nil {
		return nil, err
	}
	return s.store.ListByTecnico(ctx, tecnicoID)
}

// ListByCliente lista os chamados abertos pelo cliente.
func (s *Service) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]Chamado, error) {
	if _, err := s.clientes.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}
	return s.store.ListByCliente(ctx, clienteID)
}

// Create abre um chamado; status encerrado já nasce com data de fechamento.
func (s *Service) Create(ctx context.Context, in Input) (*Chamado, error) {
	c := &Chamado{ID: uuid.New()}
	status, err := s.fill(ctx, c, in)
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	c.DataAbertura = today
	c.applyStatus(status, today)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Str("chamado_id", c.ID.String()).Str("status", c.Status.String()).Msg("chamado aberto")
	return c, nil
}

// Update substitui os campos editáveis preservando a data de abertura.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Chamado, error) {
	// códigos antes de qualquer leitura: entrada inválida não toca o store
	if _, err := PrioridadeFromCode(in.Prioridade); err != nil {
		return nil, err
	}
	if _, err := StatusFromCode(in.Status); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c := &Chamado{ID: id, DataAbertura: current.DataAbertura}
	status, err := s.fill(ctx, c, in)
	if err != nil {
		return nil, err
	}
	c.applyStatus(status, util.DateOf(s.now()))

	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return nil, err
	}

	if current.Status != c.Status {
		log.Info().Str("chamado_id", id.String()).Str("de", current.Status.String()).Str("para", c.Status.String()).Msg("status do chamado alterado")
	}
	return c, nil
}

// Delete remove o chamado.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Objeto não encontrado! Id: %s", id)
		}
		return err
	}
	return nil
}

// fill valida a entrada e resolve técnico e cliente; o status é devolvido para o chamador aplicar.
func (s *Service) fill(ctx context.Context, c *Chamado, in Input) (Status, error) {
	prioridade, err := PrioridadeFromCode(in.Prioridade)
	if err != nil {
		return 0, err
	}
	status, err := StatusFromCode(in.Status)
	if err != nil {
		return 0, err
	}

	c.Prioridade = prioridade
	c.Titulo = strings.TrimSpace(in.Titulo)
	c.Observacoes = strings.TrimSpace(in.Observacoes)
	if c.Titulo == "" {
		return 0, errs.Validation("O campo TÍTULO é requerido")
	}
	if c.Observacoes == "" {
		return 0, errs.Validation("O campo OBSERVAÇÕES é requerido")
	}

	tecnico, err := s.tecnicos.FindByID(ctx, in.Tecnico)
	if err != nil {
		return 0, err
	}
	cliente, err := s.clientes.FindByID(ctx, in.Cliente)
	if err != nil {
		return 0, err
	}

	c.TecnicoID, c.NomeTecnico = tecnico.ID, tecnico.Nome
	c.ClienteID, c.NomeCliente = cliente.ID, cliente.Nome
	return status, nil
}
