package chamado

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turmab/helpdesk/internal/db"
	"github.com/turmab/helpdesk/internal/errs"
)

// Repository provê acesso à tabela de chamados.
type Repository struct {
	pool db.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectChamado = `
SELECT c.id, c.data_abertura, c.data_fechamento, c.prioridade, c.status, c.titulo, c.observacoes,
       c.tecnico_id, t.nome, c.cliente_id, cl.nome
FROM chamados c
JOIN pessoas t ON t.id = c.tecnico_id
JOIN pessoas cl ON cl.id = c.cliente_id`

// GetByID busca um chamado específico.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Chamado, error) {
	row := r.pool.QueryRow(ctx, selectChamado+`
WHERE c.id = $1`, id)
	return scanChamado(row)
}

// List devolve todos os chamados.
func (r *Repository) List(ctx context.Context) ([]Chamado, error) {
	return r.list(ctx, selectChamado+`
ORDER BY c.data_abertura, c.titulo`)
}

// ListByTecnico devolve os chamados do técnico.
func (r *Repository) ListByTecnico(ctx context.Context, tecnicoID uuid.UUID) ([]Chamado, error) {
	return r.list(ctx, selectChamado+`
WHERE c.tecnico_id = $1
ORDER BY c.data_abertura, c.titulo`, tecnicoID)
}

// ListByCliente devolve os chamados do cliente.
func (r *Repository) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]Chamado, error) {
	return r.list(ctx, selectChamado+`
WHERE c.cliente_id = $1
ORDER BY c.data_abertura, c.titulo`, clienteID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Chamado, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Chamado, 0)
	for rows.Next() {
		c, err := scanChamado(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Create insere um chamado.
func (r *Repository) Create(ctx context.Context, c *Chamado) error {
	const query = `
INSERT INTO chamados (id, data_abertura, data_fechamento, prioridade, status, titulo, observacoes, tecnico_id, cliente_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.DataAbertura,
		c.DataFechamento,
		int16(c.Prioridade),
		int16(c.Status),
		c.Titulo,
		c.Observacoes,
		c.TecnicoID,
		c.ClienteID,
	)
	return mapWriteError(err)
}

// Update regrava os campos editáveis; data_abertura não muda.
func (r *Repository) Update(ctx context.Context, c *Chamado) error {
	const query = `
UPDATE chamados
SET data_fechamento = $2, prioridade = $3, status = $4, titulo = $5, observacoes = $6, tecnico_id = $7, cliente_id = $8
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		c.ID,
		c.DataFechamento,
		int16(c.Prioridade),
		int16(c.Status),
		c.Titulo,
		c.Observacoes,
		c.TecnicoID,
		c.ClienteID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete remove o chamado.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chamados WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CountByPessoa conta chamados em que a pessoa é técnico ou cliente.
func (r *Repository) CountByPessoa(ctx context.Context, pessoaID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chamados WHERE tecnico_id = $1 OR cliente_id = $1`, pessoaID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if db.IsForeignKeyViolation(err) {
		return errs.Integrity("Técnico ou cliente não encontrado")
	}
	return err
}

func scanChamado(row pgx.Row) (*Chamado, error) {
	var (
		c          Chamado
		fechamento *time.Time
		prioridade int16
		status     int16
	)
	if err := row.Scan(
		&c.ID,
		&c.DataAbertura,
		&fechamento,
		&prioridade,
		&status,
		&c.Titulo,
		&c.Observacoes,
		&c.TecnicoID,
		&c.NomeTecnico,
		&c.ClienteID,
		&c.NomeCliente,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	var err error
	if c.Prioridade, err = PrioridadeFromCode(int(prioridade)); err != nil {
		return nil, err
	}
	if c.Status, err = StatusFromCode(int(status)); err != nil {
		return nil, err
	}
	c.DataFechamento = fechamento
	return &c, nil
}
