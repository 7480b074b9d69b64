package pessoa

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turmab/helpdesk/internal/db"
	"github.com/turmab/helpdesk/internal/errs"
)

// Repository implementa Store sobre Postgres.
type Repository struct {
	pool db.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectPessoa = `
SELECT p.id, p.nome, p.cpf, p.email, p.senha_hash, p.data_criacao,
       COALESCE(array_agg(pp.perfil ORDER BY pp.perfil) FILTER (WHERE pp.perfil IS NOT NULL), '{}') AS perfis
FROM pessoas p
LEFT JOIN pessoa_perfis pp ON pp.pessoa_id = p.id`

// GetByID busca pessoa pelo identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Pessoa, error) {
	row := r.pool.QueryRow(ctx, selectPessoa+`
WHERE p.id = $1
GROUP BY p.id`, id)
	return scanPessoa(row)
}

// GetByCPF busca pessoa pelo CPF.
func (r *Repository) GetByCPF(ctx context.Context, cpf string) (*Pessoa, error) {
	row := r.pool.QueryRow(ctx, selectPessoa+`
WHERE p.cpf = $1
GROUP BY p.id`, cpf)
	return scanPessoa(row)
}

// GetByEmail busca pessoa pelo email (já normalizado).
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Pessoa, error) {
	row := r.pool.QueryRow(ctx, selectPessoa+`
WHERE p.email = $1
GROUP BY p.id`, NormalizeEmail(email))
	return scanPessoa(row)
}

// ListByPerfil lista pessoas que possuem o perfil.
func (r *Repository) ListByPerfil(ctx context.Context, perfil Perfil) ([]Pessoa, error) {
	rows, err := r.pool.Query(ctx, selectPessoa+`
WHERE p.id IN (SELECT pessoa_id FROM pessoa_perfis WHERE perfil = $1)
GROUP BY p.id
ORDER BY p.nome`, int16(perfil))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Pessoa, 0)
	for rows.Next() {
		p, err := scanPessoa(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Create insere a pessoa e seus perfis na mesma transação.
func (r *Repository) Create(ctx context.Context, p *Pessoa) error {
	const query = `
INSERT INTO pessoas (id, nome, cpf, email, senha_hash, data_criacao)
VALUES ($1, $2, $3, $4, $5, $6)`

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, p.ID, p.Nome, p.CPF, p.Email, p.SenhaHash, p.DataCriacao); err != nil {
			return err
		}
		return insertPerfis(ctx, tx, p.ID, p.Perfis)
	})
	return mapWriteError(err)
}

// Update regrava dados e perfis.
func (r *Repository) Update(ctx context.Context, p *Pessoa) error {
	const query = `
UPDATE pessoas
SET nome = $2, cpf = $3, email = $4, senha_hash = $5
WHERE id = $1`

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, p.ID, p.Nome, p.CPF, p.Email, p.SenhaHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pessoa_perfis WHERE pessoa_id = $1`, p.ID); err != nil {
			return err
		}
		return insertPerfis(ctx, tx, p.ID, p.Perfis)
	})
	return mapWriteError(err)
}

// Delete remove a pessoa; perfis saem em cascata.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pessoas WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func insertPerfis(ctx context.Context, tx pgx.Tx, id uuid.UUID, perfis []Perfil) error {
	for _, perfil := range perfis {
		if _, err := tx.Exec(ctx, `INSERT INTO pessoa_perfis (pessoa_id, perfil) VALUES ($1, $2)`, id, int16(perfil)); err != nil {
			return err
		}
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if name, ok := db.UniqueViolation(err); ok {
		switch name {
		case "pessoas_cpf_key":
			return errs.Integrity(MsgCPFDuplicado)
		case "pessoas_email_key":
			return errs.Integrity(MsgEmailDuplicado)
		}
		return errs.Integrity("Registro duplicado")
	}
	if db.IsForeignKeyViolation(err) {
		return errs.Integrity("Registro referenciado por ordens de serviço")
	}
	return err
}

func scanPessoa(row pgx.Row) (*Pessoa, error) {
	var (
		p       Pessoa
		created time.Time
		codes   []int16
	)
	if err := row.Scan(&p.ID, &p.Nome, &p.CPF, &p.Email, &p.SenhaHash, &created, &codes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	p.DataCriacao = created
	p.Perfis = make([]Perfil, 0, len(codes))
	for _, code := range codes {
		perfil, err := PerfilFromCode(int(code))
		if err != nil {
			return nil, err
		}
		p.AddPerfil(perfil)
	}
	return &p, nil
}
