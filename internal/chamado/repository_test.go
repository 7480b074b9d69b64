package chamado

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/turmab/helpdesk/internal/errs"
)

var chamadoColumns = []string{
	"id", "data_abertura", "data_fechamento", "prioridade", "status", "titulo", "observacoes",
	"tecnico_id", "nome", "cliente_id", "nome",
}

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewRepository(mock), mock
}

func TestRepository_GetByID(t *testing.T) {
	r, mock := newMockRepo(t)
	defer mock.Close()
	id, tecnico, cliente := uuid.New(), uuid.New(), uuid.New()
	abertura := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	fechamento := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)FROM chamados c.*WHERE c\.id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(chamadoColumns).
			AddRow(id, abertura, &fechamento, int16(1), int16(2), "Chamado 01", "Primeiro chamado", tecnico, "Bill Gates", cliente, "Linus Torvalds"))

	c, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, Media, c.Prioridade)
	require.Equal(t, Encerrado, c.Status)
	require.NotNil(t, c.DataFechamento)
	require.True(t, c.DataFechamento.Equal(fechamento))
	require.Equal(t, "Linus Torvalds", c.NomeCliente)

	mock.ExpectQuery(`(?s)FROM chamados c.*WHERE c\.id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByTecnico(t *testing.T) {
	r, mock := newMockRepo(t)
	defer mock.Close()
	tecnico := uuid.New()
	var aberto *time.Time

	mock.ExpectQuery(`(?s)FROM chamados c.*WHERE c\.tecnico_id = \$1`).
		WithArgs(tecnico).
		WillReturnRows(pgxmock.NewRows(chamadoColumns).
			AddRow(uuid.New(), time.Now(), aberto, int16(0), int16(0), "A", "obs", tecnico, "Bill Gates", uuid.New(), "Linus Torvalds"))

	list, err := r.ListByTecnico(context.Background(), tecnico)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].DataFechamento)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateAndUpdate(t *testing.T) {
	r, mock := newMockRepo(t)
	defer mock.Close()
	c := &Chamado{
		ID:           uuid.New(),
		DataAbertura: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Prioridade:   Alta,
		Status:       Aberto,
		Titulo:       "Impressora",
		Observacoes:  "Sem toner",
		TecnicoID:    uuid.New(),
		ClienteID:    uuid.New(),
	}

	mock.ExpectExec(`INSERT INTO chamados`).
		WithArgs(c.ID, c.DataAbertura, c.DataFechamento, int16(2), int16(0), c.Titulo, c.Observacoes, c.TecnicoID, c.ClienteID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), c))

	mock.ExpectExec(`INSERT INTO chamados`).
		WithArgs(c.ID, c.DataAbertura, c.DataFechamento, int16(2), int16(0), c.Titulo, c.Observacoes, c.TecnicoID, c.ClienteID).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	require.ErrorIs(t, r.Create(context.Background(), c), errs.ErrIntegrityViolation)

	mock.ExpectExec(`UPDATE chamados`).
		WithArgs(c.ID, c.DataFechamento, int16(2), int16(0), c.Titulo, c.Observacoes, c.TecnicoID, c.ClienteID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(context.Background(), c), errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByPessoa(t *testing.T) {
	r, mock := newMockRepo(t)
	defer mock.Close()
	id := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM chamados WHERE tecnico_id = \$1 OR cliente_id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := r.CountByPessoa(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
