// Comando seed popula o banco de desenvolvimento com um técnico, um cliente e um chamado.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/chamado"
	"github.com/turmab/helpdesk/internal/config"
	"github.com/turmab/helpdesk/internal/db"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/migrate"
	"github.com/turmab/helpdesk/internal/pessoa"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("seed falhou")
	}
}

func run(args []string) error {
	var senha string
	var skipMigrate bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&senha, "senha", "123", "senha dos usuários de exemplo")
	flagSet.BoolVar(&skipMigrate, "skip-migrate", false, "não aplica as migrações antes de popular")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	if !skipMigrate {
		if err := migrate.Up(ctx, cfg.DBDSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	pessoas := pessoa.NewRepository(pool)
	chamados := chamado.NewRepository(pool)
	guard := pessoa.NewGuard(pessoas, chamados)
	tecnicos := pessoa.NewService(pessoa.Tecnico, pessoas, guard)
	clientes := pessoa.NewService(pessoa.Cliente, pessoas, guard)

	return seed(ctx, pessoas, tecnicos, clientes, chamado.NewService(chamados, tecnicos, clientes), senha)
}

type emailLookup interface {
	GetByEmail(ctx context.Context, email string) (*pessoa.Pessoa, error)
}

func seed(ctx context.Context, lookup emailLookup, tecnicos, clientes *pessoa.Service, chamados *chamado.Service, senha string) error {
	if _, err := lookup.GetByEmail(ctx, "bill@mail.com"); err == nil {
		log.Info().Msg("dados de exemplo já presentes")
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	// o seed age como administrador para poder conceder ADMIN
	ctx = auth.WithPrincipal(ctx, &auth.Principal{Email: "seed", Authorities: []string{pessoa.RoleAdmin}})

	tec, err := tecnicos.Create(ctx, pessoa.Input{
		Nome:   "Bill Gates",
		CPF:    "70045777093",
		Email:  "bill@mail.com",
		Senha:  senha,
		Perfis: []int{pessoa.Admin.Code()},
	})
	if err != nil {
		return fmt.Errorf("técnico: %w", err)
	}

	cli, err := clientes.Create(ctx, pessoa.Input{
		Nome:  "Linus Torvalds",
		CPF:   "70511744013",
		Email: "linus@mail.com",
		Senha: senha,
	})
	if err != nil {
		return fmt.Errorf("cliente: %w", err)
	}

	c, err := chamados.Create(ctx, chamado.Input{
		Prioridade:  int(chamado.Media),
		Status:      int(chamado.Andamento),
		Titulo:      "Chamado 01",
		Observacoes: "Primeiro chamado",
		Tecnico:     tec.ID,
		Cliente:     cli.ID,
	})
	if err != nil {
		return fmt.Errorf("chamado: %w", err)
	}

	log.Info().Str("tecnico", tec.ID.String()).Str("cliente", cli.ID.String()).Str("chamado", c.ID.String()).Msg("dados de exemplo criados")
	return nil
}
