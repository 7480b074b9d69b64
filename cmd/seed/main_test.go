package main

import (
	"context"
	"errors"
	"testing"

	"github.com/turmab/helpdesk/internal/pessoa"
)

type stubLookup struct {
	p   *pessoa.Pessoa
	err error
}

func (s stubLookup) GetByEmail(ctx context.Context, email string) (*pessoa.Pessoa, error) {
	return s.p, s.err
}

func TestSeedSkipsWhenDataPresent(t *testing.T) {
	lookup := stubLookup{p: &pessoa.Pessoa{Email: "bill@mail.com"}}
	// serviços nil: nada pode ser gravado
	if err := seed(context.Background(), lookup, nil, nil, nil, "123"); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
}

func TestSeedPropagatesLookupFailure(t *testing.T) {
	boom := errors.New("conexão perdida")
	err := seed(context.Background(), stubLookup{err: boom}, nil, nil, nil, "123")
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
