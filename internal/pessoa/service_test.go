package pessoa

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/errs"
)

type memStore struct {
	byID    map[uuid.UUID]Pessoa
	creates int
	updates int
	deletes int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[uuid.UUID]Pessoa)}
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*Pessoa, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetByCPF(ctx context.Context, cpf string) (*Pessoa, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, p := range m.byID {
		if p.CPF == cpf {
			p := p
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*Pessoa, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, p := range m.byID {
		if p.Email == NormalizeEmail(email) {
			p := p
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memStore) ListByPerfil(ctx context.Context, perfil Perfil) ([]Pessoa, error) {
	out := make([]Pessoa, 0)
	for _, p := range m.byID {
		if p.HasPerfil(perfil) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) Create(ctx context.Context, p *Pessoa) error {
	m.creates++
	m.byID[p.ID] = *p
	return nil
}

func (m *memStore) Update(ctx context.Context, p *Pessoa) error {
	if _, ok := m.byID[p.ID]; !ok {
		return errs.ErrNotFound
	}
	m.updates++
	m.byID[p.ID] = *p
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return errs.ErrNotFound
	}
	m.deletes++
	delete(m.byID, id)
	return nil
}

type stubCounter struct {
	counts map[uuid.UUID]int
}

func (s stubCounter) CountByPessoa(ctx context.Context, pessoaID uuid.UUID) (int, error) {
	return s.counts[pessoaID], nil
}

func fastHash(senha string) (string, error) {
	return "hash:" + senha, nil
}

func newTestService(perfil Perfil, store *memStore, counter stubCounter) *Service {
	svc := NewService(perfil, store, NewGuard(store, counter))
	svc.hash = fastHash
	svc.now = func() time.Time { return time.Date(2024, 2, 20, 15, 4, 5, 0, time.UTC) }
	return svc
}

func adminCtx() context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{Email: "root@mail.com", Authorities: []string{RoleAdmin}})
}

func tecnicoCtx() context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{Email: "tec@mail.com", Authorities: []string{RoleTecnico}})
}

func TestCreateTecnicoAddsRoleAndDate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Tecnico, store, stubCounter{})

	p, err := svc.Create(adminCtx(), Input{
		Nome:   " Bill Gates ",
		CPF:    "70045777093",
		Email:  "Bill@Mail.com",
		Senha:  "123",
		Perfis: []int{0},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if p.Nome != "Bill Gates" || p.Email != "bill@mail.com" {
		t.Fatalf("expected normalized fields, got %+v", p)
	}
	if !p.HasPerfil(Tecnico) || !p.HasPerfil(Admin) {
		t.Fatalf("expected TECNICO and ADMIN, got %v", p.Perfis)
	}
	if p.SenhaHash != "hash:123" {
		t.Fatalf("expected hashed password, got %q", p.SenhaHash)
	}
	want := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	if !p.DataCriacao.Equal(want) {
		t.Fatalf("expected dataCriacao %v, got %v", want, p.DataCriacao)
	}
	if store.creates != 1 {
		t.Fatalf("expected one create, got %d", store.creates)
	}
}

func TestCreateRequiresSenha(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Cliente, store, stubCounter{})

	_, err := svc.Create(context.Background(), Input{Nome: "Linus", CPF: "70511744013", Email: "linus@mail.com"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestCreateRejectsUnknownPerfil(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Cliente, store, stubCounter{})

	_, err := svc.Create(context.Background(), Input{Nome: "Linus", CPF: "70511744013", Email: "linus@mail.com", Senha: "123", Perfis: []int{7}})
	if !errors.Is(err, errs.ErrValidation) || !strings.Contains(err.Error(), "7") {
		t.Fatalf("expected validation error naming the code, got %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestCreateRejectsDuplicateCPFAcrossRoles(t *testing.T) {
	store := newMemStore()
	tecnicos := newTestService(Tecnico, store, stubCounter{})
	clientes := newTestService(Cliente, store, stubCounter{})

	if _, err := tecnicos.Create(context.Background(), Input{Nome: "Bill", CPF: "70045777093", Email: "bill@mail.com", Senha: "123"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := clientes.Create(context.Background(), Input{Nome: "Outro", CPF: "70045777093", Email: "outro@mail.com", Senha: "123"})
	if !errors.Is(err, errs.ErrIntegrityViolation) || err.Error() != MsgCPFDuplicado {
		t.Fatalf("expected cpf integrity error, got %v", err)
	}

	_, err = clientes.Create(context.Background(), Input{Nome: "Outro", CPF: "11111111111", Email: "BILL@mail.com", Senha: "123"})
	if !errors.Is(err, errs.ErrIntegrityViolation) || err.Error() != MsgEmailDuplicado {
		t.Fatalf("expected email integrity error, got %v", err)
	}

	if store.creates != 1 {
		t.Fatalf("expected only the first create, got %d", store.creates)
	}
}

func TestUpdateOwnRecordPassesGuardAndKeepsHash(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Tecnico, store, stubCounter{})

	created, err := svc.Create(context.Background(), Input{Nome: "Bill", CPF: "70045777093", Email: "bill@mail.com", Senha: "123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	updated, err := svc.Update(context.Background(), created.ID, Input{Nome: "Bill Gates", CPF: "70045777093", Email: "bill@mail.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nome != "Bill Gates" {
		t.Fatalf("expected new name, got %q", updated.Nome)
	}
	if updated.SenhaHash != created.SenhaHash {
		t.Fatalf("expected hash to be kept")
	}
	if !updated.DataCriacao.Equal(created.DataCriacao) {
		t.Fatalf("dataCriacao must not change")
	}

	again, err := svc.Update(context.Background(), created.ID, Input{Nome: "Bill Gates", CPF: "70045777093", Email: "bill@mail.com", Senha: "nova"})
	if err != nil {
		t.Fatalf("update senha: %v", err)
	}
	if again.SenhaHash != "hash:nova" {
		t.Fatalf("expected new hash, got %q", again.SenhaHash)
	}
}

func TestUpdateRejectsEmailOfAnotherPessoa(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Cliente, store, stubCounter{})

	a, err := svc.Create(context.Background(), Input{Nome: "A", CPF: "11111111111", Email: "a@mail.com", Senha: "1"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.Create(context.Background(), Input{Nome: "B", CPF: "22222222222", Email: "b@mail.com", Senha: "1"}); err != nil {
		t.Fatalf("create b: %v", err)
	}

	_, err = svc.Update(context.Background(), a.ID, Input{Nome: "A", CPF: "11111111111", Email: "b@mail.com"})
	if !errors.Is(err, errs.ErrIntegrityViolation) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	if store.updates != 0 {
		t.Fatalf("expected no update persisted")
	}
}

func TestFindByIDRequiresPerfil(t *testing.T) {
	store := newMemStore()
	clientes := newTestService(Cliente, store, stubCounter{})
	tecnicos := newTestService(Tecnico, store, stubCounter{})

	c, err := clientes.Create(context.Background(), Input{Nome: "Linus", CPF: "70511744013", Email: "linus@mail.com", Senha: "123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := tecnicos.FindByID(context.Background(), c.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for cliente via tecnicos, got %v", err)
	}

	missing := uuid.New()
	_, err = clientes.FindByID(context.Background(), missing)
	if !errors.Is(err, errs.ErrNotFound) || !strings.Contains(err.Error(), missing.String()) {
		t.Fatalf("expected not found naming the id, got %v", err)
	}
}

func TestDeleteBlockedWhenReferenced(t *testing.T) {
	store := newMemStore()
	counter := stubCounter{counts: map[uuid.UUID]int{}}
	svc := newTestService(Tecnico, store, counter)

	p, err := svc.Create(context.Background(), Input{Nome: "Bill", CPF: "70045777093", Email: "bill@mail.com", Senha: "123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	counter.counts[p.ID] = 1

	err = svc.Delete(context.Background(), p.ID)
	if !errors.Is(err, errs.ErrIntegrityViolation) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	if err.Error() != "Técnico possui ordens de serviço e não pode ser deletado!" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if store.deletes != 0 {
		t.Fatalf("expected no delete")
	}
	if _, ok := store.byID[p.ID]; !ok {
		t.Fatalf("pessoa must remain")
	}
}

func TestDeleteWithoutReferences(t *testing.T) {
	store := newMemStore()
	svc := newTestService(Cliente, store, stubCounter{})

	p, err := svc.Create(context.Background(), Input{Nome: "Linus", CPF: "70511744013", Email: "linus@mail.com", Senha: "123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.byID[p.ID]; ok {
		t.Fatalf("expected pessoa to be removed")
	}
}

func TestListFiltersByPerfil(t *testing.T) {
	store := newMemStore()
	tecnicos := newTestService(Tecnico, store, stubCounter{})
	clientes := newTestService(Cliente, store, stubCounter{})

	if _, err := tecnicos.Create(context.Background(), Input{Nome: "Bill", CPF: "70045777093", Email: "bill@mail.com", Senha: "1"}); err != nil {
		t.Fatalf("create tecnico: %v", err)
	}
	if _, err := clientes.Create(context.Background(), Input{Nome: "Linus", CPF: "70511744013", Email: "linus@mail.com", Senha: "1"}); err != nil {
		t.Fatalf("create cliente: %v", err)
	}

	list, err := tecnicos.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Nome != "Bill" {
		t.Fatalf("expected only Bill, got %+v", list)
	}
}

func TestGuardPropagatesStoreErrors(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("conexão perdida")
	guard := NewGuard(store, stubCounter{})

	err := guard.CheckUniqueness(context.Background(), &Pessoa{CPF: "1", Email: "x@mail.com"}, uuid.Nil)
	if err == nil || errors.Is(err, errs.ErrIntegrityViolation) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestOnlyAdminGrantsAdmin(t *testing.T) {
	store := newMemStore()
	clientes := newTestService(Cliente, store, stubCounter{})

	_, err := clientes.Create(tecnicoCtx(), Input{Nome: "Eve", CPF: "11111111111", Email: "eve@mail.com", Senha: "1", Perfis: []int{0}})
	if !errors.Is(err, errs.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("nothing must be persisted")
	}

	p, err := clientes.Create(tecnicoCtx(), Input{Nome: "Ana", CPF: "22222222222", Email: "ana@mail.com", Senha: "1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = clientes.Update(tecnicoCtx(), p.ID, Input{Nome: "Ana", CPF: "22222222222", Email: "ana@mail.com", Perfis: []int{0}})
	if !errors.Is(err, errs.ErrAuthorization) {
		t.Fatalf("expected authorization error on promotion, got %v", err)
	}
	stored := store.byID[p.ID]
	if stored.HasPerfil(Admin) {
		t.Fatalf("pessoa must not become admin")
	}
}

func TestNonAdminCannotUpdateAdmin(t *testing.T) {
	store := newMemStore()
	clientes := newTestService(Cliente, store, stubCounter{})

	boss, err := clientes.Create(adminCtx(), Input{Nome: "Boss", CPF: "33333333333", Email: "boss@mail.com", Senha: "1", Perfis: []int{0}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = clientes.Update(tecnicoCtx(), boss.ID, Input{Nome: "Boss", CPF: "33333333333", Email: "eve@mail.com", Senha: "trocada"})
	if !errors.Is(err, errs.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if got := store.byID[boss.ID]; got.Email != "boss@mail.com" || got.SenhaHash != "hash:1" {
		t.Fatalf("admin record must be untouched, got %+v", got)
	}

	// admin pode revogar enviando perfis sem o código 0
	updated, err := clientes.Update(adminCtx(), boss.ID, Input{Nome: "Boss", CPF: "33333333333", Email: "boss@mail.com", Perfis: []int{}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.HasPerfil(Admin) {
		t.Fatalf("expected admin revoked, got %v", updated.Perfis)
	}
}

func TestUpdateKeepsOtherSubtypeRoles(t *testing.T) {
	store := newMemStore()
	tecnicos := newTestService(Tecnico, store, stubCounter{})
	clientes := newTestService(Cliente, store, stubCounter{})

	dual, err := tecnicos.Create(adminCtx(), Input{Nome: "Dual", CPF: "44444444444", Email: "dual@mail.com", Senha: "1", Perfis: []int{0, 1}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := clientes.Update(adminCtx(), dual.ID, Input{Nome: "Dual Renomeado", CPF: "44444444444", Email: "dual@mail.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, want := range []Perfil{Admin, Cliente, Tecnico} {
		if !updated.HasPerfil(want) {
			t.Fatalf("expected %s kept, got %v", want, updated.Perfis)
		}
	}
	if _, err := tecnicos.FindByID(context.Background(), dual.ID); err != nil {
		t.Fatalf("still a tecnico: %v", err)
	}
}
