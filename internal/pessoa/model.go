package pessoa

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/errs"
)

// Perfil é o papel atribuído a uma pessoa.
type Perfil int

const (
	Admin   Perfil = 0
	Cliente Perfil = 1
	Tecnico Perfil = 2
)

type perfilInfo struct {
	nome      string
	authority string
	rotulo    string
}

// tabela fechada código -> nome -> autoridade
var perfis = [...]perfilInfo{
	Admin:   {nome: "ADMIN", authority: "ROLE_ADMIN", rotulo: "Administrador"},
	Cliente: {nome: "CLIENTE", authority: "ROLE_CLIENTE", rotulo: "Cliente"},
	Tecnico: {nome: "TECNICO", authority: "ROLE_TECNICO", rotulo: "Técnico"},
}

// Autoridades conhecidas, usadas nas regras de rota.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleCliente = "ROLE_CLIENTE"
	RoleTecnico = "ROLE_TECNICO"
)

// PerfilFromCode converte o código numérico em Perfil.
func PerfilFromCode(code int) (Perfil, error) {
	if code < 0 || code >= len(perfis) {
		return 0, errs.Validation("Perfil inválido: %d", code)
	}
	return Perfil(code), nil
}

func (p Perfil) valid() bool { return p >= 0 && int(p) < len(perfis) }

// Code devolve o código numérico.
func (p Perfil) Code() int { return int(p) }

// String devolve o nome (ADMIN, CLIENTE, TECNICO).
func (p Perfil) String() string {
	if !p.valid() {
		return "DESCONHECIDO"
	}
	return perfis[p].nome
}

// Authority devolve a autoridade (ROLE_*).
func (p Perfil) Authority() string {
	if !p.valid() {
		return ""
	}
	return perfis[p].authority
}

// Label devolve o rótulo usado em mensagens.
func (p Perfil) Label() string {
	if !p.valid() {
		return "Pessoa"
	}
	return perfis[p].rotulo
}

// MarshalJSON serializa o perfil pelo nome.
func (p Perfil) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Pessoa é o registro único de técnicos, clientes e administradores.
type Pessoa struct {
	ID          uuid.UUID `json:"id"`
	Nome        string    `json:"nome"`
	CPF         string    `json:"cpf"`
	Email       string    `json:"email"`
	SenhaHash   string    `json:"-"`
	Perfis      []Perfil  `json:"perfis"`
	DataCriacao time.Time `json:"dataCriacao"`
}

// HasPerfil indica se a pessoa possui o perfil.
func (p *Pessoa) HasPerfil(perfil Perfil) bool {
	for _, held := range p.Perfis {
		if held == perfil {
			return true
		}
	}
	return false
}

// AddPerfil inclui o perfil mantendo o conjunto ordenado e sem repetição.
func (p *Pessoa) AddPerfil(perfil Perfil) {
	if p.HasPerfil(perfil) {
		return
	}
	p.Perfis = append(p.Perfis, perfil)
	sort.Slice(p.Perfis, func(i, j int) bool { return p.Perfis[i] < p.Perfis[j] })
}

// Authorities devolve as autoridades derivadas dos perfis.
func (p *Pessoa) Authorities() []string {
	out := make([]string, 0, len(p.Perfis))
	for _, perfil := range p.Perfis {
		if a := perfil.Authority(); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Input carrega os campos de criação e atualização.
// Senha vazia na atualização mantém o hash atual.
type Input struct {
	Nome   string
	CPF    string
	Email  string
	Senha  string
	Perfis []int
}

// NormalizeEmail padroniza o email usado como login.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
