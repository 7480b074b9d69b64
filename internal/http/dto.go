package http

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/chamado"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/pessoa"
)

// datas trafegam como dd/MM/yyyy
const dateLayout = "02/01/2006"

type credenciaisRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// pessoaRequest é o corpo de criação e atualização de técnicos e clientes.
// Campos id e dataCriacao enviados pelo cliente são ignorados.
type pessoaRequest struct {
	Nome   string `json:"nome" validate:"required,max=120"`
	CPF    string `json:"cpf" validate:"required,numeric,len=11"`
	Email  string `json:"email" validate:"required,email"`
	Senha  string `json:"senha"`
	Perfis []int  `json:"perfis"`
}

func (p pessoaRequest) input() pessoa.Input {
	return pessoa.Input{Nome: p.Nome, CPF: p.CPF, Email: p.Email, Senha: p.Senha, Perfis: p.Perfis}
}

type pessoaResponse struct {
	ID          uuid.UUID       `json:"id"`
	Nome        string          `json:"nome"`
	CPF         string          `json:"cpf"`
	Email       string          `json:"email"`
	Perfis      []pessoa.Perfil `json:"perfis"`
	DataCriacao string          `json:"dataCriacao"`
}

func toPessoaResponse(p *pessoa.Pessoa) pessoaResponse {
	perfis := p.Perfis
	if perfis == nil {
		perfis = []pessoa.Perfil{}
	}
	return pessoaResponse{
		ID:          p.ID,
		Nome:        p.Nome,
		CPF:         p.CPF,
		Email:       p.Email,
		Perfis:      perfis,
		DataCriacao: formatDate(p.DataCriacao),
	}
}

func toPessoaResponses(list []pessoa.Pessoa) []pessoaResponse {
	out := make([]pessoaResponse, 0, len(list))
	for i := range list {
		out = append(out, toPessoaResponse(&list[i]))
	}
	return out
}

type chamadoRequest struct {
	Prioridade  *int   `json:"prioridade" validate:"required"`
	Status      *int   `json:"status" validate:"required"`
	Titulo      string `json:"titulo"`
	Observacoes string `json:"observacoes"`
	Tecnico     string `json:"tecnico" validate:"required"`
	Cliente     string `json:"cliente" validate:"required"`
}

func (c chamadoRequest) input() (chamado.Input, error) {
	tecnico, err := uuid.Parse(strings.TrimSpace(c.Tecnico))
	if err != nil {
		return chamado.Input{}, errs.Validation("O campo TECNICO é inválido")
	}
	cliente, err := uuid.Parse(strings.TrimSpace(c.Cliente))
	if err != nil {
		return chamado.Input{}, errs.Validation("O campo CLIENTE é inválido")
	}
	return chamado.Input{
		Prioridade:  *c.Prioridade,
		Status:      *c.Status,
		Titulo:      c.Titulo,
		Observacoes: c.Observacoes,
		Tecnico:     tecnico,
		Cliente:     cliente,
	}, nil
}

type chamadoResponse struct {
	ID             uuid.UUID `json:"id"`
	DataAbertura   string    `json:"dataAbertura"`
	DataFechamento *string   `json:"dataFechamento"`
	Prioridade     int       `json:"prioridade"`
	Status         int       `json:"status"`
	Titulo         string    `json:"titulo"`
	Observacoes    string    `json:"observacoes"`
	Tecnico        uuid.UUID `json:"tecnico"`
	Cliente        uuid.UUID `json:"cliente"`
	NomeTecnico    string    `json:"nomeTecnico"`
	NomeCliente    string    `json:"nomeCliente"`
}

func toChamadoResponse(c *chamado.Chamado) chamadoResponse {
	out := chamadoResponse{
		ID:           c.ID,
		DataAbertura: formatDate(c.DataAbertura),
		Prioridade:   int(c.Prioridade),
		Status:       int(c.Status),
		Titulo:       c.Titulo,
		Observacoes:  c.Observacoes,
		Tecnico:      c.TecnicoID,
		Cliente:      c.ClienteID,
		NomeTecnico:  c.NomeTecnico,
		NomeCliente:  c.NomeCliente,
	}
	if c.DataFechamento != nil {
		closed := formatDate(*c.DataFechamento)
		out.DataFechamento = &closed
	}
	return out
}

func toChamadoResponses(list []chamado.Chamado) []chamadoResponse {
	out := make([]chamadoResponse, 0, len(list))
	for i := range list {
		out = append(out, toChamadoResponse(&list[i]))
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
