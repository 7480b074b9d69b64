package chamado

import (
	"time"

	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/errs"
)

// Prioridade do chamado.
type Prioridade int

const (
	Baixa Prioridade = 0
	Media Prioridade = 1
	Alta  Prioridade = 2
)

var prioridades = [...]string{Baixa: "BAIXA", Media: "MEDIA", Alta: "ALTA"}

// PrioridadeFromCode converte código em Prioridade.
func PrioridadeFromCode(code int) (Prioridade, error) {
	if code < 0 || code >= len(prioridades) {
		return 0, errs.Validation("Prioridade inválida: %d", code)
	}
	return Prioridade(code), nil
}

func (p Prioridade) String() string {
	if p < 0 || int(p) >= len(prioridades) {
		return "DESCONHECIDA"
	}
	return prioridades[p]
}

// Status do chamado.
type Status int

const (
	Aberto    Status = 0
	Andamento Status = 1
	Encerrado Status = 2
)

var statuses = [...]string{Aberto: "ABERTO", Andamento: "ANDAMENTO", Encerrado: "ENCERRADO"}

// StatusFromCode converte código em Status.
func StatusFromCode(code int) (Status, error) {
	if code < 0 || code >= len(statuses) {
		return 0, errs.Validation("Status inválido: %d", code)
	}
	return Status(code), nil
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statuses) {
		return "DESCONHECIDO"
	}
	return statuses[s]
}

// Chamado é uma ordem de serviço aberta por um cliente e atendida por um técnico.
type Chamado struct {
	ID             uuid.UUID  `json:"id"`
	DataAbertura   time.Time  `json:"dataAbertura"`
	DataFechamento *time.Time `json:"dataFechamento"`
	Prioridade     Prioridade `json:"prioridade"`
	Status         Status     `json:"status"`
	Titulo         string     `json:"titulo"`
	Observacoes    string     `json:"observacoes"`
	TecnicoID      uuid.UUID  `json:"tecnico"`
	ClienteID      uuid.UUID  `json:"cliente"`
	NomeTecnico    string     `json:"nomeTecnico"`
	NomeCliente    string     `json:"nomeCliente"`
}

// applyStatus define o status e mantém a data de fechamento presente apenas quando encerrado.
func (c *Chamado) applyStatus(status Status, today time.Time) {
	c.Status = status
	if status == Encerrado {
		closed := today
		c.DataFechamento = &closed
		return
	}
	c.DataFechamento = nil
}

// Input carrega os campos de abertura e atualização, com códigos numéricos.
type Input struct {
	Prioridade  int
	Status      int
	Titulo      string
	Observacoes string
	Tecnico     uuid.UUID
	Cliente     uuid.UUID
}
