// Package apierror define o corpo padrão de erro devolvido pela API.
// Handlers e middlewares passam por aqui para não vazar detalhes internos.
package apierror

import (
	"encoding/json"
	"net/http"
	"time"
)

// Rótulos do campo "error".
const (
	LabelUnauthorized = "Não autorizado"
	LabelForbidden    = "Acesso negado"
	LabelNotFound     = "Object Not Found"
	LabelIntegrity    = "Violação de Dados"
	LabelValidation   = "Erro de validação"
	LabelRateLimit    = "Muitas requisições"
	LabelInternal     = "Erro interno"
	LabelUnavailable  = "Serviço indisponível"
)

// StandardError é o corpo de todas as respostas 4xx/5xx.
type StandardError struct {
	Timestamp int64  `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// New monta o corpo com timestamp em milissegundos.
func New(status int, label, message, path string) StandardError {
	return StandardError{
		Timestamp: time.Now().UnixMilli(),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      path,
	}
}

// Write serializa o erro para a requisição.
func Write(w http.ResponseWriter, r *http.Request, status int, label, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(New(status, label, message, r.URL.Path))
}
