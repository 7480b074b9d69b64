// Package errs concentra os tipos de erro compartilhados entre stores, serviços e HTTP.
package errs

import (
	"errors"
	"fmt"
)

// Sentinelas usadas para o mapeamento estável de erros na borda HTTP.
var (
	// ErrNotFound indica que o registro não existe.
	ErrNotFound = errors.New("objeto não encontrado")
	// ErrIntegrityViolation indica violação de unicidade ou de referência.
	ErrIntegrityViolation = errors.New("violação de dados")
	// ErrValidation indica entrada malformada ou código de domínio desconhecido.
	ErrValidation = errors.New("dados inválidos")
	// ErrAuthentication indica falha de credenciais.
	ErrAuthentication = errors.New("credenciais inválidas")
	// ErrAuthorization indica principal ausente ou sem autoridade.
	ErrAuthorization = errors.New("acesso negado")
	// ErrRateLimited indica bloqueio temporário de login.
	ErrRateLimited = errors.New("muitas tentativas")
)

// Error carrega a mensagem exibida ao cliente e o tipo (sentinela) do erro.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New cria erro do tipo informado.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound cria erro de objeto inexistente.
func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

// Integrity cria erro de violação de integridade.
func Integrity(format string, args ...any) error {
	return New(ErrIntegrityViolation, format, args...)
}

// Validation cria erro de validação.
func Validation(format string, args ...any) error {
	return New(ErrValidation, format, args...)
}

// Message devolve a mensagem pública do erro, ou fallback quando o erro não é do pacote.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
