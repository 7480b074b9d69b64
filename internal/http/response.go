package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/turmab/helpdesk/internal/errs"
)

// WriteJSON serializa o corpo com o status informado.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON lê o corpo (até 1 MiB) e rejeita JSON malformado.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("Corpo da requisição vazio")
		}
		return errs.Validation("JSON inválido")
	}
	return nil
}

// writeCreated responde 201 com Location apontando para o novo recurso.
func writeCreated(w http.ResponseWriter, r *http.Request, id string) {
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+id)
	w.WriteHeader(http.StatusCreated)
}
