package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/http/apierror"
)

// Recover garante resposta sanitizada em caso de panic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recuperado")
				apierror.Write(w, r, http.StatusInternalServerError, apierror.LabelInternal, "Erro interno do servidor")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
