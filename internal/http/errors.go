package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/http/apierror"
	"github.com/turmab/helpdesk/internal/service"
)

const msgInternal = "Erro interno do servidor"

// writeServiceError traduz o tipo do erro para status e corpo padrão.
// Erros fora do pacote errs viram 500 sem detalhes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrAuthentication):
		apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, errs.Message(err, "Não autorizado"))
	case errors.Is(err, errs.ErrAuthorization):
		apierror.Write(w, r, http.StatusForbidden, apierror.LabelForbidden, errs.Message(err, "Acesso negado"))
	case errors.Is(err, errs.ErrNotFound):
		apierror.Write(w, r, http.StatusNotFound, apierror.LabelNotFound, errs.Message(err, "Objeto não encontrado!"))
	case errors.Is(err, errs.ErrIntegrityViolation):
		apierror.Write(w, r, http.StatusBadRequest, apierror.LabelIntegrity, errs.Message(err, "Violação de dados"))
	case errors.Is(err, errs.ErrValidation):
		apierror.Write(w, r, http.StatusBadRequest, apierror.LabelValidation, errs.Message(err, "Erro na validação dos campos"))
	case errors.Is(err, errs.ErrRateLimited):
		var locked *service.LockedError
		if errors.As(err, &locked) {
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(locked.RetryAfter)))
		}
		apierror.Write(w, r, http.StatusTooManyRequests, apierror.LabelRateLimit, err.Error())
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("erro não tratado")
		apierror.Write(w, r, http.StatusInternalServerError, apierror.LabelInternal, msgInternal)
	}
}

func retrySeconds(d time.Duration) int {
	s := int(d.Round(time.Second).Seconds())
	if s < 1 {
		return 1
	}
	return s
}
