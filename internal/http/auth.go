package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/http/apierror"
	httpmiddleware "github.com/turmab/helpdesk/internal/http/middleware"
	"github.com/turmab/helpdesk/internal/service"
)

const msgLoginFailed = "Email ou senha inválidos"

// Login autentica email e senha e devolve o token no header Authorization.
// Qualquer falha de credencial ou corpo malformado resulta no mesmo 401.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credenciaisRequest
	if err := decodeJSON(r, &creds); err != nil {
		auth.VerifyDummy("")
		apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, msgLoginFailed)
		return
	}

	result, err := h.auth.Login(r.Context(), creds.Email, creds.Senha, httpmiddleware.RealIP(r))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAuthentication):
			apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, msgLoginFailed)
		case errors.Is(err, errs.ErrRateLimited):
			writeServiceError(w, r, err)
		default:
			log.Error().Err(err).Msg("login: falha inesperada")
			apierror.Write(w, r, http.StatusInternalServerError, apierror.LabelInternal, msgInternal)
		}
		return
	}

	w.Header().Set("Authorization", "Bearer "+result.AccessToken)
	w.Header().Set("Access-Control-Expose-Headers", "Authorization")
	w.WriteHeader(http.StatusOK)
}

type meResponse struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Authorities []string         `json:"authorities"`
	Actions     []service.Action `json:"actions"`
}

// Me devolve o principal autenticado e as ações liberadas para ele.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, "Acesso negado: token ausente, inválido ou expirado")
		return
	}

	authorities := p.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	WriteJSON(w, http.StatusOK, meResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		Authorities: authorities,
		Actions:     h.rbac.Allowed(p),
	})
}
