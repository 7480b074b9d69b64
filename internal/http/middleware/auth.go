package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/http/apierror"
)

type tokenValidator interface {
	Validate(token string) (string, bool)
}

type principalLoader interface {
	LoadPrincipal(ctx context.Context, email string) (*auth.Principal, error)
}

// Authenticate lê o bearer token e, se válido, injeta o principal no contexto.
// Sem header, token inválido ou subject desconhecido: segue sem principal.
func Authenticate(tokens tokenValidator, principals principalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			subject, ok := tokens.Validate(parts[1])
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := principals.LoadPrincipal(r.Context(), subject)
			if err != nil {
				if errors.Is(err, errs.ErrNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				log.Error().Err(err).Msg("auth: falha ao carregar principal")
				apierror.Write(w, r, http.StatusInternalServerError, apierror.LabelInternal, "Erro interno do servidor")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequirePrincipal exige principal em toda rota fora da lista pública.
func RequirePrincipal(publicPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := auth.PrincipalFrom(r.Context()); !ok {
				apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, "Acesso negado: token ausente, inválido ou expirado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthority garante que o principal possua pelo menos uma das autoridades informadas.
func RequireAuthority(authorities ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				apierror.Write(w, r, http.StatusUnauthorized, apierror.LabelUnauthorized, "Acesso negado: token ausente, inválido ou expirado")
				return
			}
			if !principal.HasAuthority(authorities...) {
				apierror.Write(w, r, http.StatusForbidden, apierror.LabelForbidden, "Acesso negado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSubject devolve o email do principal autenticado.
func GetSubject(ctx context.Context) string {
	if p, ok := auth.PrincipalFrom(ctx); ok {
		return p.Email
	}
	return ""
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}
