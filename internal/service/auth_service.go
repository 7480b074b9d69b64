package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/errs"
	"github.com/turmab/helpdesk/internal/limiter"
	"github.com/turmab/helpdesk/internal/pessoa"
)

// ErrInvalidCredentials é a única falha exposta no login, sem distinguir email de senha.
var ErrInvalidCredentials = errs.New(errs.ErrAuthentication, "Email ou senha inválidos")

// LockedError indica login bloqueado temporariamente.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("Muitas tentativas de login. Tente novamente em %d segundos", int(e.RetryAfter.Round(time.Second).Seconds()))
}

func (e *LockedError) Unwrap() error { return errs.ErrRateLimited }

type principalStore interface {
	GetByEmail(ctx context.Context, email string) (*pessoa.Pessoa, error)
}

// AuthService concentra verificação de credenciais e emissão de tokens.
type AuthService struct {
	pessoas principalStore
	limiter limiter.Limiter
	jwt     *auth.JWTManager
	verify  func(password, hash string) (bool, error)
}

// NewAuthService cria novo serviço.
func NewAuthService(pessoas principalStore, lim limiter.Limiter, jwtMgr *auth.JWTManager) *AuthService {
	if lim == nil {
		lim = limiter.Noop{}
	}
	return &AuthService{pessoas: pessoas, limiter: lim, jwt: jwtMgr, verify: auth.Verify}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno do login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Principal   *auth.Principal
}

// Authenticate confere email e senha contra o hash armazenado.
// Email inexistente e senha errada resultam no mesmo erro e no mesmo custo.
func (s *AuthService) Authenticate(ctx context.Context, email, senha string) (*auth.Principal, error) {
	email = pessoa.NormalizeEmail(email)
	if email == "" || senha == "" {
		auth.VerifyDummy(senha)
		return nil, ErrInvalidCredentials
	}

	p, err := s.pessoas.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			auth.VerifyDummy(senha)
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.verify(senha, p.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Str("pessoa_id", p.ID.String()).Msg("login: verify password failed")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Str("pessoa_id", p.ID.String()).Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	return principalOf(p), nil
}

// Login aplica o bloqueio por tentativas, autentica e emite o token.
func (s *AuthService) Login(ctx context.Context, email, senha, ip string) (*LoginResult, error) {
	key := pessoa.NormalizeEmail(email)

	allowed, retry, err := s.limiter.Allow(ctx, key, ip)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("login: limiter indisponível")
	case !allowed:
		return nil, &LockedError{RetryAfter: retry}
	}

	principal, err := s.Authenticate(ctx, email, senha)
	if err != nil {
		if errors.Is(err, errs.ErrAuthentication) && key != "" {
			if blocked, _, ferr := s.limiter.Failure(ctx, key, ip); ferr != nil {
				log.Warn().Err(ferr).Msg("login: falha ao registrar tentativa")
			} else if blocked {
				log.Warn().Str("ip", ip).Msg("login: bloqueado por excesso de tentativas")
			}
		}
		return nil, err
	}

	if err := s.limiter.Success(ctx, key, ip); err != nil {
		log.Warn().Err(err).Msg("login: falha ao limpar tentativas")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(principal.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

// LoadPrincipal carrega o principal pelo subject do token (email).
func (s *AuthService) LoadPrincipal(ctx context.Context, email string) (*auth.Principal, error) {
	email = pessoa.NormalizeEmail(email)
	if email == "" {
		return nil, errs.ErrNotFound
	}
	p, err := s.pessoas.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return principalOf(p), nil
}

func principalOf(p *pessoa.Pessoa) *auth.Principal {
	return &auth.Principal{
		ID:          p.ID,
		Email:       strings.ToLower(p.Email),
		SenhaHash:   p.SenhaHash,
		Authorities: p.Authorities(),
	}
}
