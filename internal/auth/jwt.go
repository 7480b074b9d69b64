package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager encapsula geração e validação de tokens.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager cria o gerenciador com segredo e TTL configurados.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL, now: time.Now}
}

// AccessTTL devolve o tempo de vida padrão dos tokens emitidos.
func (m *JWTManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Issue assina um JWT HS512 com subject e expiração absoluta now+ttl.
func (m *JWTManager) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, errors.New("subject obrigatório")
	}

	now := m.now().UTC()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// GenerateAccessToken emite token com o TTL configurado.
func (m *JWTManager) GenerateAccessToken(subject string) (string, time.Time, error) {
	return m.Issue(subject, m.accessTTL)
}

// Validate devolve o subject quando assinatura e expiração conferem.
// Qualquer falha resulta em ("", false); nunca propaga erro.
func (m *JWTManager) Validate(tokenString string) (string, bool) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", false
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", false
	}

	return claims.Subject, true
}
