package auth

import (
	"errors"
	"strings"
	"sync"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hash gera um hash Argon2id (inclui os parâmetros dentro do próprio hash).
func Hash(password string) (string, error) {
	return argon2id.CreateHash(password, params)
}

// HashBcrypt gera hash bcrypt, formato usado pelos cadastros importados do sistema legado.
func HashBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara a senha com o hash armazenado.
// Hashes bcrypt ($2a$, $2b$, $2y$) são aceitos; o restante é tratado como Argon2id.
func Verify(password, encodedHash string) (bool, error) {
	if IsBcryptHash(encodedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return argon2id.ComparePasswordAndHash(password, encodedHash)
}

// IsBcryptHash indica se o hash está no formato bcrypt.
func IsBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := Hash("senha-de-referencia")
	if err != nil {
		return ""
	}
	return hash
})

// VerifyDummy executa uma verificação descartável, usada quando o email não existe,
// para que a resposta leve o mesmo tempo nos dois casos.
func VerifyDummy(password string) {
	if hash := dummyHash(); hash != "" {
		_, _ = argon2id.ComparePasswordAndHash(password, hash)
	}
}
