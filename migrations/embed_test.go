package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitMigrationCarriesConstraints(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	raw, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	sql := string(raw)

	for _, fragment := range []string{
		"-- +goose Up",
		"-- +goose Down",
		"CONSTRAINT pessoas_cpf_key UNIQUE (cpf)",
		"CONSTRAINT pessoas_email_key UNIQUE (email)",
		"ON DELETE RESTRICT",
	} {
		require.True(t, strings.Contains(sql, fragment), "missing %q", fragment)
	}
}
