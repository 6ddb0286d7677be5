package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateAndCreateUser(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "store.db"))
	t.Setenv("MEDIA_ROOT", dir)
	t.Setenv("LOG_LEVEL", "error")
	envFile := filepath.Join(dir, "missing.env")

	_, err := execute(t, "migrate", "--env-file", envFile)
	require.NoError(t, err)

	out, err := execute(t, "user", "create", "--env-file", envFile,
		"--username", "admin", "--password", "password1", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, `created user "admin"`)

	_, err = execute(t, "user", "create", "--env-file", envFile,
		"--username", "admin", "--password", "password1")
	assert.Error(t, err)

	out, err = execute(t, "images", "derive", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "derived images for 0 products")
}

func TestServe_RequiresJWTSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "store.db"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "serve", "--env-file", filepath.Join(dir, "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	assert.Error(t, err)
}
