package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "crm.db"))
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))
	t.Setenv("RABBITMQ_URL", "")
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndCreateUser(t *testing.T) {
	setupEnv(t)

	out, err := run(t, migrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")

	out, err = run(t, createUserCmd(), "--email", "Boss@Agency.ua", "--password", "secret123", "--role", "Керівник")
	require.NoError(t, err)
	assert.Contains(t, out, "Created CEO boss@agency.ua")

	_, err = run(t, createUserCmd(), "--email", "boss@agency.ua", "--password", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestCreateUser_BadRole(t *testing.T) {
	setupEnv(t)

	_, err := run(t, createUserCmd(), "--email", "a@b.ua", "--password", "secret123", "--role", "intern")
	require.Error(t, err)
}

func TestPruneUploads_Empty(t *testing.T) {
	setupEnv(t)

	_, err := run(t, migrateCmd())
	require.NoError(t, err)

	out, err := run(t, pruneUploadsCmd(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "No orphaned uploads.")
}

func TestEvents_RequiresBroker(t *testing.T) {
	setupEnv(t)

	_, err := run(t, eventsCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RABBITMQ_URL")
}
