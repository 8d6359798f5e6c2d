package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/pkg/config"
)

func TestEmbeddedMigrationsAreGooseAnnotated(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.Contains(t, body, "-- +goose Up", entry.Name())
		assert.Contains(t, body, "-- +goose Down", entry.Name())
	}
}

func TestRoleMigrationDefaultsToStudent(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/00002_add_role_to_users.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "DEFAULT 'student'"))
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	err := Migrate(nil, "sideways", nil)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "site", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=site sslmode=disable", dsn)
}
