package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/pkg/config"
)

func newAdmin(t *testing.T, passwords ...string) (*admin, sqlmock.Sqlmock, *bytes.Buffer, *int) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	opened := 0
	out := &bytes.Buffer{}
	return &admin{
		cfg:    &config.Config{Auth: config.AuthConfig{MinPasswordLength: 4}},
		logger: zap.NewNop(),
		out:    out,
		openDB: func(context.Context) (*sqlx.DB, error) {
			opened++
			return sqlx.NewDb(db, "sqlmock"), nil
		},
		readPassword: func(string) (string, error) {
			if len(passwords) == 0 {
				return "", errors.New("no input")
			}
			p := passwords[0]
			passwords = passwords[1:]
			return p, nil
		},
	}, mock, out, &opened
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	a, _, _, opened := newAdmin(t)

	assert.Error(t, a.run(context.Background(), nil))
	assert.Error(t, a.run(context.Background(), []string{"drop-everything"}))
	assert.Error(t, a.run(context.Background(), []string{"migrate", "sideways"}))
	assert.Zero(t, *opened)
}

func TestMakeAdminRequiresUsername(t *testing.T) {
	a, _, _, opened := newAdmin(t)

	err := a.run(context.Background(), []string{"make-admin"})
	assert.ErrorContains(t, err, "-username is required")
	assert.Zero(t, *opened)
}

func TestMakeAdminPromotesAccount(t *testing.T) {
	a, mock, out, _ := newAdmin(t)
	now := time.Now()
	columns := []string{"id", "username", "password_hash", "role", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
		WithArgs("mei").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("u1", "mei", "hash", "student", now, now))
	mock.ExpectExec("UPDATE users SET role = \\$2").
		WithArgs("u1", "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, a.run(context.Background(), []string{"make-admin", "-username", "mei"}))
	assert.Contains(t, out.String(), "mei is now an admin")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordRequiresMatchingConfirmation(t *testing.T) {
	a, _, _, opened := newAdmin(t, "secret1", "secret2")

	err := a.run(context.Background(), []string{"reset-password", "-username", "mei"})
	assert.ErrorContains(t, err, "passwords do not match")
	assert.Zero(t, *opened)
}
