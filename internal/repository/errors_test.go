package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username index", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: usernameConstraint}, ErrUsernameTaken},
		{"email index", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: emailConstraint}, ErrEmailTaken},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: emailConstraint}), ErrEmailTaken},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "complaints_application_id_fkey"}, ErrMissingReference},
		{"plain error untouched", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translatePgError(tt.err), tt.want)
		})
	}

	other := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "something_else"}
	assert.Same(t, error(other), translatePgError(other))
}
