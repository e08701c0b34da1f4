package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

var (
	// ErrUsernameTaken is returned when the users.username unique index rejects an insert.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the users.email unique index rejects an insert.
	ErrEmailTaken = errors.New("email already in use")
	// ErrMissingReference is returned when a foreign key target vanished before insert.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// translatePgError maps constraint violations onto repository sentinels.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case usernameConstraint:
			return ErrUsernameTaken
		case emailConstraint:
			return ErrEmailTaken
		}
	case pgForeignKeyViolation:
		return ErrMissingReference
	}
	return err
}
