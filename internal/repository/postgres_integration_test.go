package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/persistence"
)

// newTestPool migrates the database at POSTGRES_TEST_DSN and empties it. The DSN must
// point at a throwaway database.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	require.NoError(t, persistence.RunMigrations(dsn, persistence.MigrateUp, zap.NewNop()))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, applications, complaints RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, users UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@x.io", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestPostgresUserConstraints(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	alice := createUser(t, users, "alice")
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	err := users.Create(ctx, &domain.User{Username: "alice", Email: "other@x.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	err = users.Create(ctx, &domain.User{Username: "bob", Email: "alice@x.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, users.Delete(ctx, 9999), pgx.ErrNoRows)

	err = NewApplicationRepository(pool).Create(ctx, &domain.Application{UserID: 9999})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestPostgresApplicationOrderingAndCounts(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	alice := createUser(t, NewUserRepository(pool), "alice")
	bob := createUser(t, NewUserRepository(pool), "bob")
	apps := NewApplicationRepository(pool)

	var ids []int64
	for _, desc := range []string{"A", "B", "C"} {
		app := &domain.Application{UserID: alice.ID, Description: desc}
		require.NoError(t, apps.Create(ctx, app))
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		ids = append(ids, app.ID)
	}
	require.NoError(t, apps.Create(ctx, &domain.Application{UserID: bob.ID}))

	// Equal timestamps fall back to id order.
	_, err := pool.Exec(ctx, `UPDATE applications SET application_date=$1`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	list, err := apps.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{list[0].Description, list[1].Description, list[2].Description})
	assert.Equal(t, "alice", list[0].Username)

	require.NoError(t, apps.UpdateStatus(ctx, ids[0], domain.ApplicationStatusCompleted))
	count, err := apps.CountByStatus(ctx, alice.ID, domain.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	count, err = apps.CountByStatus(ctx, alice.ID, domain.ApplicationStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = apps.CountByStatus(ctx, bob.ID, domain.ApplicationStatusCompleted)
	require.NoError(t, err)
	assert.Zero(t, count)

	completed := domain.ApplicationStatusCompleted
	list, err = apps.ListWithFilter(ctx, ApplicationFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[0], list[0].ID)

	var pgErr *pgconn.PgError
	err = apps.UpdateStatus(ctx, ids[0], domain.ApplicationStatus("Done"))
	require.True(t, errors.As(err, &pgErr), "got %v", err)
	assert.Equal(t, "applications_status_check", pgErr.ConstraintName)
}

func TestPostgresComplaints(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	alice := createUser(t, NewUserRepository(pool), "alice")
	apps := NewApplicationRepository(pool)
	complaints := NewComplaintRepository(pool)

	app := &domain.Application{UserID: alice.ID}
	require.NoError(t, apps.Create(ctx, app))

	for _, msg := range []string{"A", "B", "C"} {
		c := &domain.Complaint{UserID: alice.ID, ApplicationID: app.ID, Message: msg}
		require.NoError(t, complaints.Create(ctx, c))
	}
	_, err := pool.Exec(ctx, `UPDATE complaints SET submitted_at=$1`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	err = complaints.Create(ctx, &domain.Complaint{UserID: alice.ID, ApplicationID: 9999})
	assert.ErrorIs(t, err, ErrMissingReference)

	require.NoError(t, apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusInProgress))

	list, err := complaints.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{list[0].Message, list[1].Message, list[2].Message})
	for _, c := range list {
		assert.Equal(t, domain.ApplicationStatusInProgress, c.ApplicationStatus)
		assert.Nil(t, c.Response)
		assert.Nil(t, c.RespondedAt)
	}

	unansweredID := list[0].ID
	target := list[2]
	require.NoError(t, complaints.Respond(ctx, &target, "crew dispatched"))
	require.NotNil(t, target.Response)
	require.NotNil(t, target.RespondedAt)
	assert.Equal(t, "crew dispatched", *target.Response)

	answered := true
	list, err = complaints.ListWithFilter(ctx, ComplaintFilter{Answered: &answered})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, target.ID, list[0].ID)

	// A response without its timestamp violates the pair constraint.
	var pgErr *pgconn.PgError
	_, err = pool.Exec(ctx, `UPDATE complaints SET response='x' WHERE id=$1`, unansweredID)
	require.True(t, errors.As(err, &pgErr), "got %v", err)
	assert.Equal(t, "complaints_response_pair_check", pgErr.ConstraintName)

	missing := domain.Complaint{ID: 9999}
	assert.ErrorIs(t, complaints.Respond(ctx, &missing, "x"), pgx.ErrNoRows)

	require.NoError(t, apps.Delete(ctx, app.ID))
	list, err = complaints.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
