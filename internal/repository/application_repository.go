package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waterworks/water-service/internal/domain"
)

// ApplicationFilter narrows console listings.
type ApplicationFilter struct {
	UserID *int64
	Status *domain.ApplicationStatus
}

// ApplicationRepository encapsulates installation request persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Application, error)
	ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
	CountByStatus(ctx context.Context, userID int64, status domain.ApplicationStatus) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `a.id, a.user_id, u.username, a.phone_number, a.description, a.application_date, a.status`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (user_id, phone_number, description, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, application_date`
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}
	err := r.pool.QueryRow(ctx, query,
		app.UserID,
		app.PhoneNumber,
		app.Description,
		app.Status,
	).Scan(&app.ID, &app.ApplicationDate)
	return translatePgError(err)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
        FROM applications a JOIN users u ON u.id = a.user_id
        WHERE a.id=$1`
	var app domain.Application
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&app.ID,
		&app.UserID,
		&app.Username,
		&app.PhoneNumber,
		&app.Description,
		&app.ApplicationDate,
		&app.Status,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Application, error) {
	return r.ListWithFilter(ctx, ApplicationFilter{UserID: &userID})
}

func (r *applicationRepository) ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("a.user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("a.status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s
        FROM applications a JOIN users u ON u.id = a.user_id
        WHERE %s ORDER BY a.application_date DESC, a.id DESC`,
		applicationColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) CountByStatus(ctx context.Context, userID int64, status domain.ApplicationStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM applications WHERE user_id=$1 AND status=$2`
	var count int64
	err := r.pool.QueryRow(ctx, query, userID, status).Scan(&count)
	return count, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE applications SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.Username,
			&app.PhoneNumber,
			&app.Description,
			&app.ApplicationDate,
			&app.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}
