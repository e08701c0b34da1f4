package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waterworks/water-service/internal/domain"
)

// ComplaintFilter narrows console listings.
type ComplaintFilter struct {
	UserID        *int64
	ApplicationID *int64
	Answered      *bool
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	Respond(ctx context.Context, complaint *domain.Complaint, response string) error
	Delete(ctx context.Context, id int64) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

// The application status is joined at read time, never stored on the complaint.
const complaintColumns = `c.id, c.user_id, c.application_id, c.message, c.response, c.submitted_at, c.responded_at, a.status`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, application_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, submitted_at`
	err := r.pool.QueryRow(ctx, query,
		complaint.UserID,
		complaint.ApplicationID,
		complaint.Message,
	).Scan(&complaint.ID, &complaint.SubmittedAt)
	return translatePgError(err)
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints c JOIN applications a ON a.id = c.application_id
        WHERE c.id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	complaints, err := scanComplaints(rows)
	if err != nil {
		return nil, err
	}
	if len(complaints) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &complaints[0], nil
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	return r.ListWithFilter(ctx, ComplaintFilter{UserID: &userID})
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("c.user_id=$%d", len(args)))
	}
	if filter.ApplicationID != nil {
		args = append(args, *filter.ApplicationID)
		clauses = append(clauses, fmt.Sprintf("c.application_id=$%d", len(args)))
	}
	if filter.Answered != nil {
		if *filter.Answered {
			clauses = append(clauses, "c.response IS NOT NULL")
		} else {
			clauses = append(clauses, "c.response IS NULL")
		}
	}

	query := fmt.Sprintf(`SELECT %s
        FROM complaints c JOIN applications a ON a.id = c.application_id
        WHERE %s ORDER BY c.submitted_at DESC, c.id DESC`,
		complaintColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// Respond writes response and responded_at in one statement so the pair never diverges.
func (r *complaintRepository) Respond(ctx context.Context, complaint *domain.Complaint, response string) error {
	const query = `
        UPDATE complaints SET response=$1, responded_at=NOW()
        WHERE id=$2
        RETURNING response, responded_at`
	return r.pool.QueryRow(ctx, query, response, complaint.ID).Scan(&complaint.Response, &complaint.RespondedAt)
}

func (r *complaintRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.UserID,
			&complaint.ApplicationID,
			&complaint.Message,
			&complaint.Response,
			&complaint.SubmittedAt,
			&complaint.RespondedAt,
			&complaint.ApplicationStatus,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
