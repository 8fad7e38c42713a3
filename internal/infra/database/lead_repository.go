package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/leadzone/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, user_id, COALESCE(zip_code, ''), COALESCE(name, ''), COALESCE(email, ''),
	COALESCE(phone, ''), status, notes, archived, created_at, updated_at`

func scanLead(row scanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.ZipCode,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Status,
		&l.Notes,
		&l.Archived,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (r *LeadRepository) ListByOwner(ctx context.Context, userID string, statuses []string) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE user_id = $1
		  AND archived = FALSE
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		ORDER BY created_at DESC
	`
	if statuses == nil {
		statuses = []string{}
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Update touches only status and notes. The owner filter sits in the WHERE
// clause so a foreign lead reads as not found.
func (r *LeadRepository) Update(ctx context.Context, leadID, ownerID string, patch entity.LeadPatch, at time.Time) (*entity.Lead, error) {
	query := `
		UPDATE leads SET
			status = COALESCE($3, status),
			notes = COALESCE($4, notes),
			updated_at = $5
		WHERE id::text = $1
		  AND ($2 = '' OR user_id = $2)
		RETURNING ` + leadColumns

	return scanLead(r.DB.QueryRowContext(ctx, query, leadID, ownerID, patch.Status, patch.Notes, at))
}
