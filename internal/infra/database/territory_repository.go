package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/leadzone/internal/entity"
)

type TerritoryRepository struct {
	DB *sql.DB
}

func NewTerritoryRepository(db *sql.DB) *TerritoryRepository {
	return &TerritoryRepository{DB: db}
}

type scanner interface{ Scan(...any) error }

const claimColumns = `id, zip_code, user_id, COALESCE(request_id::text, ''), status, created_at, updated_at`

const requestColumns = `id, user_id, user_email, zip_code, status, COALESCE(reviewed_by, ''), reviewed_at, created_at`

func scanClaim(row scanner) (*entity.ZipClaim, error) {
	var c entity.ZipClaim
	if err := row.Scan(&c.ID, &c.ZipCode, &c.UserID, &c.RequestID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func scanRequest(row scanner) (*entity.TerritoryRequest, error) {
	var (
		req        entity.TerritoryRequest
		reviewedAt sql.NullTime
	)
	err := row.Scan(&req.ID, &req.UserID, &req.UserEmail, &req.ZipCode, &req.Status, &req.ReviewedBy, &reviewedAt, &req.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		req.ReviewedAt = &t
	}
	return &req, nil
}

func (r *TerritoryRepository) FindActiveClaim(ctx context.Context, zip string) (*entity.ZipClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM zip_claims WHERE zip_code = $1 AND status = 'active'`
	return scanClaim(r.DB.QueryRowContext(ctx, query, zip))
}

// CreatePendingRequest leans on the partial unique index over pending
// (user_id, zip_code): a duplicate insert is a no-op and the existing row is
// read back instead. When the conflicting row is reviewed before the read
// back, the insert is tried once more.
func (r *TerritoryRepository) CreatePendingRequest(ctx context.Context, req *entity.TerritoryRequest) (*entity.TerritoryRequest, bool, error) {
	insert := `
		INSERT INTO territory_requests (id, user_id, user_email, zip_code, status, created_at)
		VALUES ($1, $2, $3, $4, 'pending', $5)
		ON CONFLICT (user_id, zip_code) WHERE status = 'pending' DO NOTHING
		RETURNING ` + requestColumns
	existing := `
		SELECT ` + requestColumns + `
		FROM territory_requests
		WHERE user_id = $1 AND zip_code = $2 AND status = 'pending'
	`

	for attempt := 0; ; attempt++ {
		stored, err := scanRequest(r.DB.QueryRowContext(ctx, insert, req.ID, req.UserID, req.UserEmail, req.ZipCode, req.CreatedAt))
		if err == nil {
			return stored, true, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, false, err
		}

		stored, err = scanRequest(r.DB.QueryRowContext(ctx, existing, req.UserID, req.ZipCode))
		if err == nil {
			return stored, false, nil
		}
		if !errors.Is(err, entity.ErrNotFound) || attempt > 0 {
			return nil, false, fmt.Errorf("read existing pending request: %w", err)
		}
	}
}

func (r *TerritoryRepository) ListRequests(ctx context.Context, statuses []string) ([]*entity.TerritoryRequest, error) {
	if statuses == nil {
		statuses = []string{}
	}
	query := `
		SELECT ` + requestColumns + `
		FROM territory_requests
		WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.TerritoryRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Approve runs in one transaction. The request row is locked first so two
// admins cannot decide it twice; the partial unique index on active claims
// settles races between different requests for the same zip.
func (r *TerritoryRepository) Approve(ctx context.Context, review entity.Review) (*entity.ZipClaim, *entity.TerritoryRequest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	req, err := lockPendingRequest(ctx, tx, review.RequestID)
	if err != nil {
		return nil, nil, err
	}

	claim, err := scanClaim(tx.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM zip_claims WHERE zip_code = $1 AND status = 'active' FOR UPDATE`,
		req.ZipCode,
	))
	switch {
	case err == nil && claim.UserID != req.UserID:
		return nil, nil, entity.ErrConflict
	case errors.Is(err, entity.ErrNotFound):
		claim, err = scanClaim(tx.QueryRowContext(ctx, `
			INSERT INTO zip_claims (id, zip_code, user_id, request_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'active', $5, $5)
			RETURNING `+claimColumns,
			uuid.New().String(), req.ZipCode, req.UserID, req.ID, review.At,
		))
		if isUniqueViolation(err) {
			return nil, nil, entity.ErrConflict
		}
		if err != nil {
			return nil, nil, fmt.Errorf("insert claim: %w", err)
		}
	case err != nil:
		return nil, nil, err
	}

	approved, err := markReviewed(ctx, tx, req.ID, entity.RequestStatusApproved, review)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, nil, entity.ErrConflict
		}
		return nil, nil, err
	}
	return claim, approved, nil
}

func (r *TerritoryRepository) Reject(ctx context.Context, review entity.Review) (*entity.TerritoryRequest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := lockPendingRequest(ctx, tx, review.RequestID); err != nil {
		return nil, err
	}
	rejected, err := markReviewed(ctx, tx, review.RequestID, entity.RequestStatusRejected, review)
	if err != nil {
		return nil, err
	}
	return rejected, tx.Commit()
}

func (r *TerritoryRepository) CancelClaim(ctx context.Context, zip, ownerID string, at time.Time) (*entity.ZipClaim, error) {
	query := `
		UPDATE zip_claims SET status = 'cancelled', updated_at = $3
		WHERE zip_code = $1 AND status = 'active'
		  AND ($2 = '' OR user_id = $2)
		RETURNING ` + claimColumns
	return scanClaim(r.DB.QueryRowContext(ctx, query, zip, ownerID, at))
}

func lockPendingRequest(ctx context.Context, tx *sql.Tx, id string) (*entity.TerritoryRequest, error) {
	req, err := scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM territory_requests WHERE id::text = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if req.Status != entity.RequestStatusPending {
		return nil, entity.ErrNotPending
	}
	return req, nil
}

func markReviewed(ctx context.Context, tx *sql.Tx, id, status string, review entity.Review) (*entity.TerritoryRequest, error) {
	return scanRequest(tx.QueryRowContext(ctx, `
		UPDATE territory_requests SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1
		RETURNING `+requestColumns,
		id, status, nullString(review.ReviewerID), review.At,
	))
}
