package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadzone/internal/entity"
)

type ScheduledEmailRepository struct {
	DB *sql.DB
}

func NewScheduledEmailRepository(db *sql.DB) *ScheduledEmailRepository {
	return &ScheduledEmailRepository{DB: db}
}

func (r *ScheduledEmailRepository) Create(ctx context.Context, e *entity.ScheduledEmail) error {
	query := `
		INSERT INTO scheduled_emails (id, user_id, zip_code, type, scheduled_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		nullString(e.ZipCode),
		e.Type,
		e.ScheduledFor,
		e.Status,
		e.CreatedAt,
	)
	return err
}
