package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `id, email, is_admin, COALESCE(stripe_customer_id, ''), created_at, updated_at`

func scanProfile(row scanner) (*entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(&p.ID, &p.Email, &p.IsAdmin, &p.StripeCustomerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, id))
}

func (r *ProfileRepository) PromoteAdmin(ctx context.Context, id, email string, at time.Time) (*entity.Profile, error) {
	query := `
		INSERT INTO profiles (id, email, is_admin, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $3)
		ON CONFLICT (id) DO UPDATE SET
			is_admin = TRUE,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns
	return scanProfile(r.DB.QueryRowContext(ctx, query, id, email, at))
}

func (r *ProfileRepository) LinkStripeCustomer(ctx context.Context, id, stripeCustomerID string, at time.Time) error {
	query := `UPDATE profiles SET stripe_customer_id = $2, updated_at = $3 WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, stripeCustomerID, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
