package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadzone/internal/entity"
)

const (
	lockRequestSQL = `FROM territory_requests WHERE id::text = \$1 FOR UPDATE`
	lockClaimSQL   = `FROM zip_claims WHERE zip_code = \$1 AND status = 'active' FOR UPDATE`
	insertClaimSQL = `INSERT INTO zip_claims`
	markSQL        = `UPDATE territory_requests SET status = \$2`
	insertReqSQL   = `INSERT INTO territory_requests`
	pendingReqSQL  = `WHERE user_id = \$1 AND zip_code = \$2 AND status = 'pending'`
)

var (
	requestCols = []string{"id", "user_id", "user_email", "zip_code", "status", "reviewed_by", "reviewed_at", "created_at"}
	claimCols   = []string{"id", "zip_code", "user_id", "request_id", "status", "created_at", "updated_at"}

	testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func requestRows(id, userID, status string) *sqlmock.Rows {
	rows := sqlmock.NewRows(requestCols)
	if status == entity.RequestStatusPending {
		return rows.AddRow(id, userID, userID+"@example.com", "10001", status, "", nil, testNow)
	}
	return rows.AddRow(id, userID, userID+"@example.com", "10001", status, "admin-1", testNow, testNow)
}

func claimRows(userID, requestID string) *sqlmock.Rows {
	return sqlmock.NewRows(claimCols).AddRow("claim-1", "10001", userID, requestID, entity.ClaimStatusActive, testNow, testNow)
}

func TestTerritoryRepositoryApprove(t *testing.T) {
	ctx := context.Background()
	review := entity.Review{RequestID: "req-1", ReviewerID: "admin-1", At: testNow}
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "zip_claims_one_active"}

	t.Run("Claims free zip", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
		mock.ExpectQuery(lockClaimSQL).WithArgs("10001").WillReturnRows(sqlmock.NewRows(claimCols))
		mock.ExpectQuery(insertClaimSQL).
			WithArgs(sqlmock.AnyArg(), "10001", "user-1", "req-1", testNow).
			WillReturnRows(claimRows("user-1", "req-1"))
		mock.ExpectQuery(markSQL).
			WithArgs("req-1", entity.RequestStatusApproved, "admin-1", testNow).
			WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusApproved))
		mock.ExpectCommit()

		claim, req, err := NewTerritoryRepository(db).Approve(ctx, review)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claim.UserID)
		assert.Equal(t, "req-1", claim.RequestID)
		assert.Equal(t, entity.RequestStatusApproved, req.Status)
		assert.Equal(t, "admin-1", req.ReviewedBy)
		require.NotNil(t, req.ReviewedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Claim insert loses race", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
		mock.ExpectQuery(lockClaimSQL).WithArgs("10001").WillReturnRows(sqlmock.NewRows(claimCols))
		mock.ExpectQuery(insertClaimSQL).WillReturnError(dup)
		mock.ExpectRollback()

		claim, req, err := NewTerritoryRepository(db).Approve(ctx, review)
		assert.ErrorIs(t, err, entity.ErrConflict)
		assert.Nil(t, claim)
		assert.Nil(t, req)
		// the request is never marked reviewed, so it stays pending
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zip held by another user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
		mock.ExpectQuery(lockClaimSQL).WithArgs("10001").WillReturnRows(claimRows("user-2", "req-0"))
		mock.ExpectRollback()

		_, _, err := NewTerritoryRepository(db).Approve(ctx, review)
		assert.ErrorIs(t, err, entity.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zip already held by requester", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
		mock.ExpectQuery(lockClaimSQL).WithArgs("10001").WillReturnRows(claimRows("user-1", "req-0"))
		mock.ExpectQuery(markSQL).WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusApproved))
		mock.ExpectCommit()

		claim, _, err := NewTerritoryRepository(db).Approve(ctx, review)
		require.NoError(t, err)
		assert.Equal(t, "req-0", claim.RequestID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already reviewed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusRejected))
		mock.ExpectRollback()

		_, _, err := NewTerritoryRepository(db).Approve(ctx, review)
		assert.ErrorIs(t, err, entity.ErrNotPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown request", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(sqlmock.NewRows(requestCols))
		mock.ExpectRollback()

		_, _, err := NewTerritoryRepository(db).Approve(ctx, review)
		assert.ErrorIs(t, err, entity.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit hits unique index", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
		mock.ExpectQuery(lockClaimSQL).WithArgs("10001").WillReturnRows(sqlmock.NewRows(claimCols))
		mock.ExpectQuery(insertClaimSQL).WillReturnRows(claimRows("user-1", "req-1"))
		mock.ExpectQuery(markSQL).WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusApproved))
		mock.ExpectCommit().WillReturnError(dup)

		_, _, err := NewTerritoryRepository(db).Approve(ctx, review)
		assert.ErrorIs(t, err, entity.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTerritoryRepositoryReject(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockRequestSQL).WithArgs("req-1").WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusPending))
	mock.ExpectQuery(markSQL).
		WithArgs("req-1", entity.RequestStatusRejected, "admin-1", testNow).
		WillReturnRows(requestRows("req-1", "user-1", entity.RequestStatusRejected))
	mock.ExpectCommit()

	req, err := NewTerritoryRepository(db).Reject(context.Background(), entity.Review{RequestID: "req-1", ReviewerID: "admin-1", At: testNow})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRejected, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepositoryCreatePendingRequest(t *testing.T) {
	ctx := context.Background()
	newReq := func() *entity.TerritoryRequest {
		return &entity.TerritoryRequest{ID: "req-new", UserID: "user-1", UserEmail: "user-1@example.com", ZipCode: "10001", CreatedAt: testNow}
	}

	t.Run("Inserted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(insertReqSQL).
			WithArgs("req-new", "user-1", "user-1@example.com", "10001", testNow).
			WillReturnRows(requestRows("req-new", "user-1", entity.RequestStatusPending))

		stored, created, err := NewTerritoryRepository(db).CreatePendingRequest(ctx, newReq())
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "req-new", stored.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing pending returned", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(insertReqSQL).WillReturnRows(sqlmock.NewRows(requestCols))
		mock.ExpectQuery(pendingReqSQL).
			WithArgs("user-1", "10001").
			WillReturnRows(requestRows("req-old", "user-1", entity.RequestStatusPending))

		stored, created, err := NewTerritoryRepository(db).CreatePendingRequest(ctx, newReq())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "req-old", stored.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflicting row reviewed before read back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(insertReqSQL).WillReturnRows(sqlmock.NewRows(requestCols))
		mock.ExpectQuery(pendingReqSQL).WillReturnRows(sqlmock.NewRows(requestCols))
		mock.ExpectQuery(insertReqSQL).WillReturnRows(requestRows("req-new", "user-1", entity.RequestStatusPending))

		stored, created, err := NewTerritoryRepository(db).CreatePendingRequest(ctx, newReq())
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "req-new", stored.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Gives up after one retry", func(t *testing.T) {
		db, mock := newMockDB(t)
		for i := 0; i < 2; i++ {
			mock.ExpectQuery(insertReqSQL).WillReturnRows(sqlmock.NewRows(requestCols))
			mock.ExpectQuery(pendingReqSQL).WillReturnRows(sqlmock.NewRows(requestCols))
		}

		_, _, err := NewTerritoryRepository(db).CreatePendingRequest(ctx, newReq())
		assert.ErrorIs(t, err, entity.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTerritoryRepositoryCancelClaimOwnerScope(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`UPDATE zip_claims SET status = 'cancelled'`).
		WithArgs("10001", "user-2", testNow).
		WillReturnRows(sqlmock.NewRows(claimCols))

	_, err := NewTerritoryRepository(db).CancelClaim(context.Background(), "10001", "user-2", testNow)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
