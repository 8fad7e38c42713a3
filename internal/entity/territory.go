package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ClaimStatusActive    = "active"
	ClaimStatusCancelled = "cancelled"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

const (
	AvailabilityAvailable      = "available"
	AvailabilityClaimedByOther = "claimed-by-other"
	AvailabilityAlreadyYours   = "already-yours"
)

// ZipClaim grants one user exclusivity over a zip code. At most one claim
// per zip may be active; the store enforces it.
type ZipClaim struct {
	ID        string    `json:"id"`
	ZipCode   string    `json:"zip_code"`
	UserID    string    `json:"user_id"`
	RequestID string    `json:"request_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TerritoryRequest is a user's ask for a zip, waiting on an admin.
type TerritoryRequest struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	ZipCode    string     `json:"zip_code"`
	Status     string     `json:"status"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewTerritoryRequest(userID, userEmail, zip string, at time.Time) *TerritoryRequest {
	return &TerritoryRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		UserEmail: userEmail,
		ZipCode:   zip,
		Status:    RequestStatusPending,
		CreatedAt: at,
	}
}

// Review records the admin decision applied to a pending request.
type Review struct {
	RequestID  string
	ReviewerID string
	At         time.Time
}

type TerritoryRepositoryInterface interface {
	// FindActiveClaim returns ErrNotFound when the zip is free.
	FindActiveClaim(ctx context.Context, zip string) (*ZipClaim, error)
	// CreatePendingRequest inserts req unless the same user already has a
	// pending request for the zip, in which case that one is returned and
	// created is false.
	CreatePendingRequest(ctx context.Context, req *TerritoryRequest) (stored *TerritoryRequest, created bool, err error)
	ListRequests(ctx context.Context, statuses []string) ([]*TerritoryRequest, error)
	// Approve atomically activates a claim for the request's zip and marks
	// the request approved. Returns ErrConflict when another user holds the
	// zip and ErrNotPending when the request was already decided.
	Approve(ctx context.Context, review Review) (*ZipClaim, *TerritoryRequest, error)
	Reject(ctx context.Context, review Review) (*TerritoryRequest, error)
	// CancelClaim moves the active claim of zip to cancelled. A non-empty
	// ownerID restricts it to that owner's claim.
	CancelClaim(ctx context.Context, zip, ownerID string, at time.Time) (*ZipClaim, error)
}
