package entity

import (
	"context"
	"strings"
	"time"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// MaxLeadStatusLength bounds a status label. Ingestion may use labels
// beyond the ones named above, so any non-blank label within it is accepted.
const MaxLeadStatusLength = 64

// Lead is a prospect routed to the owner of the zip it came from.
// Ingestion happens elsewhere; only Status and Notes change here.
type Lead struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ZipCode   string    `json:"zip_code,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadPatch carries the only writable lead fields. Nil means untouched.
type LeadPatch struct {
	Status *string
	Notes  *string
}

func (p LeadPatch) Empty() bool {
	return p.Status == nil && p.Notes == nil
}

func IsLeadStatus(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && trimmed == s && len(s) <= MaxLeadStatusLength
}

type LeadRepositoryInterface interface {
	// ListByOwner returns non-archived leads of userID, newest first.
	// An empty statuses slice means every status.
	ListByOwner(ctx context.Context, userID string, statuses []string) ([]*Lead, error)
	// Update applies patch to the lead. A non-empty ownerID restricts the
	// write to leads owned by that user.
	Update(ctx context.Context, leadID, ownerID string, patch LeadPatch, at time.Time) (*Lead, error)
}
