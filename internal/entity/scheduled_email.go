package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EmailStatusScheduled = "scheduled"
	EmailStatusSent      = "sent"
	EmailStatusFailed    = "failed"

	EmailTypeFollowup         = "followup"
	EmailTypeTerritoryWelcome = "territory_welcome"
)

// ScheduledEmail is a delivery record picked up later by an external worker.
type ScheduledEmail struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Type         string    `json:"type"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewScheduledEmail(userID, zip, emailType string, now time.Time, wait time.Duration) *ScheduledEmail {
	return &ScheduledEmail{
		ID:           uuid.New().String(),
		UserID:       userID,
		ZipCode:      zip,
		Type:         emailType,
		ScheduledFor: now.Add(wait),
		Status:       EmailStatusScheduled,
		CreatedAt:    now,
	}
}

type ScheduledEmailRepositoryInterface interface {
	Create(ctx context.Context, email *ScheduledEmail) error
}
