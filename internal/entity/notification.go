package entity

import "time"

// TerritoryRequested tells admins a zip is waiting for review.
type TerritoryRequested struct {
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	ZipCode     string    `json:"zip_code"`
	RequestedAt time.Time `json:"requested_at"`
}
