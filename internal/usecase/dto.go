package usecase

import (
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

type CheckAdminStatusInput struct {
	Token  string
	UserID string
}

type CheckAdminStatusOutput struct {
	IsAdmin   bool      `json:"isAdmin"`
	CheckedAt time.Time `json:"checkedAt"`
}

type CheckAvailabilityInput struct {
	// Token is optional; with it the answer can be "already-yours".
	Token   string
	ZipCode string
}

type CheckAvailabilityOutput struct {
	ZipCode   string `json:"zipCode"`
	Available bool   `json:"available"`
	State     string `json:"state"`
}

type RequestTerritoryInput struct {
	Token   string
	UserID  string // empty means the caller
	ZipCode string
}

type RequestTerritoryOutput struct {
	Request *entity.TerritoryRequest `json:"request"`
	Created bool                     `json:"created"`
}

type ReviewTerritoryInput struct {
	Token     string
	RequestID string
}

type ApproveTerritoryOutput struct {
	Claim   *entity.ZipClaim         `json:"claim"`
	Request *entity.TerritoryRequest `json:"request"`
}

type ListTerritoryRequestsInput struct {
	Token  string
	Status string
}

type ListTerritoryRequestsOutput struct {
	Requests  []*entity.TerritoryRequest `json:"requests"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

type CancelTerritoryInput struct {
	Token   string
	ZipCode string
}

type ListLeadsInput struct {
	Token    string
	UserID   string
	Statuses []string
}

type ListLeadsOutput struct {
	Leads     []*entity.Lead `json:"leads"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

type UpdateLeadInput struct {
	Token  string
	LeadID string
	Status *string
	Notes  *string
}

type OpenBillingPortalInput struct {
	Token     string
	ReturnURL string
}

type OpenBillingPortalOutput struct {
	URL string `json:"url"`
}

type ScheduleFollowupInput struct {
	Token      string
	UserID     string
	ZipCode    string
	DaysToWait *int
	Type       string
}

type SetAdminInput struct {
	Token       string
	TargetEmail string
}

type LinkBillingCustomerInput struct {
	UserID           string
	StripeCustomerID string
}
