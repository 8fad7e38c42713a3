package entity

import (
	"context"
	"time"
)

// Profile is the application-side row of a hosted-auth user.
type Profile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	IsAdmin          bool      `json:"is_admin"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Profile) HasBillingAccount() bool {
	return p != nil && p.StripeCustomerID != ""
}

// Identity is what a verified access token says about its bearer.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Caller is the authenticated party of a request. Privileged callers hold
// the service credential and act on behalf of any user.
type Caller struct {
	UserID     string
	Email      string
	Privileged bool
}

// DirectoryUser is an identity as listed by the hosted auth service.
type DirectoryUser struct {
	ID    string
	Email string
}

type ProfileRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	// PromoteAdmin sets is_admin, creating the profile row if needed.
	PromoteAdmin(ctx context.Context, id, email string, at time.Time) (*Profile, error)
	LinkStripeCustomer(ctx context.Context, id, stripeCustomerID string, at time.Time) error
}
