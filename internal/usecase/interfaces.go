package usecase

import (
	"context"

	"github.com/xavierca1/leadzone/internal/entity"
)

// IdentityVerifier checks a caller's own credential. It never touches the store.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (entity.Identity, error)
}

// IdentityDirectory is the hosted auth service seen with service credentials.
type IdentityDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*entity.DirectoryUser, error)
	SignOut(ctx context.Context, accessToken string) error
}

type BillingPortalGateway interface {
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

type NotificationPublisher interface {
	PublishTerritoryRequested(ctx context.Context, event entity.TerritoryRequested) error
}
