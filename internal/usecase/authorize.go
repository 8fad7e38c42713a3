package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

// AuthorizationGuard answers who is calling and what they may do.
// Verifier checks the caller's own credential; Profiles is read with the
// privileged store.
type AuthorizationGuard struct {
	Verifier   IdentityVerifier
	Profiles   entity.ProfileRepositoryInterface
	ServiceKey string
}

func NewAuthorizationGuard(verifier IdentityVerifier, profiles entity.ProfileRepositoryInterface, serviceKey string) *AuthorizationGuard {
	return &AuthorizationGuard{
		Verifier:   verifier,
		Profiles:   profiles,
		ServiceKey: serviceKey,
	}
}

// Authenticate resolves a bearer credential. The service key yields a
// privileged caller; anything else must verify as a user access token.
func (g *AuthorizationGuard) Authenticate(ctx context.Context, token string) (entity.Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entity.Caller{}, unauthorized("authorization required")
	}

	if g.ServiceKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(g.ServiceKey)) == 1 {
		return entity.Caller{Privileged: true}, nil
	}

	identity, err := g.Verifier.Verify(ctx, token)
	if err != nil || identity.UserID == "" {
		return entity.Caller{}, unauthorized("invalid or expired credential")
	}

	return entity.Caller{UserID: identity.UserID, Email: identity.Email}, nil
}

// IsAdmin reports the profile flag. A missing profile is not an admin.
func (g *AuthorizationGuard) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := g.Profiles.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, upstream("failed to load profile", err)
	}
	return profile.IsAdmin, nil
}

func (g *AuthorizationGuard) RequireAdmin(ctx context.Context, caller entity.Caller) error {
	if caller.Privileged {
		return nil
	}
	ok, err := g.IsAdmin(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("admin privileges required")
	}
	return nil
}

func (g *AuthorizationGuard) RequirePrivileged(caller entity.Caller) error {
	if !caller.Privileged {
		return forbidden("service credential required")
	}
	return nil
}

// AuthorizeSubject lets a caller act on userID's data: the service itself,
// the user themselves, or an admin.
func (g *AuthorizationGuard) AuthorizeSubject(ctx context.Context, caller entity.Caller, userID string) error {
	if caller.Privileged || caller.UserID == userID {
		return nil
	}
	ok, err := g.IsAdmin(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("not allowed to act on behalf of another user")
	}
	return nil
}

// OwnerScope returns the owner a write must be restricted to, or "" when the
// caller may touch any user's rows.
func (g *AuthorizationGuard) OwnerScope(ctx context.Context, caller entity.Caller) (string, error) {
	if caller.Privileged {
		return "", nil
	}
	isAdmin, err := g.IsAdmin(ctx, caller.UserID)
	if err != nil {
		return "", err
	}
	if isAdmin {
		return "", nil
	}
	return caller.UserID, nil
}

// ResolveProfile loads a profile by identifier.
func (g *AuthorizationGuard) ResolveProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := g.Profiles.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("profile not found")
	}
	if err != nil {
		return nil, upstream("failed to load profile", err)
	}
	return profile, nil
}

type CheckAdminStatusUseCase struct {
	Guard *AuthorizationGuard
	Now   func() time.Time
}

func NewCheckAdminStatusUseCase(guard *AuthorizationGuard) *CheckAdminStatusUseCase {
	return &CheckAdminStatusUseCase{Guard: guard, Now: time.Now}
}

func (uc *CheckAdminStatusUseCase) Execute(ctx context.Context, input CheckAdminStatusInput) (*CheckAdminStatusOutput, error) {
	if err := validationFailed(checkID(nil, "userId", input.UserID)); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	userID := strings.TrimSpace(input.UserID)
	if err := uc.Guard.AuthorizeSubject(ctx, caller, userID); err != nil {
		return nil, err
	}

	isAdmin, err := uc.Guard.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CheckAdminStatusOutput{IsAdmin: isAdmin, CheckedAt: uc.Now().UTC()}, nil
}
