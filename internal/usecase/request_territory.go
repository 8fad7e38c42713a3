package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
)

type RequestTerritoryUseCase struct {
	Guard     *AuthorizationGuard
	Repo      entity.TerritoryRepositoryInterface
	Publisher NotificationPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewRequestTerritoryUseCase(
	guard *AuthorizationGuard,
	repo entity.TerritoryRepositoryInterface,
	publisher NotificationPublisher,
	logger *zap.Logger,
) *RequestTerritoryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestTerritoryUseCase{
		Guard:     guard,
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Execute files a pending request for a zip. Resubmitting the same
// (user, zip) while it is pending returns the existing request and does not
// notify admins again.
func (uc *RequestTerritoryUseCase) Execute(ctx context.Context, input RequestTerritoryInput) (*RequestTerritoryOutput, error) {
	errs, zip := checkZip(nil, "zipCode", input.ZipCode)
	if input.UserID != "" {
		errs = checkID(errs, "userId", input.UserID)
	}
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = caller.UserID
	}
	if userID == "" {
		return nil, validationFailed([]ValidationError{{"userId", "is required"}})
	}
	if err := uc.Guard.AuthorizeSubject(ctx, caller, userID); err != nil {
		return nil, err
	}

	email := caller.Email
	if caller.UserID != userID || email == "" {
		profile, err := uc.Guard.ResolveProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		email = profile.Email
	}

	claim, err := uc.Repo.FindActiveClaim(ctx, zip)
	switch {
	case err == nil && claim.UserID == userID:
		return nil, conflict("zip code is already yours")
	case err == nil:
		return nil, conflict("zip code is already claimed")
	case !errors.Is(err, entity.ErrNotFound):
		return nil, upstream("failed to check zip code availability", err)
	}

	stored, created, err := uc.Repo.CreatePendingRequest(ctx, entity.NewTerritoryRequest(userID, email, zip, uc.Now().UTC()))
	if err != nil {
		return nil, upstream("failed to save territory request", err)
	}

	if created {
		uc.notifyAdmins(ctx, stored)
	}

	return &RequestTerritoryOutput{Request: stored, Created: created}, nil
}

// notifyAdmins is best effort; the pending row stays the source of truth.
func (uc *RequestTerritoryUseCase) notifyAdmins(ctx context.Context, req *entity.TerritoryRequest) {
	if uc.Publisher == nil {
		return
	}
	event := entity.TerritoryRequested{
		RequestID:   req.ID,
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		ZipCode:     req.ZipCode,
		RequestedAt: req.CreatedAt,
	}
	if err := uc.Publisher.PublishTerritoryRequested(ctx, event); err != nil {
		uc.Logger.Warn("territory request saved but admin notification failed",
			zap.String("request_id", req.ID),
			zap.String("zip_code", req.ZipCode),
			zap.Error(err),
		)
	}
}
