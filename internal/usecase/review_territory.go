package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
)

type ApproveTerritoryUseCase struct {
	Guard         *AuthorizationGuard
	Repo          entity.TerritoryRepositoryInterface
	Emails        entity.ScheduledEmailRepositoryInterface
	FollowupDelay time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

func NewApproveTerritoryUseCase(
	guard *AuthorizationGuard,
	repo entity.TerritoryRepositoryInterface,
	emails entity.ScheduledEmailRepositoryInterface,
	followupDelay time.Duration,
	logger *zap.Logger,
) *ApproveTerritoryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApproveTerritoryUseCase{
		Guard:         guard,
		Repo:          repo,
		Emails:        emails,
		FollowupDelay: followupDelay,
		Logger:        logger,
		Now:           time.Now,
	}
}

// Execute activates the claim and approves the request in one store
// transaction. If another user got the zip first the request stays pending.
func (uc *ApproveTerritoryUseCase) Execute(ctx context.Context, input ReviewTerritoryInput) (*ApproveTerritoryOutput, error) {
	if err := validationFailed(checkID(nil, "requestId", input.RequestID)); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	now := uc.Now().UTC()
	claim, req, err := uc.Repo.Approve(ctx, entity.Review{
		RequestID:  strings.TrimSpace(input.RequestID),
		ReviewerID: caller.UserID,
		At:         now,
	})
	if err != nil {
		return nil, reviewError(err)
	}

	if uc.Emails != nil {
		welcome := entity.NewScheduledEmail(req.UserID, req.ZipCode, entity.EmailTypeTerritoryWelcome, now, uc.FollowupDelay)
		if err := uc.Emails.Create(ctx, welcome); err != nil {
			uc.Logger.Warn("territory approved but follow-up email was not scheduled",
				zap.String("request_id", req.ID),
				zap.Error(err),
			)
		}
	}

	return &ApproveTerritoryOutput{Claim: claim, Request: req}, nil
}

type RejectTerritoryUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.TerritoryRepositoryInterface
	Now   func() time.Time
}

func NewRejectTerritoryUseCase(guard *AuthorizationGuard, repo entity.TerritoryRepositoryInterface) *RejectTerritoryUseCase {
	return &RejectTerritoryUseCase{Guard: guard, Repo: repo, Now: time.Now}
}

func (uc *RejectTerritoryUseCase) Execute(ctx context.Context, input ReviewTerritoryInput) (*entity.TerritoryRequest, error) {
	if err := validationFailed(checkID(nil, "requestId", input.RequestID)); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	req, err := uc.Repo.Reject(ctx, entity.Review{
		RequestID:  strings.TrimSpace(input.RequestID),
		ReviewerID: caller.UserID,
		At:         uc.Now().UTC(),
	})
	if err != nil {
		return nil, reviewError(err)
	}
	return req, nil
}

func reviewError(err error) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return notFound("territory request not found")
	case errors.Is(err, entity.ErrConflict):
		return conflict("zip code was claimed by another user")
	case errors.Is(err, entity.ErrNotPending):
		return conflict("territory request was already reviewed")
	default:
		return upstream("failed to review territory request", err)
	}
}

type ListTerritoryRequestsUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.TerritoryRepositoryInterface
	Now   func() time.Time
}

func NewListTerritoryRequestsUseCase(guard *AuthorizationGuard, repo entity.TerritoryRepositoryInterface) *ListTerritoryRequestsUseCase {
	return &ListTerritoryRequestsUseCase{Guard: guard, Repo: repo, Now: time.Now}
}

func (uc *ListTerritoryRequestsUseCase) Execute(ctx context.Context, input ListTerritoryRequestsInput) (*ListTerritoryRequestsOutput, error) {
	var statuses []string
	switch strings.TrimSpace(input.Status) {
	case "", entity.RequestStatusPending:
		statuses = []string{entity.RequestStatusPending}
	case entity.RequestStatusApproved, entity.RequestStatusRejected:
		statuses = []string{input.Status}
	case "all":
	default:
		return nil, validationFailed([]ValidationError{{"status", "must be pending, approved, rejected or all"}})
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	requests, err := uc.Repo.ListRequests(ctx, statuses)
	if err != nil {
		return nil, upstream("failed to list territory requests", err)
	}
	if requests == nil {
		requests = []*entity.TerritoryRequest{}
	}
	return &ListTerritoryRequestsOutput{Requests: requests, FetchedAt: uc.Now().UTC()}, nil
}

type CancelTerritoryUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.TerritoryRepositoryInterface
	Now   func() time.Time
}

func NewCancelTerritoryUseCase(guard *AuthorizationGuard, repo entity.TerritoryRepositoryInterface) *CancelTerritoryUseCase {
	return &CancelTerritoryUseCase{Guard: guard, Repo: repo, Now: time.Now}
}

// Execute releases an active claim. Owners cancel their own; admins any.
func (uc *CancelTerritoryUseCase) Execute(ctx context.Context, input CancelTerritoryInput) (*entity.ZipClaim, error) {
	errs, zip := checkZip(nil, "zipCode", input.ZipCode)
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	ownerID, err := uc.Guard.OwnerScope(ctx, caller)
	if err != nil {
		return nil, err
	}

	claim, err := uc.Repo.CancelClaim(ctx, zip, ownerID, uc.Now().UTC())
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("no active claim for zip code")
	}
	if err != nil {
		return nil, upstream("failed to cancel claim", err)
	}
	return claim, nil
}
