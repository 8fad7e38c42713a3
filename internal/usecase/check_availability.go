package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/leadzone/internal/entity"
)

type CheckAvailabilityUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.TerritoryRepositoryInterface
}

func NewCheckAvailabilityUseCase(guard *AuthorizationGuard, repo entity.TerritoryRepositoryInterface) *CheckAvailabilityUseCase {
	return &CheckAvailabilityUseCase{Guard: guard, Repo: repo}
}

// Execute is read-only. An absent or unverifiable token is treated as an
// anonymous visitor, who can only see available or claimed-by-other.
func (uc *CheckAvailabilityUseCase) Execute(ctx context.Context, input CheckAvailabilityInput) (*CheckAvailabilityOutput, error) {
	errs, zip := checkZip(nil, "zipCode", input.ZipCode)
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	var viewerID string
	if input.Token != "" {
		if caller, err := uc.Guard.Authenticate(ctx, input.Token); err == nil {
			viewerID = caller.UserID
		}
	}

	claim, err := uc.Repo.FindActiveClaim(ctx, zip)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &CheckAvailabilityOutput{ZipCode: zip, Available: true, State: entity.AvailabilityAvailable}, nil
	case err != nil:
		return nil, upstream("failed to check zip code availability", err)
	}

	state := entity.AvailabilityClaimedByOther
	if viewerID != "" && claim.UserID == viewerID {
		state = entity.AvailabilityAlreadyYours
	}
	return &CheckAvailabilityOutput{ZipCode: zip, Available: false, State: state}, nil
}
