package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

type ListLeadsUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.LeadRepositoryInterface
	Now   func() time.Time
}

func NewListLeadsUseCase(guard *AuthorizationGuard, repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Guard: guard, Repo: repo, Now: time.Now}
}

// Execute reads through the privileged store on the user's behalf, so the
// owner filter is applied here and in the query.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	errs := checkID(nil, "userId", input.UserID)
	for _, s := range input.Statuses {
		if !entity.IsLeadStatus(s) {
			errs = append(errs, ValidationError{"statuses", "contains a blank or oversized status"})
			break
		}
	}
	if err := validationFailed(errs); err != nil {
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

	rows, err := uc.Repo.ListByOwner(ctx, userID, input.Statuses)
	if err != nil {
		return nil, upstream("failed to fetch leads", err)
	}

	leads := make([]*entity.Lead, 0, len(rows))
	for _, l := range rows {
		if l.UserID != userID || l.Archived {
			continue
		}
		leads = append(leads, l)
	}

	return &ListLeadsOutput{Leads: leads, FetchedAt: uc.Now().UTC()}, nil
}

type UpdateLeadUseCase struct {
	Guard *AuthorizationGuard
	Repo  entity.LeadRepositoryInterface
	Now   func() time.Time
}

func NewUpdateLeadUseCase(guard *AuthorizationGuard, repo entity.LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Guard: guard, Repo: repo, Now: time.Now}
}

// Execute authenticates with the caller's own token and then writes with the
// privileged store. Only status and notes change; updated_at always does.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, input UpdateLeadInput) (*entity.Lead, error) {
	patch := entity.LeadPatch{Status: input.Status, Notes: input.Notes}
	errs := checkID(nil, "leadId", input.LeadID)
	errs = checkLeadPatch(errs, patch)
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

	lead, err := uc.Repo.Update(ctx, strings.TrimSpace(input.LeadID), ownerID, patch, uc.Now().UTC())
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("lead not found")
	}
	if err != nil {
		return nil, upstream("failed to update lead", err)
	}
	return lead, nil
}
