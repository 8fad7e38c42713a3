package handlers

import (
	"context"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/usecase"
)

// The handlers depend on these narrow views of the use cases.

type checkAdminStatusUseCase interface {
	Execute(ctx context.Context, input usecase.CheckAdminStatusInput) (*usecase.CheckAdminStatusOutput, error)
}

type setAdminUseCase interface {
	Execute(ctx context.Context, input usecase.SetAdminInput) (*entity.Profile, error)
}

type checkAvailabilityUseCase interface {
	Execute(ctx context.Context, input usecase.CheckAvailabilityInput) (*usecase.CheckAvailabilityOutput, error)
}

type requestTerritoryUseCase interface {
	Execute(ctx context.Context, input usecase.RequestTerritoryInput) (*usecase.RequestTerritoryOutput, error)
}

type approveTerritoryUseCase interface {
	Execute(ctx context.Context, input usecase.ReviewTerritoryInput) (*usecase.ApproveTerritoryOutput, error)
}

type rejectTerritoryUseCase interface {
	Execute(ctx context.Context, input usecase.ReviewTerritoryInput) (*entity.TerritoryRequest, error)
}

type listTerritoryRequestsUseCase interface {
	Execute(ctx context.Context, input usecase.ListTerritoryRequestsInput) (*usecase.ListTerritoryRequestsOutput, error)
}

type cancelTerritoryUseCase interface {
	Execute(ctx context.Context, input usecase.CancelTerritoryInput) (*entity.ZipClaim, error)
}

type listLeadsUseCase interface {
	Execute(ctx context.Context, input usecase.ListLeadsInput) (*usecase.ListLeadsOutput, error)
}

type updateLeadUseCase interface {
	Execute(ctx context.Context, input usecase.UpdateLeadInput) (*entity.Lead, error)
}

type openBillingPortalUseCase interface {
	Execute(ctx context.Context, input usecase.OpenBillingPortalInput) (*usecase.OpenBillingPortalOutput, error)
}

type scheduleFollowupUseCase interface {
	Execute(ctx context.Context, input usecase.ScheduleFollowupInput) (*entity.ScheduledEmail, error)
}

type linkBillingCustomerUseCase interface {
	Execute(ctx context.Context, input usecase.LinkBillingCustomerInput) error
}

type signOutUseCase interface {
	Execute(ctx context.Context, token string) error
}
