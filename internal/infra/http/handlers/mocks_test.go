package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/usecase"
)

// ============ USE CASE MOCKS ============

type MockCheckAdminStatus struct{ mock.Mock }

func (m *MockCheckAdminStatus) Execute(ctx context.Context, in usecase.CheckAdminStatusInput) (*usecase.CheckAdminStatusOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckAdminStatusOutput), args.Error(1)
}

type MockSetAdmin struct{ mock.Mock }

func (m *MockSetAdmin) Execute(ctx context.Context, in usecase.SetAdminInput) (*entity.Profile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

type MockCheckAvailability struct{ mock.Mock }

func (m *MockCheckAvailability) Execute(ctx context.Context, in usecase.CheckAvailabilityInput) (*usecase.CheckAvailabilityOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckAvailabilityOutput), args.Error(1)
}

type MockRequestTerritory struct{ mock.Mock }

func (m *MockRequestTerritory) Execute(ctx context.Context, in usecase.RequestTerritoryInput) (*usecase.RequestTerritoryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RequestTerritoryOutput), args.Error(1)
}

type MockApproveTerritory struct{ mock.Mock }

func (m *MockApproveTerritory) Execute(ctx context.Context, in usecase.ReviewTerritoryInput) (*usecase.ApproveTerritoryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ApproveTerritoryOutput), args.Error(1)
}

type MockRejectTerritory struct{ mock.Mock }

func (m *MockRejectTerritory) Execute(ctx context.Context, in usecase.ReviewTerritoryInput) (*entity.TerritoryRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TerritoryRequest), args.Error(1)
}

type MockListTerritoryRequests struct{ mock.Mock }

func (m *MockListTerritoryRequests) Execute(ctx context.Context, in usecase.ListTerritoryRequestsInput) (*usecase.ListTerritoryRequestsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListTerritoryRequestsOutput), args.Error(1)
}

type MockCancelTerritory struct{ mock.Mock }

func (m *MockCancelTerritory) Execute(ctx context.Context, in usecase.CancelTerritoryInput) (*entity.ZipClaim, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ZipClaim), args.Error(1)
}

type MockListLeads struct{ mock.Mock }

func (m *MockListLeads) Execute(ctx context.Context, in usecase.ListLeadsInput) (*usecase.ListLeadsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListLeadsOutput), args.Error(1)
}

type MockUpdateLead struct{ mock.Mock }

func (m *MockUpdateLead) Execute(ctx context.Context, in usecase.UpdateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockOpenBillingPortal struct{ mock.Mock }

func (m *MockOpenBillingPortal) Execute(ctx context.Context, in usecase.OpenBillingPortalInput) (*usecase.OpenBillingPortalOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OpenBillingPortalOutput), args.Error(1)
}

type MockScheduleFollowup struct{ mock.Mock }

func (m *MockScheduleFollowup) Execute(ctx context.Context, in usecase.ScheduleFollowupInput) (*entity.ScheduledEmail, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ScheduledEmail), args.Error(1)
}

type MockLinkBillingCustomer struct{ mock.Mock }

func (m *MockLinkBillingCustomer) Execute(ctx context.Context, in usecase.LinkBillingCustomerInput) error {
	return m.Called(ctx, in).Error(0)
}

type MockSignOut struct{ mock.Mock }

func (m *MockSignOut) Execute(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockLimiter struct{ mock.Mock }

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// ============ HELPERS ============

func domainErr(code, msg string) error {
	return &usecase.DomainError{Code: code, Message: msg}
}

func post(body, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/test", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}
