package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/usecase"
)

const serviceKey = "service-role-key"

// ============ IDENTITY ============

// tokenVerifier accepts the tokens it was seeded with.
type tokenVerifier map[string]entity.Identity

func (v tokenVerifier) Verify(_ context.Context, token string) (entity.Identity, error) {
	id, ok := v[token]
	if !ok {
		return entity.Identity{}, errors.New("token is invalid")
	}
	return id, nil
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) PromoteAdmin(ctx context.Context, id, email string, at time.Time) (*entity.Profile, error) {
	args := m.Called(ctx, id, email, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) LinkStripeCustomer(ctx context.Context, id, stripeCustomerID string, at time.Time) error {
	args := m.Called(ctx, id, stripeCustomerID, at)
	return args.Error(0)
}

type MockIdentityDirectory struct {
	mock.Mock
}

func (m *MockIdentityDirectory) FindUserByEmail(ctx context.Context, email string) (*entity.DirectoryUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DirectoryUser), args.Error(1)
}

func (m *MockIdentityDirectory) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

// ============ GATEWAYS ============

type MockBillingPortalGateway struct {
	mock.Mock
}

func (m *MockBillingPortalGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishTerritoryRequested(ctx context.Context, event entity.TerritoryRequested) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// ============ REPOSITORIES ============

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) ListByOwner(ctx context.Context, userID string, statuses []string) ([]*entity.Lead, error) {
	args := m.Called(ctx, userID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, leadID, ownerID string, patch entity.LeadPatch, at time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, leadID, ownerID, patch, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockScheduledEmailRepository struct {
	mock.Mock
}

func (m *MockScheduledEmailRepository) Create(ctx context.Context, email *entity.ScheduledEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// memTerritoryRepo keeps the same uniqueness rules as the database: one
// active claim per zip and one pending request per (user, zip).
type memTerritoryRepo struct {
	mu       sync.Mutex
	claims   []*entity.ZipClaim
	requests map[string]*entity.TerritoryRequest
}

func newMemTerritoryRepo() *memTerritoryRepo {
	return &memTerritoryRepo{requests: map[string]*entity.TerritoryRequest{}}
}

func (r *memTerritoryRepo) activeClaim(zip string) *entity.ZipClaim {
	for _, c := range r.claims {
		if c.ZipCode == zip && c.Status == entity.ClaimStatusActive {
			return c
		}
	}
	return nil
}

func (r *memTerritoryRepo) FindActiveClaim(_ context.Context, zip string) (*entity.ZipClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.activeClaim(zip)
	if c == nil {
		return nil, entity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memTerritoryRepo) CreatePendingRequest(_ context.Context, req *entity.TerritoryRequest) (*entity.TerritoryRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.UserID == req.UserID && existing.ZipCode == req.ZipCode && existing.Status == entity.RequestStatusPending {
			cp := *existing
			return &cp, false, nil
		}
	}
	cp := *req
	r.requests[req.ID] = &cp
	out := cp
	return &out, true, nil
}

func (r *memTerritoryRepo) request(id string) (*entity.TerritoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *memTerritoryRepo) ListRequests(_ context.Context, statuses []string) ([]*entity.TerritoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TerritoryRequest
	for _, req := range r.requests {
		if len(statuses) > 0 && !contains(statuses, req.Status) {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memTerritoryRepo) Approve(_ context.Context, review entity.Review) (*entity.ZipClaim, *entity.TerritoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[review.RequestID]
	if !ok {
		return nil, nil, entity.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, nil, entity.ErrNotPending
	}

	claim := r.activeClaim(req.ZipCode)
	switch {
	case claim != nil && claim.UserID != req.UserID:
		return nil, nil, entity.ErrConflict
	case claim == nil:
		claim = &entity.ZipClaim{
			ID:        uuid.New().String(),
			ZipCode:   req.ZipCode,
			UserID:    req.UserID,
			RequestID: req.ID,
			Status:    entity.ClaimStatusActive,
			CreatedAt: review.At,
			UpdatedAt: review.At,
		}
		r.claims = append(r.claims, claim)
	}

	at := review.At
	req.Status = entity.RequestStatusApproved
	req.ReviewedBy = review.ReviewerID
	req.ReviewedAt = &at

	c, rq := *claim, *req
	return &c, &rq, nil
}

func (r *memTerritoryRepo) Reject(_ context.Context, review entity.Review) (*entity.TerritoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[review.RequestID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, entity.ErrNotPending
	}
	at := review.At
	req.Status = entity.RequestStatusRejected
	req.ReviewedBy = review.ReviewerID
	req.ReviewedAt = &at
	cp := *req
	return &cp, nil
}

func (r *memTerritoryRepo) CancelClaim(_ context.Context, zip, ownerID string, at time.Time) (*entity.ZipClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.activeClaim(zip)
	if c == nil || (ownerID != "" && c.UserID != ownerID) {
		return nil, entity.ErrNotFound
	}
	c.Status = entity.ClaimStatusCancelled
	c.UpdatedAt = at
	cp := *c
	return &cp, nil
}

func (r *memTerritoryRepo) activeClaims() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.claims {
		if c.Status == entity.ClaimStatusActive {
			n++
		}
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ============ FIXTURES ============

var fixedNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newGuard wires a guard where "token-<id>" authenticates user <id>.
func newGuard(profiles *MockProfileRepository, users ...string) *usecase.AuthorizationGuard {
	verifier := tokenVerifier{}
	for _, u := range users {
		verifier["token-"+u] = entity.Identity{UserID: u, Email: u + "@example.com", ExpiresAt: fixedNow.Add(time.Hour)}
	}
	return usecase.NewAuthorizationGuard(verifier, profiles, serviceKey)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
