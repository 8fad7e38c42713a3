package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/infra/http/middleware"
	"github.com/xavierca1/leadzone/internal/usecase"
)

type limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type TerritoryHandler struct {
	availability checkAvailabilityUseCase
	request      requestTerritoryUseCase
	approve      approveTerritoryUseCase
	reject       rejectTerritoryUseCase
	list         listTerritoryRequestsUseCase
	cancel       cancelTerritoryUseCase
	limiter      limiter
	logger       *zap.Logger
}

type TerritoryUseCases struct {
	Availability checkAvailabilityUseCase
	Request      requestTerritoryUseCase
	Approve      approveTerritoryUseCase
	Reject       rejectTerritoryUseCase
	List         listTerritoryRequestsUseCase
	Cancel       cancelTerritoryUseCase
}

func NewTerritoryHandler(uc TerritoryUseCases, limiter limiter, logger *zap.Logger) *TerritoryHandler {
	return &TerritoryHandler{
		availability: uc.Availability,
		request:      uc.Request,
		approve:      uc.Approve,
		reject:       uc.Reject,
		list:         uc.List,
		cancel:       uc.Cancel,
		limiter:      limiter,
		logger:       logger,
	}
}

type zipRequest struct {
	ZipCode string `json:"zipCode"`
}

type territoryRequestBody struct {
	UserID  string `json:"userId"`
	ZipCode string `json:"zipCode"`
}

type reviewRequest struct {
	RequestID string `json:"requestId"`
}

type listRequestsRequest struct {
	Status string `json:"status"`
}

type requestTerritoryResponse struct {
	Success bool                     `json:"success"`
	Created bool                     `json:"created"`
	Request *entity.TerritoryRequest `json:"request"`
}

type approveTerritoryResponse struct {
	Success bool                     `json:"success"`
	Claim   *entity.ZipClaim         `json:"claim"`
	Request *entity.TerritoryRequest `json:"request"`
}

type rejectTerritoryResponse struct {
	Success bool                     `json:"success"`
	Request *entity.TerritoryRequest `json:"request"`
}

type cancelTerritoryResponse struct {
	Success bool             `json:"success"`
	Claim   *entity.ZipClaim `json:"claim"`
}

func territoryRequestStatus(code string) int {
	switch code {
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// CheckAvailability handles POST check-availability. Anonymous callers are
// welcome; requests are limited per client IP.
func (h *TerritoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		ok, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			h.logger.Warn("rate limiter unavailable", zap.Error(err))
		}
		if !ok {
			middleware.RecordRateLimited("check-availability")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:   "RATE_LIMITED",
				Message: "too many requests, please try again later",
			})
			return
		}
	}

	var req zipRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.availability.Execute(r.Context(), usecase.CheckAvailabilityInput{
		Token:   bearerToken(r),
		ZipCode: req.ZipCode,
	})
	if err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RequestTerritory handles POST request-territory.
func (h *TerritoryHandler) RequestTerritory(w http.ResponseWriter, r *http.Request) {
	out, ok := h.submitRequest(w, r, territoryRequestStatus)
	if !ok {
		return
	}
	status := http.StatusCreated
	if !out.Created {
		status = http.StatusOK
	}
	writeJSON(w, status, requestTerritoryResponse{Success: true, Created: out.Created, Request: out.Request})
}

// AdminNotification handles POST admin-notification: it files the pending
// request and lets admins know about it.
func (h *TerritoryHandler) AdminNotification(w http.ResponseWriter, r *http.Request) {
	out, ok := h.submitRequest(w, r, clientStatus)
	if !ok {
		return
	}
	msg := "admins notified of territory request for " + out.Request.ZipCode
	if !out.Created {
		msg = "territory request for " + out.Request.ZipCode + " is already pending"
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: msg})
}

func (h *TerritoryHandler) submitRequest(w http.ResponseWriter, r *http.Request, policy statusPolicy) (*usecase.RequestTerritoryOutput, bool) {
	var req territoryRequestBody
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, policy)
		return nil, false
	}

	out, err := h.request.Execute(r.Context(), usecase.RequestTerritoryInput{
		Token:   bearerToken(r),
		UserID:  req.UserID,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		middleware.RecordTerritoryRequest("rejected")
		writeError(w, r, h.logger, err, policy)
		return nil, false
	}

	if out.Created {
		middleware.RecordTerritoryRequest("created")
		h.logger.Info("territory requested",
			zap.String("request_id", out.Request.ID),
			zap.String("user_id", out.Request.UserID),
			zap.String("zip_code", out.Request.ZipCode),
		)
	} else {
		middleware.RecordTerritoryRequest("duplicate")
	}
	return out, true
}

// Approve handles POST approve-territory.
func (h *TerritoryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.approve.Execute(r.Context(), usecase.ReviewTerritoryInput{Token: bearerToken(r), RequestID: req.RequestID})
	if err != nil {
		middleware.RecordTerritoryReview("approve", reviewOutcome(err))
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	middleware.RecordTerritoryReview("approve", "ok")
	h.logger.Info("territory approved",
		zap.String("request_id", out.Request.ID),
		zap.String("zip_code", out.Claim.ZipCode),
		zap.String("user_id", out.Claim.UserID),
	)
	writeJSON(w, http.StatusOK, approveTerritoryResponse{Success: true, Claim: out.Claim, Request: out.Request})
}

// Reject handles POST reject-territory.
func (h *TerritoryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.reject.Execute(r.Context(), usecase.ReviewTerritoryInput{Token: bearerToken(r), RequestID: req.RequestID})
	if err != nil {
		middleware.RecordTerritoryReview("reject", reviewOutcome(err))
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	middleware.RecordTerritoryReview("reject", "ok")
	writeJSON(w, http.StatusOK, rejectTerritoryResponse{Success: true, Request: out})
}

// List handles POST list-territory-requests.
func (h *TerritoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var req listRequestsRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.list.Execute(r.Context(), usecase.ListTerritoryRequestsInput{Token: bearerToken(r), Status: req.Status})
	if err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Cancel handles POST cancel-territory.
func (h *TerritoryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req zipRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	claim, err := h.cancel.Execute(r.Context(), usecase.CancelTerritoryInput{Token: bearerToken(r), ZipCode: req.ZipCode})
	if err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	h.logger.Info("territory cancelled", zap.String("zip_code", claim.ZipCode), zap.String("user_id", claim.UserID))
	writeJSON(w, http.StatusOK, cancelTerritoryResponse{Success: true, Claim: claim})
}

func reviewOutcome(err error) string {
	switch usecase.CodeOf(err) {
	case usecase.CodeConflict:
		return "conflict"
	case usecase.CodeUpstream:
		return "error"
	default:
		return "rejected"
	}
}
