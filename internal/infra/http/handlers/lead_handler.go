package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/usecase"
)

type LeadHandler struct {
	list   listLeadsUseCase
	update updateLeadUseCase
	logger *zap.Logger
}

func NewLeadHandler(list listLeadsUseCase, update updateLeadUseCase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{list: list, update: update, logger: logger}
}

type getUserLeadsRequest struct {
	UserID   string   `json:"userId"`
	Statuses []string `json:"statuses,omitempty"`
}

type updateLeadRequest struct {
	LeadID string  `json:"leadId"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type updateLeadResponse struct {
	Success bool         `json:"success"`
	Lead    *entity.Lead `json:"lead"`
}

// GetUserLeads handles POST get-user-leads.
func (h *LeadHandler) GetUserLeads(w http.ResponseWriter, r *http.Request) {
	var req getUserLeadsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.list.Execute(r.Context(), usecase.ListLeadsInput{
		Token:    bearerToken(r),
		UserID:   req.UserID,
		Statuses: req.Statuses,
	})
	if err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateLead handles POST update-lead. Every failure is a 400.
func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var req updateLeadRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, badRequestStatus)
		return
	}

	lead, err := h.update.Execute(r.Context(), usecase.UpdateLeadInput{
		Token:  bearerToken(r),
		LeadID: req.LeadID,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		writeError(w, r, h.logger, err, badRequestStatus)
		return
	}
	writeJSON(w, http.StatusOK, updateLeadResponse{Success: true, Lead: lead})
}
