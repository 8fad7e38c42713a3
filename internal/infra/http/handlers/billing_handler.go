package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/infra/http/middleware"
	"github.com/xavierca1/leadzone/internal/usecase"
)

type BillingHandler struct {
	portal   openBillingPortalUseCase
	followup scheduleFollowupUseCase
	logger   *zap.Logger
}

func NewBillingHandler(portal openBillingPortalUseCase, followup scheduleFollowupUseCase, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{portal: portal, followup: followup, logger: logger}
}

type customerPortalRequest struct {
	ReturnURL string `json:"returnUrl,omitempty"`
}

type scheduleFollowupRequest struct {
	UserID     string `json:"userId"`
	ZipCode    string `json:"zipCode,omitempty"`
	DaysToWait *int   `json:"daysToWait,omitempty"`
	Type       string `json:"type,omitempty"`
}

type scheduleFollowupResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *entity.ScheduledEmail `json:"data"`
}

func portalStatus(code string) int {
	if code == usecase.CodeUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

// CustomerPortal handles POST customer-portal.
func (h *BillingHandler) CustomerPortal(w http.ResponseWriter, r *http.Request) {
	var req customerPortalRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, h.logger, err, portalStatus)
		return
	}

	out, err := h.portal.Execute(r.Context(), usecase.OpenBillingPortalInput{
		Token:     bearerToken(r),
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		if usecase.CodeOf(err) == usecase.CodeUpstream {
			middleware.RecordPortalSession("error")
		}
		writeError(w, r, h.logger, err, portalStatus)
		return
	}

	middleware.RecordPortalSession("ok")
	writeJSON(w, http.StatusOK, out)
}

// ScheduleFollowup handles POST schedule-followup-email.
func (h *BillingHandler) ScheduleFollowup(w http.ResponseWriter, r *http.Request) {
	var req scheduleFollowupRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, clientStatus)
		return
	}

	email, err := h.followup.Execute(r.Context(), usecase.ScheduleFollowupInput{
		Token:      bearerToken(r),
		UserID:     req.UserID,
		ZipCode:    req.ZipCode,
		DaysToWait: req.DaysToWait,
		Type:       req.Type,
	})
	if err != nil {
		writeError(w, r, h.logger, err, clientStatus)
		return
	}

	writeJSON(w, http.StatusOK, scheduleFollowupResponse{
		Success: true,
		Message: fmt.Sprintf("follow-up email scheduled for %s", email.ScheduledFor.Format("2006-01-02")),
		Data:    email,
	})
}
