package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/usecase"
)

type AdminHandler struct {
	checkStatus checkAdminStatusUseCase
	setAdmin    setAdminUseCase
	logger      *zap.Logger
}

func NewAdminHandler(checkStatus checkAdminStatusUseCase, setAdmin setAdminUseCase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{checkStatus: checkStatus, setAdmin: setAdmin, logger: logger}
}

type checkAdminStatusRequest struct {
	UserID string `json:"userId"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckStatus handles POST check-admin-status.
func (h *AdminHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	var req checkAdminStatusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}

	out, err := h.checkStatus.Execute(r.Context(), usecase.CheckAdminStatusInput{
		Token:  bearerToken(r),
		UserID: req.UserID,
	})
	if err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SetAdmin handles POST set-admin. It takes no input; the target is configured.
func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct{}
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, h.logger, err, clientStatus)
		return
	}

	profile, err := h.setAdmin.Execute(r.Context(), usecase.SetAdminInput{Token: bearerToken(r)})
	if err != nil {
		writeError(w, r, h.logger, err, clientStatus)
		return
	}

	h.logger.Info("admin privileges granted", zap.String("user_id", profile.ID))
	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "admin privileges granted to " + profile.Email,
	})
}
