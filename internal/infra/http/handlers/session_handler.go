package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type SessionHandler struct {
	signOut signOutUseCase
	logger  *zap.Logger
}

func NewSessionHandler(signOut signOutUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{signOut: signOut, logger: logger}
}

// SignOut handles POST sign-out. An already-ended session is reported as success.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.signOut.Execute(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, h.logger, err, defaultStatus)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
