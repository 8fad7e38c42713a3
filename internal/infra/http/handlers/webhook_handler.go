package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/infra/http/middleware"
	"github.com/xavierca1/leadzone/internal/infra/integration/stripe"
	"github.com/xavierca1/leadzone/internal/usecase"
)

const maxWebhookBytes = 64 << 10

// WebhookHandler receives billing-provider events.
type WebhookHandler struct {
	link   linkBillingCustomerUseCase
	secret string
	logger *zap.Logger
	now    func() time.Time
}

func NewWebhookHandler(link linkBillingCustomerUseCase, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{link: link, secret: secret, logger: logger, now: time.Now}
}

// Handle verifies the Stripe-Signature header before anything in the body is trusted.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		h.logger.Error("stripe webhook received but STRIPE_WEBHOOK_SECRET is not set")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: usecase.CodeUpstream, Message: "webhook is not configured"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: usecase.CodeValidation, Message: "unreadable body"})
		return
	}

	event, err := stripe.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret, h.now(), stripe.DefaultTolerance)
	switch {
	case errors.Is(err, stripe.ErrMissingSignature), errors.Is(err, stripe.ErrInvalidSignature), errors.Is(err, stripe.ErrStaleTimestamp):
		h.logger.Warn("stripe webhook rejected", zap.Error(err))
		middleware.RecordWebhookEvent("unknown", "rejected")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: usecase.CodeUnauthorized, Message: "invalid signature"})
		return
	case err != nil:
		middleware.RecordWebhookEvent("unknown", "malformed")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: usecase.CodeValidation, Message: "malformed event"})
		return
	}

	if event.Type != stripe.EventCheckoutCompleted {
		middleware.RecordWebhookEvent(event.Type, "ignored")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	session := event.Data.Object
	err = h.link.Execute(r.Context(), usecase.LinkBillingCustomerInput{
		UserID:           session.ClientReferenceID,
		StripeCustomerID: session.Customer,
	})
	if err != nil {
		// Validation and unknown users are acknowledged so Stripe stops retrying;
		// store failures get a 500 and are redelivered.
		if usecase.IsTechnicalError(err) {
			middleware.RecordWebhookEvent(event.Type, "error")
			writeError(w, r, h.logger, err, defaultStatus)
			return
		}
		h.logger.Warn("checkout session not linked",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		middleware.RecordWebhookEvent(event.Type, "skipped")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	h.logger.Info("billing customer linked",
		zap.String("event_id", event.ID),
		zap.String("user_id", session.ClientReferenceID),
	)
	middleware.RecordWebhookEvent(event.Type, "ok")
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
