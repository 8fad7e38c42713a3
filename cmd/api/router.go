package main

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	metrics "github.com/xavierca1/leadzone/internal/infra/http/middleware"
)

type routes struct {
	healthz http.HandlerFunc

	checkAdminStatus http.HandlerFunc
	setAdmin         http.HandlerFunc

	getUserLeads http.HandlerFunc
	updateLead   http.HandlerFunc

	customerPortal   http.HandlerFunc
	scheduleFollowup http.HandlerFunc

	adminNotification     http.HandlerFunc
	checkAvailability     http.HandlerFunc
	requestTerritory      http.HandlerFunc
	approveTerritory      http.HandlerFunc
	rejectTerritory       http.HandlerFunc
	listTerritoryRequests http.HandlerFunc
	cancelTerritory       http.HandlerFunc

	signOut       http.HandlerFunc
	stripeWebhook http.HandlerFunc
}

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{"Authorization", "Content-Type", "apikey", "x-client-info", "Stripe-Signature"}
)

// newRouter mounts every function under /functions/v1. Preflight requests are
// answered by the CORS handler before they reach a route; any other OPTIONS
// request gets an empty 200.
func newRouter(origins []string, timeout time.Duration, h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(metrics.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: corsMethods,
		AllowedHeaders: corsHeaders,
		MaxAge:         300,
	}))

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/functions/v1", func(r chi.Router) {
		r.Options("/*", emptyOptions(slices.Contains(origins, "*")))

		r.Post("/check-admin-status", h.checkAdminStatus)
		r.Post("/set-admin", h.setAdmin)

		r.Post("/get-user-leads", h.getUserLeads)
		r.Post("/update-lead", h.updateLead)

		r.Post("/customer-portal", h.customerPortal)
		r.Post("/schedule-followup-email", h.scheduleFollowup)

		r.Post("/admin-notification", h.adminNotification)
		r.Post("/check-availability", h.checkAvailability)
		r.Post("/request-territory", h.requestTerritory)
		r.Post("/approve-territory", h.approveTerritory)
		r.Post("/reject-territory", h.rejectTerritory)
		r.Post("/list-territory-requests", h.listTerritoryRequests)
		r.Post("/cancel-territory", h.cancelTerritory)

		r.Post("/sign-out", h.signOut)
		r.Post("/stripe-webhook", h.stripeWebhook)
	})
	return r
}

// emptyOptions fills in the CORS headers the CORS handler skips when a request
// carries no Origin.
func emptyOptions(allowAll bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h := w.Header()
		if allowAll && h.Get("Access-Control-Allow-Origin") == "" {
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(corsHeaders, ", "))
		}
		w.WriteHeader(http.StatusOK)
	}
}
