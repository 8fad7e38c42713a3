package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/config"
	"github.com/xavierca1/leadzone/internal/entity"
	"github.com/xavierca1/leadzone/internal/infra/auth"
	"github.com/xavierca1/leadzone/internal/infra/database"
	"github.com/xavierca1/leadzone/internal/infra/http/handlers"
	metrics "github.com/xavierca1/leadzone/internal/infra/http/middleware"
	"github.com/xavierca1/leadzone/internal/infra/integration/stripe"
	"github.com/xavierca1/leadzone/internal/infra/logger"
	"github.com/xavierca1/leadzone/internal/infra/mail"
	"github.com/xavierca1/leadzone/internal/infra/queue"
	"github.com/xavierca1/leadzone/internal/infra/ratelimit"
	"github.com/xavierca1/leadzone/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not built yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	profileRepo := database.NewProfileRepository(db)
	territoryRepo := database.NewTerritoryRepository(db)
	leadRepo := database.NewLeadRepository(db)
	emailRepo := database.NewScheduledEmailRepository(db)

	// 2. Identity and billing
	verifier := auth.NewJWTVerifier(cfg.SupabaseJWTSecret)
	directory := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.UpstreamTimeout)
	billing := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeURL, cfg.UpstreamTimeout)

	health := handlers.NewHealthHandler(version).
		Register("database", db.PingContext).
		Register("stripe", billing.Ping).
		Configured("mail", cfg.MailEnabled())

	// 3. Admin notifications
	var publisher usecase.NotificationPublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		health.Register("rabbitmq", func(context.Context) error { return rabbitMQ.Ping() })

		consumerCh, err := rabbitMQ.Channel()
		if err != nil {
			return err
		}
		worker := queue.NewWorker(consumerCh, countingNotifier{newNotifier(cfg, log)}, log.Named("worker"))
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil && ctx.Err() == nil {
				log.Error("notification worker stopped", zap.Error(err))
			}
		}()
	} else {
		log.Warn("RABBITMQ_URL not set, admin notifications are disabled")
		health.Register("rabbitmq", nil)
	}

	// 4. Rate limiting
	window := time.Minute
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		client, err := ratelimit.Connect(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		limiter = ratelimit.NewRedisLimiter(client, "leadzone:availability", cfg.AvailabilityRateLimit, window)
		health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	} else {
		mem := ratelimit.NewMemoryLimiter(cfg.AvailabilityRateLimit, window)
		go mem.Cleanup(ctx, 5*time.Minute)
		limiter = mem
		health.Register("redis", nil)
	}

	// 5. Use cases
	guard := usecase.NewAuthorizationGuard(verifier, profileRepo, cfg.SupabaseServiceRoleKey)
	followupDelay := time.Duration(cfg.FollowupDefaultDays) * 24 * time.Hour

	territory := handlers.TerritoryUseCases{
		Availability: usecase.NewCheckAvailabilityUseCase(guard, territoryRepo),
		Request:      usecase.NewRequestTerritoryUseCase(guard, territoryRepo, publisher, log.Named("territory")),
		Approve:      usecase.NewApproveTerritoryUseCase(guard, territoryRepo, emailRepo, followupDelay, log.Named("territory")),
		Reject:       usecase.NewRejectTerritoryUseCase(guard, territoryRepo),
		List:         usecase.NewListTerritoryRequestsUseCase(guard, territoryRepo),
		Cancel:       usecase.NewCancelTerritoryUseCase(guard, territoryRepo),
	}

	// 6. Handlers
	adminHandler := handlers.NewAdminHandler(
		usecase.NewCheckAdminStatusUseCase(guard),
		usecase.NewSetAdminUseCase(guard, directory, profileRepo, cfg.AdminBootstrapEmail),
		log,
	)
	territoryHandler := handlers.NewTerritoryHandler(territory, limiter, log)
	leadHandler := handlers.NewLeadHandler(
		usecase.NewListLeadsUseCase(guard, leadRepo),
		usecase.NewUpdateLeadUseCase(guard, leadRepo),
		log,
	)
	billingHandler := handlers.NewBillingHandler(
		usecase.NewOpenBillingPortalUseCase(guard, billing, cfg.BillingReturnURL),
		usecase.NewScheduleFollowupUseCase(guard, emailRepo, cfg.FollowupDefaultDays),
		log,
	)
	sessionHandler := handlers.NewSessionHandler(usecase.NewSignOutUseCase(directory), log)
	webhookHandler := handlers.NewWebhookHandler(usecase.NewLinkBillingCustomerUseCase(profileRepo), cfg.StripeWebhookSecret, log)

	// 7. Router
	r := newRouter(cfg.CORSAllowedOrigins, cfg.RequestTimeout, routes{
		healthz:               health.Handle,
		checkAdminStatus:      adminHandler.CheckStatus,
		setAdmin:              adminHandler.SetAdmin,
		getUserLeads:          leadHandler.GetUserLeads,
		updateLead:            leadHandler.UpdateLead,
		customerPortal:        billingHandler.CustomerPortal,
		scheduleFollowup:      billingHandler.ScheduleFollowup,
		adminNotification:     territoryHandler.AdminNotification,
		checkAvailability:     territoryHandler.CheckAvailability,
		requestTerritory:      territoryHandler.RequestTerritory,
		approveTerritory:      territoryHandler.Approve,
		rejectTerritory:       territoryHandler.Reject,
		listTerritoryRequests: territoryHandler.List,
		cancelTerritory:       territoryHandler.Cancel,
		signOut:               sessionHandler.SignOut,
		stripeWebhook:         webhookHandler.Handle,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newNotifier picks SMTP delivery when mail is configured, otherwise a log line.
func newNotifier(cfg config.Config, log *zap.Logger) queue.Notifier {
	if cfg.MailEnabled() {
		return mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.AdminNotifyEmail, cfg.AdminReviewURL)
	}
	log.Warn("MAIL_HOST or ADMIN_NOTIFY_EMAIL not set, notifications are only logged")
	return mail.LogNotifier{Log: func(msg string, event entity.TerritoryRequested) {
		log.Info(msg,
			zap.String("request_id", event.RequestID),
			zap.String("user_email", event.UserEmail),
			zap.String("zip_code", event.ZipCode),
		)
	}}
}

type countingNotifier struct {
	next queue.Notifier
}

func (n countingNotifier) SendTerritoryRequested(ctx context.Context, event entity.TerritoryRequested) error {
	if err := n.next.SendTerritoryRequested(ctx, event); err != nil {
		metrics.RecordNotification("error")
		return err
	}
	metrics.RecordNotification("sent")
	return nil
}
