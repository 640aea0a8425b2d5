package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobcard-automation/config"
	_ "jobcard-automation/docs" // Swagger docs
	"jobcard-automation/internal/admin"
	simproGateway "jobcard-automation/internal/gateway/simpro"
	"jobcard-automation/internal/httpserver"
	"jobcard-automation/internal/idempotency"
	"jobcard-automation/internal/middleware"
	"jobcard-automation/internal/model"
	"jobcard-automation/internal/reconcile"
	"jobcard-automation/internal/renewal"
	"jobcard-automation/internal/webhook"
	"jobcard-automation/internal/worker"
	"jobcard-automation/pkg/datemath"
	"jobcard-automation/pkg/log"
	pkgSimpro "jobcard-automation/pkg/simpro"
)

// @title       Job Card Automation API
// @description Simpro webhook receiver and maintenance-contract automation: tag propagation, completion scheduling, quote review and renewal reminders.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Job Card Automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Simpro URL: %s (company %d)", cfg.Simpro.BaseURL, cfg.Simpro.CompanyID)
	if cfg.Simpro.BaseURL == "" {
		logger.Warn(ctx, "SIMPRO_BASE_URL is empty: every ERP call will fail until it is configured")
	}

	// 3. Simpro gateway
	client := pkgSimpro.NewClient(pkgSimpro.Config{
		BaseURL:         cfg.Simpro.BaseURL,
		CompanyID:       cfg.Simpro.CompanyID,
		AccessToken:     cfg.Simpro.AccessToken,
		ClientID:        cfg.Simpro.ClientID,
		ClientSecret:    cfg.Simpro.ClientSecret,
		TokenURL:        cfg.Simpro.TokenURL,
		Timeout:         cfg.Simpro.Timeout,
		RetryAttempts:   cfg.Simpro.RetryAttempts,
		RetryDelay:      cfg.Simpro.RetryDelay,
		RateLimitPerSec: cfg.Simpro.RateLimitPerSec,
	})
	gw := simproGateway.New(client, logger)

	// 4. Idempotency sets
	stores, err := idempotency.NewStores(ctx, idempotency.Config{
		Backend:   cfg.Idempotency.Backend,
		Capacity:  cfg.Idempotency.Capacity,
		Target:    cfg.Idempotency.Target,
		RedisURL:  cfg.Idempotency.RedisURL,
		KeyPrefix: cfg.Idempotency.KeyPrefix,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize idempotency store: ", err)
		return
	}
	defer stores.Close()
	logger.Infof(ctx, "Idempotency backend: %s (capacity %d, target %d)", cfg.Idempotency.Backend, cfg.Idempotency.Capacity, cfg.Idempotency.Target)

	// 5. Reconciliation engine
	engine, err := reconcile.New(gw, stores, reconcile.Config{
		TriggerFieldID:   cfg.Automation.TriggerFieldID,
		TriggerFieldName: cfg.Automation.TriggerFieldName,
		YesValue:         cfg.Automation.YesValue,
		AssigneeID:       cfg.Automation.AssigneeID,
		ReviewerID:       cfg.Automation.ReviewerID,
		MaintenanceTagID: cfg.Automation.MaintenanceTagID,
	}, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize reconciliation engine: ", err)
		return
	}

	// 6. Dispatcher
	dispatcher := worker.New(func(ctx context.Context, ev model.WebhookEvent) error {
		out, err := engine.HandleEvent(ctx, ev)
		if err != nil {
			return err
		}
		logger.Infof(ctx, "Handled %s job=%s quote=%s actions=%d skipped=%v", out.Kind, out.JobID, out.QuoteID, len(out.Actions), out.Skipped)
		return nil
	}, worker.Config{
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		JobTimeout:     cfg.Worker.JobTimeout,
	}, logger)

	// 7. Renewal runner
	loc, err := time.LoadLocation(cfg.Renewal.Timezone)
	if err != nil {
		logger.Error(ctx, "Invalid renewal timezone: ", err)
		return
	}
	runner := renewal.New(gw, renewal.Config{
		TagID:      cfg.Automation.MaintenanceTagID,
		AssigneeID: cfg.Automation.AssigneeID,
		Location:   loc,
	}, logger)

	if cfg.Renewal.Enabled {
		scheduler, schedErr := renewal.NewScheduler(runner, cfg.Renewal.Schedule, loc, logger)
		if schedErr != nil {
			logger.Error(ctx, "Failed to initialize renewal scheduler: ", schedErr)
			return
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Infof(ctx, "Renewal runner scheduled at %q (%s)", cfg.Renewal.Schedule, loc)
	} else {
		logger.Info(ctx, "Renewal scheduler disabled, runs are available through the admin endpoint only")
	}

	// 8. Delivery
	dates, err := datemath.NewParser(cfg.Renewal.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Renewal.Timezone, err)
		dates, _ = datemath.NewParser("UTC")
	}
	adminHandler := admin.New(logger, gw, engine, runner, stores, dates, cfg.Automation.AssigneeID)

	var webhookHandler *webhook.Handler
	if cfg.Webhook.Enabled {
		webhookHandler = webhook.NewHandler(dispatcher, webhook.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		}, logger)
		if cfg.Webhook.Secret == "" {
			logger.Warn(ctx, "WEBHOOK_SECRET is empty: the webhook endpoint accepts unauthenticated calls")
		}
	}

	// 9. HTTP Server
	srvCfg := httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		Middleware:      middleware.New(logger, cfg.Admin.Token),
		AdminHandler:    adminHandler,
		Readiness: func(ctx context.Context) error {
			_, err := stores.Stats(ctx)
			return err
		},
	}
	if webhookHandler != nil {
		srvCfg.WebhookHandler = webhookHandler
	}
	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	// 11. Drain dispatched events
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Shutdown(drainCtx); err != nil {
		logger.Warnf(ctx, "Dispatcher did not drain: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
