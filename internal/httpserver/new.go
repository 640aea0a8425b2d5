package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"jobcard-automation/internal/admin"
	"jobcard-automation/internal/middleware"
	"jobcard-automation/pkg/log"
)

const defaultShutdownTimeout = 30 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration
	readiness       func(ctx context.Context) error

	middleware middleware.Middleware

	// Simpro webhook receiver
	webhookHandler interface {
		HandleSimproWebhook(c *gin.Context)
	}

	// Operator endpoints
	adminHandler admin.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration
	// Readiness is probed by /ready; nil means always ready.
	Readiness func(ctx context.Context) error

	Middleware middleware.Middleware

	// Simpro webhook receiver
	WebhookHandler interface {
		HandleSimproWebhook(c *gin.Context)
	}

	// Operator endpoints
	AdminHandler admin.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		readiness:       cfg.Readiness,
		middleware:      cfg.Middleware,
		webhookHandler:  cfg.WebhookHandler,
		adminHandler:    cfg.AdminHandler,
	}
	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = defaultShutdownTimeout
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
