package httpserver

import (
	"context"

	"jobcard-automation/internal/admin"
	"jobcard-automation/internal/model"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery(), srv.middleware.TraceID())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "HTTP mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/simpro", srv.webhookHandler.HandleSimproWebhook)
		srv.l.Infof(ctx, "Simpro webhook route registered at POST /webhook/simpro")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping Simpro webhook route")
	}

	if srv.adminHandler != nil {
		api := srv.gin.Group("/api/v1")
		admin.RegisterRoutes(api.Group("/admin", srv.middleware.AdminAuth()), srv.adminHandler)
		srv.l.Infof(ctx, "Admin routes registered under /api/v1/admin")
	} else {
		srv.l.Infof(ctx, "Admin handler not configured, skipping admin routes")
	}

	return nil
}
