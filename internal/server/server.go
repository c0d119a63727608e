package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/grievance-api/api/swagger"
	"github.com/noah-isme/grievance-api/internal/handler"
	internalmiddleware "github.com/noah-isme/grievance-api/internal/middleware"
	"github.com/noah-isme/grievance-api/internal/repository"
	"github.com/noah-isme/grievance-api/internal/service"
	"github.com/noah-isme/grievance-api/pkg/clock"
	"github.com/noah-isme/grievance-api/pkg/config"
	"github.com/noah-isme/grievance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/grievance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/grievance-api/pkg/middleware/requestid"
	"github.com/noah-isme/grievance-api/pkg/seed"
)

const shutdownTimeout = 10 * time.Second

// App owns the store and the services built on it.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      *repository.GrievanceRepository
	Metrics    *service.MetricsService
	Grievances *service.GrievanceService
	Sessions   *service.SessionService
	Exports    *service.ExportService
}

// NewApp wires a store over the seed data. A nil clock uses system time.
func NewApp(cfg *config.Config, data *seed.Data, log *zap.Logger, clk clock.Clock) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.Real()
	}

	store := repository.NewGrievanceRepository(
		data.Institutions,
		data.Roles,
		repository.WithClock(clk),
		repository.WithReferenceFormat(cfg.Reference.Prefix, cfg.Reference.Digits),
	)

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := service.NewValidator()
	opts := []service.GrievanceOption{
		service.WithGrievanceClock(clk),
		service.WithDefaultPageSize(cfg.Listing.DefaultPageSize),
	}
	if metrics != nil {
		opts = append(opts, service.WithGrievanceMetrics(metrics))
	}
	grievances := service.NewGrievanceService(store, validate, log.Named("grievances"), opts...)

	sessions := service.NewSessionService(store, validate, log.Named("sessions"), service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	}).WithClock(clk)

	var exports *service.ExportService
	if cfg.Export.Enabled {
		exports = service.NewExportService(grievances, store, log.Named("exports"), nil, nil).WithClock(clk)
	}

	return &App{
		Config:     cfg,
		Logger:     log,
		Store:      store,
		Metrics:    metrics,
		Grievances: grievances,
		Sessions:   sessions,
		Exports:    exports,
	}
}

// Router builds the HTTP routes.
func (a *App) Router() *gin.Engine {
	cfg := a.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if a.Metrics != nil {
		r.Use(internalmiddleware.Metrics(a.Metrics, "/metrics", "/health", "/ready"))
	}

	metricsHandler := handler.NewMetricsHandler(a.Metrics, a.Store)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if a.Metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	referenceHandler := handler.NewReferenceHandler(a.Grievances)
	sessionHandler := handler.NewSessionHandler(a.Sessions)
	grievanceHandler := handler.NewGrievanceHandler(a.Grievances)
	adminHandler := newAdminHandler(a.Grievances, a.Exports)

	api := r.Group(cfg.APIPrefix)
	api.GET("/institutions", referenceHandler.Institutions)
	api.GET("/roles", referenceHandler.Roles)
	api.GET("/categories", referenceHandler.Categories)
	api.GET("/statuses", referenceHandler.Statuses)

	api.POST("/session", sessionHandler.Start)
	api.GET("/session", internalmiddleware.Session(a.Sessions), sessionHandler.Current)
	api.DELETE("/session", sessionHandler.End)

	api.POST("/grievances", internalmiddleware.OptionalSession(a.Sessions), grievanceHandler.Submit)
	api.GET("/grievances/track/:code", grievanceHandler.Track)

	admin := api.Group("/admin", internalmiddleware.Session(a.Sessions), internalmiddleware.RequireAdmin())
	admin.GET("/grievances", adminHandler.List)
	admin.GET("/grievances/stats", adminHandler.Stats)
	audit := a.Logger.Named("audit")
	admin.GET("/grievances/export", internalmiddleware.Audit(audit, "export", "grievances"), adminHandler.Export)
	admin.GET("/grievances/:id", adminHandler.Get)
	admin.POST("/grievances/:id/updates", internalmiddleware.Audit(audit, "status_update", "grievance"), adminHandler.AppendUpdate)
	if a.Metrics != nil {
		admin.GET("/metrics", metricsHandler.Summary)
	}

	return r
}

// newAdminHandler avoids handing the handler a typed nil exporter.
func newAdminHandler(grievances *service.GrievanceService, exports *service.ExportService) *handler.AdminGrievanceHandler {
	if exports == nil {
		return handler.NewAdminGrievanceHandler(grievances, nil)
	}
	return handler.NewAdminGrievanceHandler(grievances, exports)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", zap.String("addr", addr), zap.String("env", a.Config.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
