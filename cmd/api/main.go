package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hireloop/hireloop-api/api/swagger"
	"github.com/hireloop/hireloop-api/internal/handler"
	"github.com/hireloop/hireloop-api/internal/middleware"
	"github.com/hireloop/hireloop-api/internal/repository"
	"github.com/hireloop/hireloop-api/internal/service"
	"github.com/hireloop/hireloop-api/pkg/cache"
	"github.com/hireloop/hireloop-api/pkg/config"
	"github.com/hireloop/hireloop-api/pkg/database"
	"github.com/hireloop/hireloop-api/pkg/jobs"
	"github.com/hireloop/hireloop-api/pkg/logger"
	"github.com/hireloop/hireloop-api/pkg/mailer"
	corsmiddleware "github.com/hireloop/hireloop-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hireloop/hireloop-api/pkg/middleware/requestid"
)

// @title Hireloop API
// @version 1.0.0
// @description HR recruiting backend: applicant pipeline and interview scheduling
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var locks service.Locker = repository.NewMemoryLocker()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		locks = repository.NewLockRepository(redisClient, logr)
	}

	location, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		logr.Sugar().Warnw("unknown schedule timezone, falling back to UTC", "timezone", cfg.Scheduling.Timezone)
		location = time.UTC
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	hrUserRepo := repository.NewHRUserRepository(db)
	applicantRepo := repository.NewApplicantRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	authService := service.NewAuthService(hrUserRepo, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration, validate, logr)
	applicantService := service.NewApplicantService(applicantRepo, validate, logr)
	availabilityService := service.NewAvailabilityService(availabilityRepo, validate, logr)
	interviewService := service.NewInterviewService(interviewRepo, logr)
	exportService := service.NewExportService(interviewRepo, logr)
	slotService := service.NewSlotService(availabilityRepo, interviewRepo, applicantRepo, locks, service.SlotPolicy{
		SlotDuration: cfg.Scheduling.SlotDuration,
		WeeksAhead:   cfg.Scheduling.WeeksAhead,
		Location:     location,
		LockTTL:      cfg.Scheduling.LockTTL,
		StoreTimeout: cfg.Scheduling.StoreTimeout,
	}, metrics, logr)

	authHandler := handler.NewAuthHandler(authService)
	applicantHandler := handler.NewApplicantHandler(applicantService)
	interviewHandler := handler.NewInterviewHandler(slotService, interviewService, availabilityService, exportService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/token", authHandler.Token)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))
	protected.GET("/me", authHandler.Me)

	protected.GET("/interviews/availability", interviewHandler.GetAvailability)
	protected.POST("/interviews/availability", interviewHandler.SetAvailability)
	protected.POST("/interviews/generate", interviewHandler.Generate)
	protected.GET("/interviews", interviewHandler.List)
	protected.GET("/interviews/export", interviewHandler.Export)
	protected.GET("/interviews/:id", interviewHandler.Get)

	protected.GET("/applicants", applicantHandler.List)
	protected.POST("/applicants", applicantHandler.Create)
	protected.GET("/applicants/:id", applicantHandler.Get)
	protected.PATCH("/applicants/:id/status", applicantHandler.UpdateStatus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Reminders.Enabled {
		mail := buildMailer(cfg, logr)
		reminderService := service.NewReminderService(interviewRepo, hrUserRepo, mail, metrics, logr)
		queue := jobs.NewQueue("reminders", func(ctx context.Context, _ jobs.Job) error {
			return reminderService.Run(ctx)
		}, jobs.QueueConfig{
			Workers:    1,
			MaxRetries: cfg.Reminders.WorkerRetries,
			RetryDelay: time.Minute,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Reminders.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					job := jobs.Job{ID: now.UTC().Format(time.RFC3339), Type: "reminder_sweep"}
					if err := queue.Enqueue(job); err != nil {
						logr.Sugar().Warnw("failed to enqueue reminder sweep", "error", err)
					}
				}
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// buildMailer picks SMTP when a relay host is set, otherwise a log-only
// mailer so reminder sweeps stay observable in development.
func buildMailer(cfg *config.Config, logr *zap.Logger) mailer.Mailer {
	if cfg.SMTP.Host != "" && cfg.SMTP.Host != "localhost" {
		return mailer.NewSMTP(cfg.SMTP)
	}
	return mailer.NewLog(logr)
}
