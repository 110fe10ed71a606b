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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nowoterra-oss/EducationPortal-sub004/api/swagger"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/handler"
	internalmiddleware "github.com/nowoterra-oss/EducationPortal-sub004/internal/middleware"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/repository"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/service"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/auth"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/cache"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/config"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/database"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/lock"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/logger"
	corsmiddleware "github.com/nowoterra-oss/EducationPortal-sub004/pkg/middleware/cors"
	reqidmiddleware "github.com/nowoterra-oss/EducationPortal-sub004/pkg/middleware/requestid"
)

// @title Education Portal Scheduling API
// @version 1.0.0
// @description Weekly availability matching and lesson scheduling
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

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

	clk, err := clock.NewSystemClock(cfg.Scheduling.Timezone)
	if err != nil {
		logr.Fatal("invalid scheduling timezone", zap.String("timezone", cfg.Scheduling.Timezone), zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache and distributed locks", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Scheduling.LockBackend == config.LockBackendRedis {
		if redisClient != nil {
			locker = lock.NewRedisLocker(redisClient, cfg.Scheduling.LockTTL)
		} else {
			logr.Warn("redis lock backend requested without redis, owner locks are process local")
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, "scheduling")
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	availabilitySvc := service.NewAvailabilityService(repository.NewAvailabilityRepository(db), cacheSvc, validate, logr)
	registry := service.NewLessonRegistry(repository.NewLessonSeriesRepository(db), clk, logr)
	matchingSvc := service.NewMatchingService(availabilitySvc, registry, clk, validate, logr)
	schedulerSvc := service.NewLessonSchedulerService(registry, availabilitySvc, locker, metrics, service.LessonSchedulerConfig{
		LockWait:            cfg.Scheduling.LockWait,
		EnforceAvailability: cfg.Scheduling.EnforceAvailability,
	}, validate, logr)
	cancellationSvc := service.NewCancellationService(registry, clk, metrics, logr)
	timetableSvc := service.NewTimetableService(registry, cfg.Timetable.MaxRangeDays, validate, logr)

	checks := []handler.ReadinessCheck{{Name: "postgres", Check: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: cacheRepo.Ping})
	}
	metricsHandler := handler.NewMetricsHandler(metrics, clk, checks...)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(internalmiddleware.JWT(auth.NewVerifier(cfg.Auth.Secret)))
	}
	handler.RegisterRoutes(api, handler.Handlers{
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Matching:     handler.NewMatchingHandler(matchingSvc),
		Lessons:      handler.NewLessonHandler(schedulerSvc, registry, cancellationSvc),
		Timetable:    handler.NewTimetableHandler(timetableSvc),
		Metrics:      metricsHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env,
			"lock_backend", cfg.Scheduling.LockBackend, "timezone", cfg.Scheduling.Timezone)
		serverErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logr.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
