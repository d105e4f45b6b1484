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
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-pulse-api/api/swagger"
	"github.com/noah-isme/sma-pulse-api/internal/handler"
	"github.com/noah-isme/sma-pulse-api/internal/repository"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	"github.com/noah-isme/sma-pulse-api/pkg/cache"
	"github.com/noah-isme/sma-pulse-api/pkg/circuitbreaker"
	"github.com/noah-isme/sma-pulse-api/pkg/config"
	"github.com/noah-isme/sma-pulse-api/pkg/genai"
	"github.com/noah-isme/sma-pulse-api/pkg/jobs"
	"github.com/noah-isme/sma-pulse-api/pkg/logger"
	"github.com/noah-isme/sma-pulse-api/pkg/storage"
	"github.com/noah-isme/sma-pulse-api/pkg/tracing"
)

// @title SMA Pulse API
// @version 1.0.0
// @description Attendance outcome engine and academic dashboard
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logr.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	validate := validator.New()
	snapshot, err := repository.LoadSnapshot(cfg.Snapshot.Path, validate, logr)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		// the service stays usable without a cache
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	dashboardCache := cacheSvc
	if !cfg.Dashboard.CacheEnabled {
		dashboardCache = nil
	}

	standings := service.NewStandingService(snapshot, metrics, logr)
	deps := routeDeps{
		subjects:    handler.NewSubjectHandler(standings),
		outcomes:    handler.NewOutcomeHandler(service.NewOutcomeService(validate, metrics, logr)),
		performance: handler.NewPerformanceHandler(service.NewPerformanceService(snapshot, validate, cfg.Grading.ScaleMax, logr)),
		records:     handler.NewRecordHandler(service.NewRecordService(snapshot, validate, logr)),
		dashboard: handler.NewDashboardHandler(service.NewDashboardService(service.DashboardServiceParams{
			Standings: standings,
			Records:   snapshot,
			Cache:     dashboardCache,
			Logger:    logr,
			Config:    service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
		})),
		advisor:    handler.NewAdvisorHandler(nil),
		reports:    handler.NewReportHandler(nil),
		reportJobs: handler.NewReportJobHandler(nil),
	}
	readiness := map[string]handler.ReadinessCheck{
		"cache": cacheRepo.Ping,
	}

	if cfg.Advisor.Enabled {
		advisorSvc, advisorReady := newAdvisorService(cfg, standings, snapshot, cacheSvc, metrics, validate, logr)
		deps.advisor = handler.NewAdvisorHandler(advisorSvc)
		readiness["advisor"] = advisorReady
	}
	deps.metrics = handler.NewMetricsHandler(metrics, readiness)
	if cfg.Reports.Enabled {
		exporter := service.NewExportService(standings, snapshot, logr, nil, nil)
		deps.reports = handler.NewReportHandler(exporter)
		if cfg.Reports.JobsEnabled {
			reportSvc, stopQueue, err := newReportService(ctx, cfg, exporter, validate, logr)
			if err != nil {
				return fmt.Errorf("init report jobs: %w", err)
			}
			defer stopQueue()
			deps.reportJobs = handler.NewReportJobHandler(reportSvc)
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, metrics, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
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

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newAdvisorService(
	cfg *config.Config,
	standings *service.StandingService,
	records *repository.SnapshotRepository,
	cacheSvc *service.CacheService,
	metrics *service.MetricsService,
	validate *validator.Validate,
	logr *zap.Logger,
) (*service.AdvisorService, handler.ReadinessCheck) {
	advisorLog := logr.Named("advisor")
	client := genai.NewClient(genai.Config{
		APIKey:  cfg.Advisor.APIKey,
		BaseURL: cfg.Advisor.BaseURL,
		Timeout: cfg.Advisor.Timeout,
		Breaker: circuitbreaker.Config{
			Name:             "advisor",
			FailureThreshold: cfg.Advisor.BreakerFailures,
			Cooldown:         cfg.Advisor.BreakerCooldown,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				advisorLog.Warn("circuit breaker state changed",
					zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
			},
		},
	})
	if !client.Configured() {
		advisorLog.Warn("advisor enabled without an API key; every call will use its fallback")
	}
	svc := service.NewAdvisorService(service.AdvisorServiceParams{
		Generator: client,
		Standings: standings,
		Records:   records,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    advisorLog,
		Config: service.AdvisorConfig{
			AnalysisModel: cfg.Advisor.AnalysisModel,
			ChatModel:     cfg.Advisor.ChatModel,
			CacheTTL:      cfg.Advisor.CacheTTL,
			MaxSessions:   cfg.Advisor.MaxChatSessions,
			MaxTurns:      cfg.Advisor.MaxChatTurns,
		},
	})
	return svc, client.Ready
}

func newReportService(
	ctx context.Context,
	cfg *config.Config,
	exporter *service.ExportService,
	validate *validator.Validate,
	logr *zap.Logger,
) (*service.ReportService, func(), error) {
	reportLog := logr.Named("reports")
	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Env == config.EnvProduction && cfg.Reports.SignedURLSecret == "dev_reports_secret" {
		reportLog.Warn("report downloads are signed with the development secret")
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	repo := repository.NewReportRepository(cfg.Reports.MaxJobs)

	worker := service.NewReportWorker(repo, exporter, files, signer, reportLog)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		BufferSize: cfg.Reports.QueueSize,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: cfg.Reports.RetryDelay,
		Logger:     reportLog,
		OnGiveUp:   worker.MarkFailed,
	})
	queue.Start(ctx)

	svc := service.NewReportService(service.ReportServiceParams{
		Repo:      repo,
		Queue:     queue,
		Files:     files,
		Signer:    signer,
		Validator: validate,
		Logger:    reportLog,
		Config: service.ReportServiceConfig{
			DownloadPath:    cfg.APIPrefix + "/reports/download",
			ResultTTL:       cfg.Reports.ResultTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		},
	})
	svc.StartCleanup(ctx)
	return svc, queue.Stop, nil
}
