package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/handler"
	"github.com/noah-isme/sma-pulse-api/internal/middleware"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	"github.com/noah-isme/sma-pulse-api/pkg/config"
	"github.com/noah-isme/sma-pulse-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-pulse-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-pulse-api/pkg/middleware/requestid"
)

type routeDeps struct {
	subjects    *handler.SubjectHandler
	outcomes    *handler.OutcomeHandler
	performance *handler.PerformanceHandler
	records     *handler.RecordHandler
	dashboard   *handler.DashboardHandler
	advisor     *handler.AdvisorHandler
	reports     *handler.ReportHandler
	reportJobs  *handler.ReportJobHandler
	metrics     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", deps.metrics.Ready)
	r.GET("/metrics", deps.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Tracing.Enabled {
		api.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	api.Use(middleware.WithResponseMeta())

	api.GET("/student", deps.records.Student)
	api.GET("/subjects", deps.subjects.List)
	api.GET("/subjects/:id", deps.subjects.Get)
	api.GET("/subjects/:id/projections", deps.subjects.Projections)
	api.GET("/attendance/overall", deps.subjects.Overall)

	outcomes := api.Group("/outcomes")
	outcomes.POST("/classify", deps.outcomes.Classify)
	outcomes.POST("/predict", deps.outcomes.Predict)
	outcomes.POST("/compare", deps.outcomes.Compare)
	outcomes.POST("/goal", deps.performance.Goal)

	api.GET("/performance", deps.performance.Summary)
	api.GET("/assignments", deps.records.Assignments)
	api.GET("/remarks", deps.records.Remarks)
	api.GET("/topics", deps.records.Topics)
	api.GET("/dashboard", deps.dashboard.Summary)

	advisor := api.Group("/advisor")
	advisor.POST("/analysis", deps.advisor.Analysis)
	advisor.POST("/advice", deps.advisor.Advice)
	advisor.POST("/attend-decision", deps.advisor.AttendDecision)
	advisor.POST("/chat/sessions", deps.advisor.CreateChat)
	advisor.GET("/chat/sessions/:id", deps.advisor.GetChat)
	advisor.POST("/chat/sessions/:id/messages", deps.advisor.SendChat)

	reports := api.Group("/reports")
	reports.GET("/standing", deps.reports.Standing)
	reports.POST("/standing/jobs", deps.reportJobs.Create)
	reports.GET("/jobs/:id", deps.reportJobs.Status)
	reports.GET("/download/:token", deps.reportJobs.Download)
	return r
}
