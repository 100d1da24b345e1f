package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/galymzhantore/teachload-api/api/swagger"
	internalhandler "github.com/galymzhantore/teachload-api/internal/handler"
	internalmiddleware "github.com/galymzhantore/teachload-api/internal/middleware"
	"github.com/galymzhantore/teachload-api/internal/service"
	"github.com/galymzhantore/teachload-api/internal/store"
	"github.com/galymzhantore/teachload-api/pkg/cache"
	"github.com/galymzhantore/teachload-api/pkg/config"
	"github.com/galymzhantore/teachload-api/pkg/jobs"
	"github.com/galymzhantore/teachload-api/pkg/logger"
	corsmiddleware "github.com/galymzhantore/teachload-api/pkg/middleware/cors"
	reqidmiddleware "github.com/galymzhantore/teachload-api/pkg/middleware/requestid"
	"github.com/galymzhantore/teachload-api/pkg/storage"
)

// @title Teaching Load Distribution API
// @version 1.0.0
// @description Optimizes teaching load assignments and timetables
// @BasePath /
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

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.AccessLog(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	validate := validator.New()
	memory := store.NewMemoryStore()

	var resultCache *store.ResultCache
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(context.Background(), cfg.Redis); err != nil {
			logr.Sugar().Warnw("result cache disabled", "error", err)
		} else {
			resultCache = store.NewResultCache(client, logr)
			defer resultCache.Close() //nolint:errcheck
		}
	}

	instanceSvc := service.NewInstanceService(memory, validate, logr)
	solveSvc := service.NewSolveService(memory, resultCache, metricsSvc, validate, logr, service.SolveConfig{
		DefaultTimeLimit: cfg.Solver.DefaultTimeLimit,
		MaxTimeLimit:     cfg.Solver.MaxTimeLimit,
		CacheTTL:         cfg.Cache.ResultTTL,
	})
	timetableSvc := service.NewTimetableService(memory, validate, logr)

	instanceHandler := internalhandler.NewInstanceHandler(instanceSvc)
	solveHandler := internalhandler.NewSolveHandler(solveSvc)
	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc)

	api := r.Group(cfg.APIPrefix)

	instances := api.Group("/instances")
	instances.POST("/generate", instanceHandler.Generate)
	instances.GET("", instanceHandler.List)
	instances.GET("/:id", instanceHandler.Get)
	instances.GET("/:id/export", instanceHandler.Export)

	api.POST("/solve", solveHandler.Solve)
	api.GET("/results/:id", solveHandler.Result)
	api.GET("/results/:id/equity", solveHandler.Equity)

	timetables := api.Group("/timetables")
	timetables.POST("/generate", timetableHandler.Generate)
	timetables.GET("/:id", timetableHandler.Get)
	timetables.GET("/:id/conflicts", timetableHandler.Conflicts)

	api.GET("/system/metrics", metricsHandler.System)

	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc := service.NewReportService(memory, fileStore, signer, validate, logr)

		queueCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reportQueue := jobs.NewQueue("renders", jobs.Config{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Register(jobs.KindOfficialReport, reportSvc.Handle)
		reportQueue.Start(queueCtx)
		defer reportQueue.Stop()
		reportSvc.AttachQueue(reportQueue)

		reportHandler := internalhandler.NewReportHandler(reportSvc)
		reports := api.Group("/reports")
		reports.POST("/generate", reportHandler.Create)
		reports.GET("/status/:id", reportHandler.Status)
		api.GET("/export/:token", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server stopped", "error", err)
	}
}
