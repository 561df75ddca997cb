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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fraatlas/config"
	"fraatlas/database"
	"fraatlas/router"

	"fraatlas/pkg/ai"
	"fraatlas/pkg/ingest"
	"fraatlas/pkg/logger"
	"fraatlas/pkg/metrics"
	"fraatlas/pkg/middleware"

	// Claims
	claimCtrlImp "fraatlas/pkg/claim/controllerImp"
	claimRepoImp "fraatlas/pkg/claim/repositoryImp"
	claimSvcImp "fraatlas/pkg/claim/serviceImp"

	// Analysis
	analysisCtrlImp "fraatlas/pkg/analysis/controllerImp"
	analysisSvcImp "fraatlas/pkg/analysis/serviceImp"

	// Auth, health, scan
	authCtrlImp "fraatlas/pkg/auth/controllerImp"
	healthCtrlImp "fraatlas/pkg/health/controllerImp"
	scanCtrlImp "fraatlas/pkg/scan/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[cfg] %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogMode)
	if err != nil {
		log.Fatalf("[log] %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 2) DB + automigrate
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DBDSN
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}

	// 3) Analysis cache
	cache, rdb, err := ai.OpenCache(cfg.CacheBackend, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		zlog.Fatal("cache", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}
	client := ai.NewSynthetic()
	if cache != nil {
		client = ai.NewCached(client, cache)
	}
	metrics.Register(prometheus.DefaultRegisterer)

	// 4) Repos/Services/Controllers
	cRepo := claimRepoImp.New(db)
	norm := ingest.NewNormalizer(cfg.CategoryPolicy, zlog)
	cCtrl := claimCtrlImp.New(claimSvcImp.New(cRepo, norm, cache))
	aCtrl := analysisCtrlImp.New(analysisSvcImp.New(cRepo, client))
	authCtrl := authCtrlImp.NewAuthController(cfg.DevTokenSecret)
	hCtrl := healthCtrlImp.NewHealthCtrl(db, rdb)

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLog(zlog))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB)))

	r := router.New(
		e,
		cfg.RequireAuth,
		cCtrl,
		aCtrl,
		scanCtrlImp.New(),
		authCtrl,
		hCtrl,
		echo.WrapHandler(promhttp.Handler()),
	)

	// 6) Start
	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBDriver), zap.String("cache", cfg.CacheBackend))
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}
