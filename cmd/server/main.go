package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/sentiment-dashboard/internal/api"
	"github.com/jengzang/sentiment-dashboard/internal/auth"
	"github.com/jengzang/sentiment-dashboard/internal/cache"
	"github.com/jengzang/sentiment-dashboard/internal/config"
	"github.com/jengzang/sentiment-dashboard/internal/database"
	"github.com/jengzang/sentiment-dashboard/internal/datasource"
	"github.com/jengzang/sentiment-dashboard/internal/mlclient"
	"github.com/jengzang/sentiment-dashboard/internal/repository"
	"github.com/jengzang/sentiment-dashboard/internal/service"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	if cfg.DBDriver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return err
		}
	}
	if err := database.Init(database.Config{Driver: cfg.DBDriver, Path: cfg.DBPath}); err != nil {
		return err
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.NewMigrationManager(db, database.Driver()).RunMigrations(); err != nil {
		return err
	}

	var source datasource.Source
	switch cfg.DataSource {
	case "mock":
		source = datasource.NewMock()
	default:
		source = datasource.NewSQL(
			repository.NewEntityRepository(db, database.Driver()),
			repository.NewHeatmapRepository(db, database.Driver()),
			repository.NewInsightsRepository(db, database.Driver()),
		)
	}

	c := cache.Connect(ctx, cfg.RedisURL, logger)
	if closer, ok := c.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	dashboard := service.NewDashboardService(source, c, cfg.CacheTTL, logger)
	if cfg.PalettePath != "" {
		watchPalette(ctx, cfg.PalettePath, dashboard, logger)
	}

	ingest := service.NewIngestService(
		mlclient.New(cfg.MLServiceURL, cfg.MLTimeout, logger),
		repository.NewTicketRepository(db, database.Driver()),
		dashboard,
		logger,
	)
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// 初始化路由
	router := api.SetupRouter(ctx, api.Deps{
		Dashboard: dashboard,
		Ingest:    ingest,
		Issuer:    issuer,
		Logger:    logger,
		RateLimit: cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Port, "source", cfg.DataSource, "driver", database.Driver())
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// watchPalette loads the palette file and reloads it on every change.
// A broken file keeps the previous palette.
func watchPalette(ctx context.Context, path string, dashboard *service.DashboardService, logger *slog.Logger) {
	load := func() {
		p, err := viz.LoadPalette(path)
		if err != nil {
			logger.Warn("palette not loaded", "path", path, "error", err)
			return
		}
		dashboard.SetPalette(p)
		logger.Info("palette loaded", "path", path, "labels", len(p.Colors))
	}
	load()

	if err := config.WatchFile(ctx, path, logger, load); err != nil {
		logger.Warn("palette will not be reloaded", "error", err)
	}
}
