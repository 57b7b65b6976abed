package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/media-converter-go/internal/cache"
	"github.com/fhuszti/media-converter-go/internal/config"
	"github.com/fhuszti/media-converter-go/internal/converter"
	"github.com/fhuszti/media-converter-go/internal/db"
	"github.com/fhuszti/media-converter-go/internal/format"
	"github.com/fhuszti/media-converter-go/internal/logger"
	cMiddleware "github.com/fhuszti/media-converter-go/internal/middleware"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/renderer"
	"github.com/fhuszti/media-converter-go/internal/repository/mariadb"
	"github.com/fhuszti/media-converter-go/internal/storage"
	"github.com/fhuszti/media-converter-go/internal/task"
	"github.com/fhuszti/media-converter-go/internal/usecase/conversion"
)

func main() {
	ctx := context.Background()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	formats := format.NewDefaultRegistry(cfg.ImageFormats)
	pipeline := converter.NewPipeline(formats,
		converter.WithJPEGQuality(cfg.JPEGQuality),
		converter.WithWebPQuality(cfg.WebPQuality),
		converter.WithMaxPixels(cfg.MaxPixels),
	)
	converters := map[model.MediaKind]port.MediaConverter{
		model.MediaImage: converter.NewImageConverter(pipeline),
		model.MediaAudio: converter.NewAudioConverter(),
	}

	sink := initSink(ctx, cfg)
	database, convLog := initConversionLog(ctx, cfg)
	ca := initCache(ctx, cfg)

	pool := task.NewPool(cfg.WorkerConcurrency)
	svc := conversion.NewService(
		formats,
		converters,
		task.NewRegistry(time.Now),
		pool,
		sink,
		convLog,
		cfg.TempDir,
	)

	auth, err := cMiddleware.WithDSTAuth(cfg.JWTPublicKey)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise authentication: %v", err)
		os.Exit(1)
	}
	if cfg.JWTPublicKey == "" {
		logger.Warn(ctx, "⚠️  JWT_PUBLIC_KEY not configured, authentication is disabled")
	}

	logger.Info(ctx, "initialising router...")
	r := newRouter(auth, services{
		inline:    svc,
		submitter: svc,
		poller:    svc,
		artifacts: svc,
		renderer:  renderer.NewHTTPRenderer(ca, cfg.StatusCacheTTL),
	}, cfg.MaxUploadSize)

	listenRouter(ctx, r, cfg, pool, database)
}

func initSink(ctx context.Context, cfg *config.Settings) port.ArtifactSink {
	if cfg.ArtifactStore == config.StoreMinio {
		client, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
			os.Exit(1)
		}
		strg, err := client.WithBucket(ctx, cfg.MinioBucket)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
			os.Exit(1)
		}
		logger.Infof(ctx, "✅  Artifacts stored in MinIO bucket %q", cfg.MinioBucket)
		return strg
	}

	strg, err := storage.NewLocalStorage(cfg.ArtifactDir)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize artifact directory %q: %v", cfg.ArtifactDir, err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Artifacts stored in %q", cfg.ArtifactDir)
	return strg
}

func initConversionLog(ctx context.Context, cfg *config.Settings) (*db.Database, port.ConversionLog) {
	dbCfg := db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
	if !dbCfg.Enabled() {
		logger.Warn(ctx, "⚠️  MariaDB not configured, conversion log is disabled")
		return nil, nil
	}

	logger.Info(ctx, "initialising database...")
	database, err := db.New(ctx, dbCfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Conversion log enabled")
	return database, mariadb.NewConversionLog(database.DB)
}

func initCache(ctx context.Context, cfg *config.Settings) port.Cache {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, status caching is disabled")
		return cache.NewNoop()
	}

	c := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	if err := c.Ping(ctx); err != nil {
		logger.Warnf(ctx, "⚠️  Redis unreachable at %s, status caching is disabled: %v", cfg.RedisAddr, err)
		_ = c.Close()
		return cache.NewNoop()
	}
	logger.Info(ctx, "✅  Redis cache enabled")
	return c
}

func listenRouter(ctx context.Context, r http.Handler, cfg *config.Settings, pool *task.Pool, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	// in-flight conversions finish before the conversion log goes away
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Worker pool shutdown failed: %v", err)
	} else {
		logger.Info(ctx, "✅  Worker pool drained")
	}

	if database != nil {
		if err := database.Close(); err != nil {
			logger.Errorf(ctx, "❌  DB close error: %v", err)
			os.Exit(1)
		}
	}
}
