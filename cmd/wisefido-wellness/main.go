package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-wellness/common/database"
	"wisefido-wellness/common/logger"
	commonredis "wisefido-wellness/common/redis"
	"wisefido-wellness/internal/assets"
	"wisefido-wellness/internal/config"
	httpapi "wisefido-wellness/internal/http"
	"wisefido-wellness/internal/inference"
	"wisefido-wellness/internal/metrics"
	"wisefido-wellness/internal/repository"
	"wisefido-wellness/internal/service"
	"wisefido-wellness/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-wellness")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	collector := metrics.NewCollector()

	// Preferences: Redis 不可用时使用进程内 KV
	redisClient := commonredis.NewRedisClient(&cfg.Redis)
	var kv store.KV = store.NewRedisKV(redisClient)
	if err := commonredis.Ping(context.Background(), redisClient, 2*time.Second); err != nil {
		lg.Warn("Redis unavailable, preferences fall back to memory", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		kv = store.NewMemoryKV()
	}
	prefs := store.NewPreferences(kv, cfg.Prefs.KeyPrefix, cfg.Prefs.DefaultLanguage)

	// History: DB 不可用时使用内存 repo
	var db *sql.DB
	var repo repository.AssessmentsRepository = repository.NewMemoryAssessmentsRepository()
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			repo = repository.NewPostgresAssessmentsRepository(db, lg)
			lg.Info("DB enabled for wisefido-wellness")
		} else {
			lg.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}

	provisioner := assets.NewProvisioner(os.DirFS(cfg.Assets.BundleDir), cfg.Assets.Dir, lg)
	provisioner.SetObserver(collector)

	var local inference.Predictor
	var onnx *inference.ONNXRuntime
	if cfg.Inference.ONNXRuntimeLib != "" {
		onnx = inference.NewONNXRuntime(cfg.Inference.ONNXRuntimeLib, lg)
		local = inference.NewLocalPredictor(cfg.Assets.Dir, onnx, cfg.Inference.Parallel, lg)
	} else {
		lg.Warn("ONNX_RUNTIME_LIB not set, local inference disabled")
	}
	remote := inference.NewRemotePredictor(cfg.Inference.PredictAPIURL, cfg.Inference.RemoteTimeout, lg)

	riskRouter := inference.NewRouter(local, remote, provisioner, prefs, inference.RouterOptions{
		DefaultMode:   cfg.Inference.DefaultMode,
		RemoteTimeout: cfg.Inference.RemoteTimeout,
	}, lg)
	riskRouter.SetObserver(collector)

	svc := service.NewAssessmentService(riskRouter, repo, prefs, lg)
	svc.SetObserver(collector)

	router := httpapi.NewRouter(lg)
	router.RegisterWellnessRoutes(httpapi.NewWellnessHandler(svc, lg))
	router.RegisterOpsRoutes(collector.Handler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 预先准备工件，失败时首次本地推理会再次尝试
	if local != nil {
		go func() {
			if err := provisioner.EnsureReady(ctx); err != nil {
				lg.Warn("Initial asset provisioning failed", zap.Error(err))
			}
		}()
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, lg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			lg.Error("HTTP server stopped", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = commonredis.Close(redisClient)
	_ = database.Close(db)
	if onnx != nil {
		if err := onnx.Close(); err != nil {
			lg.Warn("Failed to release onnxruntime", zap.Error(err))
		}
	}
}
