package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/DavidGracias/stream-save/internal/addon"
	"github.com/DavidGracias/stream-save/internal/config"
	"github.com/DavidGracias/stream-save/internal/meta"
	"github.com/DavidGracias/stream-save/internal/store"
	"github.com/DavidGracias/stream-save/internal/tenant"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Couldn't load config: %v", err)
	}

	logger, err := addon.NewLogger(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("Couldn't create logger: %v", err)
	}

	pool := tenant.NewPool(logger)
	enricher := meta.NewClient(meta.ClientOptions{Timeout: cfg.MetaTimeout}, meta.NewInMemoryCache(), logger)
	contentStore := store.New(pool, enricher, cfg.DBName, cfg.Collections, logger)

	app, err := addon.New(contentStore, addon.DefaultManifest(), addon.Options{
		BindAddr:         cfg.BindAddr,
		Port:             cfg.Port,
		Logger:           logger,
		Metrics:          cfg.Metrics,
		CacheAgeCatalogs: cfg.CacheAgeCatalogs,
		CacheAgeStreams:  cfg.CacheAgeStreams,
		HandleEtags:      cfg.CacheAgeCatalogs > 0 || cfg.CacheAgeStreams > 0,
	})
	if err != nil {
		logger.Fatal("Couldn't create addon", zap.Error(err))
	}

	stoppingChan := make(chan bool, 1)
	go func() {
		<-stoppingChan
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Close(ctx)
	}()

	app.Run(stoppingChan)
}
