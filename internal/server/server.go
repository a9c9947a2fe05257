package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/RobBrazier/audiodrop/cmd/web"
	"github.com/RobBrazier/audiodrop/config"
	"github.com/RobBrazier/audiodrop/internal/cache"
	"github.com/RobBrazier/audiodrop/internal/drop"
	"github.com/RobBrazier/audiodrop/internal/market"
	"github.com/RobBrazier/audiodrop/internal/session"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slogzerolog "github.com/samber/slog-zerolog/v2"

	_ "github.com/joho/godotenv/autoload"
)

// purchaseWait is how long a purchase request waits for the claim to settle
// before answering and leaving the rest to status polling.
const purchaseWait = 45 * time.Second

type Server struct {
	port         int
	baseUrl      string
	highlight    time.Duration
	purchaseWait time.Duration
	market       market.Marketplace
	codec        *session.Codec
	renderer     *web.Renderer
	registry     *prometheus.Registry
}

func setupLogger(isLocal bool) {
	var writer io.Writer
	writer = os.Stdout
	if isLocal || config.LogFormat() == "text" {
		writer = zerolog.NewConsoleWriter()
	}
	logContext := zerolog.New(writer).With().Timestamp().Caller()
	if !isLocal {
		logContext = logContext.Str("service.name", "audiodrop")
	}
	logger := logContext.Logger().Level(config.LogLevel())
	log.Logger = logger

	// Set up slog to use zerolog for compatibility with go-retryablehttp
	slog.SetDefault(slog.New(slogzerolog.Option{Logger: &logger}.NewZerologHandler()))
}

func newSessionStore(ctx context.Context) (session.Store, func(), error) {
	highlight := config.HighlightDuration()
	if config.SessionStore() != "redis" {
		return session.NewMemoryStore(highlight), func() {}, nil
	}
	client, err := session.NewRedisClient(ctx, config.RedisAddr(), config.RedisPassword(), config.RedisDB())
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", config.RedisAddr()).Msg("Using redis session store")
	return session.NewRedisStore(client, highlight), func() { client.Close() }, nil
}

func NewServer(ctx context.Context) (*http.Server, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogger(config.IsLocal())

	store, closeStore, err := newSessionStore(ctx)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	provider := drop.NewProvider(drop.Options{
		GatewayUrl:      config.DropGatewayUrl(),
		IndexerUrl:      config.DropIndexerUrl(),
		ApiKey:          config.DropApiKey(),
		Chain:           config.DropChain(),
		ModuleAddress:   config.DropModuleAddress(),
		ConfirmInterval: config.DropConfirmInterval(),
		ConfirmTimeout:  config.DropConfirmTimeout(),
	})

	catalogs := cache.NewCatalogCache(config.CacheTTL())
	cache.LoadCache(catalogs)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		closeStore()
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(cache.SaveCache, catalogs),
	)
	if err != nil {
		closeStore()
		return nil, err
	}
	scheduler.Start()

	NewServer := &Server{
		port:         config.Port(),
		baseUrl:      config.BaseUrl(),
		highlight:    config.HighlightDuration(),
		purchaseWait: purchaseWait,
		market:       market.NewService(provider, catalogs, store, market.NewMetrics(registry)),
		codec:        session.NewCodec(config.SessionSecret()),
		renderer:     web.MustRenderer(),
		registry:     registry,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		scheduler.Shutdown()
		cache.SaveCache(catalogs)
		closeStore()
	})

	log.Info().Int("port", NewServer.port).Str("module", provider.ModuleAddress()).Msg("Server configured")
	return server, nil
}
