package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/kleinanzeigen-mcp/internal/browser"
	"github.com/maltedev/kleinanzeigen-mcp/internal/cache"
	"github.com/maltedev/kleinanzeigen-mcp/internal/config"
	"github.com/maltedev/kleinanzeigen-mcp/internal/mcpserver"
	"github.com/maltedev/kleinanzeigen-mcp/internal/mcptools"
	"github.com/maltedev/kleinanzeigen-mcp/internal/parser"
	"github.com/maltedev/kleinanzeigen-mcp/internal/ratelimit"
	"github.com/maltedev/kleinanzeigen-mcp/internal/scraper"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logging goes to stderr: in stdio mode stdout belongs to the protocol.
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
		ExtraHeaders:   browser.DefaultOptions().ExtraHeaders,
	})
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	limiter := ratelimit.New(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax)
	p := parser.NewKleinanzeigenParser(cfg.Scraper.BaseURL)
	client := scraper.NewKleinanzeigenClient(b, p, limiter, scraper.ClientOptions{
		BaseURL:  cfg.Scraper.BaseURL,
		MaxPages: cfg.Scraper.MaxPages,
	}, logger)

	resultCache := newCache(ctx, cfg.Cache, logger)
	defer resultCache.Close()

	mcpServer := mcpserver.NewMCPServer(version)
	mcptools.NewListingTools(client, resultCache, logger).Register(mcpServer)
	mcptools.RegisterPrompts(mcpServer)

	logger.Info("starting kleinanzeigen mcp server",
		"version", version,
		"transport", cfg.Transport,
	)

	switch cfg.Transport {
	case config.TransportSSE:
		httpServer := mcpserver.NewHTTPServer(mcpServer, cfg.Server, version, logger)
		if err := httpServer.Start(ctx); err != nil {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	default:
		if err := mcpserver.ServeStdio(mcpServer); err != nil {
			logger.Error("stdio server error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// newCache connects to Redis when configured and quietly degrades to a no-op
// cache otherwise: caching is an optimization, never a dependency.
func newCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, caching disabled", "addr", cfg.RedisAddr, "error", err)
		client.Close()
		return cache.NewNoopCache()
	}

	logger.Info("result cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return cache.NewRedisCache(client, cfg.TTL, logger)
}
