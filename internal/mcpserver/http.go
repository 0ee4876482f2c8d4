package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maltedev/kleinanzeigen-mcp/internal/config"
)

// Message posts carry a single tool call each; a scrape with a full page wait
// fits well inside this bound.
const messageTimeout = 120 * time.Second

// HTTPServer hosts the SSE transport: the event stream at /sse, client posts
// at /message, and an unauthenticated health probe.
type HTTPServer struct {
	cfg    config.ServerConfig
	srv    *http.Server
	logger *slog.Logger
}

func NewHTTPServer(mcpServer *server.MCPServer, cfg config.ServerConfig, version string, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	sse := server.NewSSEServer(mcpServer,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler(version))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.APIKey, logger))
		// The event stream is long-lived, so only the message posts get a
		// per-request timeout.
		r.Handle("/sse", sse.SSEHandler())
		r.With(middleware.Timeout(messageTimeout)).Handle("/message", sse.MessageHandler())
	})

	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	return &HTTPServer{
		cfg: cfg,
		srv: &http.Server{
			Addr:        addr,
			Handler:     r,
			ReadTimeout: cfg.ReadTimeout,
			// WriteTimeout stays zero: the SSE stream is long-lived.
		},
		logger: logger,
	}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (h *HTTPServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		h.logger.Info("http server listening", "addr", h.srv.Addr)
		if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.cfg.ShutdownTimeout)
	defer cancel()

	h.logger.Info("shutting down http server")
	if err := h.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"server":    ServerName,
			"version":   version,
			"transport": config.TransportSSE,
			"endpoints": map[string]string{
				"health":  "/health",
				"sse":     "/sse",
				"message": "/message",
			},
		})
	}
}
