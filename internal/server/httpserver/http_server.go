// Package httpserver wires the sitemap, health and metrics endpoints into one HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/server/handlers"
	smw "git.home.luguber.info/inful/sitemapd/internal/server/middleware"
)

// HealthPath is the liveness endpoint.
const HealthPath = "/healthz"

// Options configures the server.
type Options struct {
	Addr        string
	StoreName   string
	MetricsPath string       // empty disables the metrics endpoint
	Metrics     http.Handler // served at MetricsPath
}

// Server serves sitemaps for the configured sites.
type Server struct {
	opts    Options
	handler http.Handler
	server  *http.Server
	ln      net.Listener
}

// New constructs the server and its routes. Nothing listens until Start.
func New(cache handlers.SitemapCache, sites []handlers.Site, opts Options) *Server {
	sitemaps := handlers.NewSitemapHandlers(cache, sites)
	monitoring := handlers.NewMonitoringHandlers(opts.StoreName, sites)

	mux := http.NewServeMux()
	mux.HandleFunc(HealthPath, monitoring.HandleHealthCheck)
	if opts.MetricsPath != "" && opts.Metrics != nil {
		mux.Handle(opts.MetricsPath, opts.Metrics)
	}
	mux.HandleFunc("/", sitemaps.HandleSitemap)

	chain := smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()))
	return &Server{opts: opts, handler: chain(mux)}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listen address and serves in the background. Bind errors
// are returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("http startup failed: %w", err)
	}
	s.ln = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.opts.Addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
