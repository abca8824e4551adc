package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tickettoken/gatekeeper/internal/access"
	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/api/middleware"
	"github.com/tickettoken/gatekeeper/internal/api/rest"
	"github.com/tickettoken/gatekeeper/internal/directory"
	"github.com/tickettoken/gatekeeper/internal/grant"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/store"
	"github.com/tickettoken/gatekeeper/internal/verifier"
)

// Config holds the server configuration
type Config struct {
	Debug         bool
	Host          string
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	Auth          middleware.AuthConfig
	GrantLifetime time.Duration
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	resolver   access.Resolver
	issuer     grant.Issuer
	resources  directory.ResourceDirectory
	verifier   verifier.Verifier
	clock      adapter.Clock
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, st store.Store, resolver access.Resolver, issuer grant.Issuer, resources directory.ResourceDirectory, v verifier.Verifier, clock adapter.Clock) *Server {
	return &Server{
		config:    cfg,
		store:     st,
		resolver:  resolver,
		issuer:    issuer,
		resources: resources,
		verifier:  v,
		clock:     clock,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Create REST handler
	restHandler := rest.NewHandler(s.resolver, s.issuer, s.store, s.resources, s.verifier, s.clock, s.config.GrantLifetime)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
