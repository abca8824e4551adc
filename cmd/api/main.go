package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/tickettoken/gatekeeper/internal/access"
	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/api/middleware"
	"github.com/tickettoken/gatekeeper/internal/api/server"
	"github.com/tickettoken/gatekeeper/internal/config"
	"github.com/tickettoken/gatekeeper/internal/directory"
	"github.com/tickettoken/gatekeeper/internal/grant"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/providers/helius"
	"github.com/tickettoken/gatekeeper/internal/providers/solana"
	"github.com/tickettoken/gatekeeper/internal/ratelimit"
	"github.com/tickettoken/gatekeeper/internal/store"
	"github.com/tickettoken/gatekeeper/internal/verifier"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Gatekeeper API")

	// Connect to database. TranslateError surfaces unique violations as
	// gorm.ErrDuplicatedKey, which issuance relies on.
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Route reads to the replica when one is configured
	if cfg.Database.ReadHost != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.Database.ReadDSN())},
		}))
		if err != nil {
			logger.FatalCtx(ctx, "Failed to register read replica", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Registered read replica", zap.String("host", cfg.Database.ReadHost))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(30 * time.Second)

	// Outbound rate limiting for chain and indexer calls
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateLimitProxy, err := ratelimit.NewProxy(ratelimit.Config{
		EnableLocalFallback: cfg.RateLimit.EnableLocalFallback,
		Providers: map[string]ratelimit.ProviderConfig{
			solana.PROVIDER_NAME: {RequestsPerSecond: cfg.RateLimit.SolanaRequestsPerSecond},
			helius.PROVIDER_NAME: {RequestsPerSecond: cfg.RateLimit.HeliusRequestsPerSecond},
		},
	}, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}()

	// Verification tiers
	solanaClient := solana.NewClient(httpClient, rateLimitProxy, cfg.Solana.RPCURL)
	var heliusClient helius.Client
	if cfg.Helius.APIKey != "" {
		heliusClient = helius.NewClient(httpClient, rateLimitProxy, cfg.Helius.APIURL, cfg.Helius.APIKey)
	} else {
		logger.WarnCtx(ctx, "Helius API key not configured, indexer fallback disabled")
	}
	ownershipVerifier := verifier.New(verifier.Config{
		OwnershipTTL: cfg.Verifier.OwnershipTTL,
		MetadataTTL:  cfg.Verifier.MetadataTTL,
	}, dataStore, solanaClient, heliusClient, clock)

	// Wallet and resource lookups against the platform API
	walletDir, resourceDir := directory.NewHTTPDirectory(httpClient, cfg.Directory.BaseURL, cfg.Directory.APIToken)

	// Core services
	resolver := access.NewResolver(dataStore, ownershipVerifier, walletDir, resourceDir, clock, cfg.Verifier.MaxConcurrentVerifications)
	issuer := grant.NewIssuer(dataStore, clock)

	// Create server config
	serverConfig := server.Config{
		Debug:         cfg.Debug,
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:   time.Duration(cfg.Server.IdleTimeout) * time.Second,
		GrantLifetime: cfg.Grant.Lifetime,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, dataStore, resolver, issuer, resourceDir, ownershipVerifier, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
