package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/logger"
)

// ProviderConfig holds the rate limit for a single upstream provider
type ProviderConfig struct {
	RequestsPerSecond int
	Burst             int
	MaxQueueTime      time.Duration
}

// Config holds the rate-limit proxy configuration
type Config struct {
	RedisKeyPrefix          string
	EnableLocalFallback     bool
	LocalFallbackMultiplier float64
	Providers               map[string]ProviderConfig
}

// Proxy throttles outbound verification calls per provider (chain RPC,
// indexing API) so a burst of access checks cannot exhaust upstream quotas.
// Limits are enforced cluster-wide through Redis, with a process-local
// limiter as fallback when Redis is unreachable.
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Acquire blocks until a request slot for the provider is available,
	// the context is canceled, or the provider's max queue time elapses.
	Acquire(ctx context.Context, providerName string) error

	// Close shuts down the proxy
	Close() error
}

type proxy struct {
	config         Config
	redis          adapter.RedisClient
	clock          adapter.Clock
	limiters       map[string]*providerLimiter
	redisAvailable atomic.Bool
	closed         atomic.Bool
	closeOnce      sync.Once
}

type providerLimiter struct {
	name               string
	config             ProviderConfig
	distributedLimiter adapter.RedisRateLimiter
	localLimiter       *rate.Limiter
}

// NewProxy creates a rate-limit proxy for the configured providers
func NewProxy(cfg Config, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx).Err(); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, will use local fallback", zap.Error(err))
	}

	distributedLimiter := rc.NewRateLimiter()

	limiters := make(map[string]*providerLimiter)
	for name, providerConfig := range cfg.Providers {
		// Local fallback runs at a reduced rate since each process
		// limits independently
		localRate := max(float64(providerConfig.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)

		limiters[name] = &providerLimiter{
			name:               name,
			config:             providerConfig,
			distributedLimiter: distributedLimiter,
			localLimiter:       rate.NewLimiter(rate.Limit(localRate), providerConfig.Burst),
		}
	}

	p := &proxy{
		config:   cfg,
		redis:    rc,
		clock:    clock,
		limiters: limiters,
	}
	p.redisAvailable.Store(redisAvailable)

	go p.monitorRedisHealth()

	logger.Info("Rate limit proxy initialized",
		zap.Int("providers", len(limiters)),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return p, nil
}

// Acquire blocks until a request slot for the provider is available
func (p *proxy) Acquire(ctx context.Context, providerName string) error {
	if p.closed.Load() {
		return fmt.Errorf("proxy is closed")
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return fmt.Errorf("provider %q not configured", providerName)
	}

	queueCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	defer cancel()

	for {
		select {
		case <-queueCtx.Done():
			return queueCtx.Err()
		default:
		}

		if p.redisAvailable.Load() {
			allowed, retryAfter, err := p.tryDistributedLimit(queueCtx, limiter)
			if err != nil {
				if queueCtx.Err() != nil {
					return queueCtx.Err()
				}

				p.redisAvailable.Store(false)
				if !p.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}
				logger.Warn("Redis rate limiter error, falling back to local",
					zap.String("provider", limiter.name),
					zap.Error(err),
				)
				continue
			}

			if allowed {
				return nil
			}

			// Jitter the retry to spread concurrent waiters (50-150%)
			jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec
			select {
			case <-queueCtx.Done():
				return queueCtx.Err()
			case <-p.clock.After(jitter):
			}
			continue
		}

		return limiter.localLimiter.Wait(queueCtx)
	}
}

// tryDistributedLimit attempts to acquire a slot from the Redis limiter.
// Returns (allowed, retryAfter, error).
func (p *proxy) tryDistributedLimit(ctx context.Context, limiter *providerLimiter) (bool, time.Duration, error) {
	redisKey := p.config.RedisKeyPrefix + limiter.name

	res, err := limiter.distributedLimiter.Allow(ctx, redisKey, redis_rate.PerSecond(limiter.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit slot unavailable, waiting",
			zap.String("provider", limiter.name),
			zap.Duration("retry_after", res.RetryAfter),
		)
		retryAfter := res.RetryAfter
		if retryAfter <= 0 {
			retryAfter = 100 * time.Millisecond
		}
		return false, retryAfter, nil
	}

	return true, 0, nil
}

// monitorRedisHealth periodically re-probes Redis so the proxy can switch
// back from local fallback once Redis recovers.
func (p *proxy) monitorRedisHealth() {
	for {
		if p.closed.Load() {
			return
		}

		<-p.clock.After(10 * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := p.redis.Ping(ctx).Err()
		cancel()

		wasAvailable := p.redisAvailable.Load()
		p.redisAvailable.Store(err == nil)

		if !wasAvailable && err == nil {
			logger.Info("Redis connection restored")
		}
	}
}

// Close shuts down the proxy and its Redis connection
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if closeErr := p.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}
	})
	return err
}

// Do acquires a slot for the provider and then runs fn. A nil proxy runs
// fn directly, which keeps tests and minimal deployments simple.
func Do[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	if err := p.Acquire(ctx, providerName); err != nil {
		return zero, fmt.Errorf("rate limit acquire failed for %s: %w", providerName, err)
	}
	return fn(ctx)
}

func validateConfig(cfg *Config) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	for name, provider := range cfg.Providers {
		if provider.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if provider.Burst <= 0 {
			provider.Burst = provider.RequestsPerSecond
		}
		if provider.MaxQueueTime <= 0 {
			provider.MaxQueueTime = 30 * time.Second
		}
		cfg.Providers[name] = provider
	}

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "gatekeeper:limiter:"
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
