package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/cache"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/providers/helius"
	"github.com/tickettoken/gatekeeper/internal/providers/solana"
	"github.com/tickettoken/gatekeeper/internal/store"
)

const (
	// DefaultOwnershipTTL bounds how long a persisted ownership answer is
	// trusted before the chain is asked again
	DefaultOwnershipTTL = 5 * time.Minute

	// DefaultMetadataTTL bounds the in-process metadata cache
	DefaultMetadataTTL = time.Hour
)

// Result is a resolved ownership answer together with the tier that
// produced it
type Result struct {
	Owned  bool
	Source domain.VerificationSource
}

// Strategy is one tier of the verification chain. Verify returns a
// definitive answer or an error meaning this tier could not answer.
type Strategy interface {
	// Name identifies the tier for logging and source attribution
	Name() domain.VerificationSource

	// Verify asks this tier whether the wallet holds the token
	Verify(ctx context.Context, tokenAddress, walletAddress string) (bool, error)
}

// Verifier answers ownership questions through an ordered chain of tiers:
// in-process cache, persisted records, the ledger itself, then an indexing
// API fallback. Any tier answering definitively (owned or not) writes
// through to the faster tiers.
//
//go:generate mockgen -source=verifier.go -destination=../mocks/verifier.go -package=mocks -mock_names=Verifier=MockVerifier
type Verifier interface {
	// VerifyOwnership resolves whether the wallet holds the token. The
	// optional userID is recorded on the persisted ownership record for
	// audit. Returns domain.ErrVerificationUnavailable when every tier
	// capable of answering failed.
	VerifyOwnership(ctx context.Context, tokenAddress, walletAddress string, userID *string) (*Result, error)

	// GetMetadata fetches display metadata for a token, served from cache
	// when fresh. Returns nil when no source knows the token.
	GetMetadata(ctx context.Context, tokenAddress string) (*domain.TokenMetadata, error)

	// ValidateToken reports whether the address is a live mint on the
	// ledger, so rule authors get typo feedback at definition time.
	ValidateToken(ctx context.Context, tokenAddress string) (bool, error)
}

type chainVerifier struct {
	store          store.Store
	ownershipCache *cache.OwnershipCache
	metadataCache  *cache.MetadataCache
	strategies     []Strategy
	ledger         solana.Client
	indexer        helius.Client
	clock          adapter.Clock
	ownershipTTL   time.Duration
}

// Config holds verifier tuning knobs
type Config struct {
	OwnershipTTL time.Duration
	MetadataTTL  time.Duration
}

// New creates a verifier backed by the given store and remote tiers. The
// indexer client may be nil when no indexing API is configured; the chain
// then ends at the ledger tier.
func New(cfg Config, st store.Store, solanaClient solana.Client, indexerClient helius.Client, clock adapter.Clock) Verifier {
	if cfg.OwnershipTTL <= 0 {
		cfg.OwnershipTTL = DefaultOwnershipTTL
	}
	if cfg.MetadataTTL <= 0 {
		cfg.MetadataTTL = DefaultMetadataTTL
	}

	strategies := []Strategy{
		&solanaStrategy{client: solanaClient},
	}
	if indexerClient != nil {
		strategies = append(strategies, &heliusStrategy{client: indexerClient})
	}

	return &chainVerifier{
		store:          st,
		ownershipCache: cache.NewOwnershipCache(cfg.OwnershipTTL, clock),
		metadataCache:  cache.NewMetadataCache(cfg.MetadataTTL, clock),
		strategies:     strategies,
		ledger:         solanaClient,
		indexer:        indexerClient,
		clock:          clock,
		ownershipTTL:   cfg.OwnershipTTL,
	}
}

// VerifyOwnership resolves whether the wallet holds the token
func (v *chainVerifier) VerifyOwnership(ctx context.Context, tokenAddress, walletAddress string, userID *string) (*Result, error) {
	if owned, ok := v.ownershipCache.Get(tokenAddress, walletAddress); ok {
		return &Result{Owned: owned, Source: domain.VerificationSourceMemory}, nil
	}

	record, err := v.store.GetOwnership(ctx, tokenAddress, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load ownership record: %w", err)
	}
	if record != nil && v.clock.Now().Sub(record.LastVerifiedAt) < v.ownershipTTL {
		v.ownershipCache.Put(tokenAddress, walletAddress, record.Owned)
		return &Result{Owned: record.Owned, Source: domain.VerificationSourceRecord}, nil
	}

	var tierErrs []error
	for _, strategy := range v.strategies {
		owned, err := strategy.Verify(ctx, tokenAddress, walletAddress)
		if err != nil {
			// A tier-local timeout falls through to the next tier. Only
			// the caller's own deadline or cancellation aborts the chain.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.WarnCtx(ctx, "verification tier failed",
				zap.String("tier", string(strategy.Name())),
				zap.String("token", tokenAddress),
				zap.Error(err),
			)
			tierErrs = append(tierErrs, fmt.Errorf("%s: %w", strategy.Name(), err))
			continue
		}

		// Negative answers are cached too, so repeated checks for a
		// wallet that does not hold the token stay cheap
		v.writeThrough(ctx, tokenAddress, walletAddress, owned, strategy.Name(), userID)
		return &Result{Owned: owned, Source: strategy.Name()}, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrVerificationUnavailable, errors.Join(tierErrs...))
}

// writeThrough persists a definitive answer into the durable record and
// the in-process cache. Persistence failures are logged, not surfaced; the
// caller already has its answer.
func (v *chainVerifier) writeThrough(ctx context.Context, tokenAddress, walletAddress string, owned bool, source domain.VerificationSource, userID *string) {
	v.ownershipCache.Put(tokenAddress, walletAddress, owned)

	var metadata *domain.TokenMetadata
	if m, ok := v.metadataCache.Get(tokenAddress); ok {
		metadata = m
	}

	err := v.store.UpsertOwnership(ctx, store.UpsertOwnershipInput{
		TokenAddress:  tokenAddress,
		WalletAddress: walletAddress,
		Owned:         owned,
		Metadata:      metadata,
		Source:        source,
		UserID:        userID,
		VerifiedAt:    v.clock.Now(),
	})
	if err != nil {
		logger.WarnCtx(ctx, "failed to persist ownership record",
			zap.String("token", tokenAddress),
			zap.String("wallet", walletAddress),
			zap.Error(err),
		)
	}
}

// GetMetadata fetches display metadata for a token
func (v *chainVerifier) GetMetadata(ctx context.Context, tokenAddress string) (*domain.TokenMetadata, error) {
	if metadata, ok := v.metadataCache.Get(tokenAddress); ok {
		return metadata, nil
	}

	if v.indexer == nil {
		return nil, nil
	}

	metadata, err := v.indexer.GetAsset(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}
	if metadata != nil {
		v.metadataCache.Put(tokenAddress, metadata)
	}
	return metadata, nil
}

// ValidateToken reports whether the address is a live mint on the ledger
func (v *chainVerifier) ValidateToken(ctx context.Context, tokenAddress string) (bool, error) {
	info, err := v.ledger.GetMintInfo(ctx, tokenAddress)
	if err != nil {
		return false, fmt.Errorf("failed to validate token %s: %w", tokenAddress, err)
	}
	return info != nil, nil
}

// solanaStrategy answers directly from the ledger. A wallet owns the token
// when any of its token accounts for the mint holds a positive amount.
type solanaStrategy struct {
	client solana.Client
}

func (s *solanaStrategy) Name() domain.VerificationSource {
	return domain.VerificationSourceChain
}

func (s *solanaStrategy) Verify(ctx context.Context, tokenAddress, walletAddress string) (bool, error) {
	accounts, err := s.client.QueryTokenAccounts(ctx, walletAddress, tokenAddress)
	if err != nil {
		return false, err
	}

	for _, account := range accounts {
		if account.Amount > 0 {
			return true, nil
		}
	}
	return false, nil
}

// heliusStrategy answers from the indexing API when the ledger tier fails
type heliusStrategy struct {
	client helius.Client
}

func (s *heliusStrategy) Name() domain.VerificationSource {
	return domain.VerificationSourceIndexer
}

func (s *heliusStrategy) Verify(ctx context.Context, tokenAddress, walletAddress string) (bool, error) {
	accounts, err := s.client.GetTokenAccounts(ctx, walletAddress, tokenAddress)
	if err != nil {
		return false, err
	}

	for _, account := range accounts {
		if account.Amount > 0 {
			return true, nil
		}
	}
	return false, nil
}
