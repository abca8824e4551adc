package store

import (
	"context"
	"time"

	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

// UpsertOwnershipInput is the write-through payload for an ownership record
type UpsertOwnershipInput struct {
	TokenAddress  string
	WalletAddress string
	Owned         bool
	Metadata      *domain.TokenMetadata
	Source        domain.VerificationSource
	UserID        *string
	VerifiedAt    time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetOwnership retrieves the ownership record for a (token, wallet)
	// pair. Returns nil when the pair has never been checked; callers must
	// treat that as unknown, not as "not owned".
	GetOwnership(ctx context.Context, tokenAddress, walletAddress string) (*schema.OwnershipRecord, error)
	// UpsertOwnership atomically creates or refreshes an ownership record
	UpsertOwnership(ctx context.Context, input UpsertOwnershipInput) error

	// GetActiveRules retrieves the rules that should be honored for a
	// resource at the given instant (active and not soft-expired)
	GetActiveRules(ctx context.Context, resourceID string, kind domain.ResourceKind, now time.Time) ([]schema.AccessRule, error)
	// ListRules retrieves every rule defined for a resource, including
	// inactive and expired ones
	ListRules(ctx context.Context, resourceID string, kind domain.ResourceKind) ([]schema.AccessRule, error)
	// UpsertRule creates or updates a rule keyed by (token, resource)
	UpsertRule(ctx context.Context, rule *schema.AccessRule) error
	// SweepExpiredRules flips is_active off on lapsed temporary rules.
	// Cleanup/observability only; the read path already ignores them.
	SweepExpiredRules(ctx context.Context, now time.Time) (int64, error)

	// GetActiveGrant finds the live grant for a (user, resource) pair, if any
	GetActiveGrant(ctx context.Context, userID, resourceID string, kind domain.ResourceKind, now time.Time) (*schema.AccessGrant, error)
	// CreateGrant inserts a freshly minted grant. Returns
	// domain.ErrConflictingIssuance when a concurrent request won the race
	// for the same (user, resource) pair.
	CreateGrant(ctx context.Context, grant *schema.AccessGrant) error
	// GetGrantByID retrieves a grant by its ID
	GetGrantByID(ctx context.Context, id string) (*schema.AccessGrant, error)
	// ConsumeGrant atomically validates and consumes one unit of usage for
	// the grant identified by token. Performs the lazy active->expired
	// transition as a side effect. Returns the grant after mutation, or
	// one of the domain grant errors.
	ConsumeGrant(ctx context.Context, token string, now time.Time) (*schema.AccessGrant, error)
	// RevokeGrant forces a grant to revoked. Returns false without error
	// when the grant is already in a terminal state.
	RevokeGrant(ctx context.Context, id, reason string, now time.Time) (bool, error)
	// SweepExpiredGrants converts stale active grants to expired
	SweepExpiredGrants(ctx context.Context, now time.Time) (int64, error)
	// SumGrantUsage totals consumed usage across all grants for a
	// (user, resource) pair, used for max-view restriction checks
	SumGrantUsage(ctx context.Context, userID, resourceID string, kind domain.ResourceKind) (int64, error)
}
