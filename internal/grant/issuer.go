package grant

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/store"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

const (
	// DefaultLifetime is the grant lifetime when the caller does not request one
	DefaultLifetime = time.Hour

	// tokenBytes is the entropy of a grant token (hex doubles the length)
	tokenBytes = 32

	// maxMintAttempts bounds retries when a freshly minted token collides
	// with an existing one
	maxMintAttempts = 3
)

// IssueInput carries everything needed to mint a grant after a successful
// access check
type IssueInput struct {
	UserID   string
	Resource *domain.Resource
	NFT      domain.NFTRef
	Level    domain.AccessLevel
	MaxUsage *int
	Lifetime time.Duration
	Audit    domain.GrantAudit
}

// Issuer mints, verifies and revokes access grants. Issuance is
// idempotent per (user, resource): a live grant is reused rather than
// duplicated, and concurrent issuance races collapse to the winner.
//
//go:generate mockgen -source=issuer.go -destination=../mocks/grant_issuer.go -package=mocks -mock_names=Issuer=MockGrantIssuer
type Issuer interface {
	// IssueOrReuse returns the user's live grant for the resource, minting
	// one if none exists. The second return reports whether an existing
	// grant was reused.
	IssueOrReuse(ctx context.Context, input IssueInput) (*schema.AccessGrant, bool, error)

	// VerifyAndConsume validates the token and consumes one unit of usage.
	// Not idempotent: each successful call spends allowance.
	VerifyAndConsume(ctx context.Context, token string) (*schema.AccessGrant, error)

	// Revoke withdraws a grant. Returns false without error when the grant
	// was already terminal.
	Revoke(ctx context.Context, id, reason string) (bool, error)
}

type issuer struct {
	store store.Store
	clock adapter.Clock

	// ulid.Monotonic readers are not safe for concurrent use
	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// NewIssuer creates a grant issuer
func NewIssuer(st store.Store, clock adapter.Clock) Issuer {
	return &issuer{
		store:   st,
		clock:   clock,
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

func (i *issuer) newGrantID(now time.Time) (string, error) {
	i.entropyMu.Lock()
	defer i.entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), i.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate grant ID: %w", err)
	}
	return id.String(), nil
}

func newGrantToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := crand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate grant token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IssueOrReuse returns the user's live grant for the resource, minting one
// if none exists
func (i *issuer) IssueOrReuse(ctx context.Context, input IssueInput) (*schema.AccessGrant, bool, error) {
	if input.Resource == nil {
		return nil, false, fmt.Errorf("resource is required")
	}

	now := i.clock.Now()

	existing, err := i.store.GetActiveGrant(ctx, input.UserID, input.Resource.ID, input.Resource.Kind, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up active grant: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	lifetime := input.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		id, err := i.newGrantID(now)
		if err != nil {
			return nil, false, err
		}
		token, err := newGrantToken()
		if err != nil {
			return nil, false, err
		}

		g := &schema.AccessGrant{
			ID:                  id,
			UserID:              input.UserID,
			ResourceID:          input.Resource.ID,
			ResourceKind:        input.Resource.Kind,
			ResourceTitle:       input.Resource.Title,
			ResourceDisplayType: input.Resource.DisplayType,
			NFTAddress:          input.NFT.TokenAddress,
			WalletAddress:       input.NFT.WalletAddress,
			AccessLevel:         input.Level,
			Token:               token,
			Status:              schema.GrantStatusActive,
			MaxUsage:            input.MaxUsage,
			IPAddress:           input.Audit.IPAddress,
			UserAgent:           input.Audit.UserAgent,
			ExpiresAt:           now.Add(lifetime),
			CreatedAt:           now,
		}

		err = i.store.CreateGrant(ctx, g)
		if err == nil {
			logger.InfoCtx(ctx, "grant issued",
				zap.String("grant_id", g.ID),
				zap.String("user_id", g.UserID),
				zap.String("resource_id", g.ResourceID),
				zap.String("level", string(g.AccessLevel)),
			)
			return g, false, nil
		}
		if !errors.Is(err, domain.ErrConflictingIssuance) {
			return nil, false, fmt.Errorf("failed to create grant: %w", err)
		}

		// The duplicate may be the active-pair index (a concurrent request
		// won the race) or, vanishingly rarely, the token index. Re-fetch
		// decides which.
		winner, lookupErr := i.store.GetActiveGrant(ctx, input.UserID, input.Resource.ID, input.Resource.Kind, now)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to look up racing grant: %w", lookupErr)
		}
		if winner != nil {
			return winner, true, nil
		}
	}

	return nil, false, domain.ErrTokenCollision
}

// VerifyAndConsume validates the token and consumes one unit of usage
func (i *issuer) VerifyAndConsume(ctx context.Context, token string) (*schema.AccessGrant, error) {
	return i.store.ConsumeGrant(ctx, token, i.clock.Now())
}

// Revoke withdraws a grant
func (i *issuer) Revoke(ctx context.Context, id, reason string) (bool, error) {
	revoked, err := i.store.RevokeGrant(ctx, id, reason, i.clock.Now())
	if err != nil {
		return false, err
	}
	if revoked {
		logger.InfoCtx(ctx, "grant revoked",
			zap.String("grant_id", id),
			zap.String("reason", reason),
		)
	}
	return revoked, nil
}
