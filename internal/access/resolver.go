package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/directory"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/store"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
	"github.com/tickettoken/gatekeeper/internal/verifier"
)

// DefaultMaxConcurrentVerifications bounds the fan-out over
// (wallet, rule) pairs during a single check
const DefaultMaxConcurrentVerifications = 8

// Reason explains the outcome of an access check
type Reason string

const (
	ReasonOwner                Reason = "resource_owner"
	ReasonPlatformAdmin        Reason = "platform_admin"
	ReasonPublicResource       Reason = "public_resource"
	ReasonTokenOwnership       Reason = "token_ownership"
	ReasonNoRules              Reason = "no_rules_configured"
	ReasonNoWallets            Reason = "no_linked_wallets"
	ReasonNoQualifyingToken    Reason = "no_qualifying_token"
	ReasonRestrictionExhausted Reason = "restriction_exhausted"
)

// Evaluation is the outcome of checking one (wallet, rule) pair
type Evaluation struct {
	WalletAddress string                    `json:"wallet_address"`
	TokenAddress  string                    `json:"token_address"`
	RuleID        string                    `json:"rule_id"`
	AccessLevel   domain.AccessLevel        `json:"access_level"`
	Status        domain.OwnershipStatus    `json:"status"`
	Source        domain.VerificationSource `json:"source,omitempty"`

	err error
}

// TokenRequirement describes one way the denied user could qualify
type TokenRequirement struct {
	TokenAddress string             `json:"token_address"`
	AccessLevel  domain.AccessLevel `json:"access_level"`
}

// Decision is the full outcome of an access check. When Granted, Rule and
// NFT identify the qualifying pair (nil for owner/admin/public bypasses).
type Decision struct {
	Granted        bool
	Level          domain.AccessLevel
	Reason         Reason
	Resource       *domain.Resource
	Rule           *schema.AccessRule
	NFT            *domain.NFTRef
	Evaluations    []Evaluation
	RequiredTokens []TokenRequirement
}

// Resolver answers "may this user access this resource at this level".
// Fail-closed: a gated resource with no rules, or a user with no
// qualifying token, is denied.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// CheckAccess resolves an access decision. Denials return a Decision
	// with Granted=false, not an error; errors mean the check itself could
	// not complete (domain.ErrResourceNotFound,
	// domain.ErrVerificationUnavailable, domain.ErrCheckTimeout).
	CheckAccess(ctx context.Context, principal domain.Principal, resourceID string, kind domain.ResourceKind, required domain.AccessLevel) (*Decision, error)
}

type resolver struct {
	store      store.Store
	verifier   verifier.Verifier
	wallets    directory.WalletDirectory
	resources  directory.ResourceDirectory
	clock      adapter.Clock
	verifyPool pond.ResultPool[Evaluation]
}

// NewResolver creates an access resolver. maxConcurrent bounds parallel
// ownership verifications per process; <=0 uses the default.
func NewResolver(st store.Store, v verifier.Verifier, wallets directory.WalletDirectory, resources directory.ResourceDirectory, clock adapter.Clock, maxConcurrent int) Resolver {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentVerifications
	}
	return &resolver{
		store:      st,
		verifier:   v,
		wallets:    wallets,
		resources:  resources,
		clock:      clock,
		verifyPool: pond.NewResultPool[Evaluation](maxConcurrent),
	}
}

// CheckAccess resolves an access decision
func (r *resolver) CheckAccess(ctx context.Context, principal domain.Principal, resourceID string, kind domain.ResourceKind, required domain.AccessLevel) (*Decision, error) {
	if !required.Valid() {
		return nil, fmt.Errorf("unknown access level: %q", required)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown resource kind: %q", kind)
	}

	resource, err := r.resources.GetResource(ctx, resourceID, kind)
	if err != nil {
		return nil, err
	}

	// Owner and platform admins bypass token gating entirely
	if resource.OwnerID != "" && resource.OwnerID == principal.UserID {
		return &Decision{Granted: true, Level: domain.AccessLevelAdmin, Reason: ReasonOwner, Resource: resource}, nil
	}
	if principal.Role == domain.RoleAdmin {
		return &Decision{Granted: true, Level: domain.AccessLevelAdmin, Reason: ReasonPlatformAdmin, Resource: resource}, nil
	}

	// Public resources grant view to anyone; higher levels still go
	// through the rules
	if resource.AccessControl == domain.AccessControlPublic && domain.AccessLevelView.Covers(required) {
		return &Decision{Granted: true, Level: domain.AccessLevelView, Reason: ReasonPublicResource, Resource: resource}, nil
	}

	rules, err := r.store.GetActiveRules(ctx, resourceID, kind, r.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load access rules: %w", err)
	}

	// A gated resource with nothing configured admits no one
	if len(rules) == 0 {
		return &Decision{Granted: false, Reason: ReasonNoRules, Resource: resource}, nil
	}

	qualifying := make([]schema.AccessRule, 0, len(rules))
	requiredTokens := make([]TokenRequirement, 0, len(rules))
	for _, rule := range rules {
		if rule.AccessLevel.Covers(required) {
			qualifying = append(qualifying, rule)
			requiredTokens = append(requiredTokens, TokenRequirement{
				TokenAddress: rule.RequiredTokenAddress,
				AccessLevel:  rule.AccessLevel,
			})
		}
	}
	if len(qualifying) == 0 {
		return &Decision{Granted: false, Reason: ReasonNoQualifyingToken, Resource: resource, RequiredTokens: requiredTokens}, nil
	}

	walletAddresses, err := r.wallets.GetWallets(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wallets for user %s: %w", principal.UserID, err)
	}
	if len(walletAddresses) == 0 {
		return &Decision{Granted: false, Reason: ReasonNoWallets, Resource: resource, RequiredTokens: requiredTokens}, nil
	}

	evaluations := r.evaluatePairs(ctx, principal.UserID, walletAddresses, qualifying)

	// Any confirmed pair is sufficient; access is the union over wallets
	// and rules. A confirmed pair whose rule has spent its usage allowance
	// does not veto the scan: the rest of the evaluations are still
	// examined, and its denial is only reported when nothing passes.
	restrictionByRule := make(map[string]Reason)
	var exhaustedRule *schema.AccessRule
	var exhaustedReason Reason
	for i := range evaluations {
		eval := &evaluations[i]
		if eval.Status != domain.OwnershipConfirmed {
			continue
		}

		rule := findRule(qualifying, eval.RuleID)
		reason, checked := restrictionByRule[eval.RuleID]
		if !checked {
			reason = r.checkRestrictions(ctx, principal.UserID, resourceID, kind, rule, required)
			restrictionByRule[eval.RuleID] = reason
		}
		if reason != "" {
			if exhaustedRule == nil {
				exhaustedRule = rule
				exhaustedReason = reason
			}
			continue
		}

		return &Decision{
			Granted:     true,
			Level:       rule.AccessLevel,
			Reason:      ReasonTokenOwnership,
			Resource:    resource,
			Rule:        rule,
			NFT:         &domain.NFTRef{TokenAddress: eval.TokenAddress, WalletAddress: eval.WalletAddress},
			Evaluations: evaluations,
		}, nil
	}

	// No pass. A lookup cut short by the deadline may have hidden an
	// owning wallet, so any timeout makes the check inconclusive, never a
	// denial. Failed lookups only block the denial when nothing answered
	// at all.
	var timedOut, definitive int
	for i := range evaluations {
		switch {
		case evaluations[i].err == nil:
			definitive++
		case errors.Is(evaluations[i].err, context.DeadlineExceeded), errors.Is(evaluations[i].err, context.Canceled):
			timedOut++
		}
	}
	if timedOut > 0 {
		return nil, domain.ErrCheckTimeout
	}
	if definitive == 0 {
		return nil, domain.ErrVerificationUnavailable
	}

	if exhaustedRule != nil {
		return &Decision{
			Granted:        false,
			Reason:         exhaustedReason,
			Resource:       resource,
			Rule:           exhaustedRule,
			Evaluations:    evaluations,
			RequiredTokens: requiredTokens,
		}, nil
	}

	return &Decision{
		Granted:        false,
		Reason:         ReasonNoQualifyingToken,
		Resource:       resource,
		Evaluations:    evaluations,
		RequiredTokens: requiredTokens,
	}, nil
}

// evaluatePairs fans the (wallet, rule) cross product out over the worker
// pool and waits for all outcomes.
func (r *resolver) evaluatePairs(ctx context.Context, userID string, walletAddresses []string, rules []schema.AccessRule) []Evaluation {
	group := r.verifyPool.NewGroup()

	for _, wallet := range walletAddresses {
		for _, rule := range rules {
			group.Submit(func() Evaluation {
				eval := Evaluation{
					WalletAddress: wallet,
					TokenAddress:  rule.RequiredTokenAddress,
					RuleID:        rule.ID,
					AccessLevel:   rule.AccessLevel,
					Status:        domain.OwnershipUnknown,
				}

				result, err := r.verifier.VerifyOwnership(ctx, rule.RequiredTokenAddress, wallet, &userID)
				if err != nil {
					eval.err = err
					return eval
				}

				eval.Source = result.Source
				if result.Owned {
					eval.Status = domain.OwnershipConfirmed
				} else {
					eval.Status = domain.OwnershipAbsent
				}
				return eval
			})
		}
	}

	evaluations, err := group.Wait()
	if err != nil {
		// Submit never returns an error; Wait can only fail if the pool
		// was stopped
		logger.WarnCtx(ctx, "verification group wait failed", zap.Error(err))
	}
	return evaluations
}

// checkRestrictions applies per-rule usage constraints as a secondary gate
// after ownership has passed. Returns the denial reason, or "" when the
// rule places no binding restriction on the required level.
func (r *resolver) checkRestrictions(ctx context.Context, userID, resourceID string, kind domain.ResourceKind, rule *schema.AccessRule, required domain.AccessLevel) Reason {
	if rule == nil || len(rule.Restrictions) == 0 {
		return ""
	}

	var restrictions domain.Restrictions
	if err := json.Unmarshal(rule.Restrictions, &restrictions); err != nil {
		logger.WarnCtx(ctx, "failed to decode rule restrictions",
			zap.String("rule_id", rule.ID),
			zap.Error(err),
		)
		return ""
	}

	var limit *int
	switch {
	case required == domain.AccessLevelView && restrictions.MaxViews != nil:
		limit = restrictions.MaxViews
	case required == domain.AccessLevelDownload && restrictions.MaxDownloads != nil:
		limit = restrictions.MaxDownloads
	}
	if limit == nil {
		return ""
	}

	used, err := r.store.SumGrantUsage(ctx, userID, resourceID, kind)
	if err != nil {
		logger.WarnCtx(ctx, "failed to sum grant usage", zap.Error(err))
		return ""
	}
	if used >= int64(*limit) {
		return ReasonRestrictionExhausted
	}
	return ""
}

func findRule(rules []schema.AccessRule, id string) *schema.AccessRule {
	for i := range rules {
		if rules[i].ID == id {
			return &rules[i]
		}
	}
	return nil
}
