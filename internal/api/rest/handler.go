package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/tickettoken/gatekeeper/internal/access"
	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/api/middleware"
	"github.com/tickettoken/gatekeeper/internal/directory"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/grant"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/store"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
	"github.com/tickettoken/gatekeeper/internal/verifier"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CheckAccess resolves whether the authenticated user may access a
	// resource at a level, without issuing a grant
	// POST /api/v1/access/checks
	CheckAccess(c *gin.Context)

	// IssueGrant runs an access check and mints (or reuses) a grant when
	// it passes
	// POST /api/v1/access/grants
	IssueGrant(c *gin.Context)

	// VerifyGrant validates a bearer token and consumes one unit of usage
	// (requires API key authentication; called by the content delivery service)
	// POST /api/v1/access/grants/verify
	VerifyGrant(c *gin.Context)

	// RevokeGrant withdraws a grant
	// DELETE /api/v1/access/grants/:id
	RevokeGrant(c *gin.Context)

	// DefineRules upserts the access rules of a resource (owner or admin only)
	// PUT /api/v1/resources/:kind/:id/rules
	DefineRules(c *gin.Context)

	// ListRules lists every rule defined for a resource, including
	// inactive and expired ones
	// GET /api/v1/resources/:kind/:id/rules
	ListRules(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	resolver      access.Resolver
	issuer        grant.Issuer
	store         store.Store
	resources     directory.ResourceDirectory
	verifier      verifier.Verifier
	clock         adapter.Clock
	grantLifetime time.Duration
}

// NewHandler creates a new REST API handler
func NewHandler(resolver access.Resolver, issuer grant.Issuer, st store.Store, resources directory.ResourceDirectory, v verifier.Verifier, clock adapter.Clock, grantLifetime time.Duration) Handler {
	return &handler{
		resolver:      resolver,
		issuer:        issuer,
		store:         st,
		resources:     resources,
		verifier:      v,
		clock:         clock,
		grantLifetime: grantLifetime,
	}
}

// parseCheckParams validates the shared (kind, level) request fields
func parseCheckParams(kindStr, levelStr string) (domain.ResourceKind, domain.AccessLevel, error) {
	level, err := domain.ParseAccessLevel(levelStr)
	if err != nil {
		return "", "", err
	}
	kind := domain.ResourceKind(kindStr)
	if !kind.Valid() {
		return "", "", &apiKindError{kind: kindStr}
	}
	return kind, level, nil
}

type apiKindError struct{ kind string }

func (e *apiKindError) Error() string {
	return "unknown resource kind: " + e.kind
}

// CheckAccess resolves whether the authenticated user may access a resource
func (h *handler) CheckAccess(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondBadRequest(c, "Missing authenticated principal")
		return
	}

	var req CheckAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	kind, level, err := parseCheckParams(req.ResourceKind, req.AccessLevel)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	decision, err := h.resolver.CheckAccess(c.Request.Context(), principal, req.ResourceID, kind, level)
	if err != nil {
		if !respondDomainError(c, err) {
			respondInternalError(c, err, "Failed to check access")
		}
		return
	}

	c.JSON(http.StatusOK, NewDecisionResponse(decision))
}

// IssueGrant runs an access check and mints (or reuses) a grant
func (h *handler) IssueGrant(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondBadRequest(c, "Missing authenticated principal")
		return
	}

	var req IssueGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if req.MaxUsage != nil && *req.MaxUsage <= 0 {
		respondValidationError(c, "max_usage must be positive")
		return
	}

	kind, level, err := parseCheckParams(req.ResourceKind, req.AccessLevel)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	decision, err := h.resolver.CheckAccess(c.Request.Context(), principal, req.ResourceID, kind, level)
	if err != nil {
		if !respondDomainError(c, err) {
			respondInternalError(c, err, "Failed to check access")
		}
		return
	}
	if !decision.Granted {
		c.JSON(http.StatusForbidden, NewDecisionResponse(decision))
		return
	}

	input := grant.IssueInput{
		UserID:   principal.UserID,
		Resource: decision.Resource,
		Level:    decision.Level,
		MaxUsage: req.MaxUsage,
		Lifetime: h.grantLifetime,
		Audit: domain.GrantAudit{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		},
	}
	if decision.NFT != nil {
		input.NFT = *decision.NFT
	}

	issued, reused, err := h.issuer.IssueOrReuse(c.Request.Context(), input)
	if err != nil {
		respondInternalError(c, err, "Failed to issue grant")
		return
	}

	status := http.StatusCreated
	if reused {
		status = http.StatusOK
	}
	c.JSON(status, NewGrantResponse(issued, true, reused))
}

// VerifyGrant validates a bearer token and consumes one unit of usage
func (h *handler) VerifyGrant(c *gin.Context) {
	var req VerifyGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	consumed, err := h.issuer.VerifyAndConsume(c.Request.Context(), req.Token)
	if err != nil {
		if !respondDomainError(c, err) {
			respondInternalError(c, err, "Failed to verify grant")
		}
		return
	}

	c.JSON(http.StatusOK, NewGrantResponse(consumed, false, false))
}

// RevokeGrant withdraws a grant. Users may revoke their own grants;
// platform admins may revoke any.
func (h *handler) RevokeGrant(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondBadRequest(c, "Missing authenticated principal")
		return
	}

	grantID := c.Param("id")
	if grantID == "" {
		respondBadRequest(c, "Grant ID is required")
		return
	}

	var req RevokeGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	existing, err := h.store.GetGrantByID(c.Request.Context(), grantID)
	if err != nil {
		respondInternalError(c, err, "Failed to load grant")
		return
	}
	if existing == nil {
		respondNotFound(c, "Grant not found")
		return
	}
	if principal.Role != domain.RoleAdmin && existing.UserID != principal.UserID {
		respondForbidden(c, "Not allowed to revoke this grant")
		return
	}

	revoked, err := h.issuer.Revoke(c.Request.Context(), grantID, req.Reason)
	if err != nil {
		respondInternalError(c, err, "Failed to revoke grant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

// DefineRules upserts the access rules of a resource
func (h *handler) DefineRules(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondBadRequest(c, "Missing authenticated principal")
		return
	}

	kind := domain.ResourceKind(c.Param("kind"))
	resourceID := c.Param("id")
	if !kind.Valid() {
		respondValidationError(c, "unknown resource kind: "+string(kind))
		return
	}
	if resourceID == "" {
		respondBadRequest(c, "Resource ID is required")
		return
	}

	var req DefineRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if len(req.Rules) == 0 {
		respondValidationError(c, "at least one rule is required")
		return
	}

	// Only the resource owner or a platform admin may configure gating
	resource, err := h.resources.GetResource(c.Request.Context(), resourceID, kind)
	if err != nil {
		if !respondDomainError(c, err) {
			respondInternalError(c, err, "Failed to load resource")
		}
		return
	}
	if principal.Role != domain.RoleAdmin && resource.OwnerID != principal.UserID {
		respondForbidden(c, "Only the resource owner may define access rules")
		return
	}

	// Rules are applied independently. A rejected or failed rule is
	// reported in its result slot without rolling back the others.
	now := h.clock.Now()
	results := make([]RuleResult, 0, len(req.Rules))
	for _, specDTO := range req.Rules {
		spec := domain.RuleSpec{
			TokenAddress: specDTO.TokenAddress,
			AccessLevel:  domain.AccessLevel(specDTO.AccessLevel),
			Temporary:    specDTO.Temporary,
			ExpiresAt:    specDTO.ExpiresAt,
			Restrictions: specDTO.Restrictions,
		}
		if err := spec.Validate(); err != nil {
			results = append(results, RuleResult{
				TokenAddress: specDTO.TokenAddress,
				Error:        err.Error(),
			})
			continue
		}

		// Probe the ledger so a mistyped mint address fails here instead
		// of silently gating nobody in. An unreachable ledger does not
		// block rule authoring.
		known, err := h.verifier.ValidateToken(c.Request.Context(), spec.TokenAddress)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "token validation unavailable, accepting rule unchecked",
				zap.String("token_address", spec.TokenAddress),
				zap.Error(err),
			)
		} else if !known {
			results = append(results, RuleResult{
				TokenAddress: spec.TokenAddress,
				Error:        "token address is not a known mint",
			})
			continue
		}

		rule := &schema.AccessRule{
			ID:                   uuid.NewString(),
			ResourceID:           resourceID,
			ResourceKind:         kind,
			RequiredTokenAddress: spec.TokenAddress,
			AccessLevel:          spec.AccessLevel,
			Temporary:            spec.Temporary,
			ExpiresAt:            spec.ExpiresAt,
			CreatedBy:            principal.UserID,
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if spec.Restrictions != nil {
			encoded, err := json.Marshal(spec.Restrictions)
			if err != nil {
				results = append(results, RuleResult{
					TokenAddress: spec.TokenAddress,
					Error:        "failed to encode restrictions",
				})
				continue
			}
			rule.Restrictions = datatypes.JSON(encoded)
		}

		if err := h.store.UpsertRule(c.Request.Context(), rule); err != nil {
			logger.ErrorCtx(c.Request.Context(), err,
				zap.String("resource_id", resourceID),
				zap.String("token_address", spec.TokenAddress),
			)
			results = append(results, RuleResult{
				TokenAddress: spec.TokenAddress,
				Error:        "failed to save rule",
			})
			continue
		}

		ruleResp := NewRuleResponse(rule, now)
		results = append(results, RuleResult{
			TokenAddress: spec.TokenAddress,
			Success:      true,
			Rule:         &ruleResp,
		})
	}

	c.JSON(http.StatusOK, DefineRulesResponse{Results: results})
}

// ListRules lists every rule defined for a resource
func (h *handler) ListRules(c *gin.Context) {
	if _, ok := middleware.PrincipalFrom(c); !ok {
		respondBadRequest(c, "Missing authenticated principal")
		return
	}

	kind := domain.ResourceKind(c.Param("kind"))
	resourceID := c.Param("id")
	if !kind.Valid() {
		respondValidationError(c, "unknown resource kind: "+string(kind))
		return
	}
	if resourceID == "" {
		respondBadRequest(c, "Resource ID is required")
		return
	}

	rules, err := h.store.ListRules(c.Request.Context(), resourceID, kind)
	if err != nil {
		respondInternalError(c, err, "Failed to list rules")
		return
	}

	now := h.clock.Now()
	responses := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		responses = append(responses, NewRuleResponse(&rules[i], now))
	}

	c.JSON(http.StatusOK, RulesResponse{Rules: responses})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.clock.Now().UTC(),
	})
}
