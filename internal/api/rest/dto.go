package rest

import (
	"encoding/json"
	"time"

	"github.com/tickettoken/gatekeeper/internal/access"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

// CheckAccessRequest asks whether the authenticated user may access a
// resource at a level
type CheckAccessRequest struct {
	ResourceID   string `json:"resource_id" binding:"required"`
	ResourceKind string `json:"resource_kind" binding:"required"`
	AccessLevel  string `json:"access_level" binding:"required"`
}

// DecisionResponse is the outcome of an access check
type DecisionResponse struct {
	Granted        bool                      `json:"granted"`
	Level          domain.AccessLevel        `json:"level,omitempty"`
	Reason         access.Reason             `json:"reason"`
	Evaluations    []access.Evaluation       `json:"evaluations,omitempty"`
	RequiredTokens []access.TokenRequirement `json:"required_tokens,omitempty"`
}

// NewDecisionResponse maps a resolver decision to the wire format
func NewDecisionResponse(d *access.Decision) DecisionResponse {
	return DecisionResponse{
		Granted:        d.Granted,
		Level:          d.Level,
		Reason:         d.Reason,
		Evaluations:    d.Evaluations,
		RequiredTokens: d.RequiredTokens,
	}
}

// IssueGrantRequest asks for a grant after a successful access check
type IssueGrantRequest struct {
	ResourceID   string `json:"resource_id" binding:"required"`
	ResourceKind string `json:"resource_kind" binding:"required"`
	AccessLevel  string `json:"access_level" binding:"required"`
	MaxUsage     *int   `json:"max_usage,omitempty"`
}

// GrantResponse is an issued grant. Token is only populated on issuance
// and reuse responses, never on verification responses.
type GrantResponse struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	ResourceID          string             `json:"resource_id"`
	ResourceKind        domain.ResourceKind `json:"resource_kind"`
	ResourceTitle       string             `json:"resource_title,omitempty"`
	ResourceDisplayType string             `json:"resource_display_type,omitempty"`
	AccessLevel         domain.AccessLevel `json:"access_level"`
	Token               string             `json:"token,omitempty"`
	Status              schema.GrantStatus `json:"status"`
	UsageCount          int                `json:"usage_count"`
	MaxUsage            *int               `json:"max_usage,omitempty"`
	LastUsedAt          *time.Time         `json:"last_used_at,omitempty"`
	ExpiresAt           time.Time          `json:"expires_at"`
	CreatedAt           time.Time          `json:"created_at"`
	Reused              bool               `json:"reused,omitempty"`
}

// NewGrantResponse maps a grant to the wire format. includeToken controls
// whether the bearer credential is exposed.
func NewGrantResponse(g *schema.AccessGrant, includeToken bool, reused bool) GrantResponse {
	resp := GrantResponse{
		ID:                  g.ID,
		UserID:              g.UserID,
		ResourceID:          g.ResourceID,
		ResourceKind:        g.ResourceKind,
		ResourceTitle:       g.ResourceTitle,
		ResourceDisplayType: g.ResourceDisplayType,
		AccessLevel:         g.AccessLevel,
		Status:              g.Status,
		UsageCount:          g.UsageCount,
		MaxUsage:            g.MaxUsage,
		LastUsedAt:          g.LastUsedAt,
		ExpiresAt:           g.ExpiresAt,
		CreatedAt:           g.CreatedAt,
		Reused:              reused,
	}
	if includeToken {
		resp.Token = g.Token
	}
	return resp
}

// VerifyGrantRequest presents a bearer token for validation and consumption
type VerifyGrantRequest struct {
	Token string `json:"token" binding:"required"`
}

// RevokeGrantRequest withdraws a grant
type RevokeGrantRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RuleSpecDTO is one rule in a DefineRules request
type RuleSpecDTO struct {
	TokenAddress string               `json:"token_address" binding:"required"`
	AccessLevel  string               `json:"access_level" binding:"required"`
	Temporary    bool                 `json:"temporary"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
	Restrictions *domain.Restrictions `json:"restrictions,omitempty"`
}

// DefineRulesRequest replaces or extends the rule set of a resource
type DefineRulesRequest struct {
	Rules []RuleSpecDTO `json:"rules" binding:"required"`
}

// RuleResult reports the outcome of one rule in a DefineRules request.
// Rules are applied independently, a failed rule does not roll back the
// ones that succeeded.
type RuleResult struct {
	TokenAddress string        `json:"token_address"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	Rule         *RuleResponse `json:"rule,omitempty"`
}

// DefineRulesResponse is the per-rule result envelope
type DefineRulesResponse struct {
	Results []RuleResult `json:"results"`
}

// RuleResponse is a configured access rule
type RuleResponse struct {
	ID           string               `json:"id"`
	ResourceID   string               `json:"resource_id"`
	ResourceKind domain.ResourceKind  `json:"resource_kind"`
	TokenAddress string               `json:"token_address"`
	AccessLevel  domain.AccessLevel   `json:"access_level"`
	Temporary    bool                 `json:"temporary"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
	Restrictions *domain.Restrictions `json:"restrictions,omitempty"`
	IsActive     bool                 `json:"is_active"`
	Active       bool                 `json:"active"`
	CreatedBy    string               `json:"created_by"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// RulesResponse is the rule listing envelope
type RulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// NewRuleResponse maps a stored rule to the wire format. Active reflects
// soft-expiry at the given instant; IsActive is the stored switch.
func NewRuleResponse(r *schema.AccessRule, now time.Time) RuleResponse {
	resp := RuleResponse{
		ID:           r.ID,
		ResourceID:   r.ResourceID,
		ResourceKind: r.ResourceKind,
		TokenAddress: r.RequiredTokenAddress,
		AccessLevel:  r.AccessLevel,
		Temporary:    r.Temporary,
		ExpiresAt:    r.ExpiresAt,
		IsActive:     r.IsActive,
		Active:       r.ActiveAt(now),
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Restrictions) > 0 {
		var restrictions domain.Restrictions
		if err := json.Unmarshal(r.Restrictions, &restrictions); err == nil {
			resp.Restrictions = &restrictions
		}
	}
	return resp
}
