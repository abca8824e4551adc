package domain

import (
	"fmt"
	"time"
)

// AccessLevel is an ordered capability tier. Higher tiers cover lower ones.
type AccessLevel string

const (
	AccessLevelView     AccessLevel = "view"
	AccessLevelStream   AccessLevel = "stream"
	AccessLevelDownload AccessLevel = "download"
	AccessLevelEdit     AccessLevel = "edit"
	AccessLevelAdmin    AccessLevel = "admin"
)

// levelRanks is the single source of truth for level ordering.
// Both the resolver and the rule store compare through Rank/Covers.
var levelRanks = map[AccessLevel]int{
	AccessLevelView:     1,
	AccessLevelStream:   2,
	AccessLevelDownload: 3,
	AccessLevelEdit:     4,
	AccessLevelAdmin:    5,
}

// Rank returns the numeric ordering of the level (view=1 .. admin=5).
// Unknown levels rank 0 and therefore cover nothing.
func (l AccessLevel) Rank() int {
	return levelRanks[l]
}

// Valid reports whether the level is one of the five known tiers.
func (l AccessLevel) Valid() bool {
	_, ok := levelRanks[l]
	return ok
}

// Covers reports whether a grant/rule at this level satisfies a check
// requiring the given level.
func (l AccessLevel) Covers(required AccessLevel) bool {
	return l.Valid() && required.Valid() && l.Rank() >= required.Rank()
}

// ParseAccessLevel parses a level string, rejecting unknown values.
func ParseAccessLevel(s string) (AccessLevel, error) {
	l := AccessLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown access level: %q", s)
	}
	return l, nil
}

// ResourceKind identifies the kind of gated resource
type ResourceKind string

const (
	ResourceKindContent    ResourceKind = "content"
	ResourceKindEvent      ResourceKind = "event"
	ResourceKindCollection ResourceKind = "collection"
)

// Valid reports whether the kind is known
func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceKindContent, ResourceKindEvent, ResourceKindCollection:
		return true
	}
	return false
}

// AccessControl is the visibility mode of a resource
type AccessControl string

const (
	// AccessControlPublic means anyone may view the resource unconditionally
	AccessControlPublic AccessControl = "public"
	// AccessControlGated means access requires a qualifying token per the rules
	AccessControlGated AccessControl = "gated"
)

// Role is the platform role of the requesting user, supplied by the
// authentication layer. This core does not manage users.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal identifies the requesting user for an access check
type Principal struct {
	UserID string
	Role   Role
}

// Resource is the descriptor of a gated resource as reported by the
// resource-authoring collaborator.
type Resource struct {
	ID            string
	Kind          ResourceKind
	OwnerID       string
	AccessControl AccessControl
	Title         string
	DisplayType   string
}

// NFTRef names the specific token/wallet pair that justified a grant
type NFTRef struct {
	TokenAddress  string
	WalletAddress string
}

// OwnershipStatus is the tri-state outcome of an ownership lookup.
// Unknown ("never checked") is deliberately distinct from Absent
// ("verified not owned"): only the former triggers a chain call.
type OwnershipStatus string

const (
	OwnershipUnknown   OwnershipStatus = "unknown"
	OwnershipConfirmed OwnershipStatus = "confirmed"
	OwnershipAbsent    OwnershipStatus = "absent"
)

// VerificationSource records which tier of the verification chain
// produced an ownership answer.
type VerificationSource string

const (
	VerificationSourceMemory  VerificationSource = "memory_cache"
	VerificationSourceRecord  VerificationSource = "ownership_record"
	VerificationSourceChain   VerificationSource = "chain"
	VerificationSourceIndexer VerificationSource = "indexer"
)

// TokenMetadata is display metadata for a token, fetched opportunistically
// during verification and persisted alongside ownership records.
type TokenMetadata struct {
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Collection  string `json:"collection,omitempty"`
	Description string `json:"description,omitempty"`
}

// GrantAudit carries request attribution recorded on issued grants.
// Audit only; never part of the access decision.
type GrantAudit struct {
	IPAddress string
	UserAgent string
}

// RuleSpec is one requested rule in a DefineRules call
type RuleSpec struct {
	TokenAddress string
	AccessLevel  AccessLevel
	Temporary    bool
	ExpiresAt    *time.Time
	Restrictions *Restrictions
}

// Validate checks the rule invariants before it is written
func (r RuleSpec) Validate() error {
	if r.TokenAddress == "" {
		return fmt.Errorf("token address is required")
	}
	if !r.AccessLevel.Valid() {
		return fmt.Errorf("unknown access level: %q", r.AccessLevel)
	}
	if r.Temporary && r.ExpiresAt == nil {
		return fmt.Errorf("temporary rule requires expires_at")
	}
	return nil
}

// Restrictions are optional per-rule usage constraints evaluated as a
// secondary gate after ownership passes. MaxViews and MaxDownloads are
// enforced against summed grant usage; RequiresPresence, IPRestriction
// and DeviceLimit are recorded but not yet enforced.
type Restrictions struct {
	MaxViews         *int    `json:"max_views,omitempty"`
	MaxDownloads     *int    `json:"max_downloads,omitempty"`
	RequiresPresence *bool   `json:"requires_presence,omitempty"`
	IPRestriction    *string `json:"ip_restriction,omitempty"`
	DeviceLimit      *int    `json:"device_limit,omitempty"`
}
