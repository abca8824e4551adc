package schema

import (
	"time"

	"github.com/tickettoken/gatekeeper/internal/domain"
)

// GrantStatus is the lifecycle state of an access grant
type GrantStatus string

const (
	// GrantStatusActive means the grant can still authorize content fetches
	GrantStatusActive GrantStatus = "active"
	// GrantStatusUsed means the usage allowance has been fully consumed
	GrantStatusUsed GrantStatus = "used"
	// GrantStatusExpired means the grant's lifetime lapsed
	GrantStatusExpired GrantStatus = "expired"
	// GrantStatusRevoked means the grant was explicitly withdrawn
	GrantStatusRevoked GrantStatus = "revoked"
)

// Terminal reports whether no further transitions are allowed out of the state
func (s GrantStatus) Terminal() bool {
	switch s {
	case GrantStatusUsed, GrantStatusExpired, GrantStatusRevoked:
		return true
	}
	return false
}

// AccessGrant represents the access_grants table - a bounded-lifetime,
// bounded-use bearer credential minted after a successful access check.
// The partial unique index keeps at most one active grant per
// (user, resource) pair; concurrent issuance races surface as duplicate
// key errors and are resolved by the reuse path.
type AccessGrant struct {
	// ID is a ULID assigned at mint time
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// UserID is the user the grant was issued to
	UserID string `gorm:"column:user_id;not null;type:text;uniqueIndex:idx_grants_active_user_resource,priority:1,where:status = 'active'"`
	// ResourceID identifies the resource the grant authorizes
	ResourceID string `gorm:"column:resource_id;not null;type:text;uniqueIndex:idx_grants_active_user_resource,priority:2,where:status = 'active'"`
	// ResourceKind is the kind of the resource
	ResourceKind domain.ResourceKind `gorm:"column:resource_kind;not null;type:text;uniqueIndex:idx_grants_active_user_resource,priority:3,where:status = 'active'"`
	// ResourceTitle is a display snapshot taken at issue time
	ResourceTitle string `gorm:"column:resource_title;type:text"`
	// ResourceDisplayType is a display snapshot taken at issue time
	ResourceDisplayType string `gorm:"column:resource_display_type;type:text"`
	// NFTAddress is the mint that justified the grant
	NFTAddress string `gorm:"column:nft_address;not null;type:text"`
	// WalletAddress is the wallet that held the qualifying token
	WalletAddress string `gorm:"column:wallet_address;not null;type:text"`
	// AccessLevel is the tier the grant authorizes
	AccessLevel domain.AccessLevel `gorm:"column:access_level;not null;type:text"`
	// Token is the opaque bearer credential (256-bit random, hex)
	Token string `gorm:"column:token;not null;uniqueIndex;type:varchar(64)"`
	// Status is the lifecycle state
	Status GrantStatus `gorm:"column:status;not null;type:text;index"`
	// UsageCount is incremented by every successful consume
	UsageCount int `gorm:"column:usage_count;not null;default:0"`
	// MaxUsage caps consumption; nil means unlimited until expiry
	MaxUsage *int `gorm:"column:max_usage"`
	// LastUsedAt is the instant of the most recent consume
	LastUsedAt *time.Time `gorm:"column:last_used_at;type:timestamptz"`
	// RevokedReason records why the grant was revoked, if it was
	RevokedReason *string `gorm:"column:revoked_reason;type:text"`
	// RevokedAt is when the grant was revoked, if it was
	RevokedAt *time.Time `gorm:"column:revoked_at;type:timestamptz"`
	// IPAddress is request attribution captured at issue time (audit only)
	IPAddress string `gorm:"column:ip_address;type:text"`
	// UserAgent is request attribution captured at issue time (audit only)
	UserAgent string `gorm:"column:user_agent;type:text"`
	// ExpiresAt is the end of the grant's lifetime; always set
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz;index"`
	// CreatedAt is when the grant was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AccessGrant model
func (AccessGrant) TableName() string {
	return "access_grants"
}

// ExpiredAt reports whether the grant's lifetime has lapsed at the given
// instant. Derived on read; the stored status may lag until the lazy
// transition or the sweeper catches up.
func (g *AccessGrant) ExpiredAt(now time.Time) bool {
	return now.After(g.ExpiresAt)
}

// Exhausted reports whether the usage allowance is spent
func (g *AccessGrant) Exhausted() bool {
	return g.MaxUsage != nil && g.UsageCount >= *g.MaxUsage
}
