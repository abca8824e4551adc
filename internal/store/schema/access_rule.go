package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tickettoken/gatekeeper/internal/domain"
)

// AccessRule represents the access_rules table - a configured requirement
// linking a token to a resource and the level it grants. A resource may
// carry several rules; owning any one qualifying token is sufficient.
type AccessRule struct {
	// ID is a UUID assigned at creation
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// ResourceID identifies the gated resource
	ResourceID string `gorm:"column:resource_id;not null;type:text;uniqueIndex:idx_rules_token_resource,priority:2;index:idx_rules_resource,priority:1"`
	// ResourceKind is the kind of the gated resource (content, event, collection)
	ResourceKind domain.ResourceKind `gorm:"column:resource_kind;not null;type:text;index:idx_rules_resource,priority:2"`
	// RequiredTokenAddress is the mint that must be held to qualify
	RequiredTokenAddress string `gorm:"column:required_token_address;not null;type:text;uniqueIndex:idx_rules_token_resource,priority:1"`
	// AccessLevel is the tier this rule grants to qualifying holders
	AccessLevel domain.AccessLevel `gorm:"column:access_level;not null;type:text"`
	// Temporary marks time-boxed rules; ExpiresAt is required when set
	Temporary bool `gorm:"column:temporary;not null;default:false"`
	// ExpiresAt is the soft-expiry instant for temporary rules. Expired
	// rules are treated as inactive on read without being deleted.
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	// Restrictions are optional usage constraints (max views, device limit...)
	Restrictions datatypes.JSON `gorm:"column:restrictions;type:jsonb"`
	// CreatedBy is the user who configured the rule
	CreatedBy string `gorm:"column:created_by;not null;type:text"`
	// IsActive allows rules to be switched off without deletion
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// CreatedAt is when the rule was first defined
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the rule was last upserted
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AccessRule model
func (AccessRule) TableName() string {
	return "access_rules"
}

// ActiveAt reports whether the rule should be honored at the given
// instant. Soft-expiry is recomputed on every read rather than stored.
func (r *AccessRule) ActiveAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.Temporary && r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}
