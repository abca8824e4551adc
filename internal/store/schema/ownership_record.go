package schema

import (
	"time"

	"gorm.io/datatypes"
)

// OwnershipRecord represents the ownership_records table - the durable
// record that a wallet has been shown to own (or not own) a token.
// Never authoritative on its own; staleness policy lives in the verifier.
type OwnershipRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenAddress is the mint address of the token
	TokenAddress string `gorm:"column:token_address;not null;type:text;uniqueIndex:idx_ownership_token_wallet,priority:1"`
	// WalletAddress is the wallet whose ownership was checked
	WalletAddress string `gorm:"column:wallet_address;not null;type:text;uniqueIndex:idx_ownership_token_wallet,priority:2"`
	// Owned records the outcome of the last verification. A row with
	// Owned=false means "verified absent"; no row means "never checked".
	Owned bool `gorm:"column:owned;not null"`
	// Metadata is the token display metadata captured at verification time
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// Source is the verification tier that produced this record (chain, indexer)
	Source string `gorm:"column:source;not null;type:text"`
	// UserID is a weak back-reference to the user who triggered the check.
	// Not ownership; wallets may be relinked at any time.
	UserID *string `gorm:"column:user_id;type:text;index"`
	// LastVerifiedAt is when the ownership was last confirmed against a tier
	LastVerifiedAt time.Time `gorm:"column:last_verified_at;not null;type:timestamptz"`
	// CreatedAt is when this pair was first checked
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OwnershipRecord model
func (OwnershipRecord) TableName() string {
	return "ownership_records"
}
