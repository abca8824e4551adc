package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetOwnership retrieves the ownership record for a (token, wallet) pair
func (s *pgStore) GetOwnership(ctx context.Context, tokenAddress, walletAddress string) (*schema.OwnershipRecord, error) {
	var record schema.OwnershipRecord
	err := s.db.WithContext(ctx).
		Where("token_address = ? AND wallet_address = ?", tokenAddress, walletAddress).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership record: %w", err)
	}
	return &record, nil
}

// UpsertOwnership atomically creates or refreshes an ownership record
func (s *pgStore) UpsertOwnership(ctx context.Context, input UpsertOwnershipInput) error {
	record := schema.OwnershipRecord{
		TokenAddress:   input.TokenAddress,
		WalletAddress:  input.WalletAddress,
		Owned:          input.Owned,
		Source:         string(input.Source),
		UserID:         input.UserID,
		LastVerifiedAt: input.VerifiedAt,
	}

	if input.Metadata != nil {
		metaJSON, err := json.Marshal(input.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal token metadata: %w", err)
		}
		record.Metadata = metaJSON
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_address"}, {Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"owned", "metadata", "source", "user_id", "last_verified_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ownership record: %w", err)
	}

	return nil
}

// GetActiveRules retrieves the rules honored for a resource at the given instant
func (s *pgStore) GetActiveRules(ctx context.Context, resourceID string, kind domain.ResourceKind, now time.Time) ([]schema.AccessRule, error) {
	var rules []schema.AccessRule
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND resource_kind = ? AND is_active = ?", resourceID, kind, true).
		Where("temporary = ? OR expires_at > ?", false, now).
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active rules: %w", err)
	}
	return rules, nil
}

// ListRules retrieves every rule defined for a resource
func (s *pgStore) ListRules(ctx context.Context, resourceID string, kind domain.ResourceKind) ([]schema.AccessRule, error) {
	var rules []schema.AccessRule
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND resource_kind = ?", resourceID, kind).
		Order("created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// UpsertRule creates or updates a rule keyed by (token, resource)
func (s *pgStore) UpsertRule(ctx context.Context, rule *schema.AccessRule) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "required_token_address"}, {Name: "resource_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"resource_kind", "access_level", "temporary", "expires_at",
			"restrictions", "is_active", "updated_at",
		}),
	}).Create(rule).Error
	if err != nil {
		return fmt.Errorf("failed to upsert access rule: %w", err)
	}
	return nil
}

// SweepExpiredRules flips is_active off on lapsed temporary rules
func (s *pgStore) SweepExpiredRules(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.AccessRule{}).
		Where("is_active = ? AND temporary = ? AND expires_at <= ?", true, true, now).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired rules: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetActiveGrant finds the live grant for a (user, resource) pair, if any.
// Routed to the primary: the issuance path reads right before writing and
// must not see replica lag.
func (s *pgStore) GetActiveGrant(ctx context.Context, userID, resourceID string, kind domain.ResourceKind, now time.Time) (*schema.AccessGrant, error) {
	var grant schema.AccessGrant
	err := s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("user_id = ? AND resource_id = ? AND resource_kind = ? AND status = ? AND expires_at > ?",
			userID, resourceID, kind, schema.GrantStatusActive, now).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active grant: %w", err)
	}
	return &grant, nil
}

// CreateGrant inserts a freshly minted grant. The partial unique index on
// active (user, resource) pairs turns issuance races into duplicate key
// errors, surfaced as domain.ErrConflictingIssuance.
func (s *pgStore) CreateGrant(ctx context.Context, grant *schema.AccessGrant) error {
	err := s.db.WithContext(ctx).Create(grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflictingIssuance
		}
		return fmt.Errorf("failed to create grant: %w", err)
	}
	return nil
}

// GetGrantByID retrieves a grant by its ID
func (s *pgStore) GetGrantByID(ctx context.Context, id string) (*schema.AccessGrant, error) {
	var grant schema.AccessGrant
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	return &grant, nil
}

// ConsumeGrant atomically validates and consumes one unit of usage.
// Runs under SELECT ... FOR UPDATE so two concurrent consumes of the same
// grant serialize instead of double-spending the last usage unit.
func (s *pgStore) ConsumeGrant(ctx context.Context, token string, now time.Time) (*schema.AccessGrant, error) {
	var grant schema.AccessGrant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&grant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrGrantNotFound
			}
			return fmt.Errorf("failed to lock grant: %w", err)
		}

		switch grant.Status {
		case schema.GrantStatusRevoked:
			return domain.ErrGrantRevoked
		case schema.GrantStatusUsed:
			return domain.ErrGrantExhausted
		case schema.GrantStatusExpired:
			return domain.ErrGrantExpired
		}

		// Lazy active -> expired transition, persisted as a side effect
		if grant.ExpiredAt(now) {
			grant.Status = schema.GrantStatusExpired
			if err := tx.Model(&grant).Update("status", schema.GrantStatusExpired).Error; err != nil {
				return fmt.Errorf("failed to expire grant: %w", err)
			}
			return domain.ErrGrantExpired
		}

		if grant.Exhausted() {
			return domain.ErrGrantExhausted
		}

		grant.UsageCount++
		grant.LastUsedAt = &now
		if grant.Exhausted() {
			grant.Status = schema.GrantStatusUsed
		}

		updates := map[string]interface{}{
			"usage_count":  grant.UsageCount,
			"last_used_at": now,
			"status":       grant.Status,
		}
		if err := tx.Model(&grant).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to consume grant: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// RevokeGrant forces a grant to revoked regardless of remaining lifetime.
// Already-terminal grants are left untouched and reported as false.
func (s *pgStore) RevokeGrant(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	revoked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var grant schema.AccessGrant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&grant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrGrantNotFound
			}
			return fmt.Errorf("failed to lock grant: %w", err)
		}

		if grant.Status.Terminal() {
			return nil
		}

		updates := map[string]interface{}{
			"status":         schema.GrantStatusRevoked,
			"revoked_reason": reason,
			"revoked_at":     now,
		}
		if err := tx.Model(&grant).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to revoke grant: %w", err)
		}

		revoked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return revoked, nil
}

// SweepExpiredGrants converts stale active grants to expired. Set-based
// and idempotent; used and revoked grants are never touched.
func (s *pgStore) SweepExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.AccessGrant{}).
		Where("status = ? AND expires_at <= ?", schema.GrantStatusActive, now).
		Update("status", schema.GrantStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired grants: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SumGrantUsage totals consumed usage across all grants for a (user, resource) pair
func (s *pgStore) SumGrantUsage(ctx context.Context, userID, resourceID string, kind domain.ResourceKind) (int64, error) {
	var total *int64
	err := s.db.WithContext(ctx).
		Model(&schema.AccessGrant{}).
		Select("SUM(usage_count)").
		Where("user_id = ? AND resource_id = ? AND resource_kind = ?", userID, resourceID, kind).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum grant usage: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
