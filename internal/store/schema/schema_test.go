package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

func TestGrantStatus_Terminal(t *testing.T) {
	assert.False(t, schema.GrantStatusActive.Terminal())
	assert.True(t, schema.GrantStatusUsed.Terminal())
	assert.True(t, schema.GrantStatusExpired.Terminal())
	assert.True(t, schema.GrantStatusRevoked.Terminal())
}

func TestAccessGrant_ExpiredAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	grant := &schema.AccessGrant{ExpiresAt: now}

	assert.False(t, grant.ExpiredAt(now.Add(-time.Second)))
	// The expiry instant itself is still valid
	assert.False(t, grant.ExpiredAt(now))
	assert.True(t, grant.ExpiredAt(now.Add(time.Second)))
}

func TestAccessGrant_Exhausted(t *testing.T) {
	limit := 3

	tests := []struct {
		name      string
		grant     schema.AccessGrant
		exhausted bool
	}{
		{"no limit", schema.AccessGrant{UsageCount: 1000}, false},
		{"under limit", schema.AccessGrant{UsageCount: 2, MaxUsage: &limit}, false},
		{"at limit", schema.AccessGrant{UsageCount: 3, MaxUsage: &limit}, true},
		{"over limit", schema.AccessGrant{UsageCount: 4, MaxUsage: &limit}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exhausted, tt.grant.Exhausted())
		})
	}
}

func TestAccessRule_ActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		rule   schema.AccessRule
		active bool
	}{
		{"active permanent rule", schema.AccessRule{IsActive: true}, true},
		{"switched off", schema.AccessRule{IsActive: false}, false},
		{"temporary not yet expired", schema.AccessRule{IsActive: true, Temporary: true, ExpiresAt: &future}, true},
		{"temporary expired", schema.AccessRule{IsActive: true, Temporary: true, ExpiresAt: &past}, false},
		{"temporary expiring exactly now", schema.AccessRule{IsActive: true, Temporary: true, ExpiresAt: &now}, false},
		{"expiry ignored on permanent rule", schema.AccessRule{IsActive: true, Temporary: false, ExpiresAt: &past}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.rule.ActiveAt(now))
		})
	}
}
