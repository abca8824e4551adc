package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tickettoken/gatekeeper/internal/domain"
)

func TestAccessLevel_Rank(t *testing.T) {
	tests := []struct {
		level domain.AccessLevel
		rank  int
	}{
		{domain.AccessLevelView, 1},
		{domain.AccessLevelStream, 2},
		{domain.AccessLevelDownload, 3},
		{domain.AccessLevelEdit, 4},
		{domain.AccessLevelAdmin, 5},
		{domain.AccessLevel("unknown"), 0},
		{domain.AccessLevel(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.level.Rank())
		})
	}
}

func TestAccessLevel_Covers(t *testing.T) {
	tests := []struct {
		name     string
		level    domain.AccessLevel
		required domain.AccessLevel
		covers   bool
	}{
		{"admin covers view", domain.AccessLevelAdmin, domain.AccessLevelView, true},
		{"admin covers admin", domain.AccessLevelAdmin, domain.AccessLevelAdmin, true},
		{"download covers stream", domain.AccessLevelDownload, domain.AccessLevelStream, true},
		{"download covers download", domain.AccessLevelDownload, domain.AccessLevelDownload, true},
		{"stream does not cover download", domain.AccessLevelStream, domain.AccessLevelDownload, false},
		{"view does not cover edit", domain.AccessLevelView, domain.AccessLevelEdit, false},
		{"unknown level covers nothing", domain.AccessLevel("owner"), domain.AccessLevelView, false},
		{"nothing covers unknown level", domain.AccessLevelAdmin, domain.AccessLevel("owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.covers, tt.level.Covers(tt.required))
		})
	}
}

func TestParseAccessLevel(t *testing.T) {
	level, err := domain.ParseAccessLevel("download")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccessLevelDownload, level)

	_, err = domain.ParseAccessLevel("superuser")
	assert.Error(t, err)

	_, err = domain.ParseAccessLevel("")
	assert.Error(t, err)

	// Levels are case sensitive
	_, err = domain.ParseAccessLevel("View")
	assert.Error(t, err)
}

func TestResourceKind_Valid(t *testing.T) {
	assert.True(t, domain.ResourceKindContent.Valid())
	assert.True(t, domain.ResourceKindEvent.Valid())
	assert.True(t, domain.ResourceKindCollection.Valid())
	assert.False(t, domain.ResourceKind("playlist").Valid())
	assert.False(t, domain.ResourceKind("").Valid())
}

func TestRuleSpec_Validate(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		spec    domain.RuleSpec
		wantErr string
	}{
		{
			name: "valid permanent rule",
			spec: domain.RuleSpec{
				TokenAddress: "So11111111111111111111111111111111111111112",
				AccessLevel:  domain.AccessLevelStream,
			},
		},
		{
			name: "valid temporary rule",
			spec: domain.RuleSpec{
				TokenAddress: "So11111111111111111111111111111111111111112",
				AccessLevel:  domain.AccessLevelView,
				Temporary:    true,
				ExpiresAt:    &expiry,
			},
		},
		{
			name: "missing token address",
			spec: domain.RuleSpec{
				AccessLevel: domain.AccessLevelView,
			},
			wantErr: "token address is required",
		},
		{
			name: "unknown access level",
			spec: domain.RuleSpec{
				TokenAddress: "So11111111111111111111111111111111111111112",
				AccessLevel:  domain.AccessLevel("vip"),
			},
			wantErr: "unknown access level",
		},
		{
			name: "temporary without expiry",
			spec: domain.RuleSpec{
				TokenAddress: "So11111111111111111111111111111111111111112",
				AccessLevel:  domain.AccessLevelView,
				Temporary:    true,
			},
			wantErr: "temporary rule requires expires_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
