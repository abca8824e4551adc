package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettoken/gatekeeper/internal/access"
	"github.com/tickettoken/gatekeeper/internal/api/middleware"
	"github.com/tickettoken/gatekeeper/internal/api/rest"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/grant"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/mocks"
	"github.com/tickettoken/gatekeeper/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

const (
	testMint     = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testWallet   = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	testResource = "content-123"
)

// testHandlerMocks contains all the mocks needed for testing the handlers
type testHandlerMocks struct {
	ctrl      *gomock.Controller
	resolver  *mocks.MockResolver
	issuer    *mocks.MockGrantIssuer
	store     *mocks.MockStore
	resources *mocks.MockResourceDirectory
	verifier  *mocks.MockVerifier
	clock     *mocks.MockClock
	router    *gin.Engine
	now       time.Time
}

// setupTestHandler wires the handler into a router with the given principal
// already authenticated. A nil principal simulates a missing auth context.
func setupTestHandler(t *testing.T, principal *domain.Principal) *testHandlerMocks {
	ctrl := gomock.NewController(t)

	tm := &testHandlerMocks{
		ctrl:      ctrl,
		resolver:  mocks.NewMockResolver(ctrl),
		issuer:    mocks.NewMockGrantIssuer(ctrl),
		store:     mocks.NewMockStore(ctrl),
		resources: mocks.NewMockResourceDirectory(ctrl),
		verifier:  mocks.NewMockVerifier(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	tm.clock.EXPECT().Now().Return(tm.now).AnyTimes()

	h := rest.NewHandler(tm.resolver, tm.issuer, tm.store, tm.resources, tm.verifier, tm.clock, time.Hour)

	tm.router = gin.New()
	if principal != nil {
		tm.router.Use(func(c *gin.Context) {
			c.Set(middleware.PRINCIPAL_KEY, *principal)
			c.Next()
		})
	}

	tm.router.POST("/api/v1/access/checks", h.CheckAccess)
	tm.router.POST("/api/v1/access/grants", h.IssueGrant)
	tm.router.POST("/api/v1/access/grants/verify", h.VerifyGrant)
	tm.router.DELETE("/api/v1/access/grants/:id", h.RevokeGrant)
	tm.router.PUT("/api/v1/resources/:kind/:id/rules", h.DefineRules)
	tm.router.GET("/api/v1/resources/:kind/:id/rules", h.ListRules)
	tm.router.GET("/health", h.HealthCheck)

	return tm
}

func tearDownTestHandler(mocks *testHandlerMocks) {
	mocks.ctrl.Finish()
}

func (tm *testHandlerMocks) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tm.router.ServeHTTP(w, req)
	return w
}

func userPrincipal() *domain.Principal {
	return &domain.Principal{UserID: "user-1", Role: domain.RoleUser}
}

func TestHealthCheck(t *testing.T) {
	tm := setupTestHandler(t, nil)
	defer tearDownTestHandler(tm)

	w := tm.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCheckAccess_Granted(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resolver.EXPECT().
		CheckAccess(gomock.Any(), *userPrincipal(), testResource, domain.ResourceKindContent, domain.AccessLevelStream).
		Return(&access.Decision{
			Granted: true,
			Level:   domain.AccessLevelStream,
			Reason:  access.ReasonTokenOwnership,
		}, nil)

	w := tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "stream",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Granted)
	assert.Equal(t, domain.AccessLevelStream, resp.Level)
	assert.Equal(t, access.ReasonTokenOwnership, resp.Reason)
}

func TestCheckAccess_Denied(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resolver.EXPECT().
		CheckAccess(gomock.Any(), gomock.Any(), testResource, domain.ResourceKindContent, domain.AccessLevelView).
		Return(&access.Decision{
			Granted:        false,
			Reason:         access.ReasonNoQualifyingToken,
			RequiredTokens: []access.TokenRequirement{{TokenAddress: testMint, AccessLevel: domain.AccessLevelView}},
		}, nil)

	w := tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "view",
	})

	// Denial is a valid outcome, not an error status
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Granted)
	assert.Len(t, resp.RequiredTokens, 1)
}

func TestCheckAccess_RequestValidation(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	// Missing fields
	w := tm.do(http.MethodPost, "/api/v1/access/checks", map[string]string{"resource_id": testResource})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown level
	w = tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "vip",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown kind
	w = tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
		ResourceID:   testResource,
		ResourceKind: "playlist",
		AccessLevel:  "view",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckAccess_MissingPrincipal(t *testing.T) {
	tm := setupTestHandler(t, nil)
	defer tearDownTestHandler(tm)

	w := tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "view",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAccess_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"resource not found", domain.ErrResourceNotFound, http.StatusNotFound, "not_found"},
		{"verification unavailable", domain.ErrVerificationUnavailable, http.StatusServiceUnavailable, "verification_unavailable"},
		{"check timeout", domain.ErrCheckTimeout, http.StatusGatewayTimeout, "check_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestHandler(t, userPrincipal())
			defer tearDownTestHandler(tm)

			tm.resolver.EXPECT().
				CheckAccess(gomock.Any(), gomock.Any(), testResource, domain.ResourceKindContent, domain.AccessLevelView).
				Return(nil, tt.err)

			w := tm.do(http.MethodPost, "/api/v1/access/checks", rest.CheckAccessRequest{
				ResourceID:   testResource,
				ResourceKind: "content",
				AccessLevel:  "view",
			})
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestIssueGrant_MintsGrant(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	resource := &domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, Title: "Unreleased Track"}
	nft := &domain.NFTRef{TokenAddress: testMint, WalletAddress: testWallet}

	tm.resolver.EXPECT().
		CheckAccess(gomock.Any(), gomock.Any(), testResource, domain.ResourceKindContent, domain.AccessLevelStream).
		Return(&access.Decision{
			Granted:  true,
			Level:    domain.AccessLevelStream,
			Reason:   access.ReasonTokenOwnership,
			Resource: resource,
			NFT:      nft,
		}, nil)
	tm.issuer.EXPECT().
		IssueOrReuse(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, input grant.IssueInput) (*schema.AccessGrant, bool, error) {
			assert.Equal(t, "user-1", input.UserID)
			assert.Equal(t, resource, input.Resource)
			assert.Equal(t, *nft, input.NFT)
			assert.Equal(t, domain.AccessLevelStream, input.Level)
			assert.Equal(t, time.Hour, input.Lifetime)
			return &schema.AccessGrant{
				ID:          "01HZXGRANT000000000000000",
				UserID:      "user-1",
				ResourceID:  testResource,
				AccessLevel: domain.AccessLevelStream,
				Token:       "grant-token-abc",
				Status:      schema.GrantStatusActive,
			}, false, nil
		})

	w := tm.do(http.MethodPost, "/api/v1/access/grants", rest.IssueGrantRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "stream",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp rest.GrantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "grant-token-abc", resp.Token)
	assert.False(t, resp.Reused)
}

func TestIssueGrant_ReusesExisting(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resolver.EXPECT().
		CheckAccess(gomock.Any(), gomock.Any(), testResource, domain.ResourceKindContent, domain.AccessLevelStream).
		Return(&access.Decision{
			Granted:  true,
			Level:    domain.AccessLevelStream,
			Reason:   access.ReasonTokenOwnership,
			Resource: &domain.Resource{ID: testResource, Kind: domain.ResourceKindContent},
		}, nil)
	tm.issuer.EXPECT().
		IssueOrReuse(gomock.Any(), gomock.Any()).
		Return(&schema.AccessGrant{
			ID:     "01HZXGRANT000000000000000",
			Token:  "grant-token-abc",
			Status: schema.GrantStatusActive,
		}, true, nil)

	w := tm.do(http.MethodPost, "/api/v1/access/grants", rest.IssueGrantRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "stream",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.GrantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Reused)
}

func TestIssueGrant_DeniedReturnsDecision(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resolver.EXPECT().
		CheckAccess(gomock.Any(), gomock.Any(), testResource, domain.ResourceKindContent, domain.AccessLevelStream).
		Return(&access.Decision{Granted: false, Reason: access.ReasonNoWallets}, nil)

	w := tm.do(http.MethodPost, "/api/v1/access/grants", rest.IssueGrantRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "stream",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(access.ReasonNoWallets))
}

func TestIssueGrant_RejectsNonPositiveMaxUsage(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	zero := 0
	w := tm.do(http.MethodPost, "/api/v1/access/grants", rest.IssueGrantRequest{
		ResourceID:   testResource,
		ResourceKind: "content",
		AccessLevel:  "stream",
		MaxUsage:     &zero,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVerifyGrant_ConsumesUsage(t *testing.T) {
	tm := setupTestHandler(t, nil)
	defer tearDownTestHandler(tm)

	tm.issuer.EXPECT().
		VerifyAndConsume(gomock.Any(), "grant-token-abc").
		Return(&schema.AccessGrant{
			ID:         "01HZXGRANT000000000000000",
			Token:      "grant-token-abc",
			Status:     schema.GrantStatusActive,
			UsageCount: 1,
		}, nil)

	w := tm.do(http.MethodPost, "/api/v1/access/grants/verify", rest.VerifyGrantRequest{Token: "grant-token-abc"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The bearer credential is never echoed back on verification
	var resp rest.GrantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Token)
	assert.Equal(t, 1, resp.UsageCount)
}

func TestVerifyGrant_GrantStateErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"not found", domain.ErrGrantNotFound, "not_found"},
		{"expired", domain.ErrGrantExpired, "grant_expired"},
		{"exhausted", domain.ErrGrantExhausted, "grant_exhausted"},
		{"revoked", domain.ErrGrantRevoked, "grant_revoked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestHandler(t, nil)
			defer tearDownTestHandler(tm)

			tm.issuer.EXPECT().
				VerifyAndConsume(gomock.Any(), "grant-token-abc").
				Return(nil, tt.err)

			w := tm.do(http.MethodPost, "/api/v1/access/grants/verify", rest.VerifyGrantRequest{Token: "grant-token-abc"})
			assert.Contains(t, w.Body.String(), tt.wantCode)
			if tt.err == domain.ErrGrantNotFound {
				assert.Equal(t, http.StatusNotFound, w.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}
}

func TestRevokeGrant_Owner(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.store.EXPECT().
		GetGrantByID(gomock.Any(), "grant-1").
		Return(&schema.AccessGrant{ID: "grant-1", UserID: "user-1"}, nil)
	tm.issuer.EXPECT().
		Revoke(gomock.Any(), "grant-1", "wallet compromised").
		Return(true, nil)

	w := tm.do(http.MethodDelete, "/api/v1/access/grants/grant-1", rest.RevokeGrantRequest{Reason: "wallet compromised"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"revoked":true`)
}

func TestRevokeGrant_ForeignGrantForbidden(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.store.EXPECT().
		GetGrantByID(gomock.Any(), "grant-1").
		Return(&schema.AccessGrant{ID: "grant-1", UserID: "someone-else"}, nil)

	w := tm.do(http.MethodDelete, "/api/v1/access/grants/grant-1", rest.RevokeGrantRequest{Reason: "test"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRevokeGrant_AdminMayRevokeAny(t *testing.T) {
	tm := setupTestHandler(t, &domain.Principal{UserID: "staff-1", Role: domain.RoleAdmin})
	defer tearDownTestHandler(tm)

	tm.store.EXPECT().
		GetGrantByID(gomock.Any(), "grant-1").
		Return(&schema.AccessGrant{ID: "grant-1", UserID: "someone-else"}, nil)
	tm.issuer.EXPECT().
		Revoke(gomock.Any(), "grant-1", "abuse").
		Return(true, nil)

	w := tm.do(http.MethodDelete, "/api/v1/access/grants/grant-1", rest.RevokeGrantRequest{Reason: "abuse"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRevokeGrant_NotFound(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.store.EXPECT().
		GetGrantByID(gomock.Any(), "grant-404").
		Return(nil, nil)

	w := tm.do(http.MethodDelete, "/api/v1/access/grants/grant-404", rest.RevokeGrantRequest{Reason: "test"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDefineRules_Owner(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "user-1"}, nil)
	tm.verifier.EXPECT().
		ValidateToken(gomock.Any(), testMint).
		Return(true, nil)
	tm.store.EXPECT().
		UpsertRule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, rule *schema.AccessRule) error {
			assert.NotEmpty(t, rule.ID)
			assert.Equal(t, testResource, rule.ResourceID)
			assert.Equal(t, testMint, rule.RequiredTokenAddress)
			assert.Equal(t, domain.AccessLevelStream, rule.AccessLevel)
			assert.Equal(t, "user-1", rule.CreatedBy)
			assert.True(t, rule.IsActive)
			assert.Contains(t, string(rule.Restrictions), "max_views")
			return nil
		})

	maxViews := 10
	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{{
			TokenAddress: testMint,
			AccessLevel:  "stream",
			Restrictions: &domain.Restrictions{MaxViews: &maxViews},
		}},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DefineRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Success)
	require.NotNil(t, resp.Results[0].Rule)
	assert.True(t, resp.Results[0].Rule.Active)
	require.NotNil(t, resp.Results[0].Rule.Restrictions)
	assert.Equal(t, &maxViews, resp.Results[0].Rule.Restrictions.MaxViews)
}

func TestDefineRules_NonOwnerForbidden(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "someone-else"}, nil)

	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{{TokenAddress: testMint, AccessLevel: "view"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDefineRules_PartialFailure(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "user-1"}, nil)

	// Only the valid rule reaches validation and the store
	tm.verifier.EXPECT().
		ValidateToken(gomock.Any(), testMint).
		Return(true, nil)
	tm.store.EXPECT().
		UpsertRule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, rule *schema.AccessRule) error {
			assert.Equal(t, testMint, rule.RequiredTokenAddress)
			return nil
		})

	// A temporary rule without an expiry fails validation; the valid rule
	// in the same request still goes through
	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{
			{TokenAddress: "bad-mint", AccessLevel: "view", Temporary: true},
			{TokenAddress: testMint, AccessLevel: "view"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DefineRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.False(t, resp.Results[0].Success)
	assert.Contains(t, resp.Results[0].Error, "expires_at")
	assert.True(t, resp.Results[1].Success)
}

func TestDefineRules_UnknownMintRejected(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "user-1"}, nil)
	tm.verifier.EXPECT().
		ValidateToken(gomock.Any(), "not-a-mint").
		Return(false, nil)

	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{{TokenAddress: "not-a-mint", AccessLevel: "view"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DefineRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Success)
	assert.Equal(t, "token address is not a known mint", resp.Results[0].Error)
}

func TestDefineRules_LedgerOutageAcceptsRuleUnchecked(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "user-1"}, nil)
	tm.verifier.EXPECT().
		ValidateToken(gomock.Any(), testMint).
		Return(false, errors.New("rpc unreachable"))
	tm.store.EXPECT().
		UpsertRule(gomock.Any(), gomock.Any()).
		Return(nil)

	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{{TokenAddress: testMint, AccessLevel: "view"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DefineRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Success)
}

func TestDefineRules_StoreFailureReportedPerRule(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	tm.resources.EXPECT().
		GetResource(gomock.Any(), testResource, domain.ResourceKindContent).
		Return(&domain.Resource{ID: testResource, Kind: domain.ResourceKindContent, OwnerID: "user-1"}, nil)
	tm.verifier.EXPECT().
		ValidateToken(gomock.Any(), testMint).
		Return(true, nil)
	tm.store.EXPECT().
		UpsertRule(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	w := tm.do(http.MethodPut, "/api/v1/resources/content/"+testResource+"/rules", rest.DefineRulesRequest{
		Rules: []rest.RuleSpecDTO{{TokenAddress: testMint, AccessLevel: "view"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.DefineRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Success)
	assert.Equal(t, "failed to save rule", resp.Results[0].Error)
}

func TestListRules(t *testing.T) {
	tm := setupTestHandler(t, userPrincipal())
	defer tearDownTestHandler(tm)

	past := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tm.store.EXPECT().
		ListRules(gomock.Any(), testResource, domain.ResourceKindContent).
		Return([]schema.AccessRule{
			{
				ID:                   "rule-1",
				ResourceID:           testResource,
				ResourceKind:         domain.ResourceKindContent,
				RequiredTokenAddress: testMint,
				AccessLevel:          domain.AccessLevelStream,
				IsActive:             true,
			},
			{
				ID:                   "rule-2",
				ResourceID:           testResource,
				ResourceKind:         domain.ResourceKindContent,
				RequiredTokenAddress: testMint,
				AccessLevel:          domain.AccessLevelDownload,
				Temporary:            true,
				ExpiresAt:            &past,
				IsActive:             true,
			},
		}, nil)

	w := tm.do(http.MethodGet, "/api/v1/resources/content/"+testResource+"/rules", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.RulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rules, 2)
	assert.True(t, resp.Rules[0].Active)
	// Lapsed temporary rules are listed but reported inactive
	assert.False(t, resp.Rules[1].Active)
	assert.True(t, resp.Rules[1].IsActive)
}
