package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettoken/gatekeeper/internal/api/middleware"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
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

// testKeys holds a freshly generated RSA key pair for signing test tokens
type testKeys struct {
	private   *rsa.PrivateKey
	publicPEM string
}

func newTestKeys(t *testing.T) *testKeys {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	publicPEM := string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}))

	return &testKeys{private: key, publicPEM: publicPEM}
}

func (k *testKeys) sign(t *testing.T, claims middleware.Claims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(k.private)
	require.NoError(t, err)
	return signed
}

func userClaims(subject string, role string) middleware.Claims {
	return middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestAuthenticate_ValidJWT(t *testing.T) {
	keys := newTestKeys(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.publicPEM}

	token := keys.sign(t, userClaims("user-1", ""))
	result := middleware.Authenticate("Bearer "+token, cfg)

	assert.True(t, result.Success)
	assert.Equal(t, "jwt", result.AuthType)
	assert.NotNil(t, result.Principal)
	assert.Equal(t, "user-1", result.Principal.UserID)
	assert.Equal(t, domain.RoleUser, result.Principal.Role)
}

func TestAuthenticate_AdminRoleClaim(t *testing.T) {
	keys := newTestKeys(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.publicPEM}

	token := keys.sign(t, userClaims("staff-1", "admin"))
	result := middleware.Authenticate("Bearer "+token, cfg)

	assert.True(t, result.Success)
	assert.Equal(t, domain.RoleAdmin, result.Principal.Role)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	keys := newTestKeys(t)
	otherKeys := newTestKeys(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.publicPEM}

	expired := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Bearer"},
		{"unsupported type", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signing key", "Bearer " + otherKeys.sign(t, userClaims("user-1", ""))},
		{"expired token", "Bearer " + keys.sign(t, expired)},
		{"missing subject", "Bearer " + keys.sign(t, userClaims("", ""))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.header, cfg)
			assert.False(t, result.Success)
			assert.Error(t, result.Error)
		})
	}
}

func TestAuthenticate_APIKey(t *testing.T) {
	cfg := middleware.AuthConfig{APIKeys: []string{"service-key-1", "service-key-2"}}

	result := middleware.Authenticate("ApiKey service-key-2", cfg)
	assert.True(t, result.Success)
	assert.Equal(t, "apikey", result.AuthType)
	assert.Nil(t, result.Principal)

	result = middleware.Authenticate("ApiKey unknown-key", cfg)
	assert.False(t, result.Success)

	// No configured keys means nothing validates
	result = middleware.Authenticate("ApiKey service-key-1", middleware.AuthConfig{})
	assert.False(t, result.Success)
}

func TestAuthMiddleware_SetsPrincipal(t *testing.T) {
	keys := newTestKeys(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.publicPEM}

	router := gin.New()
	router.GET("/protected", middleware.Auth(cfg), func(c *gin.Context) {
		principal, ok := middleware.PrincipalFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+keys.sign(t, userClaims("user-1", "")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_RejectsAPIKey(t *testing.T) {
	cfg := middleware.AuthConfig{APIKeys: []string{"service-key-1"}}

	router := gin.New()
	router.GET("/protected", middleware.Auth(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// User endpoints need a principal; a bare API key is not enough
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "ApiKey service-key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	keys := newTestKeys(t)
	cfg := middleware.AuthConfig{
		JWTPublicKey: keys.publicPEM,
		APIKeys:      []string{"service-key-1"},
	}

	router := gin.New()
	router.POST("/internal", middleware.APIKeyAuth(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/internal", nil)
	req.Header.Set("Authorization", "ApiKey service-key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// A valid user token is still rejected on service-to-service endpoints
	req = httptest.NewRequest(http.MethodPost, "/internal", nil)
	req.Header.Set("Authorization", "Bearer "+keys.sign(t, userClaims("user-1", "")))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPrincipalFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := middleware.PrincipalFrom(c)
	assert.False(t, ok)
}
