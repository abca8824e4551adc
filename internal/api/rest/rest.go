package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/tickettoken/gatekeeper/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Access checks and grant issuance (end-user JWT)
		v1.POST("/access/checks", middleware.Auth(authCfg), handler.CheckAccess)
		v1.POST("/access/grants", middleware.Auth(authCfg), handler.IssueGrant)

		// Grant verification (content delivery service, API key only)
		v1.POST("/access/grants/verify", middleware.APIKeyAuth(authCfg), handler.VerifyGrant)

		// Grant revocation (end-user JWT; owner-or-admin enforced in handler)
		v1.DELETE("/access/grants/:id", middleware.Auth(authCfg), handler.RevokeGrant)

		// Rule management (end-user JWT; owner-or-admin enforced in handler)
		v1.PUT("/resources/:kind/:id/rules", middleware.Auth(authCfg), handler.DefineRules)
		v1.GET("/resources/:kind/:id/rules", middleware.Auth(authCfg), handler.ListRules)
	}
}
