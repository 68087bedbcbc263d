package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the service endpoints on r. The policy upload
// endpoint is only mounted when a token hash is configured.
func RegisterRoutes(r *gin.Engine, verifyHandler *VerifyHandler, policyHandler *PolicyHandler, tokenHash string) {
	r.GET("/health", verifyHandler.Health)

	protected := r.Group("/", RequireToken(tokenHash))
	{
		protected.POST("/verify", verifyHandler.Verify)
		protected.GET("/verifications/:id", verifyHandler.GetVerification)

		if policyHandler != nil && tokenHash != "" {
			protected.PUT("/policies", policyHandler.UploadPolicies)
		}
	}
}
