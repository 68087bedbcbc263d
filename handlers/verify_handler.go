package handlers

import (
	"errors"
	"net/http"

	"juscash-verifier/models"
	"juscash-verifier/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VerificationIDHeader carries the audit id of a /verify call
const VerificationIDHeader = "X-Verification-ID"

// HealthInfo describes the configured backends reported by /health
type HealthInfo struct {
	Provider  string
	Model     string
	Index     string
	Embedding string
}

// VerifyHandler handles HTTP requests for eligibility verification
type VerifyHandler struct {
	verificationService *service.VerificationService
	health              HealthInfo
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(verificationService *service.VerificationService, health HealthInfo) *VerifyHandler {
	return &VerifyHandler{
		verificationService: verificationService,
		health:              health,
	}
}

// Health handles GET /health
func (h *VerifyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"provider":  h.health.Provider,
		"llm":       h.health.Model,
		"rag":       h.health.Index,
		"embedding": h.health.Embedding,
	})
}

// Verify handles POST /verify. The body of a successful response is the bare verdict.
func (h *VerifyHandler) Verify(c *gin.Context) {
	var record models.ProcessRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PROCESS",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.verificationService.Verify(c.Request.Context(), service.VerifyRequest{Record: &record})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VERIFICATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if result.VerificationID != uuid.Nil {
		c.Header(VerificationIDHeader, result.VerificationID.String())
	}
	c.JSON(http.StatusOK, result.Verdict)
}

// GetVerification handles GET /verifications/:id
func (h *VerifyHandler) GetVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_VERIFICATION_ID",
				"message": "Invalid verification ID format",
			},
		})
		return
	}

	result, err := h.verificationService.GetVerification(c.Request.Context(), service.GetVerificationRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrVerificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Verification not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FETCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Verification,
	})
}
