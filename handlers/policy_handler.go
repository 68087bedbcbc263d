package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"juscash-verifier/storage"

	"github.com/gin-gonic/gin"
)

// PolicyHandler handles uploads of the policy corpus. A new corpus takes
// effect on the next index rebuild (server restart or build-index).
type PolicyHandler struct {
	storage     storage.Storage
	policyKey   string
	maxFileSize int64
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(store storage.Storage, policyKey string) *PolicyHandler {
	return &PolicyHandler{
		storage:     store,
		policyKey:   policyKey,
		maxFileSize: 1 * 1024 * 1024, // 1MB
	}
}

// UploadPolicies handles PUT /policies
func (h *PolicyHandler) UploadPolicies(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "No file provided",
			},
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": "Policy file exceeds the 1MB limit",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".txt" && ext != ".md" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Policy corpus must be a .txt or .md file",
			},
		})
		return
	}

	if err := h.storage.Upload(c.Request.Context(), h.policyKey, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"key":  h.policyKey,
			"size": header.Size,
		},
	})
}
