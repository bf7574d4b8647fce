// File: handlers/verify.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playpark/middleware"
	"playpark/services/verification"
	"playpark/utils"
)

// VerifyHandler exposes the QR check-in endpoint.
type VerifyHandler struct {
	Service verification.VerificationService
	Logger  *zap.Logger
}

// NewVerifyHandler constructs a VerifyHandler.
func NewVerifyHandler(svc verification.VerificationService, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{Service: svc, Logger: logger}
}

type verifyRequest struct {
	// Credential is either the bare QR token or the JSON envelope some
	// scanner apps produce.
	Credential string `json:"credential" binding:"required"`
}

// Verify checks in a booking. A repeat scan returns 200 with outcome
// "already_verified" and the original check-in metadata.
func (h *VerifyHandler) Verify(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.Verify(c.Request.Context(), req.Credential, actor)
	if err != nil {
		utils.JSONError(c, statusFor(err), "verification failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
