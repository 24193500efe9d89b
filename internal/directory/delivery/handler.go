package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"noticehub-backend/internal/directory/repository"
)

// DeviceTokenHandler handles push token registration for the caller's device.
// Tokens rotate whenever the app reinstalls or permissions change, so clients
// re-register on every launch.
type DeviceTokenHandler struct {
	recipientRepo repository.RecipientRepository
}

func NewDeviceTokenHandler(recipientRepo repository.RecipientRepository) *DeviceTokenHandler {
	return &DeviceTokenHandler{recipientRepo: recipientRepo}
}

// RegisterDeviceTokenRequest represents the request body for token registration
type RegisterDeviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterDeviceToken stores the caller's current push token
// PUT /api/device-token
func (h *DeviceTokenHandler) RegisterDeviceToken(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")

	var req RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.recipientRepo.UpdatePushToken(c.Request.Context(), tenantID, userID, &req.Token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RemoveDeviceToken clears the caller's push token, e.g. on logout. The
// recipient keeps receiving receipts but is skipped by the push fan-out.
// DELETE /api/device-token
func (h *DeviceTokenHandler) RemoveDeviceToken(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")

	if err := h.recipientRepo.UpdatePushToken(c.Request.Context(), tenantID, userID, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
