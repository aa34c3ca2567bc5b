package handler

import (
	"log"
	"net/http"

	"bbwaitlist/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type SetupIntentRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type ConfirmRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	SetupIntentID string `json:"setup_intent_id" binding:"required"`
}

// CreateSetupIntent handles POST /payments/setup-intent. Used when the
// payment branch of the original signup failed and the client retries.
func (h *PaymentHandler) CreateSetupIntent(c *gin.Context) {
	var req SetupIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	si, err := h.svc.CreateSetupIntent(c.Request.Context(), req.UserID)
	if err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[payment] setup intent failed: user=%d err=%v", req.UserID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment setup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"setup_intent_id": si.ID,
		"client_secret":   si.ClientSecret,
	})
}

// Confirm handles POST /payments/confirm. The setup intent is verified
// against the gateway, never trusted from the client.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pm, err := h.svc.ConfirmSetup(c.Request.Context(), req.UserID, req.SetupIntentID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrSetupIncomplete:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("[payment] confirm failed: user=%d intent=%s err=%v", req.UserID, req.SetupIntentID, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment confirmation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_completed": true,
		"payment_method_id": pm,
	})
}
