package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/euduvido/challenge_backend/clients"
	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func currentUserID(c *gin.Context) string {
	return c.MustGet("userID").(string)
}

func parseChallengeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return 0, false
	}
	return uint(id), true
}

func loadChallenge(c *gin.Context, id uint) (*models.Challenge, bool) {
	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		}
		return nil, false
	}
	return &challenge, true
}

// walletError maps an escrow ledger failure onto the response: the ledger's
// own 4xx (insufficient funds) passes through with its message, anything else
// is an upstream-dependency failure.
func walletError(c *gin.Context, err error) {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Payment service unavailable, try again later"})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
