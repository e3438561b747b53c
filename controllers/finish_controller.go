package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/euduvido/challenge_backend/clients"
	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/locker"
	"github.com/euduvido/challenge_backend/models"
	"github.com/gin-gonic/gin"
)

// A new finish request cannot be raised until this long after the previous
// one, whether that one was accepted or rejected.
const finishRequestCooldown = 24 * time.Hour

// RequestFinish godoc
// @Summary Open a finish request (creator only)
// @Description Starts the unanimous-consent termination vote; the creator's own accept is implicit
// @Tags finish
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Updated challenge"
// @Failure 400 {object} map[string]string "Request pending or cooldown active"
// @Failure 403 {object} map[string]string "Not the creator"
// @Router /api/challenges/{id}/finish-request [post]
func RequestFinish(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}

	unlock := locker.Lock(id)
	defer unlock()

	challenge, ok := loadChallenge(c, id)
	if !ok {
		return
	}
	if challenge.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can request the finish"})
		return
	}
	if challenge.Status != models.StatusInProgress {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Finish can only be requested while the challenge is in progress"})
		return
	}
	if challenge.FinishRequestActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A finish request is already pending"})
		return
	}
	if challenge.FinishRequestAt != nil {
		elapsed := time.Duration(nowMillis()-*challenge.FinishRequestAt) * time.Millisecond
		if elapsed < finishRequestCooldown {
			remaining := finishRequestCooldown - elapsed
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "A new finish request is only allowed 24 hours after the previous one",
				"hoursRemaining": int(remaining.Hours()),
			})
			return
		}
	}

	now := nowMillis()
	challenge.FinishRequestAt = &now
	challenge.FinishRequestBy = &userID
	challenge.FinishRequestActive = true
	challenge.FinishAcceptedUserIDs = models.StringList{userID}

	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open finish request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Finish request opened. Waiting for every participant to accept.",
		"challenge": challenge,
	})
}

// GetFinishRequest godoc
// @Summary Current finish-request state
// @Tags finish
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Vote progress"
// @Router /api/challenges/{id}/finish-request [get]
func GetFinishRequest(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}
	challenge, ok := loadChallenge(c, id)
	if !ok {
		return
	}

	activeParticipants := challenge.ActiveParticipantIDs()
	accepted := challenge.FinishAcceptedUserIDs

	c.JSON(http.StatusOK, gin.H{
		"active":            challenge.FinishRequestActive,
		"finishRequestAt":   challenge.FinishRequestAt,
		"finishRequestBy":   challenge.FinishRequestBy,
		"acceptedCount":     len(accepted),
		"totalRequired":     len(activeParticipants),
		"acceptedUserIds":   accepted,
		"userHasAccepted":   accepted.Contains(userID),
		"userIsParticipant": challenge.IsUserParticipant(userID) || challenge.CreatorID == userID,
	})
}

type FinishResponseInput struct {
	Action string `json:"action" binding:"required,oneof=accept reject" example:"accept"`
}

// RespondFinish godoc
// @Summary Vote on a pending finish request
// @Description Any reject closes the request and restarts the cooldown; unanimous accepts complete the challenge and resolve the winner
// @Tags finish
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param response body FinishResponseInput true "Vote"
// @Success 200 {object} map[string]interface{} "Vote outcome"
// @Failure 400 {object} map[string]string "No active request"
// @Failure 403 {object} map[string]string "Not a participant"
// @Router /api/challenges/{id}/finish-request/respond [post]
func RespondFinish(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}

	var input FinishResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlock := locker.Lock(id)
	defer unlock()

	challenge, ok := loadChallenge(c, id)
	if !ok {
		return
	}
	if !challenge.FinishRequestActive || challenge.FinishRequestAt == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active finish request"})
		return
	}
	if !challenge.IsUserParticipant(userID) && challenge.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only participants can respond to the finish request"})
		return
	}

	if input.Action == "reject" {
		// One rejection closes the vote; the request timestamp stays so the
		// cooldown counts from this closed request.
		challenge.FinishRequestActive = false
		challenge.FinishAcceptedUserIDs = models.StringList{}
		if err := database.DB.Save(challenge).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update finish request"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Finish request rejected. The challenge continues.",
			"rejectedBy": userID,
		})
		return
	}

	if !challenge.FinishAcceptedUserIDs.Contains(userID) {
		challenge.FinishAcceptedUserIDs = append(challenge.FinishAcceptedUserIDs, userID)
	}

	activeParticipants := challenge.ActiveParticipantIDs()
	allAccepted := true
	for _, pid := range activeParticipants {
		if !challenge.FinishAcceptedUserIDs.Contains(pid) {
			allAccepted = false
			break
		}
	}

	if !allAccepted {
		if err := database.DB.Save(challenge).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Vote recorded. Waiting for the remaining participants.",
			"acceptedCount": len(challenge.FinishAcceptedUserIDs),
			"totalRequired": len(activeParticipants),
			"allAccepted":   false,
			"status":        challenge.Status,
		})
		return
	}

	// Unanimous: complete the challenge. The resolver's verdict is
	// authoritative, and its failure never blocks completion.
	challenge.FinishRequestActive = false
	challenge.Status = models.StatusCompleted
	end := nowMillis()
	challenge.EndDate = &end

	challenge.WinnerID = nil
	winnerID, _, err := clients.Proofs().ChallengeWinner(authHeader, challenge.ID)
	if err != nil {
		log.Printf("finish: winner lookup for challenge %d failed: %v", challenge.ID, err)
	} else if winnerID != "" {
		challenge.WinnerID = &winnerID
	}

	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Everyone accepted. Challenge completed.",
		"challenge":   challenge,
		"allAccepted": true,
		"winnerId":    challenge.WinnerID,
		"status":      challenge.Status,
	})
}
