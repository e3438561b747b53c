package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/euduvido/challenge_backend/clients"
	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/locker"
	"github.com/euduvido/challenge_backend/models"
	"github.com/gin-gonic/gin"
)

// Resigning participants forfeit this share of their net stake; kicked or
// banned participants are not penalized beyond the platform fee.
const resignPenaltyPercent = 75.0

func resignRefund(challenge *models.Challenge) float64 {
	net := challenge.NetStakePerUser()
	return net - net*resignPenaltyPercent/100
}

func removalRefund(challenge *models.Challenge) float64 {
	return challenge.NetStakePerUser()
}

// removeFromRoster drops the user from every roster field, including the
// finish-vote set so that finishAcceptedUserIds stays a subset of the active
// participants.
func removeFromRoster(challenge *models.Challenge, userID string) {
	challenge.Participants = challenge.Participants.Without(userID)
	if challenge.AcceptorID != nil && *challenge.AcceptorID == userID {
		challenge.AcceptorID = nil
	}
	challenge.PaidUserIDs = challenge.PaidUserIDs.Without(userID)
	challenge.FinishAcceptedUserIDs = challenge.FinishAcceptedUserIDs.Without(userID)
}

// AcceptChallenge godoc
// @Summary Take the challenge's acceptor slot
// @Description Registers the user in the legacy single-invite slot; payment is a separate step
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Updated challenge"
// @Failure 400 {object} map[string]string "Challenge not joinable"
// @Router /api/challenges/{id}/accept [post]
func AcceptChallenge(c *gin.Context) {
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
	if challenge.Status != models.StatusNotStarted && challenge.Status != models.StatusAwaitingPayment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge can no longer be accepted"})
		return
	}
	if challenge.BannedUserIDs.Contains(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are banned from this challenge"})
		return
	}

	challenge.AcceptorID = &userID
	challenge.Status = models.StatusNotStarted
	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Acceptor registered. Payment required; only the creator can start.",
		"challenge": challenge,
	})
}

// PayChallenge godoc
// @Summary Pay the caller's stake into escrow
// @Description Debits the stake from the caller's wallet; a failed debit leaves the challenge untouched
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Updated challenge and wallet balance"
// @Failure 400 {object} map[string]string "Payment not allowed or insufficient funds"
// @Failure 502 {object} map[string]string "Escrow ledger unavailable"
// @Router /api/challenges/{id}/pay [post]
func PayChallenge(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
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

	payableStatus := challenge.Status == models.StatusAwaitingPayment ||
		challenge.Status == models.StatusNotStarted
	if !payableStatus || !challenge.IsUserParticipant(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment is not allowed in the current state"})
		return
	}
	if challenge.PaidUserIDs.Contains(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already paid for this challenge"})
		return
	}

	balance, err := clients.Wallet().Debit(authHeader, challenge.Amount,
		"Challenge stake payment", &challenge.ID)
	if err != nil {
		walletError(c, err)
		return
	}

	// The debit settled; from here on the roster mutation must be committed.
	challenge.PaidUserIDs = append(challenge.PaidUserIDs, userID)
	if userID == challenge.CreatorID {
		challenge.Paid = true
	}
	if challenge.Status == models.StatusAwaitingPayment {
		challenge.Status = models.StatusNotStarted
	}
	if err := database.DB.Save(challenge).Error; err != nil {
		log.Printf("pay: debit settled for user %s on challenge %d but persistence failed: %v", userID, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment settled but the challenge could not be updated; contact support"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Payment settled",
		"challenge":        challenge,
		"walletBalance":    balance,
		"participationFee": challenge.ParticipationFee(),
		"netStakePerUser":  challenge.NetStakePerUser(),
	})
}

// StartChallenge godoc
// @Summary Start the challenge (creator only)
// @Description Moves the challenge to IN_PROGRESS once at least two active participants have all paid
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Started challenge"
// @Failure 400 {object} map[string]string "Not ready to start"
// @Failure 403 {object} map[string]string "Not the creator"
// @Router /api/challenges/{id}/start [post]
func StartChallenge(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can start the challenge"})
		return
	}
	if challenge.Status != models.StatusNotStarted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge cannot be started from its current status"})
		return
	}
	if !challenge.AllRequiredHavePaid() {
		if len(challenge.ActiveParticipantIDs()) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least two active participants are required to start"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some participants have not paid yet"})
		}
		return
	}

	start := nowMillis()
	challenge.StartDate = &start
	challenge.Status = models.StatusInProgress
	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge started", "challenge": challenge})
}

// ResignChallenge godoc
// @Summary Resign from the challenge
// @Description Removes the caller from the roster. A paid resigner gets back only 25% of the net stake; if nobody is left the challenge is cancelled
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Resignation outcome"
// @Failure 400 {object} map[string]string "Challenge already finished"
// @Router /api/challenges/{id}/cancel [post]
func ResignChallenge(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
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
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is already finished"})
		return
	}
	if !challenge.IsUserParticipant(userID) && challenge.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this challenge"})
		return
	}

	creatorResigned := userID == challenge.CreatorID
	wasPaid := challenge.PaidUserIDs.Contains(userID)

	var refund, penalty float64
	if wasPaid {
		refund = resignRefund(challenge)
		penalty = challenge.NetStakePerUser() - refund
	}

	removeFromRoster(challenge, userID)
	if creatorResigned && challenge.CreatorParticipates {
		// Ownership persists, participation does not; resigning is one-way.
		challenge.CreatorParticipates = false
	}

	globalCancelled := len(challenge.ActiveParticipantIDs()) == 0
	if globalCancelled {
		challenge.Status = models.StatusCancelled
	}

	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	refundCredited := false
	if wasPaid && refund > 0 {
		err := clients.Wallet().Credit(authHeader, userID, refund,
			fmt.Sprintf("Refund: resigned from challenge #%d", challenge.ID))
		refundCredited = err == nil
		if err != nil {
			log.Printf("resign: refund of %.2f to user %s failed: %v", refund, userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Resignation processed",
		"wasPaid":         wasPaid,
		"feeApplied":      penalty,
		"refundAmount":    refund,
		"refundCredited":  refundCredited,
		"globalCancelled": globalCancelled,
		"creatorResigned": creatorResigned,
	})
}

// removeParticipant is the shared path for kick and ban: only the refund
// policy and the ban list differ from resign.
func removeParticipant(c *gin.Context, ban bool) {
	requesterID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
	targetID := c.Param("userId")
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
	if challenge.CreatorID != requesterID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can remove participants"})
		return
	}
	if targetID == challenge.CreatorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The creator cannot be removed; resign instead"})
		return
	}
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is already finished"})
		return
	}
	if !ban && challenge.Status != models.StatusNotStarted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Participants can only be kicked before the challenge starts"})
		return
	}

	wasPaid := challenge.PaidUserIDs.Contains(targetID)
	var refund float64
	if wasPaid {
		// Involuntary removal carries no resignation penalty.
		refund = removalRefund(challenge)
	}

	removeFromRoster(challenge, targetID)
	if ban && !challenge.BannedUserIDs.Contains(targetID) {
		challenge.BannedUserIDs = append(challenge.BannedUserIDs, targetID)
	}

	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	refundCredited := false
	if wasPaid && refund > 0 {
		reason := "kicked from"
		if ban {
			reason = "banned from"
		}
		err := clients.Wallet().Credit(authHeader, targetID, refund,
			fmt.Sprintf("Refund: %s challenge #%d", reason, challenge.ID))
		refundCredited = err == nil
		if err != nil {
			log.Printf("remove: refund of %.2f to user %s failed: %v", refund, targetID, err)
		}
	}

	message := "Participant removed"
	if ban {
		message = "Participant banned"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"hadPaid":        wasPaid,
		"refundAmount":   refund,
		"refundCredited": refundCredited,
	})
}

// KickParticipant godoc
// @Summary Remove a participant before the challenge starts (creator only)
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param userId path string true "User to remove"
// @Success 200 {object} map[string]interface{} "Removal outcome"
// @Router /api/challenges/{id}/kick/{userId} [post]
func KickParticipant(c *gin.Context) {
	removeParticipant(c, false)
}

// BanParticipant godoc
// @Summary Remove a participant and ban them permanently (creator only)
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param userId path string true "User to ban"
// @Success 200 {object} map[string]interface{} "Ban outcome"
// @Router /api/challenges/{id}/ban/{userId} [post]
func BanParticipant(c *gin.Context) {
	removeParticipant(c, true)
}

// CancelChallengeByCreator godoc
// @Summary Cancel a challenge that never started, refunding everyone
// @Description Credits every paid participant their full stake (best effort), then hard-deletes the challenge and its invites
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Refund report"
// @Failure 400 {object} map[string]string "Challenge already started"
// @Failure 403 {object} map[string]string "Not the creator"
// @Router /api/challenges/{id}/cancel-challenge [post]
func CancelChallengeByCreator(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can cancel this challenge"})
		return
	}
	if challenge.Status != models.StatusNotStarted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only challenges that have not started can be cancelled by the creator"})
		return
	}

	// Full stake back, no fee: the challenge never ran. Failures are
	// reported for human follow-up, never retried here.
	description := fmt.Sprintf("Refund: challenge #%d cancelled", challenge.ID)
	refunded := []string{}
	failed := []string{}
	for _, uid := range challenge.PaidUserIDs {
		if err := clients.Wallet().Credit(authHeader, uid, challenge.Amount, description); err != nil {
			log.Printf("cancel: refund to user %s failed: %v", uid, err)
			failed = append(failed, uid)
		} else {
			refunded = append(refunded, uid)
		}
	}

	if err := database.DB.Where("challenge_id = ?", challenge.ID).
		Delete(&models.ChallengeInvite{}).Error; err != nil {
		log.Printf("cancel: deleting invites for challenge %d failed: %v", challenge.ID, err)
	}
	if err := database.DB.Delete(&models.Challenge{}, challenge.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Challenge cancelled and removed",
		"challengeId":         challenge.ID,
		"refundedUserIds":     refunded,
		"failedRefundUserIds": failed,
		"refundAmountPerUser": challenge.Amount,
	})
}
