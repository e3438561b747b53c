package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/euduvido/challenge_backend/clients"
	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/locker"
	"github.com/euduvido/challenge_backend/mailer"
	"github.com/euduvido/challenge_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteFriendInput struct {
	FriendID string `json:"friendId" binding:"required" example:"42"`
}

type RespondInviteInput struct {
	Action string `json:"action" binding:"required,oneof=accept decline" example:"accept"`
}

// InviteFriend godoc
// @Summary Invite a user to the challenge
// @Description Creates a PENDING invite after permission, capacity, ban and duplicate checks; the invitee is notified by mail on a best-effort basis
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param invite body InviteFriendInput true "Invitee"
// @Success 201 {object} map[string]interface{} "Created invite"
// @Failure 400 {object} map[string]string "Invalid state, capacity reached or duplicate"
// @Failure 403 {object} map[string]string "No invite permission"
// @Router /api/challenges/{id}/invite [post]
func InviteFriend(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}

	var input InviteFriendInput
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
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge no longer accepts invites"})
		return
	}
	if challenge.Status == models.StatusInProgress && !challenge.AllowGuests {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invites are disabled after the challenge starts"})
		return
	}
	if !challenge.CanUserInvite(userID) {
		if challenge.IsInviteLimitReached() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "The participant limit has been reached",
				"reason": "limit_reached",
			})
		} else {
			c.JSON(http.StatusForbidden, gin.H{
				"error":  "You are not allowed to invite users to this challenge",
				"reason": "no_permission",
			})
		}
		return
	}
	if challenge.BannedUserIDs.Contains(input.FriendID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This user is banned from the challenge"})
		return
	}
	if challenge.IsUserParticipant(input.FriendID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This user already participates in the challenge"})
		return
	}

	var existing models.ChallengeInvite
	err := database.DB.Where("challenge_id = ? AND invitee_id = ? AND status = ?",
		id, input.FriendID, models.InviteStatusPending).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A pending invite for this user already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing invites"})
		return
	}

	invite := models.ChallengeInvite{
		ChallengeID: id,
		InviterID:   userID,
		InviteeID:   input.FriendID,
		Status:      models.InviteStatusPending,
	}
	if err := database.DB.Create(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	emailSent := false
	if inviteeEmail := clients.Users().FetchEmail(authHeader, input.FriendID); inviteeEmail != "" {
		inviterEmail := clients.Users().FetchEmail(authHeader, userID)
		emailSent = mailer.SendInviteNotification(inviteeEmail, challenge.Description,
			challenge.Amount, inviterEmail)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Invite sent. The user must accept before participating.",
		"invite":    invite,
		"emailSent": emailSent,
	})
}

// ListChallengeInvites godoc
// @Summary List all invites of a challenge
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Invites"
// @Router /api/challenges/{id}/invites [get]
func ListChallengeInvites(c *gin.Context) {
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}

	var invites []models.ChallengeInvite
	if err := database.DB.Where("challenge_id = ?", id).Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// ListMyInvites godoc
// @Summary List the user's pending invites, enriched with challenge data
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]interface{} "Pending invites"
// @Router /api/challenges/invites [get]
func ListMyInvites(c *gin.Context) {
	userID := currentUserID(c)

	var invites []models.ChallengeInvite
	if err := database.DB.Where("invitee_id = ? AND status = ?",
		userID, models.InviteStatusPending).Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}

	enriched := make([]gin.H, 0, len(invites))
	for _, invite := range invites {
		item := gin.H{
			"id":          invite.ID,
			"challengeId": invite.ChallengeID,
			"inviterId":   invite.InviterID,
			"inviteeId":   invite.InviteeID,
			"status":      invite.Status,
			"createdAt":   invite.CreatedAt,
			"challenge":   nil,
		}
		var challenge models.Challenge
		if err := database.DB.First(&challenge, invite.ChallengeID).Error; err == nil {
			item["challenge"] = gin.H{
				"id":          challenge.ID,
				"description": challenge.Description,
				"amount":      challenge.Amount,
				"type":        challenge.Type,
				"status":      challenge.Status,
			}
		}
		enriched = append(enriched, item)
	}

	c.JSON(http.StatusOK, enriched)
}

func parseInviteID(c *gin.Context) (uuid.UUID, bool) {
	inviteID, err := uuid.Parse(c.Param("inviteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite id"})
		return uuid.Nil, false
	}
	return inviteID, true
}

// RespondToInvite godoc
// @Summary Accept or decline an invite (invitee only)
// @Description Accept re-validates the challenge state before joining; either response is final for the invite
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param inviteId path string true "Invite ID"
// @Param response body RespondInviteInput true "Response"
// @Success 200 {object} map[string]string "Outcome"
// @Failure 403 {object} map[string]string "Not the invitee"
// @Failure 404 {object} map[string]string "Invite not found"
// @Router /api/challenges/invites/{inviteId}/respond [post]
func RespondToInvite(c *gin.Context) {
	userID := currentUserID(c)
	inviteID, ok := parseInviteID(c)
	if !ok {
		return
	}

	var input RespondInviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invite models.ChallengeInvite
	if err := database.DB.First(&invite, "id = ?", inviteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		return
	}
	if invite.InviteeID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This invite is not for you"})
		return
	}
	if invite.Status != models.InviteStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invite already processed"})
		return
	}

	now := nowMillis()

	if input.Action == "decline" {
		invite.Status = models.InviteStatusDeclined
		invite.RespondedAt = &now
		if err := database.DB.Save(&invite).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invite"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Invite declined"})
		return
	}

	unlock := locker.Lock(invite.ChallengeID)
	defer unlock()

	// State may have moved since the invite was sent; re-validate.
	var challenge models.Challenge
	if err := database.DB.First(&challenge, invite.ChallengeID).Error; err != nil {
		database.DB.Delete(&invite)
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if challenge.IsTerminal() {
		database.DB.Delete(&invite)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is no longer available"})
		return
	}
	if challenge.BannedUserIDs.Contains(userID) {
		database.DB.Delete(&invite)
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are banned from this challenge"})
		return
	}

	if !challenge.IsUserParticipant(userID) {
		challenge.Participants = append(challenge.Participants, userID)
		if err := database.DB.Save(&challenge).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
			return
		}
	}

	invite.Status = models.InviteStatusAccepted
	invite.RespondedAt = &now
	if err := database.DB.Save(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite accepted"})
}

// CancelInvite godoc
// @Summary Cancel a pending invite (inviter only)
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param inviteId path string true "Invite ID"
// @Success 200 {object} map[string]string "Outcome"
// @Failure 403 {object} map[string]string "Not the inviter"
// @Router /api/challenges/invites/{inviteId} [delete]
func CancelInvite(c *gin.Context) {
	userID := currentUserID(c)
	inviteID, ok := parseInviteID(c)
	if !ok {
		return
	}

	var invite models.ChallengeInvite
	if err := database.DB.First(&invite, "id = ?", inviteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		return
	}
	if invite.InviterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the inviter can cancel this invite"})
		return
	}
	if invite.Status != models.InviteStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invite already processed"})
		return
	}

	if err := database.DB.Delete(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite cancelled"})
}

// GetShareLink godoc
// @Summary Get the challenge's share link (participants only)
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]string "Share link and code"
// @Failure 403 {object} map[string]string "Not a participant"
// @Router /api/challenges/{id}/share-link [get]
func GetShareLink(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}
	challenge, ok := loadChallenge(c, id)
	if !ok {
		return
	}

	if challenge.CreatorID != userID && !challenge.IsUserParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to see this link"})
		return
	}
	if challenge.Status != models.StatusNotStarted && challenge.Status != models.StatusInProgress {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The share link is only available for open or running challenges"})
		return
	}
	if challenge.Status == models.StatusInProgress && !challenge.AllowGuests {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New participants are not allowed after the challenge started"})
		return
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	c.JSON(http.StatusOK, gin.H{
		"shareLink": fmt.Sprintf("%s/challenge/%d/join?link=%s", baseURL, challenge.ID, challenge.ShareLink),
		"shareCode": challenge.ShareLink,
	})
}

func findByShareCode(c *gin.Context) (*models.Challenge, bool) {
	var challenge models.Challenge
	if err := database.DB.Where("share_link = ?", c.Param("code")).First(&challenge).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
		return nil, false
	}
	return &challenge, true
}

// ValidateShareCode godoc
// @Summary Resolve a share code to its challenge
// @Tags invites
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} map[string]interface{} "Challenge"
// @Failure 404 {object} map[string]string "Unknown code"
// @Router /api/challenges/invite/{code} [get]
func ValidateShareCode(c *gin.Context) {
	challenge, ok := findByShareCode(c)
	if !ok {
		return
	}
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is no longer available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

// JoinByShareCode godoc
// @Summary Join a challenge through its share code
// @Description Self-service accept with the same eligibility checks as a directed invite
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param code path string true "Share code"
// @Success 200 {object} map[string]interface{} "Updated challenge"
// @Failure 400 {object} map[string]string "Not joinable"
// @Router /api/challenges/invite/{code}/join [post]
func JoinByShareCode(c *gin.Context) {
	userID := currentUserID(c)
	found, ok := findByShareCode(c)
	if !ok {
		return
	}

	unlock := locker.Lock(found.ID)
	defer unlock()

	// Reload under the lock; the code lookup raced other writers.
	challenge, ok := loadChallenge(c, found.ID)
	if !ok {
		return
	}
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is no longer available"})
		return
	}
	if challenge.Status == models.StatusInProgress && !challenge.AllowGuests {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New participants are not allowed after the challenge started"})
		return
	}
	if challenge.BannedUserIDs.Contains(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are banned from this challenge"})
		return
	}
	if challenge.IsUserParticipant(userID) {
		c.JSON(http.StatusOK, gin.H{"message": "Already a participant", "challenge": challenge})
		return
	}

	challenge.Participants = append(challenge.Participants, userID)
	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant added", "challenge": challenge})
}
