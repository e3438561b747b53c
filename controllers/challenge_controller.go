package controllers

import (
	"log"
	"net/http"

	"github.com/euduvido/challenge_backend/clients"
	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/locker"
	"github.com/euduvido/challenge_backend/models"
	"github.com/euduvido/challenge_backend/utils"
	"github.com/gin-gonic/gin"
)

type CreateChallengeInput struct {
	Description             string   `json:"description" binding:"required" example:"30 days without sugar"`
	Amount                  float64  `json:"amount" binding:"required,gt=0" example:"100"`
	Type                    string   `json:"type" example:"custom"`
	Icon                    string   `json:"icon"`
	Duration                *int     `json:"duration"`
	AllowGuests             *bool    `json:"allowGuests"`
	CreatorParticipates     *bool    `json:"creatorParticipates"`
	InvitePermission        string   `json:"invitePermission" binding:"omitempty,oneof=CREATOR_ONLY ALL_PARTICIPANTS"`
	MaxParticipants         *int     `json:"maxParticipants" binding:"omitempty,gt=0"`
	ParticipationFeePercent *float64 `json:"participationFeePercent" binding:"omitempty,gte=0,lt=100"`
	MinWorkoutMinutes       *int     `json:"minWorkoutMinutes"`
	MealsPerDay             *int     `json:"mealsPerDay"`
	ProofsPerDay            *int     `json:"proofsPerDay"`
	CustomMinKm             *float64 `json:"customMinKm"`
	CustomMinTimeMinutes    *int     `json:"customMinTimeMinutes"`
	CustomMinCount          *int     `json:"customMinCount"`
	MinMealIntervalMinutes  *int     `json:"minMealIntervalMinutes"`
	CustomProofTypes        []string `json:"customProofTypes"`
}

func (in *CreateChallengeInput) creatorParticipates() bool {
	return in.CreatorParticipates == nil || *in.CreatorParticipates
}

// toChallenge builds a fresh aggregate from the validated input. The terms
// set here are immutable for the challenge's whole life.
func (in *CreateChallengeInput) toChallenge(creatorID string) models.Challenge {
	challengeType := in.Type
	if challengeType == "" {
		challengeType = "custom"
	}
	invitePermission := in.InvitePermission
	if invitePermission == "" {
		invitePermission = models.InviteCreatorOnly
	}
	feePercent := models.DefaultParticipationFeePercent
	if in.ParticipationFeePercent != nil {
		feePercent = *in.ParticipationFeePercent
	}
	allowGuests := in.AllowGuests == nil || *in.AllowGuests

	return models.Challenge{
		Description:             in.Description,
		Amount:                  in.Amount,
		Type:                    challengeType,
		Icon:                    in.Icon,
		Duration:                in.Duration,
		AllowGuests:             allowGuests,
		MinWorkoutMinutes:       in.MinWorkoutMinutes,
		MealsPerDay:             in.MealsPerDay,
		ProofsPerDay:            in.ProofsPerDay,
		CustomMinKm:             in.CustomMinKm,
		CustomMinTimeMinutes:    in.CustomMinTimeMinutes,
		CustomMinCount:          in.CustomMinCount,
		MinMealIntervalMinutes:  in.MinMealIntervalMinutes,
		CustomProofTypes:        models.StringList(in.CustomProofTypes),
		CreatedAt:               nowMillis(),
		CreatorID:               creatorID,
		CreatorParticipates:     in.creatorParticipates(),
		Participants:            models.StringList{},
		BannedUserIDs:           models.StringList{},
		PaidUserIDs:             models.StringList{},
		FinishAcceptedUserIDs:   models.StringList{},
		ParticipationFeePercent: feePercent,
		InvitePermission:        invitePermission,
		MaxParticipants:         in.MaxParticipants,
		ShareLink:               utils.GenerateShareCode(),
	}
}

// PrepareChallenge godoc
// @Summary Validate challenge terms before payment
// @Description Validates the challenge terms and echoes them back so the client can run the payment step; no record is created
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challenge body CreateChallengeInput true "Challenge terms"
// @Success 200 {object} map[string]interface{} "Challenge preview"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /api/challenges/prepare [post]
func PrepareChallenge(c *gin.Context) {
	userID := currentUserID(c)

	var input CreateChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview := input.toChallenge(userID)
	c.JSON(http.StatusOK, gin.H{
		"description":         preview.Description,
		"amount":              preview.Amount,
		"type":                preview.Type,
		"duration":            preview.Duration,
		"allowGuests":         preview.AllowGuests,
		"creatorId":           userID,
		"creatorParticipates": preview.CreatorParticipates,
		"participationFee":    preview.ParticipationFee(),
		"netStakePerUser":     preview.NetStakePerUser(),
	})
}

// CreateChallengeAfterPayment godoc
// @Summary Create a challenge, collecting the creator's stake first
// @Description Debits the creator's stake from the escrow ledger and persists the challenge; if the debit fails nothing is created
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challenge body CreateChallengeInput true "Challenge terms"
// @Success 201 {object} map[string]interface{} "Created challenge"
// @Failure 400 {object} map[string]string "Invalid input or insufficient funds"
// @Failure 502 {object} map[string]string "Escrow ledger unavailable"
// @Router /api/challenges/create [post]
func CreateChallengeAfterPayment(c *gin.Context) {
	userID := currentUserID(c)
	authHeader := c.GetHeader("Authorization")

	var input CreateChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge := input.toChallenge(userID)
	challenge.Status = models.StatusNotStarted

	// Debit before persisting: a failed debit must never leave an orphan
	// challenge, and a persisted challenge must never lack its debit.
	if challenge.CreatorParticipates {
		if _, err := clients.Wallet().Debit(authHeader, challenge.Amount,
			"Challenge creation stake: "+challenge.Description, nil); err != nil {
			walletError(c, err)
			return
		}
		challenge.Paid = true
		challenge.PaidUserIDs = models.StringList{userID}
	}

	if err := database.DB.Create(&challenge).Error; err != nil {
		if challenge.CreatorParticipates {
			// The debit already settled; hand the stake back.
			if creditErr := clients.Wallet().Credit(authHeader, userID, challenge.Amount,
				"Refund: challenge creation failed"); creditErr != nil {
				log.Printf("create: stake debited but challenge not persisted and refund failed for user %s: %v", userID, creditErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Challenge created",
		"challenge":        challenge,
		"participationFee": challenge.ParticipationFee(),
		"netStakePerUser":  challenge.NetStakePerUser(),
	})
}

// CreateChallengeWithoutPayment godoc
// @Summary Create a challenge without collecting any stake yet
// @Description Persists the challenge with status AWAITING_PAYMENT (creator participates) or NOT_STARTED (creator opted out)
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challenge body CreateChallengeInput true "Challenge terms"
// @Success 201 {object} map[string]interface{} "Created challenge"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /api/challenges/create-without-payment [post]
func CreateChallengeWithoutPayment(c *gin.Context) {
	userID := currentUserID(c)

	var input CreateChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge := input.toChallenge(userID)
	if challenge.CreatorParticipates {
		challenge.Status = models.StatusAwaitingPayment
	} else {
		challenge.Status = models.StatusNotStarted
	}

	if err := database.DB.Create(&challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Challenge created", "challenge": challenge})
}

// GetChallenge godoc
// @Summary Get a challenge by id
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Challenge"
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/challenges/{id} [get]
func GetChallenge(c *gin.Context) {
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}
	challenge, ok := loadChallenge(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// GetChallenges godoc
// @Summary List the user's challenges, split into created and invited
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "created and invited lists, newest first"
// @Router /api/challenges [get]
func GetChallenges(c *gin.Context) {
	userID := currentUserID(c)

	var created []models.Challenge
	if err := database.DB.Where("creator_id = ?", userID).
		Order("created_at DESC").Find(&created).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	var invited []models.Challenge
	if err := database.DB.
		Where("creator_id <> ? AND (acceptor_id = ? OR participants LIKE ?)",
			userID, userID, `%"`+userID+`"%`).
		Order("created_at DESC").Find(&invited).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "invited": invited})
}

// GetDashboard godoc
// @Summary Aggregate view of the user's challenges
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Counters and challenge list"
// @Router /api/dashboard [get]
func GetDashboard(c *gin.Context) {
	userID := currentUserID(c)

	var challenges []models.Challenge
	if err := database.DB.
		Where("creator_id = ? OR acceptor_id = ? OR participants LIKE ?",
			userID, userID, `%"`+userID+`"%`).
		Order("created_at DESC").Find(&challenges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	var active, completed int
	var totalSpent float64
	for _, ch := range challenges {
		switch ch.Status {
		case models.StatusInProgress:
			active++
		case models.StatusCompleted:
			completed++
		}
		if ch.Status != models.StatusAwaitingPayment && ch.PaidUserIDs.Contains(userID) {
			totalSpent += ch.Amount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"activeChallenges":    active,
		"completedChallenges": completed,
		"totalSpent":          totalSpent,
		"challenges":          challenges,
	})
}

// GetStats godoc
// @Summary Participation and win counters for the user
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int "participated and won"
// @Router /api/challenges/stats [get]
func GetStats(c *gin.Context) {
	userID := currentUserID(c)

	var challenges []models.Challenge
	if err := database.DB.
		Where("creator_id = ? OR acceptor_id = ? OR participants LIKE ?",
			userID, userID, `%"`+userID+`"%`).
		Find(&challenges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	var won int
	for _, ch := range challenges {
		if ch.Status == models.StatusCompleted && ch.WinnerID != nil && *ch.WinnerID == userID {
			won++
		}
	}

	c.JSON(http.StatusOK, gin.H{"participated": len(challenges), "won": won})
}

type UpdateIconInput struct {
	Icon string `json:"icon" binding:"required"`
}

// UpdateIcon godoc
// @Summary Update the challenge icon (creator only)
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param icon body UpdateIconInput true "Icon data URL"
// @Success 200 {object} map[string]interface{} "Updated challenge"
// @Failure 403 {object} map[string]string "Not the creator"
// @Router /api/challenges/{id}/icon [patch]
func UpdateIcon(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseChallengeID(c)
	if !ok {
		return
	}

	var input UpdateIconInput
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
	if challenge.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can change the challenge icon"})
		return
	}
	if challenge.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge can no longer be modified"})
		return
	}

	challenge.Icon = input.Icon
	if err := database.DB.Save(challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}
