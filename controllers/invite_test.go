package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/euduvido/challenge_backend/database"
	"github.com/euduvido/challenge_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOpenChallenge(t *testing.T, shareLink string, mutate func(*models.Challenge)) uint {
	t.Helper()
	challenge := models.Challenge{
		Description:             "Open wager",
		Amount:                  100,
		Type:                    "custom",
		Status:                  models.StatusNotStarted,
		AllowGuests:             true,
		CreatorID:               "1",
		CreatorParticipates:     true,
		Participants:            models.StringList{},
		ParticipationFeePercent: 15,
		InvitePermission:        models.InviteCreatorOnly,
		ShareLink:               shareLink,
	}
	if mutate != nil {
		mutate(&challenge)
	}
	return seedChallenge(t, challenge)
}

func pendingInviteID(t *testing.T, challengeID uint, inviteeID string) string {
	t.Helper()
	var invite models.ChallengeInvite
	require.NoError(t, database.DB.Where("challenge_id = ? AND invitee_id = ?",
		challengeID, inviteeID).First(&invite).Error)
	return invite.ID.String()
}

func TestInviteCreatesPending(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-create", nil)

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["emailSent"])

	var invite models.ChallengeInvite
	require.NoError(t, database.DB.Where("challenge_id = ?", id).First(&invite).Error)
	assert.Equal(t, models.InviteStatusPending, invite.Status)
	assert.Equal(t, "1", invite.InviterID)
	assert.Equal(t, "3", invite.InviteeID)

	// The invitee is not a participant until they accept.
	assert.False(t, reloadChallenge(t, id).IsUserParticipant("3"))
}

func TestInviteDuplicatePendingRejected(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-dup", nil)
	creator := bearer(t, "1")

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, creator)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, creator)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A pending invite for this user already exists", decodeBody(t, w)["error"])
}

func TestInviteCapacityReason(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	max := 2
	id := seedOpenChallenge(t, "code-invite-cap", func(c *models.Challenge) {
		c.Participants = models.StringList{"2"}
		c.MaxParticipants = &max
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit_reached", decodeBody(t, w)["reason"])
}

func TestInvitePermissionReason(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-perm", func(c *models.Challenge) {
		c.Participants = models.StringList{"2"}
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "2"))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "no_permission", decodeBody(t, w)["reason"])
}

func TestInviteAllParticipantsPolicy(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-all", func(c *models.Challenge) {
		c.Participants = models.StringList{"2"}
		c.InvitePermission = models.InviteAllParticipants
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "2"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInviteBannedUserRejected(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-banned", func(c *models.Challenge) {
		c.BannedUserIDs = models.StringList{"3"}
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteExistingParticipantRejected(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-member", func(c *models.Challenge) {
		c.Participants = models.StringList{"3"}
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteBlockedMidChallengeWithoutGuests(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-noguests", func(c *models.Challenge) {
		c.Status = models.StatusInProgress
		c.AllowGuests = false
	})

	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondInviteAccept(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-accept", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	inviteID := pendingInviteID(t, id, "3")

	w = doJSON(t, router, http.MethodPost, "/api/challenges/invites/"+inviteID+"/respond",
		map[string]string{"action": "accept"}, bearer(t, "3"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, reloadChallenge(t, id).IsUserParticipant("3"))
	var invite models.ChallengeInvite
	require.NoError(t, database.DB.First(&invite, "id = ?", inviteID).Error)
	assert.Equal(t, models.InviteStatusAccepted, invite.Status)
	assert.NotNil(t, invite.RespondedAt)
}

func TestRespondInviteDecline(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-decline", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	inviteID := pendingInviteID(t, id, "3")

	w = doJSON(t, router, http.MethodPost, "/api/challenges/invites/"+inviteID+"/respond",
		map[string]string{"action": "decline"}, bearer(t, "3"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.False(t, reloadChallenge(t, id).IsUserParticipant("3"))
	var invite models.ChallengeInvite
	require.NoError(t, database.DB.First(&invite, "id = ?", inviteID).Error)
	assert.Equal(t, models.InviteStatusDeclined, invite.Status)

	// A declined invite cannot be answered again.
	w = doJSON(t, router, http.MethodPost, "/api/challenges/invites/"+inviteID+"/respond",
		map[string]string{"action": "accept"}, bearer(t, "3"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondInviteOnlyInvitee(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-wrong-user", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	inviteID := pendingInviteID(t, id, "3")

	w = doJSON(t, router, http.MethodPost, "/api/challenges/invites/"+inviteID+"/respond",
		map[string]string{"action": "accept"}, bearer(t, "4"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAcceptInviteToCancelledChallengeFails(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-stale", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	inviteID := pendingInviteID(t, id, "3")

	require.NoError(t, database.DB.Model(&models.Challenge{}).Where("id = ?", id).
		Update("status", models.StatusCancelled).Error)

	w = doJSON(t, router, http.MethodPost, "/api/challenges/invites/"+inviteID+"/respond",
		map[string]string{"action": "accept"}, bearer(t, "3"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The stale invite is gone.
	var count int64
	require.NoError(t, database.DB.Model(&models.ChallengeInvite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelInviteInviterOnly(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-cancel", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	inviteID := pendingInviteID(t, id, "3")

	w = doJSON(t, router, http.MethodDelete, "/api/challenges/invites/"+inviteID, nil, bearer(t, "3"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/challenges/invites/"+inviteID, nil, bearer(t, "1"))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, database.DB.Model(&models.ChallengeInvite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListMyInvitesEnriched(t *testing.T) {
	router := setupRouter(t)
	newUserStub(t)

	id := seedOpenChallenge(t, "code-invite-list", nil)
	w := doJSON(t, router, http.MethodPost, challengePath(id, "invite"),
		map[string]string{"friendId": "3"}, bearer(t, "1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/challenges/invites", nil, bearer(t, "3"))
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	challenge := list[0]["challenge"].(map[string]interface{})
	assert.Equal(t, "Open wager", challenge["description"])

	// Somebody else sees nothing.
	w = doJSON(t, router, http.MethodGet, "/api/challenges/invites", nil, bearer(t, "4"))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestShareLinkVisibility(t *testing.T) {
	router := setupRouter(t)

	id := seedOpenChallenge(t, "code-share-vis", nil)

	w := doJSON(t, router, http.MethodGet, challengePath(id, "share-link"), nil, bearer(t, "99"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, challengePath(id, "share-link"), nil, bearer(t, "1"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "code-share-vis", body["shareCode"])
	assert.Contains(t, body["shareLink"], fmt.Sprintf("/challenge/%d/join?link=code-share-vis", id))
}

func TestShareCodeValidateAndJoin(t *testing.T) {
	router := setupRouter(t)

	id := seedOpenChallenge(t, "code-share-join", nil)

	// Validation is public.
	w := doJSON(t, router, http.MethodGet, "/api/challenges/invite/code-share-join", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	challenge := decodeBody(t, w)["challenge"].(map[string]interface{})
	assert.EqualValues(t, id, challenge["id"])

	w = doJSON(t, router, http.MethodGet, "/api/challenges/invite/no-such-code", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Joining needs a token.
	w = doJSON(t, router, http.MethodPost, "/api/challenges/invite/code-share-join/join", nil, bearer(t, "3"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reloadChallenge(t, id).IsUserParticipant("3"))

	// Joining twice is a no-op.
	w = doJSON(t, router, http.MethodPost, "/api/challenges/invite/code-share-join/join", nil, bearer(t, "3"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Already a participant", decodeBody(t, w)["message"])
}

func TestShareCodeJoinRejectsBanned(t *testing.T) {
	router := setupRouter(t)

	seedOpenChallenge(t, "code-share-ban", func(c *models.Challenge) {
		c.BannedUserIDs = models.StringList{"3"}
	})

	w := doJSON(t, router, http.MethodPost, "/api/challenges/invite/code-share-ban/join", nil, bearer(t, "3"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
