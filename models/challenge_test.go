package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"1", "2", "3"}

	value, err := list.Value()
	require.NoError(t, err)

	var decoded StringList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, list, decoded)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}

func TestStringListContainsAndWithout(t *testing.T) {
	list := StringList{"1", "2", "2", "3"}

	assert.True(t, list.Contains("2"))
	assert.False(t, list.Contains("4"))

	trimmed := list.Without("2")
	assert.Equal(t, StringList{"1", "3"}, trimmed)
	// original untouched
	assert.Len(t, list, 4)
}

func TestActiveParticipantIDsDeduplicates(t *testing.T) {
	challenge := Challenge{
		CreatorID:           "1",
		CreatorParticipates: true,
		AcceptorID:          strPtr("2"),
		Participants:        StringList{"2", "3", "1"},
	}

	assert.ElementsMatch(t, []string{"1", "2", "3"}, challenge.ActiveParticipantIDs())
	assert.Equal(t, 3, challenge.CurrentParticipantCount())
}

func TestActiveParticipantIDsExcludesResignedCreator(t *testing.T) {
	challenge := Challenge{
		CreatorID:           "1",
		CreatorParticipates: false,
		Participants:        StringList{"2", "3"},
	}

	assert.ElementsMatch(t, []string{"2", "3"}, challenge.ActiveParticipantIDs())
	assert.False(t, challenge.IsUserParticipant("1"))
	assert.True(t, challenge.IsUserParticipant("2"))
}

func TestCanUserInvitePermissions(t *testing.T) {
	challenge := Challenge{
		CreatorID:           "1",
		CreatorParticipates: true,
		Participants:        StringList{"2"},
		InvitePermission:    InviteCreatorOnly,
	}

	assert.True(t, challenge.CanUserInvite("1"))
	assert.False(t, challenge.CanUserInvite("2"))

	challenge.InvitePermission = InviteAllParticipants
	assert.True(t, challenge.CanUserInvite("2"))
	assert.False(t, challenge.CanUserInvite("99"))
}

func TestCanUserInviteCapacityTrumpsPermission(t *testing.T) {
	challenge := Challenge{
		CreatorID:           "1",
		CreatorParticipates: true,
		Participants:        StringList{"2"},
		InvitePermission:    InviteCreatorOnly,
		MaxParticipants:     intPtr(2),
	}

	// Creator would normally be allowed, but the cap is already hit.
	assert.True(t, challenge.IsInviteLimitReached())
	assert.False(t, challenge.CanUserInvite("1"))

	challenge.MaxParticipants = intPtr(3)
	assert.False(t, challenge.IsInviteLimitReached())
	assert.True(t, challenge.CanUserInvite("1"))
}

func TestAllRequiredHavePaid(t *testing.T) {
	challenge := Challenge{
		CreatorID:           "1",
		CreatorParticipates: true,
		PaidUserIDs:         StringList{"1"},
	}

	// Single-party wager never starts, even fully paid.
	assert.False(t, challenge.AllRequiredHavePaid())

	challenge.Participants = StringList{"2"}
	assert.False(t, challenge.AllRequiredHavePaid())

	challenge.PaidUserIDs = StringList{"1", "2"}
	assert.True(t, challenge.AllRequiredHavePaid())
}

func TestFeeAndNetStake(t *testing.T) {
	challenge := Challenge{Amount: 100, ParticipationFeePercent: 15}

	assert.InDelta(t, 15.0, challenge.ParticipationFee(), 1e-9)
	assert.InDelta(t, 85.0, challenge.NetStakePerUser(), 1e-9)
}

func TestIsTerminal(t *testing.T) {
	for status, terminal := range map[string]bool{
		StatusNotStarted:      false,
		StatusAwaitingPayment: false,
		StatusInProgress:      false,
		StatusCompleted:       true,
		StatusCancelled:       true,
	} {
		challenge := Challenge{Status: status}
		assert.Equal(t, terminal, challenge.IsTerminal(), status)
	}
}
