package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Challenge statuses. COMPLETED and CANCELLED are terminal.
const (
	StatusNotStarted      = "NOT_STARTED"
	StatusAwaitingPayment = "AWAITING_PAYMENT"
	StatusInProgress      = "IN_PROGRESS"
	StatusCompleted       = "COMPLETED"
	StatusCancelled       = "CANCELLED"
)

// Invite permission policies.
const (
	InviteCreatorOnly     = "CREATOR_ONLY"
	InviteAllParticipants = "ALL_PARTICIPANTS"
)

const DefaultParticipationFeePercent = 15.0

// StringList is a string set stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported source type for StringList")
	}
}

func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of id removed.
func (l StringList) Without(id string) StringList {
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type Challenge struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Type        string  `gorm:"size:50;not null" json:"type"`
	Icon        string  `gorm:"type:text" json:"icon,omitempty"`
	Duration    *int    `json:"duration"`
	AllowGuests bool    `gorm:"default:true" json:"allowGuests"`

	// Per-type minimums, immutable after creation.
	MinWorkoutMinutes      *int       `json:"minWorkoutMinutes"`
	MealsPerDay            *int       `json:"mealsPerDay"`
	ProofsPerDay           *int       `json:"proofsPerDay"`
	CustomMinKm            *float64   `json:"customMinKm"`
	CustomMinTimeMinutes   *int       `json:"customMinTimeMinutes"`
	CustomMinCount         *int       `json:"customMinCount"`
	MinMealIntervalMinutes *int       `json:"minMealIntervalMinutes"`
	CustomProofTypes       StringList `gorm:"type:text" json:"customProofTypes"`

	Status    string `gorm:"size:20;not null" json:"status"`
	CreatedAt int64  `gorm:"not null" json:"createdAt"`
	StartDate *int64 `json:"startDate"`
	EndDate   *int64 `json:"endDate"`

	CreatorID           string     `gorm:"size:64;not null;index" json:"creatorId"`
	CreatorParticipates bool       `gorm:"not null;default:true" json:"creatorParticipates"`
	AcceptorID          *string    `gorm:"size:64;index" json:"acceptorId"`
	Participants        StringList `gorm:"type:text" json:"participants"`
	BannedUserIDs       StringList `gorm:"type:text" json:"bannedUserIds"`

	Paid                    bool       `gorm:"not null;default:false" json:"paid"`
	PaidUserIDs             StringList `gorm:"type:text" json:"paidUserIds"`
	ParticipationFeePercent float64    `gorm:"not null;default:15" json:"participationFeePercent"`

	InvitePermission string `gorm:"size:20;not null;default:'CREATOR_ONLY'" json:"invitePermission"`
	MaxParticipants  *int   `json:"maxParticipants"`
	ShareLink        string `gorm:"size:32;uniqueIndex" json:"shareLink"`

	FinishRequestActive   bool       `gorm:"not null;default:false" json:"finishRequestActive"`
	FinishRequestAt       *int64     `json:"finishRequestAt"`
	FinishRequestBy       *string    `gorm:"size:64" json:"finishRequestBy"`
	FinishAcceptedUserIDs StringList `gorm:"type:text" json:"finishAcceptedUserIds"`

	WinnerID *string `gorm:"size:64" json:"winnerId"`
}

// IsTerminal reports whether the challenge reached COMPLETED or CANCELLED.
func (c *Challenge) IsTerminal() bool {
	return c.Status == StatusCompleted || c.Status == StatusCancelled
}

// ActiveParticipantIDs returns the de-duplicated set of users currently
// counted toward the challenge: the creator (only while participating), the
// acceptor slot and every listed participant.
func (c *Challenge) ActiveParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants)+2)
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if c.CreatorParticipates {
		add(c.CreatorID)
	}
	if c.AcceptorID != nil {
		add(*c.AcceptorID)
	}
	for _, id := range c.Participants {
		add(id)
	}
	return ids
}

// IsUserParticipant reports whether userID is an active participant. The
// creator only counts while CreatorParticipates is set.
func (c *Challenge) IsUserParticipant(userID string) bool {
	if c.CreatorParticipates && c.CreatorID == userID {
		return true
	}
	if c.AcceptorID != nil && *c.AcceptorID == userID {
		return true
	}
	return c.Participants.Contains(userID)
}

func (c *Challenge) CurrentParticipantCount() int {
	return len(c.ActiveParticipantIDs())
}

// IsInviteLimitReached reports whether the participant cap has been hit.
// A nil MaxParticipants means unlimited.
func (c *Challenge) IsInviteLimitReached() bool {
	if c.MaxParticipants == nil {
		return false
	}
	return c.CurrentParticipantCount() >= *c.MaxParticipants
}

// CanUserInvite reports whether userID may send invites under the current
// permission policy. Always false once the participant cap is reached.
func (c *Challenge) CanUserInvite(userID string) bool {
	if c.IsInviteLimitReached() {
		return false
	}
	switch c.InvitePermission {
	case InviteCreatorOnly:
		return c.CreatorID == userID
	case InviteAllParticipants:
		return c.CreatorID == userID || c.IsUserParticipant(userID)
	}
	return false
}

// AllRequiredHavePaid reports whether the challenge can start: at least two
// active participants, all of them settled. Single-party wagers never start.
func (c *Challenge) AllRequiredHavePaid() bool {
	required := c.ActiveParticipantIDs()
	if len(required) < 2 {
		return false
	}
	for _, id := range required {
		if !c.PaidUserIDs.Contains(id) {
			return false
		}
	}
	return true
}

// ParticipationFee is the platform's cut of a single stake.
func (c *Challenge) ParticipationFee() float64 {
	return c.Amount * c.ParticipationFeePercent / 100
}

// NetStakePerUser is a single stake after the platform fee.
func (c *Challenge) NetStakePerUser() float64 {
	return c.Amount - c.ParticipationFee()
}
