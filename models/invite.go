package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeInvite statuses. Anything past PENDING is final for the invite.
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusDeclined = "DECLINED"
	InviteStatusExpired  = "EXPIRED"
)

type ChallengeInvite struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;index" json:"challengeId"`
	InviterID   string    `gorm:"size:64;not null" json:"inviterId"`
	InviteeID   string    `gorm:"size:64;not null;index" json:"inviteeId"`
	Status      string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CreatedAt   int64     `gorm:"not null" json:"createdAt"`
	RespondedAt *int64    `json:"respondedAt"`
}

func (i *ChallengeInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.CreatedAt == 0 {
		i.CreatedAt = time.Now().UnixMilli()
	}
	return nil
}
