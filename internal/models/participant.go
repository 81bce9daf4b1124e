package models

import "time"

type SessionParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_participant_session_user" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_participant_session_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;not null;default:'participant'" json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

const (
	ParticipantRoleHost        = "host"
	ParticipantRoleParticipant = "participant"
)
