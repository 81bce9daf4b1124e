package models

import "time"

type Session struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	HostUserID uint       `gorm:"not null;index" json:"host_user_id"`
	Host       User       `gorm:"foreignKey:HostUserID" json:"-"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Code       string     `gorm:"size:6;uniqueIndex;not null" json:"code"`
	Status     string     `gorm:"size:20;not null;default:'draft'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

const (
	SessionStatusDraft  = "draft"
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)
