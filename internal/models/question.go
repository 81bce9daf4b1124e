package models

import "time"

type Question struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SessionID    uint       `gorm:"not null;index" json:"session_id"`
	AuthorUserID *uint      `gorm:"index" json:"author_user_id,omitempty"`
	Author       *User      `gorm:"foreignKey:AuthorUserID" json:"author,omitempty"`
	Body         string     `gorm:"size:280;not null" json:"body"`
	Status       string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	Likes        int        `gorm:"not null;default:0" json:"likes"`
	CreatedAt    time.Time  `json:"created_at"`
	AnsweredAt   *time.Time `json:"answered_at,omitempty"`
}

const (
	QuestionStatusPending  = "pending"
	QuestionStatusAnswered = "answered"
)
