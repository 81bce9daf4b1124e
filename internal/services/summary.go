package services

import (
	"time"

	"classengage-backend/internal/models"
)

// Response-shaped projections of the storage records. These are the only
// shapes handlers serialize; raw models never leave the service layer.

type UserSummary struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
}

type SessionSummary struct {
	ID        uint        `json:"id"`
	Code      string      `json:"code"`
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	Host      UserSummary `json:"host"`
	CreatedAt time.Time   `json:"created_at"`
}

type ParticipantSummary struct {
	User     UserSummary `json:"user"`
	Role     string      `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

type QuestionSummary struct {
	ID        uint         `json:"id"`
	SessionID uint         `json:"session_id"`
	Body      string       `json:"body"`
	Status    string       `json:"status"`
	Likes     int          `json:"likes"`
	Author    *UserSummary `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
}

type VoteResult struct {
	QuestionID uint `json:"question_id"`
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"total_likes"`
}

func newUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, DisplayName: u.DisplayName}
}

func newSessionSummary(s *models.Session, host *models.User) *SessionSummary {
	return &SessionSummary{
		ID:        s.ID,
		Code:      s.Code,
		Title:     s.Title,
		Status:    s.Status,
		Host:      newUserSummary(host),
		CreatedAt: s.CreatedAt,
	}
}

func newParticipantSummary(p *models.SessionParticipant) ParticipantSummary {
	return ParticipantSummary{
		User:     newUserSummary(&p.User),
		Role:     p.Role,
		JoinedAt: p.JoinedAt,
	}
}

// newQuestionSummary expects Author preloaded for attributed questions;
// anonymous questions project a nil author.
func newQuestionSummary(q *models.Question) QuestionSummary {
	summary := QuestionSummary{
		ID:        q.ID,
		SessionID: q.SessionID,
		Body:      q.Body,
		Status:    q.Status,
		Likes:     q.Likes,
		CreatedAt: q.CreatedAt,
	}
	if q.AuthorUserID != nil && q.Author != nil {
		author := newUserSummary(q.Author)
		summary.Author = &author
	}
	return summary
}
