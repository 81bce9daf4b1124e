package models

import "time"

// QuestionVote records one like per user per question. Toggling a vote
// inserts or deletes a row and adjusts the question's likes counter.
type QuestionVote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_vote_question_voter" json:"question_id"`
	VoterUserID uint      `gorm:"not null;uniqueIndex:idx_vote_question_voter" json:"voter_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
