package services

import (
	"context"
	"errors"
	"time"

	"classengage-backend/internal/models"

	"gorm.io/gorm"
)

// QuestionService covers the moderation surface: marking questions
// answered and toggling likes. Marking a question answered frees one slot
// under the author's pending-question cap.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// UpdateStatus moves a question between pending and answered. Entering
// answered stamps answered_at; returning to pending clears it.
func (s *QuestionService) UpdateStatus(ctx context.Context, code string, questionID uint, status string) (*QuestionSummary, error) {
	if status != models.QuestionStatusPending && status != models.QuestionStatusAnswered {
		return nil, ErrInvalidQuestionStatus
	}

	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}

	question, err := questionInSession(db, session.ID, questionID)
	if err != nil {
		return nil, err
	}

	if status != question.Status {
		if status == models.QuestionStatusAnswered {
			now := time.Now()
			question.AnsweredAt = &now
		} else {
			question.AnsweredAt = nil
		}
		question.Status = status
		if err := db.Save(question).Error; err != nil {
			return nil, err
		}
	}

	if question.AuthorUserID != nil {
		var author models.User
		if err := db.First(&author, *question.AuthorUserID).Error; err == nil {
			question.Author = &author
		}
	}
	summary := newQuestionSummary(question)
	return &summary, nil
}

// ToggleVote likes a question on behalf of a participant, or removes the
// like if one exists. The vote row and the likes counter change in the
// same transaction; (question_id, voter_user_id) is unique so double
// voting cannot inflate the counter.
func (s *QuestionService) ToggleVote(ctx context.Context, code string, questionID, voterUserID uint) (*VoteResult, error) {
	var result VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := sessionByCode(tx, code)
		if err != nil {
			return err
		}

		question, err := questionInSession(tx, session.ID, questionID)
		if err != nil {
			return err
		}

		var participant models.SessionParticipant
		err = tx.Where("session_id = ? AND user_id = ?", session.ID, voterUserID).
			First(&participant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}

		removed := tx.Where("question_id = ? AND voter_user_id = ?", question.ID, voterUserID).
			Delete(&models.QuestionVote{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			result.Liked = false
			err = tx.Model(&models.Question{}).
				Where("id = ? AND likes > 0", question.ID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error
		} else {
			vote := models.QuestionVote{QuestionID: question.ID, VoterUserID: voterUserID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result.Liked = true
			err = tx.Model(&models.Question{}).
				Where("id = ?", question.ID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error
		}
		if err != nil {
			return err
		}

		var refreshed models.Question
		if err := tx.First(&refreshed, question.ID).Error; err != nil {
			return err
		}
		result.QuestionID = refreshed.ID
		result.TotalLikes = refreshed.Likes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func questionInSession(db *gorm.DB, sessionID, questionID uint) (*models.Question, error) {
	var question models.Question
	err := db.Where("id = ? AND session_id = ?", questionID, sessionID).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}
