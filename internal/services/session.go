package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"classengage-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// HostSessionLimit caps the number of non-ended sessions one host may
	// own at a time.
	HostSessionLimit = 3
	// PendingQuestionLimit caps pending questions per user per session.
	PendingQuestionLimit = 3

	maxTitleLength    = 200
	maxQuestionLength = 280

	defaultRecentSessions = 10
)

// SessionService owns session creation, participant admission and question
// submission. It holds no state between calls; the database is the only
// shared resource.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession resolves or creates the host user, enforces the host
// session limit, generates a unique join code and writes the session plus
// the host's participant row in one transaction.
func (s *SessionService) CreateSession(ctx context.Context, title, hostDisplayName string) (*SessionSummary, error) {
	cleanTitle := strings.TrimSpace(title)
	if cleanTitle == "" || utf8.RuneCountInString(cleanTitle) > maxTitleLength {
		return nil, ErrInvalidTitle
	}

	name := strings.TrimSpace(hostDisplayName)
	if name == "" {
		return nil, ErrInvalidHostDisplayName
	}

	db := s.db.WithContext(ctx)

	// Get-or-create runs outside the transaction below so a lost create
	// race can re-fetch without aborting it.
	host, err := resolveUser(db, name)
	if err != nil {
		return nil, err
	}

	var session models.Session
	err = db.Transaction(func(tx *gorm.DB) error {
		// The self-assignment takes a row lock on the host's user row,
		// serializing concurrent creates by the same host so the limit
		// count below is exact.
		if err := tx.Model(&models.User{}).Where("id = ?", host.ID).
			Update("display_name", host.DisplayName).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Session{}).
			Where("host_user_id = ? AND status IN ?", host.ID,
				[]string{models.SessionStatusDraft, models.SessionStatusActive}).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= HostSessionLimit {
			return ErrHostSessionLimit
		}

		code, err := generateUniqueCode(func(code string) (bool, error) {
			var count int64
			err := tx.Model(&models.Session{}).Where("code = ?", code).Count(&count).Error
			return count > 0, err
		})
		if err != nil {
			return err
		}

		session = models.Session{
			HostUserID: host.ID,
			Title:      cleanTitle,
			Code:       code,
			Status:     models.SessionStatusDraft,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		_, err = upsertParticipant(tx, session.ID, host.ID, models.ParticipantRoleHost)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newSessionSummary(&session, host), nil
}

// GetRecentSessions returns non-ended sessions, newest first. Sessions
// whose host row cannot be resolved are omitted.
func (s *SessionService) GetRecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = defaultRecentSessions
	}

	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{models.SessionStatusDraft, models.SessionStatusActive}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Preload("Host").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		if sessions[i].Host.ID == 0 {
			continue
		}
		summaries = append(summaries, *newSessionSummary(&sessions[i], &sessions[i].Host))
	}
	return summaries, nil
}

// GetSessionDetails returns the summary for the session with the given
// join code.
func (s *SessionService) GetSessionDetails(ctx context.Context, code string) (*SessionSummary, error) {
	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}

	var host models.User
	if err := db.First(&host, session.HostUserID).Error; err != nil {
		return nil, err
	}
	return newSessionSummary(session, &host), nil
}

// GetSessionParticipants returns the roster for a session, host first,
// then by join order.
func (s *SessionService) GetSessionParticipants(ctx context.Context, code string) ([]ParticipantSummary, error) {
	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}

	var participants []models.SessionParticipant
	err = db.Where("session_id = ?", session.ID).
		Order(fmt.Sprintf("CASE WHEN role = '%s' THEN 0 ELSE 1 END, joined_at ASC",
			models.ParticipantRoleHost)).
		Preload("User").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ParticipantSummary, len(participants))
	for i := range participants {
		summaries[i] = newParticipantSummary(&participants[i])
	}
	return summaries, nil
}

// GetSessionQuestions returns a session's questions, newest first,
// optionally restricted to one status.
func (s *SessionService) GetSessionQuestions(ctx context.Context, code, statusFilter string) ([]QuestionSummary, error) {
	if statusFilter != "" &&
		statusFilter != models.QuestionStatusPending &&
		statusFilter != models.QuestionStatusAnswered {
		return nil, ErrInvalidStatusFilter
	}

	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}

	query := db.Where("session_id = ?", session.ID)
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var questions []models.Question
	err = query.Order("created_at DESC, id DESC").Preload("Author").Find(&questions).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]QuestionSummary, len(questions))
	for i := range questions {
		summaries[i] = newQuestionSummary(&questions[i])
	}
	return summaries, nil
}

// JoinSession admits a user into a session. Joining is idempotent: the
// participant row is a single conditional upsert keyed on
// (session_id, user_id), and the role is recomputed from the session's
// host_user_id on every call so a returning host is never demoted.
func (s *SessionService) JoinSession(ctx context.Context, code, displayName string) (*SessionSummary, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrInvalidDisplayName
	}

	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusEnded {
		return nil, ErrSessionNotJoinable
	}

	user, err := resolveUser(db, name)
	if err != nil {
		return nil, err
	}

	role := models.ParticipantRoleParticipant
	if user.ID == session.HostUserID {
		role = models.ParticipantRoleHost
	}

	if _, err := upsertParticipant(db, session.ID, user.ID, role); err != nil {
		return nil, err
	}

	host := user
	if user.ID != session.HostUserID {
		var hostRow models.User
		if err := db.First(&hostRow, session.HostUserID).Error; err != nil {
			return nil, err
		}
		host = &hostRow
	}
	return newSessionSummary(session, host), nil
}

// SubmitQuestion records a pending question from a participant. The
// participant row is locked for the duration of the transaction so the
// pending-question count and the insert act as one unit and the cap of
// PendingQuestionLimit is exact under concurrent submissions.
func (s *SessionService) SubmitQuestion(ctx context.Context, code string, userID uint, body string) (*QuestionSummary, error) {
	cleanBody := strings.TrimSpace(body)
	if cleanBody == "" || utf8.RuneCountInString(cleanBody) > maxQuestionLength {
		return nil, ErrInvalidQuestionBody
	}

	var (
		question models.Question
		author   models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := sessionByCode(tx, code)
		if err != nil {
			return err
		}
		if session.Status == models.SessionStatusEnded {
			return ErrSessionNotJoinable
		}

		// Self-assignment takes the row lock on the participant row; a
		// concurrent submission by the same user blocks here until this
		// transaction commits.
		lock := tx.Model(&models.SessionParticipant{}).
			Where("session_id = ? AND user_id = ?", session.ID, userID).
			Update("user_id", userID)
		if lock.Error != nil {
			return lock.Error
		}
		if lock.RowsAffected == 0 {
			return ErrNotParticipant
		}

		if err := tx.First(&author, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}

		var pending int64
		err = tx.Model(&models.Question{}).
			Where("session_id = ? AND author_user_id = ? AND status = ?",
				session.ID, userID, models.QuestionStatusPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending >= PendingQuestionLimit {
			return ErrQuestionLimit
		}

		question = models.Question{
			SessionID:    session.ID,
			AuthorUserID: &userID,
			Body:         cleanBody,
			Status:       models.QuestionStatusPending,
			Likes:        0,
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, err
	}

	question.Author = &author
	summary := newQuestionSummary(&question)
	return &summary, nil
}

// UpdateSession applies partial updates to a session's title and status.
// Status moves forward only: draft -> active -> ended, with draft -> ended
// allowed; entering active stamps started_at, entering ended stamps
// ended_at.
func (s *SessionService) UpdateSession(ctx context.Context, code string, title, status *string) (*SessionSummary, error) {
	db := s.db.WithContext(ctx)

	session, err := sessionByCode(db, code)
	if err != nil {
		return nil, err
	}

	if title != nil {
		cleanTitle := strings.TrimSpace(*title)
		if cleanTitle == "" || utf8.RuneCountInString(cleanTitle) > maxTitleLength {
			return nil, ErrInvalidTitle
		}
		session.Title = cleanTitle
	}

	if status != nil && *status != session.Status {
		now := time.Now()
		switch {
		case session.Status == models.SessionStatusDraft && *status == models.SessionStatusActive:
			session.StartedAt = &now
		case session.Status != models.SessionStatusEnded && *status == models.SessionStatusEnded:
			session.EndedAt = &now
		default:
			return nil, ErrInvalidStatusTransition
		}
		session.Status = *status
	}

	if err := db.Save(session).Error; err != nil {
		return nil, err
	}

	var host models.User
	if err := db.First(&host, session.HostUserID).Error; err != nil {
		return nil, err
	}
	return newSessionSummary(session, &host), nil
}

func sessionByCode(db *gorm.DB, code string) (*models.Session, error) {
	var session models.Session
	if err := db.Where("code = ?", code).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// upsertParticipant inserts the participant row or, when the
// (session_id, user_id) row already exists, updates its role to the
// computed value in the same statement.
func upsertParticipant(db *gorm.DB, sessionID, userID uint, role string) (*models.SessionParticipant, error) {
	participant := models.SessionParticipant{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"role": role}),
	}).Create(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}
