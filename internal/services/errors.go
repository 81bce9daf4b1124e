package services

import "errors"

// Failure taxonomy for the session lifecycle service. Handlers map these
// to HTTP statuses with errors.Is; no string matching anywhere.
var (
	// validation (caller's fault, nothing written)
	ErrInvalidHostDisplayName = errors.New("host display name is required")
	ErrInvalidDisplayName     = errors.New("display name is required")
	ErrInvalidQuestionBody    = errors.New("question body must be between 1 and 280 characters")
	ErrInvalidTitle           = errors.New("title must be between 1 and 200 characters")
	ErrInvalidStatusFilter    = errors.New("status filter must be pending or answered")
	ErrInvalidQuestionStatus  = errors.New("question status must be pending or answered")

	// not found
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")

	// conflict (valid request, current state forbids it)
	ErrSessionNotJoinable      = errors.New("session has ended")
	ErrHostSessionLimit        = errors.New("host has reached the maximum number of active sessions")
	ErrQuestionLimit           = errors.New("user has reached the maximum number of pending questions")
	ErrInvalidStatusTransition = errors.New("invalid session status transition")
	ErrCodeCollisionExhausted  = errors.New("failed to generate a unique join code")

	// forbidden
	ErrNotParticipant = errors.New("user is not a participant in this session")
)
