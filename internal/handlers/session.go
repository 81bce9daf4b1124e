package handlers

import (
	"net/http"
	"strconv"

	"classengage-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type CreateSessionRequest struct {
	Title           string `json:"title" binding:"required,max=200" example:"Physics 101 Q&A"`
	HostDisplayName string `json:"host_display_name" binding:"required,max=100" example:"Dr. X"`
}

type JoinSessionRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100" example:"Alice"`
}

type UpdateSessionRequest struct {
	Title  *string `json:"title,omitempty" example:"Physics 101 Q&A (week 2)"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=draft active ended" example:"active"`
}

// CreateSession godoc
// @Summary      Create a session
// @Description  Create a Q&A session with a generated join code. The host user is created on first sighting of the display name.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} services.SessionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.sessions.CreateSession(c.Request.Context(), req.Title, req.HostDisplayName)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// ListRecentSessions godoc
// @Summary      List recent sessions
// @Description  Get joinable (draft or active) sessions, newest first
// @Tags         sessions
// @Produce      json
// @Param        limit query int false "Maximum number of sessions" default(10) minimum(1)
// @Success      200 {array} services.SessionSummary
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) ListRecentSessions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		return
	}

	summaries, err := h.sessions.GetRecentSessions(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetSession godoc
// @Summary      Get session details
// @Description  Look up a session by its join code
// @Tags         sessions
// @Produce      json
// @Param        code path string true "Join code"
// @Success      200 {object} services.SessionSummary
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	summary, err := h.sessions.GetSessionDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UpdateSession godoc
// @Summary      Update a session
// @Description  Partially update a session's title and/or status. Status only moves forward: draft, active, ended.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        code path string true "Join code"
// @Param        request body UpdateSessionRequest true "Fields to update"
// @Success      200 {object} services.SessionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{code} [patch]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.sessions.UpdateSession(c.Request.Context(), c.Param("code"), req.Title, req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// JoinSession godoc
// @Summary      Join a session
// @Description  Join by code and display name. Joining twice with the same name is idempotent; the session host always keeps the host role.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        code path string true "Join code"
// @Param        request body JoinSessionRequest true "Participant data"
// @Success      200 {object} services.SessionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/join [post]
func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.sessions.JoinSession(c.Request.Context(), c.Param("code"), req.DisplayName)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListParticipants godoc
// @Summary      List session participants
// @Description  Get the roster for a session, host first, then by join order
// @Tags         sessions
// @Produce      json
// @Param        code path string true "Join code"
// @Success      200 {array} services.ParticipantSummary
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/participants [get]
func (h *SessionHandler) ListParticipants(c *gin.Context) {
	summaries, err := h.sessions.GetSessionParticipants(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
