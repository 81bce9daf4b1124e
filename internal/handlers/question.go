package handlers

import (
	"net/http"
	"strconv"

	"classengage-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	sessions  *services.SessionService
	questions *services.QuestionService
}

func NewQuestionHandler(sessions *services.SessionService, questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{sessions: sessions, questions: questions}
}

type SubmitQuestionRequest struct {
	UserID uint   `json:"user_id" binding:"required" example:"42"`
	Body   string `json:"body" binding:"required" example:"How does entanglement work?"`
}

type UpdateQuestionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending answered" example:"answered"`
}

type VoteRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"42"`
}

// ListQuestions godoc
// @Summary      List session questions
// @Description  Get a session's questions, newest first, optionally filtered by status
// @Tags         questions
// @Produce      json
// @Param        code path string true "Join code"
// @Param        status query string false "Status filter" Enums(pending, answered)
// @Success      200 {array} services.QuestionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	summaries, err := h.sessions.GetSessionQuestions(c.Request.Context(), c.Param("code"), c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// SubmitQuestion godoc
// @Summary      Submit a question
// @Description  Submit a pending question to a session. The caller must be a participant and may hold at most 3 pending questions per session.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        code path string true "Join code"
// @Param        request body SubmitQuestionRequest true "Question data"
// @Success      201 {object} services.QuestionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/questions [post]
func (h *QuestionHandler) SubmitQuestion(c *gin.Context) {
	var req SubmitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.sessions.SubmitQuestion(c.Request.Context(), c.Param("code"), req.UserID, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// UpdateQuestion godoc
// @Summary      Update a question's status
// @Description  Mark a question answered or move it back to pending
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        code path string true "Join code"
// @Param        id path int true "Question ID"
// @Param        request body UpdateQuestionRequest true "New status"
// @Success      200 {object} services.QuestionSummary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/questions/{id} [patch]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.questions.UpdateStatus(c.Request.Context(), c.Param("code"), uint(questionID), req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ToggleVote godoc
// @Summary      Toggle a like on a question
// @Description  Like a question, or remove the caller's existing like. The caller must be a session participant.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        code path string true "Join code"
// @Param        id path int true "Question ID"
// @Param        request body VoteRequest true "Voter"
// @Success      200 {object} services.VoteResult
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/questions/{id}/vote [post]
func (h *QuestionHandler) ToggleVote(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.questions.ToggleVote(c.Request.Context(), c.Param("code"), uint(questionID), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
