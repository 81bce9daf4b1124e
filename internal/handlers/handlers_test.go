package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"classengage-backend/internal/models"
	"classengage-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Every :memory: connection is its own database; cap the pool so all
	// statements hit the one that was migrated.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.SessionParticipant{},
		&models.Question{},
		&models.QuestionVote{},
		&models.HealthCheck{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sessionService := services.NewSessionService(db)
	questionService := services.NewQuestionService(db)

	sessionHandler := NewSessionHandler(sessionService)
	questionHandler := NewQuestionHandler(sessionService, questionService)
	healthHandler := NewHealthHandler(db)

	r := gin.New()
	r.GET("/health", healthHandler.Health)
	r.POST("/db/ping", healthHandler.DBPing)

	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", sessionHandler.CreateSession)
		sessions.GET("", sessionHandler.ListRecentSessions)
		sessions.GET("/:code", sessionHandler.GetSession)
		sessions.PATCH("/:code", sessionHandler.UpdateSession)
		sessions.POST("/:code/join", sessionHandler.JoinSession)
		sessions.GET("/:code/participants", sessionHandler.ListParticipants)
		sessions.GET("/:code/questions", questionHandler.ListQuestions)
		sessions.POST("/:code/questions", questionHandler.SubmitQuestion)
		sessions.PATCH("/:code/questions/:id", questionHandler.UpdateQuestion)
		sessions.POST("/:code/questions/:id/vote", questionHandler.ToggleVote)
	}

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createTestSession(t *testing.T, r *gin.Engine, title, host string) services.SessionSummary {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"title":             title,
		"host_display_name": host,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.SessionSummary](t, w)
}

func TestCreateSessionEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	summary := createTestSession(t, r, "Physics", "Dr. X")
	assert.Len(t, summary.Code, 6)
	assert.Equal(t, "draft", summary.Status)
	assert.Equal(t, "Dr. X", summary.Host.DisplayName)

	// Missing title fails schema validation.
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", gin.H{"host_display_name": "Dr. X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Whitespace-only host name passes binding but fails in the service.
	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"title":             "Physics",
		"host_display_name": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSessionEndpointHostLimit(t *testing.T) {
	r, _ := setupRouter(t)

	for i := 0; i < services.HostSessionLimit; i++ {
		createTestSession(t, r, fmt.Sprintf("Session %d", i), "Dr. X")
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"title":             "One too many",
		"host_display_name": "Dr. X",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListRecentSessionsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	createTestSession(t, r, "Physics", "Dr. X")
	createTestSession(t, r, "Chemistry", "Dr. Y")

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decode[[]services.SessionSummary](t, w)
	assert.Len(t, summaries, 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries = decode[[]services.SessionSummary](t, w)
	assert.Len(t, summaries, 1)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.Code, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[services.SessionSummary](t, w)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Host, fetched.Host)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/UNKNOWN", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinSessionEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "Alice"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/UNKNOWN/join", gin.H{"display_name": "Alice"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// End the session; joining now conflicts.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/sessions/"+created.Code, gin.H{"status": "ended"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "Bob"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateSessionEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")

	w := doJSON(t, r, http.MethodPatch, "/api/v1/sessions/"+created.Code, gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[services.SessionSummary](t, w)
	assert.Equal(t, "active", updated.Status)

	// Backwards transition conflicts.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/sessions/"+created.Code, gin.H{"status": "draft"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown status fails schema validation.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/sessions/"+created.Code, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParticipantsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")
	doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "Alice"})

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.Code+"/participants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	roster := decode[[]services.ParticipantSummary](t, w)
	require.Len(t, roster, 2)
	assert.Equal(t, "host", roster[0].Role)
	assert.Equal(t, "Dr. X", roster[0].User.DisplayName)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/UNKNOWN/participants", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuestionEndpoints(t *testing.T) {
	r, db := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")
	doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "Alice"})

	var alice models.User
	require.NoError(t, db.Where("display_name = ?", "Alice").First(&alice).Error)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/questions", gin.H{
		"user_id": alice.ID,
		"body":    "What is entropy?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	question := decode[services.QuestionSummary](t, w)
	assert.Equal(t, "pending", question.Status)
	require.NotNil(t, question.Author)
	assert.Equal(t, "Alice", question.Author.DisplayName)

	// Non-participants are forbidden.
	outsider := models.User{DisplayName: "Mallory"}
	require.NoError(t, db.Create(&outsider).Error)
	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/questions", gin.H{
		"user_id": outsider.ID,
		"body":    "Let me in?",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Listing with a bogus filter is rejected.
	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.Code+"/questions?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.Code+"/questions?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]services.QuestionSummary](t, w)
	require.Len(t, listed, 1)

	// Moderation: mark answered.
	path := fmt.Sprintf("/api/v1/sessions/%s/questions/%d", created.Code, question.ID)
	w = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "answered"})
	require.Equal(t, http.StatusOK, w.Code)
	answered := decode[services.QuestionSummary](t, w)
	assert.Equal(t, "answered", answered.Status)

	// Vote toggle on and off.
	votePath := path + "/vote"
	w = doJSON(t, r, http.MethodPost, votePath, gin.H{"user_id": alice.ID})
	require.Equal(t, http.StatusOK, w.Code)
	vote := decode[services.VoteResult](t, w)
	assert.True(t, vote.Liked)
	assert.Equal(t, 1, vote.TotalLikes)

	w = doJSON(t, r, http.MethodPost, votePath, gin.H{"user_id": alice.ID})
	require.Equal(t, http.StatusOK, w.Code)
	vote = decode[services.VoteResult](t, w)
	assert.False(t, vote.Liked)
	assert.Equal(t, 0, vote.TotalLikes)

	// Voting as a non-participant is forbidden.
	w = doJSON(t, r, http.MethodPost, votePath, gin.H{"user_id": outsider.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bad question id in the path.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/sessions/"+created.Code+"/questions/abc", gin.H{"status": "answered"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionLimitEndpoint(t *testing.T) {
	r, db := setupRouter(t)

	created := createTestSession(t, r, "Physics", "Dr. X")
	doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/join", gin.H{"display_name": "Alice"})

	var alice models.User
	require.NoError(t, db.Where("display_name = ?", "Alice").First(&alice).Error)

	for i := 0; i < services.PendingQuestionLimit; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/questions", gin.H{
			"user_id": alice.ID,
			"body":    fmt.Sprintf("Question %d?", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.Code+"/questions", gin.H{
		"user_id": alice.ID,
		"body":    "One more?",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[HealthStatus](t, w)
	assert.Equal(t, "ok", status.Status)

	w = doJSON(t, r, http.MethodPost, "/db/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ping := decode[DatabasePingResult](t, w)
	assert.EqualValues(t, 1, ping.TotalRows)
	assert.NotZero(t, ping.InsertedID)

	w = doJSON(t, r, http.MethodPost, "/db/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ping = decode[DatabasePingResult](t, w)
	assert.EqualValues(t, 2, ping.TotalRows)
}
