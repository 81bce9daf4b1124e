package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"classengage-backend/internal/config"
	"classengage-backend/internal/database"
	"classengage-backend/internal/handlers"
	"classengage-backend/internal/middleware"
	"classengage-backend/internal/services"

	_ "classengage-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// @title           ClassEngage API
// @version         0.1.0
// @description     Live Q&A sessions: hosts create sessions, participants join via a short code and submit moderated questions.
// @host            localhost:8080
// @BasePath        /

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	sessionService := services.NewSessionService(db)
	questionService := services.NewQuestionService(db)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	questionHandler := handlers.NewQuestionHandler(sessionService, questionService)
	healthHandler := handlers.NewHealthHandler(db)

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigins},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", healthHandler.Health)
	r.POST("/db/ping", healthHandler.DBPing)

	api := r.Group("/api/v1")
	{
		sessions := api.Group("/sessions")
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
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
