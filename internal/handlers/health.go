package handlers

import (
	"net/http"

	"classengage-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthStatus struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Hello World!"`
}

type DatabasePingResult struct {
	InsertedID uint  `json:"inserted_id" example:"1"`
	TotalRows  int64 `json:"total_rows" example:"1"`
}

// Health godoc
// @Summary      API health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthStatus
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{Status: "ok", Message: "Hello World!"})
}

// DBPing godoc
// @Summary      Database health check
// @Description  Insert a health-check row and report the running total
// @Tags         health
// @Produce      json
// @Success      200 {object} DatabasePingResult
// @Failure      500 {object} ErrorResponse
// @Router       /db/ping [post]
func (h *HealthHandler) DBPing(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	check := models.HealthCheck{}
	if err := db.Create(&check).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	var total int64
	if err := db.Model(&models.HealthCheck{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, DatabasePingResult{InsertedID: check.ID, TotalRows: total})
}
