package models

import "time"

// HealthCheck rows are written by the /db/ping endpoint to exercise the
// database end to end.
type HealthCheck struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CheckedAt time.Time `gorm:"autoCreateTime" json:"checked_at"`
}

func (HealthCheck) TableName() string {
	return "app_health_checks"
}
