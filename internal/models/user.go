package models

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"size:100;uniqueIndex;not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
