package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	// School class label (6eme .. terminale) used to match quizzes to students.
	Level *string `gorm:"size:20" json:"level"`

	Points       int `gorm:"not null;default:0" json:"points"`
	XP           int `gorm:"not null;default:0" json:"xp"`
	CurrentLevel int `gorm:"not null;default:1" json:"current_level"`

	// Maintained by an external calendar-aware service, never by this core.
	StreakDays int `gorm:"not null;default:0" json:"streak_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
