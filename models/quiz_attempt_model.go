package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is one student's pass over a quiz. At most one incomplete
// attempt may exist per (user, quiz); completed attempts are immutable.
type QuizAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Score       int        `gorm:"not null;default:0" json:"score"`
	TotalPoints int        `gorm:"not null;default:0" json:"total_points"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`

	User    User     `gorm:"foreignkey:UserID" json:"-"`
	Quiz    Quiz     `gorm:"foreignkey:QuizID" json:"-"`
	Answers []Answer `gorm:"foreignkey:QuizAttemptID" json:"answers,omitempty"`
}

// Percentage is the rounded score/totalPoints ratio shown on result views.
func (a *QuizAttempt) Percentage() int {
	if a.TotalPoints <= 0 {
		return 0
	}
	return int(float64(a.Score)/float64(a.TotalPoints)*100 + 0.5)
}
