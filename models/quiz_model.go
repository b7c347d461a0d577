package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`
	Level       string    `gorm:"size:20;not null" json:"level"`
	Difficulty  string    `gorm:"size:10;not null;default:'medium'" json:"difficulty"`
	TimeLimit   int       `gorm:"not null;default:15" json:"time_limit"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`

	Course    Course     `gorm:"foreignkey:CourseID" json:"-"`
	Subject   Subject    `gorm:"foreignkey:SubjectID" json:"subject,omitempty"`
	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`
}
