package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`
	Level       string    `gorm:"size:20;not null" json:"level"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null" json:"teacher_id"`

	FilePath      string `gorm:"size:500" json:"file_path"`
	ExtractedText string `gorm:"type:text" json:"-"`
	IsProcessed   bool   `gorm:"not null;default:false" json:"is_processed"`

	CreatedAt time.Time `json:"created_at"`

	Subject Subject `gorm:"foreignkey:SubjectID" json:"subject,omitempty"`
	Teacher User    `gorm:"foreignkey:TeacherID" json:"-"`
}
