package models

import "github.com/google/uuid"

// QuestionVariant is the closed set of answer formats a question can have.
type QuestionVariant string

const (
	VariantMultipleChoice QuestionVariant = "mcq"
	VariantTrueFalse      QuestionVariant = "true_false"
	VariantOpenEnded      QuestionVariant = "open"
)

// Valid reports whether v is one of the recognized variants.
func (v QuestionVariant) Valid() bool {
	switch v {
	case VariantMultipleChoice, VariantTrueFalse, VariantOpenEnded:
		return true
	}
	return false
}

type Question struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuizID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"quiz_id"`
	QuestionText string          `gorm:"type:text;not null" json:"question_text"`
	Variant      QuestionVariant `gorm:"size:20;not null;default:'mcq'" json:"variant"`
	Points       int             `gorm:"not null;default:5" json:"points"`
	Explanation  string          `gorm:"type:text" json:"explanation"`
	Order        int             `gorm:"column:question_order;not null;default:0" json:"order"`

	Choices []Choice `gorm:"foreignkey:QuestionID" json:"choices,omitempty"`
}
