package models

import "github.com/google/uuid"

type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	ChoiceText string    `gorm:"size:500;not null" json:"choice_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"`
	Order      int       `gorm:"column:choice_order;not null;default:0" json:"order"`
}
