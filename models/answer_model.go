package models

import "github.com/google/uuid"

// Answer records one evaluated submission for a question within an attempt.
// Exactly one of SelectedChoiceID, BooleanValue, OpenAnswer is set, depending
// on the question's variant. Rows are written once and never mutated.
type Answer struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizAttemptID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_question" json:"quiz_attempt_id"`
	QuestionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_question" json:"question_id"`

	SelectedChoiceID *uuid.UUID `gorm:"type:uuid" json:"selected_choice_id"`
	BooleanValue     *bool      `json:"boolean_value"`
	OpenAnswer       string     `gorm:"type:text" json:"open_answer"`

	IsCorrect    bool `gorm:"not null;default:false" json:"is_correct"`
	PointsEarned int  `gorm:"not null;default:0" json:"points_earned"`

	QuizAttempt QuizAttempt `gorm:"foreignkey:QuizAttemptID" json:"-"`
	Question    Question    `gorm:"foreignkey:QuestionID" json:"-"`
}
