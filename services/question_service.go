package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/ai"
	"github.com/mbeleck/eduquiz/models"
	"gorm.io/gorm"
)

// QuestionService persists approved drafts as canonical questions. The
// question set of a quiz is always replaced wholesale, never patched.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// ReplaceQuestions validates the approved drafts again at the storage
// boundary, then deletes and recreates the quiz's whole question set in one
// transaction. Only the teacher owning the quiz's course (or an admin) may
// do this.
func (s *QuestionService) ReplaceQuestions(callerID uuid.UUID, callerRole string, quizID uuid.UUID, drafts []ai.QuestionDraft) ([]models.Question, error) {
	if len(drafts) == 0 {
		return nil, ErrNoQuestions
	}
	for i, d := range drafts {
		if err := ai.ValidateDraft(d); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	var created []models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		err := tx.Preload("Course").First(&quiz, "id = ?", quizID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if callerRole != "admin" && quiz.Course.TeacherID != callerID {
			return ErrForbidden
		}

		var questionIDs []uuid.UUID
		err = tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error
		if err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Choice{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}

		created = make([]models.Question, 0, len(drafts))
		for order, d := range drafts {
			question := models.Question{
				ID:           uuid.New(),
				QuizID:       quizID,
				QuestionText: d.QuestionText,
				Variant:      d.Variant,
				Points:       d.Points,
				Explanation:  d.Explanation,
				Order:        order,
			}
			for i, c := range d.Choices {
				question.Choices = append(question.Choices, models.Choice{
					ID:         uuid.New(),
					QuestionID: question.ID,
					ChoiceText: c.Text,
					IsCorrect:  c.IsCorrect,
					Order:      i,
				})
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			created = append(created, question)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Publish marks a quiz as playable. A quiz without questions cannot be
// published.
func (s *QuestionService) Publish(callerID uuid.UUID, callerRole string, quizID uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Course").Preload("Questions").First(&quiz, "id = ?", quizID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if callerRole != "admin" && quiz.Course.TeacherID != callerID {
			return ErrForbidden
		}
		if len(quiz.Questions) == 0 {
			return ErrNoQuestions
		}
		quiz.IsPublished = true
		return tx.Model(&models.Quiz{}).Where("id = ?", quizID).Update("is_published", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
