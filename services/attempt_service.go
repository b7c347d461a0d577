package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/models"
	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle: idempotent start, atomic submit
// with evaluation and reward propagation, and result retrieval.
type AttemptService struct {
	db        *gorm.DB
	evaluator *Evaluator
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db, evaluator: NewEvaluator()}
}

// SubmitOutcome is what a successful finalization returns to the caller.
type SubmitOutcome struct {
	Attempt  models.QuizAttempt
	Progress Progress
}

// Start returns the caller's open attempt for the quiz, creating one if none
// exists. TotalPoints is frozen at creation time. Concurrent starts for the
// same (user, quiz) are resolved by the partial unique index on open
// attempts: the loser of the race adopts the winner's row.
func (s *AttemptService) Start(userID, quizID uuid.UUID) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		err := tx.Preload("Questions").First(&quiz, "id = ? AND is_published = ?", quizID, true).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(quiz.Questions) == 0 {
			return ErrNoQuestions
		}

		err = tx.Where("user_id = ? AND quiz_id = ? AND is_completed = ?", userID, quizID, false).
			First(&attempt).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total := 0
		for _, q := range quiz.Questions {
			total += q.Points
		}

		attempt = models.QuizAttempt{
			ID:          uuid.New(),
			UserID:      userID,
			QuizID:      quizID,
			StartedAt:   time.Now(),
			TotalPoints: total,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return tx.Where("user_id = ? AND quiz_id = ? AND is_completed = ?", userID, quizID, false).
					First(&attempt).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Submit finalizes an attempt in one atomic step: every answer is evaluated
// and recorded, the attempt is finalized with its score, and the reward is
// propagated. If any part fails, nothing is persisted.
func (s *AttemptService) Submit(userID, attemptID uuid.UUID, answers map[uuid.UUID]AnswerInput) (*SubmitOutcome, error) {
	var outcome SubmitOutcome

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var attempt models.QuizAttempt
		err := tx.First(&attempt, "id = ?", attemptID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if attempt.UserID != userID {
			return ErrForbidden
		}
		if attempt.IsCompleted {
			return ErrAttemptCompleted
		}

		var questions []models.Question
		err = tx.Preload("Choices").Where("quiz_id = ?", attempt.QuizID).Find(&questions).Error
		if err != nil {
			return err
		}
		questionByID := make(map[uuid.UUID]models.Question, len(questions))
		for _, q := range questions {
			questionByID[q.ID] = q
		}

		score := 0
		rows := make([]models.Answer, 0, len(answers))
		for questionID, input := range answers {
			question, ok := questionByID[questionID]
			if !ok {
				return ErrInvalidQuestionReference
			}

			ev, err := s.evaluator.Evaluate(question, input)
			if err != nil {
				return err
			}

			rows = append(rows, models.Answer{
				ID:               uuid.New(),
				QuizAttemptID:    attempt.ID,
				QuestionID:       questionID,
				SelectedChoiceID: ev.SelectedChoiceID,
				BooleanValue:     ev.BooleanValue,
				OpenAnswer:       ev.OpenAnswer,
				IsCorrect:        ev.IsCorrect,
				PointsEarned:     ev.PointsEarned,
			})
			score += ev.PointsEarned
		}

		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAttemptCompleted
				}
				return err
			}
		}

		now := time.Now()
		res := tx.Model(&models.QuizAttempt{}).
			Where("id = ? AND is_completed = ?", attempt.ID, false).
			Updates(map[string]interface{}{
				"score":        score,
				"completed_at": now,
				"is_completed": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// another submission finalized this attempt first
			return ErrAttemptCompleted
		}

		progress, err := AwardPoints(tx, userID, score)
		if err != nil {
			return err
		}

		attempt.Score = score
		attempt.CompletedAt = &now
		attempt.IsCompleted = true
		outcome = SubmitOutcome{Attempt: attempt, Progress: progress}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Results loads the full breakdown of a completed attempt owned by the
// caller.
func (s *AttemptService) Results(userID, attemptID uuid.UUID) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Question.Choices").
		First(&attempt, "id = ? AND is_completed = ?", attemptID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrForbidden
	}
	return &attempt, nil
}
