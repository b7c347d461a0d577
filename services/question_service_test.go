package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/ai"
	"github.com/mbeleck/eduquiz/models"
	"github.com/mbeleck/eduquiz/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDrafts() []ai.QuestionDraft {
	return []ai.QuestionDraft{
		{
			QuestionText: "Combien de côtés a un triangle ?",
			Variant:      models.VariantMultipleChoice,
			Difficulty:   "easy",
			Points:       5,
			Choices: []ai.ChoiceDraft{
				{Text: "Trois", IsCorrect: true},
				{Text: "Quatre", IsCorrect: false},
			},
		},
		{
			QuestionText: "Un triangle équilatéral a trois angles égaux.",
			Variant:      models.VariantTrueFalse,
			Difficulty:   "easy",
			Points:       5,
			Choices: []ai.ChoiceDraft{
				{Text: "Vrai", IsCorrect: true},
				{Text: "Faux", IsCorrect: false},
			},
		},
		{
			QuestionText: "Énoncez le théorème de Pythagore.",
			Variant:      models.VariantOpenEnded,
			Difficulty:   "medium",
			Points:       10,
		},
	}
}

func TestReplaceQuestions(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher", "teacher")
	quiz, original := seedPublishedQuiz(t, db, teacher)
	svc := services.NewQuestionService(db)

	created, err := svc.ReplaceQuestions(teacher.ID, "teacher", quiz.ID, sampleDrafts())
	require.NoError(t, err)
	require.Len(t, created, 3)

	t.Run("order follows the draft list", func(t *testing.T) {
		for i, q := range created {
			assert.Equal(t, i, q.Order)
		}
	})

	t.Run("old questions and choices are gone", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.Question{}).
			Where("id = ?", original[0].ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)

		require.NoError(t, db.Model(&models.Choice{}).
			Where("question_id = ?", original[0].ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("choices are stored with the question", func(t *testing.T) {
		var stored models.Question
		require.NoError(t, db.Preload("Choices").First(&stored, "id = ?", created[0].ID).Error)
		require.Len(t, stored.Choices, 2)
		assert.Equal(t, "Trois", stored.Choices[0].ChoiceText)
		assert.True(t, stored.Choices[0].IsCorrect)
	})

	t.Run("a second replace swaps the whole set", func(t *testing.T) {
		again, err := svc.ReplaceQuestions(teacher.ID, "teacher", quiz.ID, sampleDrafts()[:1])
		require.NoError(t, err)
		require.Len(t, again, 1)

		var count int64
		require.NoError(t, db.Model(&models.Question{}).
			Where("quiz_id = ?", quiz.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestReplaceQuestionsGuards(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher", "teacher")
	intruder := seedUser(t, db, "intruder", "teacher")
	admin := seedUser(t, db, "admin", "admin")
	quiz, _ := seedPublishedQuiz(t, db, teacher)
	svc := services.NewQuestionService(db)

	t.Run("empty draft list", func(t *testing.T) {
		_, err := svc.ReplaceQuestions(teacher.ID, "teacher", quiz.ID, nil)
		assert.ErrorIs(t, err, services.ErrNoQuestions)
	})

	t.Run("invalid draft is rejected before any write", func(t *testing.T) {
		drafts := sampleDrafts()
		drafts[0].Choices = drafts[0].Choices[:1] // no wrong choice left
		_, err := svc.ReplaceQuestions(teacher.ID, "teacher", quiz.ID, drafts)
		assert.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Question{}).
			Where("quiz_id = ?", quiz.ID).Count(&count).Error)
		assert.EqualValues(t, 3, count)
	})

	t.Run("another teacher is refused", func(t *testing.T) {
		_, err := svc.ReplaceQuestions(intruder.ID, "teacher", quiz.ID, sampleDrafts())
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		_, err := svc.ReplaceQuestions(admin.ID, "admin", quiz.ID, sampleDrafts())
		assert.NoError(t, err)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := svc.ReplaceQuestions(teacher.ID, "teacher", uuid.New(), sampleDrafts())
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestPublishQuiz(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher", "teacher")
	intruder := seedUser(t, db, "intruder", "teacher")
	quiz, _ := seedPublishedQuiz(t, db, teacher)
	require.NoError(t, db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).
		Update("is_published", false).Error)
	svc := services.NewQuestionService(db)

	t.Run("another teacher is refused", func(t *testing.T) {
		_, err := svc.Publish(intruder.ID, "teacher", quiz.ID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("owner publishes", func(t *testing.T) {
		got, err := svc.Publish(teacher.ID, "teacher", quiz.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPublished)

		var stored models.Quiz
		require.NoError(t, db.First(&stored, "id = ?", quiz.ID).Error)
		assert.True(t, stored.IsPublished)
	})

	t.Run("quiz without questions cannot be published", func(t *testing.T) {
		empty := models.Quiz{
			ID:        uuid.New(),
			Title:     "Vide",
			CourseID:  quiz.CourseID,
			SubjectID: quiz.SubjectID,
			Level:     quiz.Level,
		}
		require.NoError(t, db.Create(&empty).Error)

		_, err := svc.Publish(teacher.ID, "teacher", empty.ID)
		assert.ErrorIs(t, err, services.ErrNoQuestions)
	})
}
