package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Course{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizAttempt{},
		&models.Answer{},
		&models.LeaderboardEntry{},
	))
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_attempt
		ON quiz_attempts (user_id, quiz_id) WHERE is_completed = false`).Error)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		FullName:     name,
		Email:        name + "@test.local",
		Password:     "x",
		Role:         role,
		CurrentLevel: 1,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedPublishedQuiz creates a published quiz with three multiple-choice
// questions worth 5, 5 and 10 points, each with one correct choice.
func seedPublishedQuiz(t *testing.T, db *gorm.DB, teacher models.User) (models.Quiz, []models.Question) {
	t.Helper()

	subject := models.Subject{ID: uuid.New(), Name: "Mathématiques", Slug: "mathematiques"}
	require.NoError(t, db.Create(&subject).Error)

	course := models.Course{
		ID:            uuid.New(),
		Title:         "Les triangles",
		SubjectID:     subject.ID,
		Level:         "3eme",
		TeacherID:     teacher.ID,
		ExtractedText: "Un triangle a trois côtés.",
		IsProcessed:   true,
	}
	require.NoError(t, db.Create(&course).Error)

	quiz := models.Quiz{
		ID:          uuid.New(),
		Title:       "Quiz triangles",
		CourseID:    course.ID,
		SubjectID:   subject.ID,
		Level:       "3eme",
		Difficulty:  "medium",
		TimeLimit:   15,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]models.Question, 3)
	for i, points := range []int{5, 5, 10} {
		q := models.Question{
			ID:           uuid.New(),
			QuizID:       quiz.ID,
			QuestionText: "Question",
			Variant:      models.VariantMultipleChoice,
			Points:       points,
			Order:        i,
			Choices: []models.Choice{
				{ID: uuid.New(), ChoiceText: "Bonne réponse", IsCorrect: true, Order: 0},
				{ID: uuid.New(), ChoiceText: "Mauvaise réponse", IsCorrect: false, Order: 1},
			},
		}
		for j := range q.Choices {
			q.Choices[j].QuestionID = q.ID
		}
		require.NoError(t, db.Create(&q).Error)
		questions[i] = q
	}

	return quiz, questions
}

func correctChoice(t *testing.T, q models.Question) models.Choice {
	t.Helper()
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c
		}
	}
	t.Fatalf("question %s has no correct choice", q.ID)
	return models.Choice{}
}

func wrongChoice(t *testing.T, q models.Question) models.Choice {
	t.Helper()
	for _, c := range q.Choices {
		if !c.IsCorrect {
			return c
		}
	}
	t.Fatalf("question %s has no wrong choice", q.ID)
	return models.Choice{}
}
