package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/ai"
	"github.com/mbeleck/eduquiz/database"
	"github.com/mbeleck/eduquiz/middleware"
	"github.com/mbeleck/eduquiz/models"
	"github.com/mbeleck/eduquiz/services"
	"gorm.io/gorm"
)

type QuizRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	CourseID    string `json:"course_id" validate:"required,uuid4"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	TimeLimit   int    `json:"time_limit" validate:"required,min=1,max=120"`
}

func CreateQuiz(c *fiber.Ctx) error {
	teacherID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, _ := uuid.Parse(req.CourseID)
	var course models.Course
	if err := database.DB.First(&course, "id = ? AND teacher_id = ?", courseID, teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	quiz := models.Quiz{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		CourseID:    course.ID,
		SubjectID:   course.SubjectID,
		Level:       course.Level,
		Difficulty:  req.Difficulty,
		TimeLimit:   req.TimeLimit,
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

type DraftChoiceRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type DraftQuestionRequest struct {
	QuestionText string               `json:"question_text" validate:"required"`
	Variant      string               `json:"variant" validate:"required"`
	Difficulty   string               `json:"difficulty" validate:"required"`
	Points       int                  `json:"points"`
	Choices      []DraftChoiceRequest `json:"choices"`
	Explanation  string               `json:"explanation"`
}

type ApproveQuestionsRequest struct {
	Questions []DraftQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// ReplaceQuizQuestions is the teacher-approval step: the reviewed drafts
// replace the quiz's whole question set.
func ReplaceQuizQuestions(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req ApproveQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	drafts := make([]ai.QuestionDraft, len(req.Questions))
	for i, q := range req.Questions {
		draft := ai.QuestionDraft{
			QuestionText: q.QuestionText,
			Variant:      models.QuestionVariant(q.Variant),
			Difficulty:   q.Difficulty,
			Points:       q.Points,
			Explanation:  q.Explanation,
		}
		for _, ch := range q.Choices {
			draft.Choices = append(draft.Choices, ai.ChoiceDraft{Text: ch.Text, IsCorrect: ch.IsCorrect})
		}
		drafts[i] = draft
	}

	svc := services.NewQuestionService(database.DB)
	questions, err := svc.ReplaceQuestions(callerID, middleware.CallerRole(c), quizID, drafts)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"questions": questions})
}

func PublishQuiz(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	svc := services.NewQuestionService(database.DB)
	quiz, err := svc.Publish(callerID, middleware.CallerRole(c), quizID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(quiz)
}

// ListQuizzes is the student catalog with subject/level/difficulty/search
// filters and participant counts.
func ListQuizzes(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Quiz{}).Preload("Subject").Where("is_published = ?", true)

	if subject := c.Query("subject"); subject != "" {
		query = query.Joins("JOIN subjects ON subjects.id = quizzes.subject_id").
			Where("subjects.slug = ?", subject)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("quizzes.level = ?", level)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("quizzes.difficulty = ?", difficulty)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("quizzes.title ILIKE ? OR quizzes.description ILIKE ?", like, like)
	}

	var quizzes []models.Quiz
	if err := query.Order("quizzes.created_at DESC").Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load quizzes"})
	}

	type quizListItem struct {
		models.Quiz
		Participants int64 `json:"participants"`
	}
	items := make([]quizListItem, len(quizzes))
	for i, quiz := range quizzes {
		var count int64
		database.DB.Model(&models.QuizAttempt{}).
			Where("quiz_id = ? AND is_completed = ?", quiz.ID, true).
			Count(&count)
		items[i] = quizListItem{Quiz: quiz, Participants: count}
	}

	return c.JSON(items)
}

// StartQuiz opens (or resumes) the caller's attempt and returns the
// questions without correctness markers.
func StartQuiz(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	svc := services.NewAttemptService(database.DB)
	attempt, err := svc.Start(userID, quizID)
	if err != nil {
		return serviceError(c, err)
	}

	var questions []models.Question
	database.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choice_order")
	}).Where("quiz_id = ?", quizID).Order("question_order").Find(&questions)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attempt":   attempt,
		"questions": questions,
	})
}

type SubmitAttemptRequest struct {
	Answers map[string]services.AnswerInput `json:"answers" validate:"required,min=1"`
}

// SubmitAttempt finalizes the attempt atomically and reports the score plus
// the caller's updated progression.
func SubmitAttempt(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attempt id"})
	}

	var req SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	answers := make(map[uuid.UUID]services.AnswerInput, len(req.Answers))
	for key, input := range req.Answers {
		questionID, err := uuid.Parse(key)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id: " + key})
		}
		answers[questionID] = input
	}

	svc := services.NewAttemptService(database.DB)
	outcome, err := svc.Submit(userID, attemptID, answers)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"attempt_id":   outcome.Attempt.ID,
		"score":        outcome.Attempt.Score,
		"total_points": outcome.Attempt.TotalPoints,
		"percentage":   outcome.Attempt.Percentage(),
		"progression":  outcome.Progress,
	})
}

// GetAttemptResults returns the full per-question breakdown of a completed
// attempt, including explanations and the correct choices for review.
func GetAttemptResults(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attempt id"})
	}

	svc := services.NewAttemptService(database.DB)
	attempt, err := svc.Results(userID, attemptID)
	if err != nil {
		return serviceError(c, err)
	}

	type answerView struct {
		QuestionText      string     `json:"question_text"`
		Variant           string     `json:"variant"`
		PointsEarned      int        `json:"points_earned"`
		PointsPossible    int        `json:"points_possible"`
		IsCorrect         bool       `json:"is_correct"`
		SelectedChoiceID  *uuid.UUID `json:"selected_choice_id,omitempty"`
		BooleanValue      *bool      `json:"boolean_value,omitempty"`
		OpenAnswer        string     `json:"open_answer,omitempty"`
		CorrectChoiceText string     `json:"correct_choice_text,omitempty"`
		Explanation       string     `json:"explanation,omitempty"`
	}

	views := make([]answerView, len(attempt.Answers))
	for i, answer := range attempt.Answers {
		view := answerView{
			QuestionText:     answer.Question.QuestionText,
			Variant:          string(answer.Question.Variant),
			PointsEarned:     answer.PointsEarned,
			PointsPossible:   answer.Question.Points,
			IsCorrect:        answer.IsCorrect,
			SelectedChoiceID: answer.SelectedChoiceID,
			BooleanValue:     answer.BooleanValue,
			OpenAnswer:       answer.OpenAnswer,
			Explanation:      answer.Question.Explanation,
		}
		for _, choice := range answer.Question.Choices {
			if choice.IsCorrect {
				view.CorrectChoiceText = choice.ChoiceText
				break
			}
		}
		views[i] = view
	}

	return c.JSON(fiber.Map{
		"attempt_id":   attempt.ID,
		"score":        attempt.Score,
		"total_points": attempt.TotalPoints,
		"percentage":   attempt.Percentage(),
		"completed_at": attempt.CompletedAt,
		"answers":      views,
	})
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, services.ErrAttemptCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "attempt_already_completed"})
	case errors.Is(err, services.ErrInvalidQuestionReference):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "invalid_question_reference"})
	case errors.Is(err, services.ErrUnknownVariant):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "unknown_variant"})
	case errors.Is(err, services.ErrNoQuestions):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "code": "no_questions"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Operation failed"})
	}
}
