package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbeleck/eduquiz/handlers"
	"github.com/mbeleck/eduquiz/middleware"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teacherQuizzes := api.Group("/quizzes", middleware.Protected(), middleware.TeacherRequired())
	teacherQuizzes.Post("", handlers.CreateQuiz)
	teacherQuizzes.Put("/:quizId/questions", handlers.ReplaceQuizQuestions)
	teacherQuizzes.Post("/:quizId/publish", handlers.PublishQuiz)

	studentQuizzes := api.Group("/play", middleware.Protected())
	studentQuizzes.Get("/quizzes", handlers.ListQuizzes)
	studentQuizzes.Post("/quizzes/:quizId/start", handlers.StartQuiz)
	studentQuizzes.Post("/attempts/:attemptId/submit", handlers.SubmitAttempt)
	studentQuizzes.Get("/attempts/:attemptId/results", handlers.GetAttemptResults)
}
