package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbeleck/eduquiz/handlers"
	"github.com/mbeleck/eduquiz/middleware"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses", middleware.Protected(), middleware.TeacherRequired())
	courses.Post("", handlers.UploadCourse)
	courses.Get("", handlers.ListCourses)
	courses.Post("/upload-signature", handlers.GenerateUploadSignature)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Post("/:courseId/generate", handlers.GenerateQuestions)
}
