package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbeleck/eduquiz/handlers"
	"github.com/mbeleck/eduquiz/middleware"
)

func GamificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	gamification := api.Group("/gamification", middleware.Protected())
	gamification.Get("/leaderboard", handlers.GetLeaderboard)
	gamification.Get("/me", handlers.GetMyStats)
}
