package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbeleck/eduquiz/database"
	"github.com/mbeleck/eduquiz/middleware"
	"github.com/mbeleck/eduquiz/models"
	"github.com/mbeleck/eduquiz/services"
)

type LeaderboardUser struct {
	FullName string `json:"full_name"`
	Points   int    `json:"points"`
	XP       int    `json:"xp"`
	Level    int    `json:"current_level"`
}

// GetLeaderboard returns the top students by points plus the caller's rank.
// With ?period=weekly|monthly it serves the cron-maintained snapshots
// instead of the live all-time ranking.
func GetLeaderboard(c *fiber.Ctx) error {
	period := c.Query("period")
	if period == models.LeaderboardWeekly || period == models.LeaderboardMonthly {
		var entries []models.LeaderboardEntry
		err := database.DB.Preload("User").
			Where("period = ?", period).
			Order("rank").
			Find(&entries).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve leaderboard"})
		}
		return c.JSON(fiber.Map{"period": period, "entries": entries})
	}

	var leaderboard []LeaderboardUser
	err := database.DB.Model(&models.User{}).
		Select("full_name", "points", "xp", "current_level").
		Where("role = ?", "student").
		Order("points desc").
		Limit(50).
		Find(&leaderboard).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve leaderboard"})
	}

	response := fiber.Map{"period": models.LeaderboardAllTime, "entries": leaderboard}

	userID, err := middleware.CallerID(c)
	if err == nil {
		var me models.User
		if err := database.DB.First(&me, "id = ?", userID).Error; err == nil && me.Role == "student" {
			var above int64
			database.DB.Model(&models.User{}).
				Where("role = ? AND points > ?", "student", me.Points).
				Count(&above)
			response["my_rank"] = above + 1
		}
	}

	return c.JSON(response)
}

// GetMyStats returns the caller's aggregate progression block.
func GetMyStats(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var completedAttempts int64
	database.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&completedAttempts)

	return c.JSON(fiber.Map{
		"points":             user.Points,
		"xp":                 user.XP,
		"current_level":      user.CurrentLevel,
		"xp_for_next_level":  services.RequiredXP(user.CurrentLevel),
		"streak_days":        user.StreakDays,
		"completed_attempts": completedAttempts,
	})
}
