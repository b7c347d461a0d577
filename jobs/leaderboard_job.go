package jobs

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/database"
	"github.com/mbeleck/eduquiz/models"
	"gorm.io/gorm"
)

const leaderboardSize = 50

type rankedUser struct {
	UserID uuid.UUID
	Points int
}

// RebuildLeaderboards recomputes the weekly, monthly and all-time snapshot
// rows. Scheduled by cron; safe to run repeatedly.
func RebuildLeaderboards() {
	now := time.Now()

	weekStart := now.AddDate(0, 0, -int(now.Weekday())).Truncate(24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	periods := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{models.LeaderboardWeekly, weekStart, weekStart.AddDate(0, 0, 7)},
		{models.LeaderboardMonthly, monthStart, monthStart.AddDate(0, 1, 0)},
		{models.LeaderboardAllTime, time.Time{}, now},
	}

	for _, p := range periods {
		if err := rebuildPeriod(p.name, p.start, p.end); err != nil {
			log.Printf("🔥 Failed to rebuild %s leaderboard: %v", p.name, err)
		}
	}
	log.Println("✅ Leaderboard snapshots rebuilt")
}

func rebuildPeriod(period string, start, end time.Time) error {
	var ranked []rankedUser
	var err error

	if period == models.LeaderboardAllTime {
		err = database.DB.Model(&models.User{}).
			Select("id AS user_id, points").
			Where("role = ?", "student").
			Order("points DESC").
			Limit(leaderboardSize).
			Scan(&ranked).Error
	} else {
		err = database.DB.Model(&models.QuizAttempt{}).
			Select("user_id, SUM(score) AS points").
			Where("is_completed = ? AND completed_at >= ? AND completed_at < ?", true, start, end).
			Group("user_id").
			Order("points DESC").
			Limit(leaderboardSize).
			Scan(&ranked).Error
	}
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		// Drop every generation of this period, not just the current one:
		// the table holds the latest snapshot and rows from a previous week
		// or month must not survive the rollover.
		err := tx.Where("period = ?", period).
			Delete(&models.LeaderboardEntry{}).Error
		if err != nil {
			return err
		}

		for i, r := range ranked {
			entry := models.LeaderboardEntry{
				ID:          uuid.New(),
				UserID:      r.UserID,
				Period:      period,
				Points:      r.Points,
				Rank:        i + 1,
				PeriodStart: start,
				PeriodEnd:   end,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
