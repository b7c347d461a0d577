package jobs_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/database"
	"github.com/mbeleck/eduquiz/jobs"
	"github.com/mbeleck/eduquiz/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobDB(t *testing.T) *gorm.DB {
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

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string, points int) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		FullName:     name,
		Email:        name + "@test.local",
		Password:     "x",
		Role:         "student",
		Points:       points,
		XP:           points,
		CurrentLevel: 1,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCompletedAttempt(t *testing.T, db *gorm.DB, userID uuid.UUID, score int, completedAt time.Time) {
	t.Helper()
	attempt := models.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		QuizID:      uuid.New(),
		StartedAt:   completedAt.Add(-10 * time.Minute),
		CompletedAt: &completedAt,
		Score:       score,
		TotalPoints: score,
		IsCompleted: true,
	}
	require.NoError(t, db.Create(&attempt).Error)
}

func TestRebuildLeaderboards(t *testing.T) {
	db := setupJobDB(t)

	alice := seedStudent(t, db, "alice", 300)
	bob := seedStudent(t, db, "bob", 500)
	carol := seedStudent(t, db, "carol", 100)

	now := time.Now()
	seedCompletedAttempt(t, db, alice.ID, 40, now)
	seedCompletedAttempt(t, db, bob.ID, 15, now)
	// too old to count for the weekly period
	seedCompletedAttempt(t, db, carol.ID, 90, now.AddDate(0, -2, 0))

	jobs.RebuildLeaderboards()

	t.Run("all time ranks by lifetime points", func(t *testing.T) {
		var entries []models.LeaderboardEntry
		require.NoError(t, db.Where("period = ?", models.LeaderboardAllTime).
			Order("rank ASC").Find(&entries).Error)
		require.Len(t, entries, 3)
		assert.Equal(t, bob.ID, entries[0].UserID)
		assert.Equal(t, 500, entries[0].Points)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, alice.ID, entries[1].UserID)
		assert.Equal(t, carol.ID, entries[2].UserID)
	})

	t.Run("weekly ranks by recent attempt scores", func(t *testing.T) {
		var entries []models.LeaderboardEntry
		require.NoError(t, db.Where("period = ?", models.LeaderboardWeekly).
			Order("rank ASC").Find(&entries).Error)
		require.Len(t, entries, 2)
		assert.Equal(t, alice.ID, entries[0].UserID)
		assert.Equal(t, 40, entries[0].Points)
		assert.Equal(t, bob.ID, entries[1].UserID)
	})

	t.Run("rollover discards the previous generation", func(t *testing.T) {
		lastWeek := now.AddDate(0, 0, -7)
		stale := models.LeaderboardEntry{
			ID:          uuid.New(),
			UserID:      alice.ID,
			Period:      models.LeaderboardWeekly,
			Points:      999,
			Rank:        1,
			PeriodStart: lastWeek.AddDate(0, 0, -int(lastWeek.Weekday())).Truncate(24 * time.Hour),
			PeriodEnd:   now,
		}
		require.NoError(t, db.Create(&stale).Error)

		jobs.RebuildLeaderboards()

		var entries []models.LeaderboardEntry
		require.NoError(t, db.Where("period = ?", models.LeaderboardWeekly).
			Order("rank ASC").Find(&entries).Error)
		require.Len(t, entries, 2)

		seen := map[uuid.UUID]bool{}
		for _, e := range entries {
			assert.False(t, seen[e.UserID], "user %s ranked twice", e.UserID)
			seen[e.UserID] = true
			assert.NotEqual(t, 999, e.Points)
		}
	})

	t.Run("rerunning replaces snapshots instead of stacking them", func(t *testing.T) {
		jobs.RebuildLeaderboards()

		var count int64
		require.NoError(t, db.Model(&models.LeaderboardEntry{}).
			Where("period = ?", models.LeaderboardAllTime).Count(&count).Error)
		assert.EqualValues(t, 3, count)
	})
}
