package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeaderboardWeekly  = "weekly"
	LeaderboardMonthly = "monthly"
	LeaderboardAllTime = "all_time"
)

// LeaderboardEntry is a ranking snapshot row recomputed by the cron job.
type LeaderboardEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_period" json:"user_id"`
	Period      string    `gorm:"size:20;not null;uniqueIndex:idx_user_period" json:"period"`
	Points      int       `gorm:"not null" json:"points"`
	Rank        int       `gorm:"not null" json:"rank"`
	PeriodStart time.Time `gorm:"not null;uniqueIndex:idx_user_period" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`
}
