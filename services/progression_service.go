package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/models"
	"gorm.io/gorm"
)

const xpPerLevelStep = 200

// RequiredXP is the cumulative XP needed to reach level+1.
func RequiredXP(level int) int {
	return (level + 1) * xpPerLevelStep
}

// Progress is a student's aggregate reward state, passed in and out
// explicitly instead of mutated in place.
type Progress struct {
	Points int `json:"points"`
	XP     int `json:"xp"`
	Level  int `json:"level"`
}

// ApplyReward adds earned points to the aggregate and advances the level.
// The loop matters: one large reward can cross several thresholds, and the
// level must end up as the highest one whose requirement is met.
func ApplyReward(p Progress, earned int) Progress {
	p.Points += earned
	p.XP += earned
	for p.XP >= RequiredXP(p.Level) {
		p.Level++
	}
	return p
}

// AwardPoints applies a reward to the stored user aggregate. Points and XP
// are incremented in a single UPDATE so concurrent finalizations for the same
// user cannot lose updates; the level write is conditional and monotonic.
func AwardPoints(tx *gorm.DB, userID uuid.UUID, earned int) (Progress, error) {
	res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"points": gorm.Expr("points + ?", earned),
		"xp":     gorm.Expr("xp + ?", earned),
	})
	if res.Error != nil {
		return Progress{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Progress{}, ErrNotFound
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Progress{}, ErrNotFound
		}
		return Progress{}, err
	}

	// The increments are already in the row, so the reward passed here is
	// zero and ApplyReward only advances the level.
	progress := ApplyReward(Progress{Points: user.Points, XP: user.XP, Level: user.CurrentLevel}, 0)
	if progress.Level > user.CurrentLevel {
		err := tx.Model(&models.User{}).
			Where("id = ? AND current_level < ?", userID, progress.Level).
			Update("current_level", progress.Level).Error
		if err != nil {
			return Progress{}, err
		}
	}

	return progress, nil
}
