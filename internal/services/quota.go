package services

import (
	"errors"
	"log"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"time"

	"gorm.io/gorm"
)

// Daily cap for anonymous visitors. Authenticated users carry their own
// maxcount column.
const AnonDailyMax = 1

var (
	ErrDailyLimit = errors.New("daily limit exceeded")
	ErrQuotaQuery = errors.New("query failed")
)

func startOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nextQuota applies the daily-cap rules: within the same UTC day one more
// slot is granted while count < max, otherwise the request is denied; a new
// day (or no prior record) starts over at 1. Returns the count to persist
// and whether the action is allowed. AuthorizeGeneration mirrors these
// rules in a single SQL statement; keeping them here as a pure function is
// what the unit tests exercise.
func nextQuota(last *time.Time, count, max int, now time.Time) (int, bool) {
	if last != nil && startOfUTCDay(*last).Equal(startOfUTCDay(now)) {
		if count < max {
			return count + 1, true
		}
		return count, false
	}
	return 1, true
}

// AuthorizeGeneration consumes one generation slot for the actor or
// returns ErrDailyLimit. The slot is claimed with one conditional UPDATE:
// the WHERE clause refuses the row once today's count is full, and the
// CASE picks between incrementing and resetting for a new day. Nothing is
// persisted on deny, and two concurrent requests cannot both take the
// same slot.
func AuthorizeGeneration(actor Actor) error {
	now := time.Now().UTC()
	today := startOfUTCDay(now)

	if actor.Authenticated() {
		res := db.DB.Model(&models.Profile{}).
			Where("id = ? AND (lastmake_at IS NULL OR lastmake_at < ? OR makecount < maxcount)",
				actor.Profile.ID, today).
			Updates(map[string]interface{}{
				"makecount":   gorm.Expr("CASE WHEN lastmake_at >= ? THEN makecount + 1 ELSE 1 END", today),
				"lastmake_at": now,
			})
		if res.Error != nil {
			log.Printf("Quota update failed for profile %d: %v", actor.Profile.ID, res.Error)
			return ErrQuotaQuery
		}
		if res.RowsAffected == 0 {
			return ErrDailyLimit
		}
		return nil
	}

	// Anonymous actors are registered lazily on their first
	// quota-consuming action.
	if _, err := EnsureAnonymous(actor.AnonToken); err != nil {
		log.Printf("Anonymous registration failed for %s: %v", actor.AnonToken, err)
		return ErrQuotaQuery
	}

	res := db.DB.Model(&models.AnonymousActor{}).
		Where("token = ? AND (lastmake_at IS NULL OR lastmake_at < ? OR makecount < ?)",
			actor.AnonToken, today, AnonDailyMax).
		Updates(map[string]interface{}{
			"makecount":   gorm.Expr("CASE WHEN lastmake_at >= ? THEN makecount + 1 ELSE 1 END", today),
			"lastmake_at": now,
		})
	if res.Error != nil {
		log.Printf("Quota update failed for anonymous %s: %v", actor.AnonToken, res.Error)
		return ErrQuotaQuery
	}
	if res.RowsAffected == 0 {
		return ErrDailyLimit
	}
	return nil
}
