package services

import (
	"errors"
	"fmt"
	"log"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/utils"
	"time"
)

// Actor is who is performing an action: an authenticated profile or an
// anonymous visitor known only by its token. Exactly one side is set.
// Handlers resolve it once per request and thread it into every quota,
// engagement and comment call; there is no ambient current-user state
// below the handler layer.
type Actor struct {
	Profile   *models.Profile
	AnonToken string
}

func (a Actor) Authenticated() bool {
	return a.Profile != nil
}

const nicknameAttempts = 10

var (
	ErrNicknameExhausted = errors.New("nickname generation failed")
	ErrAuthRequired      = errors.New("authentication required")
)

// MintAnonToken builds a fresh anonymous identity token. The format is
// {millisecond-timestamp}-{random base36 suffix}; the client keeps it in a
// cookie and losing the cookie means losing the identity.
func MintAnonToken() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), utils.RandBase36(8))
}

// EnsureAnonymous registers the temp_info row for a token if it does not
// exist yet. Two near-simultaneous first requests can each mint their own
// token before either cookie lands; the loser simply becomes a second
// throwaway identity, which is acceptable for single-tab clients.
func EnsureAnonymous(token string) (*models.AnonymousActor, error) {
	var actor models.AnonymousActor
	err := db.DB.Where("token = ?", token).
		FirstOrCreate(&actor, models.AnonymousActor{Token: token}).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// RandomNickname returns a user_xxxxxx nickname that is absent from the
// uniqueness index, giving up after a fixed number of attempts rather than
// looping forever on a crowded namespace.
func RandomNickname() (string, error) {
	for i := 0; i < nicknameAttempts; i++ {
		candidate := "user_" + utils.RandBase36(6)
		var count int64
		if err := db.DB.Model(&models.Profile{}).
			Where("nickname = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	log.Printf("nickname generation gave up after %d attempts", nicknameAttempts)
	return "", ErrNicknameExhausted
}

// NicknameAvailable reports whether no profile uses this exact nickname.
// excludeID skips the caller's own row when editing. The answer is
// advisory: the unique index on users_info.nickname is what actually
// decides at write time.
func NicknameAvailable(nickname string, excludeID uint) (bool, error) {
	query := db.DB.Model(&models.Profile{}).Where("nickname = ?", nickname)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
