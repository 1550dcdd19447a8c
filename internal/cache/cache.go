package cache

import (
	"encoding/json"
	"time"

	"design-order-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
)

func (chatState *Chat) ChangeCache(cache *bigcache.BigCache, chatID int64) error {
	data, err := json.Marshal(chatState)
	if err != nil {
		logger.Warning("Error while change state to cache", err)
		return err
	}

	err = cache.Set(stateKey(chatID), data)
	logger.Debug("Write state to cache result", stateKey(chatID), string(chatState.Nav.Screen))
	if err != nil {
		logger.Warning("Error while write state to cache", err)
		return err
	}

	return nil
}

// сохранить данные о пользователе и время активности
func (chatState *Chat) Touch(user User, now time.Time) {
	if user.ID != 0 {
		chatState.User = user
	}
	chatState.LastActivity = now
}
