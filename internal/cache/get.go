package cache

import (
	"encoding/json"
	"errors"
	"strconv"

	"design-order-bot/internal/logger"
	"design-order-bot/internal/navigation"

	"github.com/allegro/bigcache/v3"
)

func stateKey(chatID int64) string {
	return "chat:" + strconv.FormatInt(chatID, 10)
}

// GetState - состояние чата из кеша. Если записи нет или она повреждена,
// возвращается новая сессия на экране start.
func GetState(cache *bigcache.BigCache, chatID int64) Chat {
	b, err := cache.Get(stateKey(chatID))
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			logger.Warning("Error while read state from cache", err)
		}
		logger.Debug("No state in cache for " + stateKey(chatID))
		return newChat()
	}

	var chatState Chat
	if err := json.Unmarshal(b, &chatState); err != nil {
		logger.Warning("Error while decoding state", err)
		return newChat()
	}
	if !chatState.Nav.Screen.Valid() {
		logger.Warning("Unknown screen in cache, reset session", chatState.Nav.Screen)
		return newChat()
	}

	return chatState
}

func newChat() Chat {
	return Chat{Nav: *navigation.NewState()}
}
