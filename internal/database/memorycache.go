package database

import (
	"time"

	"design-order-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"
)

// ConnectInMemoryCache - кеш сессий; запись живет ttl с последнего сохранения
func ConnectInMemoryCache(ttl time.Duration) *bigcache.BigCache {
	cache, err := NewInMemoryCache(ttl)
	if err != nil {
		logger.Crit(err)
	}
	return cache
}

func NewInMemoryCache(ttl time.Duration) (*bigcache.BigCache, error) {
	cnf := bigcache.DefaultConfig(ttl)
	cnf.CleanWindow = ttl / 4
	if cnf.CleanWindow < time.Second {
		cnf.CleanWindow = time.Second
	}
	cnf.Verbose = false
	return bigcache.NewBigCache(cnf)
}

func InjectInMemoryCache(key string, cache *bigcache.BigCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cache)
	}
}
