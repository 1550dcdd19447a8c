package bot

import (
	"context"
	"time"

	"design-order-bot/internal/config"
	"design-order-bot/internal/logger"

	"github.com/gin-gonic/gin"
)

const hookTimeout = 15 * time.Second

// Hooker - регистрация webhook в Bot API
type Hooker interface {
	SetHook(ctx context.Context, hookAddr, secret string) error
	DeleteHook(ctx context.Context) error
}

func (b *Bot) InitHooks(app *gin.Engine, cnf *config.Conf, tg Hooker) {
	logger.Info("Init receiving endpoint...")

	app.POST(cnf.Telegram.WebhookPath, b.Receive)

	if cnf.Telegram.SkipHook {
		logger.Info("Webhook registration is skipped")
		return
	}

	logger.Info("Setup hook on Telegram:", cnf.WebhookURL())

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	if err := tg.SetHook(ctx, cnf.WebhookURL(), cnf.Telegram.Secret); err != nil {
		logger.Crit("Error while setup hook:", err)
	}
}

func DestroyHooks(cnf *config.Conf, tg Hooker) {
	if cnf.Telegram.SkipHook {
		return
	}

	logger.Info("Destroy hook on Telegram...")

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	if err := tg.DeleteHook(ctx); err != nil {
		logger.Warning("Error while delete hook:", err)
	}
}
