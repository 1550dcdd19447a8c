package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"design-order-bot/internal/botconfig_parser"
	"design-order-bot/internal/cache"
	"design-order-bot/internal/config"
	"design-order-bot/internal/database"
	"design-order-bot/internal/errs"
	"design-order-bot/internal/logger"
	"design-order-bot/internal/navigation"
	"design-order-bot/internal/order"
	"design-order-bot/internal/store"
	"design-order-bot/internal/telegram/requests"
	"design-order-bot/internal/telegram/response"
	"design-order-bot/internal/wizard"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SECRET_HEADER = "X-Telegram-Bot-Api-Secret-Token"
	START_COMMAND = "/start"

	// время на обработку одного обновления вместе с созданием заказа
	updateTimeout = time.Minute
)

type (
	// Sender - исходящие вызовы Bot API
	Sender interface {
		Send(ctx context.Context, chatID int64, text string, keyboard *requests.InlineKeyboardMarkup) (response.Message, error)
		AnswerCallback(ctx context.Context, callbackID, text string) error
	}

	// OrderCreator - создание заказа в API заказов
	OrderCreator interface {
		Create(ctx context.Context, r order.CreateRequest) (order.Created, error)
	}

	// Env - то, что обработчик берет из контекста gin
	Env struct {
		Cache   *bigcache.BigCache
		Screens *botconfig_parser.Screens
	}

	Bot struct {
		tg     Sender
		orders OrderCreator
		// может быть nil, тогда пользователи не сохраняются
		users store.UserStore
		queue *cache.ChatQueue
		locks *cache.ChatLocks
		now   func() time.Time

		wg sync.WaitGroup
	}

	// итог обработки обновления
	reply struct {
		// сообщение перед экраном
		notice string
		// экран не перерисовывается
		silent     bool
		submission *wizard.Submission
	}
)

func New(tg Sender, orders OrderCreator, users store.UserStore) *Bot {
	return &Bot{
		tg:     tg,
		orders: orders,
		users:  users,
		queue:  cache.NewChatQueue(),
		locks:  cache.NewChatLocks(),
		now:    time.Now,
	}
}

func EnvFromContext(c *gin.Context) Env {
	return Env{
		Cache:   c.MustGet(database.CTX_CACHE).(*bigcache.BigCache),
		Screens: c.MustGet(database.CTX_SCREENS).(*botconfig_parser.Holder).Get(),
	}
}

// Receive - webhook Telegram. Обновление обрабатывается в фоне, Telegram сразу получает 200.
// Обновления одного чата обрабатываются в порядке поступления.
func (b *Bot) Receive(c *gin.Context) {
	cnf := c.MustGet(database.CTX_CONFIG).(*config.Conf)
	if !validSecret(cnf.Telegram.Secret, c.GetHeader(SECRET_HEADER)) {
		logger.Warning("Webhook request with wrong secret from", c.ClientIP())

		c.Status(http.StatusUnauthorized)
		return
	}

	var upd response.Update
	if err := c.BindJSON(&upd); err != nil {
		logger.Warning("Error while receive update", err)
		return
	}

	logger.Debug("Receive update:", upd)

	env := EnvFromContext(c)
	ticket := b.queue.Enqueue(upd.ChatID())
	b.wg.Add(1)
	go func(upd response.Update) {
		defer b.wg.Done()
		defer ticket.Done()
		ticket.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()

		if err := b.Handle(ctx, env, upd); err != nil {
			logger.Warning("Error while handle update", upd.UpdateID, err)
		}
	}(upd)

	c.Status(http.StatusOK)
}

// Wait дожидается обработки принятых обновлений
func (b *Bot) Wait() {
	b.wg.Wait()
}

// Handle обрабатывает одно обновление. Обновления одного чата выполняются по очереди.
func (b *Bot) Handle(ctx context.Context, env Env, upd response.Update) error {
	chatID := upd.ChatID()
	sender := upd.Sender()
	if chatID == 0 || sender == nil || sender.IsBot {
		logger.Debug("Skip update", upd.UpdateID)
		return nil
	}

	sub, err := b.process(ctx, env, chatID, sender, upd)
	if err != nil || sub == nil {
		return err
	}
	return b.submit(ctx, env, chatID, *sub)
}

func (b *Bot) process(ctx context.Context, env Env, chatID int64, sender *response.User, upd response.Update) (*wizard.Submission, error) {
	unlock := b.locks.Lock(chatID)
	defer unlock()

	s := env.Screens
	now := b.now()
	user := cache.User{ID: sender.ID, Username: sender.Username, FirstName: sender.FirstName, LastName: sender.LastName}

	chatState := cache.GetState(env.Cache, chatID)
	chatState.Touch(user, now)
	b.trackUser(ctx, user, now)

	who := wizard.Identity{UserID: sender.ID, Username: sender.Username}

	var (
		r   reply
		err error
	)
	switch {
	case upd.CallbackQuery != nil:
		b.answer(ctx, upd.CallbackQuery.ID)
		r, err = b.onCallback(s, &chatState, upd.CallbackQuery.Data, who)
	case upd.Message != nil:
		r, err = b.onText(s, &chatState, upd.Message.Text, who)
	}

	if err != nil {
		if errors.Is(err, errs.ErrUnknownAction) {
			logger.Warning("Unknown action from", chatID, err)
		} else {
			logger.Warning("Error while processing update", upd.UpdateID, err)
		}
		r = reply{notice: s.ErrorMessages.ButtonProcessing}
	}

	if r.submission != nil {
		chatState.Pending = r.submission.DraftID
		r.notice = s.Messages.OrderSending
		r.silent = true
	}

	if err := chatState.ChangeCache(env.Cache, chatID); err != nil {
		return nil, err
	}

	if r.notice != "" {
		b.send(ctx, chatID, r.notice, nil)
	}
	if !r.silent {
		b.sendView(ctx, chatID, s.Render(&chatState.Nav))
	}

	return r.submission, nil
}

func (b *Bot) onCallback(s *botconfig_parser.Screens, chatState *cache.Chat, data string, who wizard.Identity) (reply, error) {
	action, err := s.DecodeAction(data)
	if err != nil {
		return reply{}, err
	}
	return b.apply(s, chatState, action, who)
}

func (b *Bot) onText(s *botconfig_parser.Screens, chatState *cache.Chat, text string, who wizard.Identity) (reply, error) {
	text = strings.TrimSpace(text)
	if text == START_COMMAND || strings.HasPrefix(text, START_COMMAND+" ") {
		return b.apply(s, chatState, navigation.Action{Kind: navigation.ActRestart}, who)
	}

	wz := s.Machine().Wizard(&chatState.Nav)
	if chatState.Nav.Screen != navigation.ScreenOrder || wz == nil {
		return reply{notice: s.ErrorMessages.CommandUnknown}, nil
	}
	if wz.Step().Kind == wizard.InputSelect {
		return reply{notice: s.ErrorMessages.ExpectedButtonPress}, nil
	}

	// текст на шаге анкеты - значение поля и переход дальше
	r, err := b.apply(s, chatState, navigation.Action{Kind: navigation.ActInput, Value: text}, who)
	if err != nil || r.notice != "" {
		return r, err
	}
	return b.apply(s, chatState, navigation.Action{Kind: navigation.ActNext}, who)
}

func (b *Bot) apply(s *botconfig_parser.Screens, chatState *cache.Chat, a navigation.Action, who wizard.Identity) (reply, error) {
	m := s.Machine()

	if a.Kind == navigation.ActNext && chatState.Pending != uuid.Nil &&
		chatState.Nav.Wizard != nil && chatState.Nav.Wizard.Draft.ID == chatState.Pending {
		return reply{notice: s.Messages.OrderSending, silent: true}, nil
	}

	res, err := m.Apply(&chatState.Nav, a, who)
	if err != nil {
		return reply{}, err
	}
	if res.Invalid != nil {
		logger.Debug("Invalid input", res.Invalid)

		if wz := m.Wizard(&chatState.Nav); wz != nil && wz.Step().Kind == wizard.InputSelect {
			return reply{notice: s.ErrorMessages.ExpectedButtonPress}, nil
		}
		return reply{notice: s.ErrorMessages.FieldRequired}, nil
	}

	return reply{submission: res.Submission}, nil
}

// submit создает заказ вне блокировки чата. Номер заказа показывается только
// после ответа API и только если пользователь не ушел с этого черновика.
func (b *Bot) submit(ctx context.Context, env Env, chatID int64, sub wizard.Submission) error {
	created, createErr := b.orders.Create(ctx, sub.Request)

	unlock := b.locks.Lock(chatID)
	defer unlock()

	s := env.Screens
	chatState := cache.GetState(env.Cache, chatID)
	if chatState.Pending == sub.DraftID {
		chatState.Pending = uuid.Nil
	}
	current := chatState.Nav.Wizard != nil && chatState.Nav.Wizard.Draft.ID == sub.DraftID

	if createErr != nil {
		if err := chatState.ChangeCache(env.Cache, chatID); err != nil {
			logger.Warning("Error while save state after failed submit", err)
		}
		if current {
			b.send(ctx, chatID, s.ErrorMessages.SubmitFailed, nil)
			b.sendView(ctx, chatID, s.Render(&chatState.Nav))
		}
		return createErr
	}

	logger.Event("Order", created.ID, "created by", sub.Request.TelegramUserID, sub.Request.Service)

	if !s.Machine().CompleteSubmission(&chatState.Nav, sub.DraftID) {
		logger.Info("Order", created.ID, "created for a draft that is no longer active")
		return chatState.ChangeCache(env.Cache, chatID)
	}
	if err := chatState.ChangeCache(env.Cache, chatID); err != nil {
		return err
	}

	b.send(ctx, chatID, s.OrderCreated(created.ID, sub.Request.Service, sub.Request.Tariff), nil)
	b.sendView(ctx, chatID, s.Render(&chatState.Nav))
	return nil
}

func (b *Bot) trackUser(ctx context.Context, user cache.User, now time.Time) {
	if b.users == nil {
		return
	}
	err := b.users.UpsertUser(ctx, store.User{
		TelegramUserID: user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		LastActivity:   now,
	})
	if err != nil {
		logger.Warning("Error while save user", user.ID, err)
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *requests.InlineKeyboardMarkup) {
	if _, err := b.tg.Send(ctx, chatID, text, keyboard); err != nil {
		logger.Warning("Error while send message to", chatID, err)
	}
}

func (b *Bot) sendView(ctx context.Context, chatID int64, v botconfig_parser.View) {
	b.send(ctx, chatID, v.Text, v.Keyboard)
}

func (b *Bot) answer(ctx context.Context, callbackID string) {
	if err := b.tg.AnswerCallback(ctx, callbackID, ""); err != nil {
		logger.Warning("Error while answer callback", err)
	}
}

func validSecret(want, got string) bool {
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
