package store

import (
	"context"
	"time"

	"design-order-bot/internal/order"
)

type (
	// OrderStore - хранилище заказов за API заказов
	OrderStore interface {
		// List - заказы, новые первыми
		List(ctx context.Context) ([]order.Order, error)
		Create(ctx context.Context, r order.CreateRequest) (order.Order, error)
		// UpdateStatus возвращает NotFoundError, если заказа нет
		UpdateStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
		// Delete возвращает NotFoundError, если заказа нет
		Delete(ctx context.Context, id int64) error
	}

	// UserStore - пользователи бота
	UserStore interface {
		UpsertUser(ctx context.Context, u User) error
	}

	Store interface {
		OrderStore
		UserStore
		Close() error
	}

	User struct {
		TelegramUserID int64
		Username       string
		FirstName      string
		LastName       string
		LastActivity   time.Time
	}
)
