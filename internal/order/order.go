package order

import (
	"strings"
	"time"

	"design-order-bot/internal/errs"
)

type (
	// Order - заказ, созданный ботом. Источник истины - API заказов.
	Order struct {
		ID               int64  `json:"id"`
		TelegramUserID   int64  `json:"telegram_user_id"`
		TelegramUsername string `json:"telegram_username,omitempty"`

		Service    string `json:"service"`
		Link       string `json:"link"`
		Audience   string `json:"audience"`
		Advantages string `json:"advantages"`
		References string `json:"references"`
		Deadline   string `json:"deadline"`
		Tariff     string `json:"tariff"`

		Status    Status    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// CreateRequest - тело POST запроса на создание заказа
	CreateRequest struct {
		TelegramUserID   int64  `json:"telegram_user_id"`
		TelegramUsername string `json:"telegram_username,omitempty"`

		Service    string `json:"service"`
		Link       string `json:"link"`
		Audience   string `json:"audience"`
		Advantages string `json:"advantages"`
		References string `json:"references"`
		Deadline   string `json:"deadline"`
		Tariff     string `json:"tariff"`
	}

	// Created - ответ API на создание заказа
	Created struct {
		ID        int64     `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}

	StatusUpdateRequest struct {
		ID     int64  `json:"id"`
		Status Status `json:"status"`
	}

	DeleteRequest struct {
		ID int64 `json:"id"`
	}

	ListResponse struct {
		Orders []Order `json:"orders"`
	}
)

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Service) == "" {
		return errs.NewValidationError("service")
	}
	if r.TelegramUserID == 0 {
		return errs.NewValidationError("telegram_user_id")
	}
	return nil
}

// New - заказ в статусе new, id назначает хранилище
func New(r CreateRequest, now time.Time) Order {
	return Order{
		TelegramUserID:   r.TelegramUserID,
		TelegramUsername: r.TelegramUsername,
		Service:          r.Service,
		Link:             r.Link,
		Audience:         r.Audience,
		Advantages:       r.Advantages,
		References:       r.References,
		Deadline:         r.Deadline,
		Tariff:           r.Tariff,
		Status:           StatusNew,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// SetStatus меняет статус и обновляет updated_at. Повторная установка того же
// статуса допустима и меняет только updated_at.
func (o *Order) SetStatus(s Status, now time.Time) error {
	next, err := o.Status.Transition(s)
	if err != nil {
		return err
	}
	o.Status = next
	if now.Before(o.CreatedAt) {
		now = o.CreatedAt
	}
	o.UpdatedAt = now
	return nil
}
