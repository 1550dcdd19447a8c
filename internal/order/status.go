package order

import (
	"fmt"

	"design-order-bot/internal/errs"
)

// Status - статус заказа.
//
//	new ──> pending_contact ──> in_progress ──> completed
//	 │             │                 │
//	 └─────────────┴─────────────────┴──> cancelled
//
// Переходы выполняет только оператор, и допустим переход из любого статуса в любой
// (в том числе completed -> new).
type Status string

const (
	StatusNew            Status = "new"
	StatusPendingContact Status = "pending_contact"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// Statuses - все статусы в порядке жизненного цикла
var Statuses = []Status{
	StatusNew,
	StatusPendingContact,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusNew:            "Новый",
	StatusPendingContact: "Ожидает связи",
	StatusInProgress:     "В работе",
	StatusCompleted:      "Завершен",
	StatusCancelled:      "Отменен",
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	if _, ok := statusLabels[s]; !ok {
		return errs.NewValidationErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// Label - подпись статуса для оператора
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsTerminal - после этих статусов работа по заказу не ведется
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Transition проверяет только что новый статус существует,
// направление перехода не ограничивается.
func (s Status) Transition(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return s, err
	}
	return to, nil
}

// IsForward - переход идет по основной цепочке или в cancelled из незавершенного статуса.
// Используется только для логов: оператору разрешены и обратные переходы.
func (s Status) IsForward(to Status) bool {
	if s.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return rank(to) > rank(s)
}

func rank(s Status) int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}
