package dashboard

import (
	"errors"

	"design-order-bot/internal/errs"
)

type Op int

const (
	OpLoad Op = iota + 1
	OpUpdateStatus
	OpDelete
)

// Notice - уведомление оператору по итогам операции
type Notice struct {
	Title string
	Text  string
	Err   bool
}

var noticeTexts = map[Op]struct{ ok, fail string }{
	OpLoad:         {ok: "Заказы загружены", fail: "Не удалось загрузить заказы"},
	OpUpdateStatus: {ok: "Статус заказа обновлен", fail: "Не удалось обновить статус"},
	OpDelete:       {ok: "Заказ удален", fail: "Не удалось удалить заказ"},
}

func NoticeFor(op Op, err error) Notice {
	texts := noticeTexts[op]
	if err == nil {
		return Notice{Title: "Успешно", Text: texts.ok}
	}

	n := Notice{Title: "Ошибка", Text: texts.fail, Err: true}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		n.Text += ": заказ не найден, список обновлен"
	case errors.Is(err, errs.ErrValidation):
		n.Text += ": " + err.Error()
	}
	return n
}

func (n Notice) String() string {
	return n.Title + ": " + n.Text
}
