package client

import (
	"context"
	"encoding/json"

	"design-order-bot/internal/telegram/requests"
	"design-order-bot/internal/telegram/response"
)

// Отправить сообщение в чат. Текст размечен HTML.
func (c *Client) Send(ctx context.Context, chatID int64, text string, keyboard *requests.InlineKeyboardMarkup) (response.Message, error) {
	var msg response.Message

	raw, err := c.Invoke(ctx, "sendMessage", requests.MessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             requests.PARSE_MODE_HTML,
		ReplyMarkup:           keyboard,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return msg, err
	}

	err = json.Unmarshal(raw, &msg)
	return msg, err
}

// Ответить на нажатие inline кнопки, иначе у клиента крутится индикатор загрузки
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := c.Invoke(ctx, "answerCallbackQuery", requests.AnswerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}
