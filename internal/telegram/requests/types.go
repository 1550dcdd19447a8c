package requests

type (
	// https://core.telegram.org/bots/api#sendmessage
	MessageRequest struct {
		ChatID      int64                 `json:"chat_id"`
		Text        string                `json:"text"`
		ParseMode   string                `json:"parse_mode,omitempty"`
		ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`

		DisableWebPagePreview bool `json:"disable_web_page_preview,omitempty"`
	}

	InlineKeyboardMarkup struct {
		InlineKeyboard [][]KeyboardKey `json:"inline_keyboard"`
	}

	// кнопка inline клавиатуры: либо callback_data, либо url
	KeyboardKey struct {
		Text         string `json:"text"`
		CallbackData string `json:"callback_data,omitempty"`
		URL          string `json:"url,omitempty"`
	}

	AnswerCallbackRequest struct {
		CallbackQueryID string `json:"callback_query_id"`
		Text            string `json:"text,omitempty"`
		ShowAlert       bool   `json:"show_alert,omitempty"`
	}

	HookSetupRequest struct {
		URL            string   `json:"url"`
		SecretToken    string   `json:"secret_token,omitempty"`
		AllowedUpdates []string `json:"allowed_updates,omitempty"`
	}

	HookDeleteRequest struct {
		DropPendingUpdates bool `json:"drop_pending_updates"`
	}
)

const PARSE_MODE_HTML = "HTML"

// Keyboard - клавиатура из рядов кнопок; nil если кнопок нет
func Keyboard(rows [][]KeyboardKey) *InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
