package cache

import (
	"time"

	"design-order-bot/internal/navigation"

	"github.com/google/uuid"
)

type (
	// набор данных привязанных к чату с ботом
	Chat struct {
		// информация о пользователе
		User User `json:"user"`
		// экран, источники переходов и анкета
		Nav navigation.State `json:"nav"`
		// время последнего сообщения
		LastActivity time.Time `json:"last_activity"`
		// черновик, отправленный в API и ждущий ответа
		Pending uuid.UUID `json:"pending"`
	}

	User struct {
		ID        int64  `json:"id"`
		Username  string `json:"username,omitempty"`
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
	}
)
