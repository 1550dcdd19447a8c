package botconfig_parser

import (
	"fmt"
	"strings"

	"design-order-bot/internal/navigation"
)

type Screens struct {
	// экраны воронки по имени
	Screens map[navigation.Screen]*Screen `yaml:"screens"`

	// каталог услуг по категориям
	Catalog []*Category `yaml:"catalog"`
	// тарифы, из них выбирается последний шаг анкеты
	Tariffs []*Tariff `yaml:"tariffs"`

	// тексты анкеты
	Wizard WizardTexts `yaml:"wizard"`

	// сообщения бота
	Messages Messages `yaml:"messages"`
	// сообщения об ошибках
	ErrorMessages ErrorMessages `yaml:"error_messages"`

	machine *navigation.Machine
	// услуга по ключу
	services map[string]serviceRef
}

type Screen struct {
	// текст экрана, HTML разметка Telegram
	Text string `yaml:"text"`
	// ряды кнопок
	Buttons [][]*Button `yaml:"buttons,omitempty"`
}

type Button struct {
	// действие навигации
	Action navigation.ActionKind `yaml:"action,omitempty"`
	// текст кнопки
	Text string `yaml:"text"`
	// внешняя ссылка вместо действия
	URL string `yaml:"url,omitempty"`
}

type Category struct {
	Key      string     `yaml:"key"`
	Name     string     `yaml:"name"`
	Services []*Service `yaml:"services"`
}

type Service struct {
	Key string `yaml:"key"`
	// название услуги, попадает в заказ
	Name string `yaml:"name"`
	// текст кнопки, по умолчанию Name
	Button string `yaml:"button,omitempty"`
}

type Tariff struct {
	Name        string `yaml:"name"`
	Price       int    `yaml:"price"`
	Description string `yaml:"description,omitempty"`
	// отмечается звездой
	Recommended bool `yaml:"recommended,omitempty"`
}

type WizardTexts struct {
	// подписи и подсказки шагов по ключу поля
	Steps map[string]StepText `yaml:"steps,omitempty"`

	// Шаг {step} из {total}
	Progress string `yaml:"progress"`
	// Текущее значение: {value}
	CurrentValue string `yaml:"current_value"`
	// Например: {placeholder}
	Placeholder string `yaml:"placeholder"`

	NextButton   string `yaml:"next_button"`
	SubmitButton string `yaml:"submit_button"`
	PrevButton   string `yaml:"prev_button"`
	CancelButton string `yaml:"cancel_button"`
}

type StepText struct {
	Label       string `yaml:"label"`
	Placeholder string `yaml:"placeholder,omitempty"`
}

type Messages struct {
	// Заказ #{id} создан! Подстановки: {id}, {service}, {tariff}
	OrderCreated string `yaml:"order_created"`
	// отправка анкеты
	OrderSending string `yaml:"order_sending"`
}

type ErrorMessages struct {
	// Команда неизвестна. Попробуйте еще раз
	CommandUnknown string `yaml:"command_unknown"`
	// Во время обработки вашего запроса произошла ошибка
	ButtonProcessing string `yaml:"button_processing"`
	// Поле не может быть пустым. Повторите ввод
	FieldRequired string `yaml:"field_required"`
	// Выберите тариф кнопкой ниже
	ExpectedButtonPress string `yaml:"expected_button_press"`
	// Не удалось отправить заказ. Попробуйте еще раз
	SubmitFailed string `yaml:"submit_failed"`
}

type serviceRef struct {
	category *Category
	service  *Service
}

func (b Button) View() string {
	if b.URL != "" {
		return fmt.Sprintf("{text: %s, url: %s}", b.Text, b.URL)
	}
	return fmt.Sprintf("{text: %s, action: %s}", b.Text, b.Action)
}

func (t Tariff) View() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if t.Price > 0 {
		sb.WriteString(" - " + FormatPrice(t.Price))
	}
	if t.Recommended {
		sb.WriteString(" ⭐")
	}
	return sb.String()
}

// FormatPrice - 12000 -> "12 000 ₽"
func FormatPrice(price int) string {
	s := fmt.Sprint(price)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	return string(out) + " ₽"
}

// Fill подставляет значения вида {key} в шаблон
func Fill(template string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
