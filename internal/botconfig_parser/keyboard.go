package botconfig_parser

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/navigation"
	"design-order-bot/internal/telegram/requests"
	"design-order-bot/internal/wizard"
)

const (
	servicePrefix = "svc:"
	tariffPrefix  = "tariff:"
)

// действия, которые приходят как callback_data без аргументов
var plainCallbacks = map[navigation.ActionKind]bool{
	navigation.ActOpenMenu:      true,
	navigation.ActOpenServices:  true,
	navigation.ActOpenPortfolio: true,
	navigation.ActOpenPrices:    true,
	navigation.ActOpenFAQ:       true,
	navigation.ActOpenReviews:   true,
	navigation.ActOpenPromo:     true,
	navigation.ActBack:          true,
	navigation.ActNext:          true,
	navigation.ActPrev:          true,
	navigation.ActCancel:        true,
	navigation.ActRestart:       true,
}

// View - сообщение экрана
type View struct {
	Text     string
	Keyboard *requests.InlineKeyboardMarkup
}

func serviceData(key string) string {
	return servicePrefix + key
}

func tariffData(i int) string {
	return tariffPrefix + strconv.Itoa(i)
}

// DecodeAction превращает callback_data в действие навигации
func (s *Screens) DecodeAction(data string) (navigation.Action, error) {
	switch {
	case strings.HasPrefix(data, servicePrefix):
		category, svc, ok := s.Service(strings.TrimPrefix(data, servicePrefix))
		if !ok {
			return navigation.Action{}, fmt.Errorf("%w: service %q", errs.ErrUnknownAction, data)
		}
		return navigation.Action{Kind: navigation.ActSelectService, Category: category.Key, Service: svc.Name}, nil

	case strings.HasPrefix(data, tariffPrefix):
		i, err := strconv.Atoi(strings.TrimPrefix(data, tariffPrefix))
		if err != nil || i < 0 || i >= len(s.Tariffs) {
			return navigation.Action{}, fmt.Errorf("%w: tariff %q", errs.ErrUnknownAction, data)
		}
		return navigation.Action{Kind: navigation.ActSelectTariff, Value: s.Tariffs[i].Name}, nil
	}

	kind := navigation.ActionKind(data)
	if !plainCallbacks[kind] {
		return navigation.Action{}, fmt.Errorf("%w: %q", errs.ErrUnknownAction, data)
	}
	return navigation.Action{Kind: kind}, nil
}

// Render - текст и клавиатура текущего экрана
func (s *Screens) Render(st *navigation.State) View {
	if st.Screen == navigation.ScreenOrder {
		if wz := s.machine.Wizard(st); wz != nil {
			return s.renderWizard(wz)
		}
		return s.renderScreen(navigation.ScreenServices)
	}
	return s.renderScreen(st.Screen)
}

func (s *Screens) renderScreen(name navigation.Screen) View {
	screen, ok := s.Screens[name]
	if !ok {
		screen = s.Screens[navigation.ScreenStart]
	}

	var rows [][]requests.KeyboardKey
	if name == navigation.ScreenServices {
		rows = append(rows, s.serviceRows()...)
	}
	rows = append(rows, GenKeyboard(screen.Buttons)...)

	return View{
		Text:     Fill(screen.Text, "tariffs", s.TariffList()),
		Keyboard: requests.Keyboard(rows),
	}
}

func (s *Screens) serviceRows() [][]requests.KeyboardKey {
	var rows [][]requests.KeyboardKey
	for _, c := range s.Catalog {
		for _, svc := range c.Services {
			rows = append(rows, []requests.KeyboardKey{{Text: Quotes(svc.Button), CallbackData: serviceData(svc.Key)}})
		}
	}
	return rows
}

func (s *Screens) renderWizard(wz *wizard.Wizard) View {
	step := wz.Step()
	draft := wz.State().Draft
	w := s.Wizard

	var sb strings.Builder
	sb.WriteString("<b>" + html.EscapeString(draft.Service) + "</b>\n")
	sb.WriteString("<i>" + Fill(w.Progress, "step", strconv.Itoa(wz.Index()+1), "total", strconv.Itoa(wz.Len())) + "</i>\n\n")
	sb.WriteString(step.Label)

	value := wz.Value()
	if step.Kind != wizard.InputSelect {
		if value != "" {
			sb.WriteString("\n\n" + Fill(w.CurrentValue, "value", html.EscapeString(value)))
		} else if step.Placeholder != "" {
			sb.WriteString("\n\n" + Fill(w.Placeholder, "placeholder", html.EscapeString(step.Placeholder)))
		}
	}

	var rows [][]requests.KeyboardKey
	if step.Kind == wizard.InputSelect {
		for i, t := range s.Tariffs {
			text := t.View()
			if t.Name == value {
				text = "✅ " + text
			}
			rows = append(rows, []requests.KeyboardKey{{Text: text, CallbackData: tariffData(i)}})
		}
	}

	next := w.NextButton
	if wz.IsLast() {
		next = w.SubmitButton
	}
	rows = append(rows,
		[]requests.KeyboardKey{
			{Text: w.PrevButton, CallbackData: string(navigation.ActPrev)},
			{Text: next, CallbackData: string(navigation.ActNext)},
		},
		[]requests.KeyboardKey{{Text: w.CancelButton, CallbackData: string(navigation.ActCancel)}},
	)

	return View{Text: sb.String(), Keyboard: requests.Keyboard(rows)}
}

// TariffList - тарифы построчно для подстановки {tariffs}
func (s *Screens) TariffList() string {
	lines := make([]string, 0, len(s.Tariffs))
	for _, t := range s.Tariffs {
		line := "<b>" + html.EscapeString(t.View()) + "</b>"
		if t.Description != "" {
			line += "\n" + t.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n\n")
}

// OrderCreated - подтверждение заказа с номером от API
func (s *Screens) OrderCreated(id int64, service, tariff string) string {
	return Fill(s.Messages.OrderCreated,
		"id", strconv.FormatInt(id, 10),
		"service", html.EscapeString(service),
		"tariff", html.EscapeString(tariff),
	)
}

// GenKeyboard - создать клавиатуру из настроенных кнопок
func GenKeyboard(buttons [][]*Button) [][]requests.KeyboardKey {
	var answer [][]requests.KeyboardKey
	for _, row := range buttons {
		keys := make([]requests.KeyboardKey, 0, len(row))
		for _, b := range row {
			key := requests.KeyboardKey{Text: Quotes(b.Text)}
			if b.URL != "" {
				key.URL = b.URL
			} else {
				key.CallbackData = string(b.Action)
			}
			keys = append(keys, key)
		}
		answer = append(answer, keys)
	}
	return answer
}

// Quotes заменяет прямые кавычки на «елочки»
func Quotes(s string) string {
	count := 0
	answer := strings.Builder{}
	for _, r := range s {
		if r != '"' {
			answer.WriteRune(r)
			continue
		}
		if count%2 == 0 {
			answer.WriteString("«")
		} else {
			answer.WriteString("»")
		}
		count++
	}
	return answer.String()
}
