package wizard

import (
	"fmt"
	"strings"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/order"

	"github.com/google/uuid"
)

type (
	// Draft - данные заказа до отправки
	Draft struct {
		// id черновика, по нему отбрасываются ответы на уже отмененные черновики
		ID uuid.UUID `json:"id"`

		TelegramUserID   int64  `json:"telegram_user_id"`
		TelegramUsername string `json:"telegram_username,omitempty"`

		Service    string `json:"service"`
		Link       string `json:"link,omitempty"`
		Audience   string `json:"audience,omitempty"`
		Advantages string `json:"advantages,omitempty"`
		References string `json:"references,omitempty"`
		Deadline   string `json:"deadline,omitempty"`
		Tariff     string `json:"tariff,omitempty"`
	}

	// State - сериализуемое состояние анкеты, хранится в сессии
	State struct {
		Step  int   `json:"step"`
		Draft Draft `json:"draft"`
	}

	// Identity - кто оформляет заказ
	Identity struct {
		UserID   int64
		Username string
	}

	// Submission - запрос на создание заказа из заполненного черновика
	Submission struct {
		DraftID uuid.UUID
		Request order.CreateRequest
	}

	Wizard struct {
		steps []StepSpec
		state *State
	}
)

// Start - новый черновик на шаге 0 с выбранной услугой
func Start(service string, who Identity) (*State, error) {
	if strings.TrimSpace(service) == "" {
		return nil, errs.NewValidationError("service")
	}
	return &State{
		Draft: Draft{
			ID:               uuid.New(),
			TelegramUserID:   who.UserID,
			TelegramUsername: who.Username,
			Service:          service,
		},
	}, nil
}

// Resume - анкета поверх сохраненного состояния; изменения пишутся в state
func Resume(steps []StepSpec, state *State) *Wizard {
	if state.Step < 0 {
		state.Step = 0
	}
	if state.Step > len(steps)-1 {
		state.Step = len(steps) - 1
	}
	return &Wizard{steps: steps, state: state}
}

func (w *Wizard) State() *State {
	return w.state
}

func (w *Wizard) Index() int {
	return w.state.Step
}

func (w *Wizard) Len() int {
	return len(w.steps)
}

func (w *Wizard) Step() StepSpec {
	return w.steps[w.state.Step]
}

func (w *Wizard) IsLast() bool {
	return w.state.Step == len(w.steps)-1
}

// Progress - доля пройденного: (index+1)/N
func (w *Wizard) Progress() float64 {
	return float64(w.state.Step+1) / float64(len(w.steps))
}

// Value - текущее значение поля шага
func (w *Wizard) Value() string {
	return w.state.Draft.Get(w.Step().Field)
}

// Input - ввод пользователя для текущего шага. Пустой ввод не сохраняется.
func (w *Wizard) Input(value string) error {
	step := w.Step()
	if step.Kind == InputSelect {
		return w.SelectTariff(value)
	}
	if err := step.Validate(value); err != nil {
		return err
	}
	w.state.Draft.set(step.Field, strings.TrimSpace(value))
	return nil
}

// SelectTariff выбирает тариф без перехода на следующий шаг
func (w *Wizard) SelectTariff(name string) error {
	step := w.Step()
	if step.Kind != InputSelect {
		return errs.NewValidationErrorWithCause(string(FieldTariff), fmt.Errorf("step %s does not accept a selection", step.Field))
	}
	if err := step.Validate(name); err != nil {
		return err
	}
	w.state.Draft.set(step.Field, name)
	return nil
}

// Advance переходит на следующий шаг, если поле заполнено.
// На последнем шаге возвращает Submission, индекс не меняется.
func (w *Wizard) Advance() (*Submission, error) {
	step := w.Step()
	if err := step.Validate(w.state.Draft.Get(step.Field)); err != nil {
		return nil, err
	}

	if !w.IsLast() {
		w.state.Step++
		return nil, nil
	}

	for _, s := range w.steps {
		if err := s.Validate(w.state.Draft.Get(s.Field)); err != nil {
			return nil, err
		}
	}

	return &Submission{
		DraftID: w.state.Draft.ID,
		Request: w.state.Draft.Request(),
	}, nil
}

// Retreat - шаг назад. false если уже на первом шаге.
func (w *Wizard) Retreat() bool {
	if w.state.Step == 0 {
		return false
	}
	w.state.Step--
	return true
}

func (d Draft) Get(f Field) string {
	switch f {
	case FieldLink:
		return d.Link
	case FieldAudience:
		return d.Audience
	case FieldAdvantages:
		return d.Advantages
	case FieldReferences:
		return d.References
	case FieldDeadline:
		return d.Deadline
	case FieldTariff:
		return d.Tariff
	}
	return ""
}

func (d *Draft) set(f Field, v string) {
	switch f {
	case FieldLink:
		d.Link = v
	case FieldAudience:
		d.Audience = v
	case FieldAdvantages:
		d.Advantages = v
	case FieldReferences:
		d.References = v
	case FieldDeadline:
		d.Deadline = v
	case FieldTariff:
		d.Tariff = v
	}
}

func (d Draft) Request() order.CreateRequest {
	return order.CreateRequest{
		TelegramUserID:   d.TelegramUserID,
		TelegramUsername: d.TelegramUsername,
		Service:          d.Service,
		Link:             d.Link,
		Audience:         d.Audience,
		Advantages:       d.Advantages,
		References:       d.References,
		Deadline:         d.Deadline,
		Tariff:           d.Tariff,
	}
}
