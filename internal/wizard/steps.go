package wizard

import (
	"fmt"
	"slices"
	"strings"

	"design-order-bot/internal/errs"
)

type (
	// InputKind - способ ввода значения на шаге
	InputKind int

	// Field - ключ поля черновика
	Field string

	// StepSpec - описание шага анкеты
	StepSpec struct {
		Field       Field
		Label       string
		Kind        InputKind
		Placeholder string
		// варианты для InputSelect
		Options []string
	}
)

const (
	InputLine InputKind = iota + 1
	InputMultiline
	InputSelect
)

const (
	FieldLink       Field = "link"
	FieldAudience   Field = "audience"
	FieldAdvantages Field = "advantages"
	FieldReferences Field = "references"
	FieldDeadline   Field = "deadline"
	FieldTariff     Field = "tariff"
)

// Fields - порядок шагов анкеты
var Fields = []Field{FieldLink, FieldAudience, FieldAdvantages, FieldReferences, FieldDeadline, FieldTariff}

func (k InputKind) String() string {
	switch k {
	case InputLine:
		return "line"
	case InputMultiline:
		return "multiline"
	case InputSelect:
		return "select"
	}
	return fmt.Sprintf("InputKind(%d)", int(k))
}

// Validate - предикат шага: непустой текст после trim или выбранный известный вариант
func (s StepSpec) Validate(value string) error {
	switch s.Kind {
	case InputLine, InputMultiline:
		if strings.TrimSpace(value) == "" {
			return errs.NewValidationError(string(s.Field))
		}
	case InputSelect:
		if value == "" {
			return errs.NewValidationErrorWithCause(string(s.Field), fmt.Errorf("nothing selected"))
		}
		if !slices.Contains(s.Options, value) {
			return errs.NewValidationErrorWithCause(string(s.Field), fmt.Errorf("%q is not an option", value))
		}
	default:
		return errs.NewValidationErrorWithCause(string(s.Field), fmt.Errorf("unsupported input kind %s", s.Kind))
	}
	return nil
}

// DefaultSteps - шаги анкеты с текстами по умолчанию
func DefaultSteps(tariffs []string) []StepSpec {
	return []StepSpec{
		{
			Field:       FieldLink,
			Label:       "Пришлите ссылку на товар или сайт конкурента",
			Kind:        InputLine,
			Placeholder: "https://example.com/item",
		},
		{
			Field:       FieldAudience,
			Label:       "Кто ваша целевая аудитория?",
			Kind:        InputLine,
			Placeholder: "женщины 25-40",
		},
		{
			Field:       FieldAdvantages,
			Label:       "Перечислите главные преимущества товара",
			Kind:        InputMultiline,
			Placeholder: "1. Прочный корпус\n2. Гарантия 2 года\n3. Быстрая доставка",
		},
		{
			Field:       FieldReferences,
			Label:       "Пришлите референсы или опишите желаемый стиль",
			Kind:        InputLine,
			Placeholder: "minimalist",
		},
		{
			Field:       FieldDeadline,
			Label:       "Какой срок выполнения вам нужен?",
			Kind:        InputLine,
			Placeholder: "7 дней",
		},
		{
			Field:   FieldTariff,
			Label:   "Выберите тариф",
			Kind:    InputSelect,
			Options: slices.Clone(tariffs),
		},
	}
}

// CheckSteps проверяет что набор шагов пригоден для анкеты
func CheckSteps(steps []StepSpec) error {
	if len(steps) == 0 {
		return fmt.Errorf("wizard has no steps")
	}
	seen := make(map[Field]bool, len(steps))
	for i, s := range steps {
		if s.Field == "" {
			return fmt.Errorf("step %d: empty field key", i)
		}
		if seen[s.Field] {
			return fmt.Errorf("step %d: duplicate field %s", i, s.Field)
		}
		seen[s.Field] = true
		if s.Label == "" {
			return fmt.Errorf("step %d (%s): empty label", i, s.Field)
		}
		if s.Kind == InputSelect && len(s.Options) == 0 {
			return fmt.Errorf("step %d (%s): select without options", i, s.Field)
		}
		if s.Kind < InputLine || s.Kind > InputSelect {
			return fmt.Errorf("step %d (%s): unsupported input kind %s", i, s.Field, s.Kind)
		}
	}
	return nil
}
