package botconfig_parser

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"design-order-bot/internal/logger"
	"design-order-bot/internal/navigation"
	"design-order-bot/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
)

// максимальная длина callback_data в Telegram
const maxCallbackData = 64

// Holder - текущие настройки экранов, подменяются при изменении файла
type Holder struct {
	mu      sync.RWMutex
	screens *Screens
}

func InitScreens(path string) *Holder {
	screens, err := LoadScreens(path)
	if err != nil {
		logger.Crit(err)
	}
	return NewHolder(screens)
}

func NewHolder(screens *Screens) *Holder {
	return &Holder{screens: screens}
}

func (h *Holder) Get() *Screens {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.screens
}

// UpdateScreens перечитывает файл. При ошибке остаются прежние настройки.
func (h *Holder) UpdateScreens(path string) error {
	newScreens, err := LoadScreens(path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.screens = newScreens
	h.mu.Unlock()

	logger.Info("Screens config reloaded")
	return nil
}

func LoadScreens(pathCnf string) (*Screens, error) {
	input, err := os.ReadFile(pathCnf)
	if err != nil {
		return nil, err
	}
	return ParseScreens(input, path.Dir(pathCnf))
}

func ParseScreens(input []byte, dir string) (*Screens, error) {
	dec := yaml.NewDecoder(bytes.NewBuffer(input), yaml.ReferenceDirs(dir), yaml.RecursiveDir(true))
	screens := &Screens{}
	if err := dec.Decode(screens); err != nil {
		return nil, err
	}

	return screens, screens.checkScreens()
}

func (s *Screens) checkScreens() error {
	if s.Screens == nil {
		s.Screens = make(map[navigation.Screen]*Screen)
	}

	for name := range s.Screens {
		if !name.Valid() {
			return fmt.Errorf("неизвестный экран: %s", name)
		}
	}

	if err := s.checkCatalog(); err != nil {
		return err
	}
	if err := s.checkTariffs(); err != nil {
		return err
	}

	setDefaultWizardTexts(&s.Wizard)
	setDefaultMessages(s)
	setDefaultErrorMessages(s)

	for _, name := range navigation.Screens {
		if name == navigation.ScreenOrder {
			// экран анкеты строится из шагов
			continue
		}

		screen, ok := s.Screens[name]
		if !ok || screen == nil {
			return fmt.Errorf("отсутствует экран %s", name)
		}
		if strings.TrimSpace(screen.Text) == "" {
			return fmt.Errorf("отсутствует текст экрана %s", name)
		}
		if len(screen.Buttons) == 0 {
			screen.Buttons = defaultButtons(name)
		}
		if err := checkButtons(name, screen.Buttons); err != nil {
			return err
		}
	}

	machine, err := navigation.NewMachine(s.buildSteps())
	if err != nil {
		return fmt.Errorf("анкета: %w", err)
	}
	s.machine = machine

	return nil
}

func (s *Screens) checkCatalog() error {
	if len(s.Catalog) == 0 {
		return fmt.Errorf("каталог услуг пуст")
	}

	s.services = make(map[string]serviceRef)
	categories := make(map[string]bool)
	for i, c := range s.Catalog {
		if c == nil || c.Key == "" || c.Name == "" {
			return fmt.Errorf("категория %d: нужны key и name", i)
		}
		if categories[c.Key] {
			return fmt.Errorf("категория %s указана дважды", c.Key)
		}
		categories[c.Key] = true

		if len(c.Services) == 0 {
			return fmt.Errorf("категория %s: нет услуг", c.Key)
		}
		for j, svc := range c.Services {
			if svc == nil || svc.Key == "" || strings.TrimSpace(svc.Name) == "" {
				return fmt.Errorf("категория %s, услуга %d: нужны key и name", c.Key, j)
			}
			if _, exist := s.services[svc.Key]; exist {
				return fmt.Errorf("услуга %s указана дважды", svc.Key)
			}
			if len(serviceData(svc.Key)) > maxCallbackData {
				return fmt.Errorf("услуга %s: слишком длинный key", svc.Key)
			}
			if svc.Button == "" {
				svc.Button = svc.Name
			}
			s.services[svc.Key] = serviceRef{category: c, service: svc}
		}
	}
	return nil
}

func (s *Screens) checkTariffs() error {
	if len(s.Tariffs) == 0 {
		return fmt.Errorf("не указаны тарифы")
	}
	seen := make(map[string]bool)
	for i, t := range s.Tariffs {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("тариф %d: пустое название", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("тариф %s указан дважды", t.Name)
		}
		if t.Price < 0 {
			return fmt.Errorf("тариф %s: отрицательная цена", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// проверка кнопок экрана: действие должно быть доступно на экране
func checkButtons(name navigation.Screen, rows [][]*Button) error {
	for _, row := range rows {
		if len(row) == 0 {
			return fmt.Errorf("экран %s: пустой ряд кнопок", name)
		}
		for _, b := range row {
			if b == nil || b.Text == "" {
				return fmt.Errorf("текст у кнопки не может быть пустой: %s", name)
			}
			if b.URL != "" {
				if b.Action != "" {
					return fmt.Errorf("кнопка может иметь только url или action: %s %s", name, b.View())
				}
				continue
			}
			if b.Action == navigation.ActSelectService {
				return fmt.Errorf("кнопки услуг строятся из каталога: %s %s", name, b.View())
			}
			if !navigation.Allowed(name, b.Action) {
				return fmt.Errorf("действие недоступно на экране: %s %s", name, b.View())
			}
		}
	}
	return nil
}

var defaultLabels = map[navigation.ActionKind]string{
	navigation.ActOpenMenu:      "📋 Меню",
	navigation.ActOpenServices:  "✨ Услуги",
	navigation.ActOpenPortfolio: "💼 Портфолио",
	navigation.ActOpenPrices:    "💰 Цены",
	navigation.ActOpenFAQ:       "❓ Вопросы",
	navigation.ActOpenReviews:   "⭐ Отзывы",
	navigation.ActOpenPromo:     "🎁 Акция",
	navigation.ActBack:          "« Назад",
	navigation.ActRestart:       "В начало",
}

func defaultButtons(name navigation.Screen) [][]*Button {
	var rows [][]*Button
	for _, a := range navigation.Actions(name) {
		label, ok := defaultLabels[a]
		if !ok {
			continue
		}
		rows = append(rows, []*Button{{Action: a, Text: label}})
	}
	return rows
}

func setDefaultWizardTexts(w *WizardTexts) {
	if w.Progress == "" {
		w.Progress = "Шаг {step} из {total}"
	}
	if w.CurrentValue == "" {
		w.CurrentValue = "Сейчас: {value}"
	}
	if w.Placeholder == "" {
		w.Placeholder = "Например: {placeholder}"
	}
	if w.NextButton == "" {
		w.NextButton = "Далее »"
	}
	if w.SubmitButton == "" {
		w.SubmitButton = "✅ Отправить заказ"
	}
	if w.PrevButton == "" {
		w.PrevButton = "« Назад"
	}
	if w.CancelButton == "" {
		w.CancelButton = "Отмена"
	}
}

func setDefaultMessages(s *Screens) {
	if s.Messages.OrderCreated == "" {
		s.Messages.OrderCreated = "<b>✅ Заказ #{id} создан!</b>\n\nУслуга: {service}\n\nМы свяжемся с вами в течение 1 часа!"
	}
	if s.Messages.OrderSending == "" {
		s.Messages.OrderSending = "Отправляем заказ..."
	}
}

// настроить текста ошибок по умолчанию
func setDefaultErrorMessages(s *Screens) {
	if s.ErrorMessages.CommandUnknown == "" {
		s.ErrorMessages.CommandUnknown = "Команда неизвестна. Попробуйте еще раз"
	}
	if s.ErrorMessages.ButtonProcessing == "" {
		s.ErrorMessages.ButtonProcessing = "Во время обработки вашего запроса произошла ошибка"
	}
	if s.ErrorMessages.FieldRequired == "" {
		s.ErrorMessages.FieldRequired = "Поле не может быть пустым. Повторите ввод"
	}
	if s.ErrorMessages.ExpectedButtonPress == "" {
		s.ErrorMessages.ExpectedButtonPress = "Ожидалось нажатие на кнопку. Выберите вариант ниже"
	}
	if s.ErrorMessages.SubmitFailed == "" {
		s.ErrorMessages.SubmitFailed = "Не удалось отправить заказ. Попробуйте еще раз"
	}
}

// шаги анкеты с подписями из настроек
func (s *Screens) buildSteps() []wizard.StepSpec {
	steps := wizard.DefaultSteps(s.TariffNames())
	for i := range steps {
		text, ok := s.Wizard.Steps[string(steps[i].Field)]
		if !ok {
			continue
		}
		if text.Label != "" {
			steps[i].Label = text.Label
		}
		if text.Placeholder != "" {
			steps[i].Placeholder = text.Placeholder
		}
	}
	return steps
}

func (s *Screens) Machine() *navigation.Machine {
	return s.machine
}

func (s *Screens) TariffNames() []string {
	names := make([]string, 0, len(s.Tariffs))
	for _, t := range s.Tariffs {
		names = append(names, t.Name)
	}
	return names
}

// Service - услуга и ее категория по ключу
func (s *Screens) Service(key string) (*Category, *Service, bool) {
	ref, ok := s.services[key]
	if !ok {
		return nil, nil, false
	}
	return ref.category, ref.service, true
}

// InjectScreens - Adds screens to the Gin context
func InjectScreens(key string, h *Holder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, h)
	}
}
