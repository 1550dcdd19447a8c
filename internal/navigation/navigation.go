package navigation

import (
	"errors"
	"fmt"
	"slices"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/wizard"

	"github.com/google/uuid"
)

type (
	// Screen - экран воронки
	Screen string

	// ActionKind - именованное действие пользователя
	ActionKind string

	Action struct {
		Kind ActionKind
		// для select_service
		Category string
		Service  string
		// ввод пользователя или выбранный тариф
		Value string
	}

	// State - состояние навигации одной сессии
	State struct {
		Screen Screen `json:"screen"`
		// выбранная категория услуг
		Category string `json:"category,omitempty"`
		// откуда пришли на экран; по нему работает кнопка "назад"
		Origins map[Screen]Screen `json:"origins,omitempty"`
		// анкета, есть только на экране order
		Wizard *wizard.State `json:"wizard,omitempty"`
	}

	// Result - итог обработки действия
	Result struct {
		Screen Screen
		// заполненная анкета, которую нужно отправить
		Submission *wizard.Submission
		// ошибка проверки поля: шаг не изменился, нужно повторить ввод
		Invalid error
	}

	Machine struct {
		steps []wizard.StepSpec
	}
)

const (
	ScreenStart     Screen = "start"
	ScreenMenu      Screen = "menu"
	ScreenServices  Screen = "services"
	ScreenPortfolio Screen = "portfolio"
	ScreenPrices    Screen = "prices"
	ScreenOrder     Screen = "order"
	ScreenFAQ       Screen = "faq"
	ScreenReviews   Screen = "reviews"
	ScreenPromo     Screen = "promo"
)

const (
	ActOpenMenu      ActionKind = "open_menu"
	ActOpenServices  ActionKind = "open_services"
	ActOpenPortfolio ActionKind = "open_portfolio"
	ActOpenPrices    ActionKind = "open_prices"
	ActOpenFAQ       ActionKind = "open_faq"
	ActOpenReviews   ActionKind = "open_reviews"
	ActOpenPromo     ActionKind = "open_promo"
	ActBack          ActionKind = "back"
	ActSelectService ActionKind = "select_service"

	ActInput        ActionKind = "input"
	ActNext         ActionKind = "next"
	ActPrev         ActionKind = "prev"
	ActSelectTariff ActionKind = "select_tariff"
	ActCancel       ActionKind = "cancel"

	// доступно с любого экрана (команда /start)
	ActRestart ActionKind = "restart"
)

// Screens - все экраны
var Screens = []Screen{
	ScreenStart, ScreenMenu, ScreenServices, ScreenPortfolio, ScreenPrices,
	ScreenOrder, ScreenFAQ, ScreenReviews, ScreenPromo,
}

var forward = map[ActionKind]Screen{
	ActOpenMenu:      ScreenMenu,
	ActOpenServices:  ScreenServices,
	ActOpenPortfolio: ScreenPortfolio,
	ActOpenPrices:    ScreenPrices,
	ActOpenFAQ:       ScreenFAQ,
	ActOpenReviews:   ScreenReviews,
	ActOpenPromo:     ScreenPromo,
}

var infoActions = []ActionKind{ActOpenServices, ActBack}

var screenActions = map[Screen][]ActionKind{
	ScreenStart: {ActOpenMenu, ActOpenServices, ActOpenPortfolio, ActOpenPrices, ActOpenFAQ, ActOpenReviews, ActOpenPromo},
	ScreenMenu:  {ActOpenServices, ActOpenPortfolio, ActOpenPrices, ActOpenFAQ, ActOpenReviews, ActOpenPromo, ActBack},

	ScreenServices: {ActSelectService, ActBack},

	ScreenPortfolio: infoActions,
	ScreenPrices:    infoActions,
	ScreenFAQ:       infoActions,
	ScreenReviews:   infoActions,
	ScreenPromo:     infoActions,

	ScreenOrder: {ActInput, ActNext, ActPrev, ActSelectTariff, ActCancel},
}

// куда ведет "назад", если экран открыт без сохраненного источника
var defaultOrigin = map[Screen]Screen{
	ScreenMenu: ScreenStart,
}

func NewState() *State {
	return &State{Screen: ScreenStart}
}

func NewMachine(steps []wizard.StepSpec) (*Machine, error) {
	if err := wizard.CheckSteps(steps); err != nil {
		return nil, err
	}
	return &Machine{steps: steps}, nil
}

func (s Screen) Valid() bool {
	_, ok := screenActions[s]
	return ok
}

// Actions - действия экрана, без restart
func Actions(s Screen) []ActionKind {
	return slices.Clone(screenActions[s])
}

func Allowed(s Screen, kind ActionKind) bool {
	return kind == ActRestart || slices.Contains(screenActions[s], kind)
}

// Origin - экран, на который вернет кнопка "назад"
func (st *State) Origin(s Screen) Screen {
	if o, ok := st.Origins[s]; ok {
		return o
	}
	if o, ok := defaultOrigin[s]; ok {
		return o
	}
	return ScreenMenu
}

func (st *State) enter(to Screen) {
	if st.Origins == nil {
		st.Origins = make(map[Screen]Screen)
	}
	st.Origins[to] = st.Screen
	st.Screen = to
}

// Wizard - анкета текущей сессии или nil вне экрана order
func (m *Machine) Wizard(st *State) *wizard.Wizard {
	if st.Screen != ScreenOrder || st.Wizard == nil {
		return nil
	}
	return wizard.Resume(m.steps, st.Wizard)
}

func (m *Machine) Steps() []wizard.StepSpec {
	return m.steps
}

// Apply выполняет действие. Действие, которого нет на текущем экране, возвращает
// ErrUnknownAction и не меняет состояние.
func (m *Machine) Apply(st *State, a Action, who wizard.Identity) (Result, error) {
	if !st.Screen.Valid() {
		return Result{Screen: st.Screen}, fmt.Errorf("%w: screen %q", errs.ErrUnknownAction, st.Screen)
	}
	if !Allowed(st.Screen, a.Kind) {
		return Result{Screen: st.Screen}, fmt.Errorf("%w: %s on screen %s", errs.ErrUnknownAction, a.Kind, st.Screen)
	}

	if a.Kind == ActRestart {
		*st = *NewState()
		return Result{Screen: st.Screen}, nil
	}

	if to, ok := forward[a.Kind]; ok {
		st.enter(to)
		return Result{Screen: st.Screen}, nil
	}

	switch a.Kind {
	case ActBack:
		st.Screen = st.Origin(st.Screen)
		return Result{Screen: st.Screen}, nil

	case ActSelectService:
		draft, err := wizard.Start(a.Service, who)
		if err != nil {
			return Result{Screen: st.Screen}, err
		}
		st.Category = a.Category
		st.Wizard = draft
		st.enter(ScreenOrder)
		return Result{Screen: st.Screen}, nil

	case ActCancel:
		m.leaveOrder(st)
		return Result{Screen: st.Screen}, nil
	}

	return m.applyWizard(st, a)
}

func (m *Machine) applyWizard(st *State, a Action) (Result, error) {
	wz := m.Wizard(st)
	if wz == nil {
		// экран order без анкеты: восстанавливаем инвариант
		m.leaveOrder(st)
		return Result{Screen: st.Screen}, nil
	}

	res := Result{Screen: st.Screen}
	var err error

	switch a.Kind {
	case ActInput:
		err = wz.Input(a.Value)
	case ActSelectTariff:
		err = wz.SelectTariff(a.Value)
	case ActNext:
		res.Submission, err = wz.Advance()
	case ActPrev:
		if !wz.Retreat() {
			m.leaveOrder(st)
			res.Screen = st.Screen
		}
	}

	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			res.Invalid = err
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// CompleteSubmission завершает анкету после ответа API. Если пользователь уже
// отменил или начал новый черновик, ответ игнорируется и возвращается false.
func (m *Machine) CompleteSubmission(st *State, draftID uuid.UUID) bool {
	if st.Screen != ScreenOrder || st.Wizard == nil || st.Wizard.Draft.ID != draftID {
		return false
	}
	st.Wizard = nil
	st.Screen = ScreenMenu
	return true
}

func (m *Machine) leaveOrder(st *State) {
	st.Wizard = nil
	st.Screen = ScreenServices
}
