package botconfig_parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"design-order-bot/internal/botconfig_parser"
	"design-order-bot/internal/errs"
	"design-order-bot/internal/navigation"
	"design-order-bot/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScreens = `
screens:
  start: {text: Старт}
  menu: {text: Меню}
  services: {text: Услуги}
  portfolio: {text: Портфолио}
  prices: {text: "Цены\n{tariffs}"}
  faq: {text: Вопросы}
  reviews: {text: Отзывы}
  promo: {text: Акция}
catalog:
  - key: brand
    name: Brand Identity
    services:
      - {key: logo, name: Логотип}
      - {key: avatar, name: Аватарки, button: Аватар}
tariffs:
  - {name: Базовый, price: 5000}
  - {name: Про, price: 12000, recommended: true}
`

func parse(t *testing.T, body string) *botconfig_parser.Screens {
	t.Helper()
	s, err := botconfig_parser.ParseScreens([]byte(body), t.TempDir())
	require.NoError(t, err)
	return s
}

func TestParseScreens(t *testing.T) {
	t.Run("should fill defaults", func(t *testing.T) {
		s := parse(t, minimalScreens)

		assert.NotEmpty(t, s.ErrorMessages.CommandUnknown)
		assert.NotEmpty(t, s.ErrorMessages.FieldRequired)
		assert.Contains(t, s.Messages.OrderCreated, "{id}")
		assert.Equal(t, "Далее »", s.Wizard.NextButton)
		require.NotNil(t, s.Machine())
		assert.Len(t, s.Machine().Steps(), 6)
		assert.Equal(t, []string{"Базовый", "Про"}, s.Machine().Steps()[5].Options)

		// кнопки по умолчанию из действий экрана
		require.NotEmpty(t, s.Screens[navigation.ScreenPortfolio].Buttons)
		assert.Equal(t, navigation.ActOpenServices, s.Screens[navigation.ScreenPortfolio].Buttons[0][0].Action)
	})

	t.Run("should override step labels", func(t *testing.T) {
		s := parse(t, minimalScreens+`
wizard:
  steps:
    audience: {label: Для кого?, placeholder: мамы}
`)

		step := s.Machine().Steps()[1]
		assert.Equal(t, wizard.FieldAudience, step.Field)
		assert.Equal(t, "Для кого?", step.Label)
		assert.Equal(t, "мамы", step.Placeholder)
	})

	for name, tc := range map[string]struct {
		body string
		want string
	}{
		"missing screen": {
			body: strings.Replace(minimalScreens, "  promo: {text: Акция}\n", "", 1),
			want: "promo",
		},
		"unknown screen": {
			body: strings.Replace(minimalScreens, "screens:\n", "screens:\n  landing: {text: x}\n", 1),
			want: "landing",
		},
		"action not allowed on screen": {
			body: strings.Replace(minimalScreens, "portfolio: {text: Портфолио}", "portfolio: {text: Портфолио, buttons: [[{action: open_promo, text: Акция}]]}", 1),
			want: "действие недоступно",
		},
		"empty catalog": {
			body: strings.Replace(minimalScreens, "catalog:", "catalog: []\nold_catalog:", 1),
			want: "каталог",
		},
		"duplicate service key": {
			body: strings.Replace(minimalScreens, "key: avatar", "key: logo", 1),
			want: "logo",
		},
		"no tariffs": {
			body: strings.Replace(minimalScreens, "tariffs:", "tariffs: []\nold_tariffs:", 1),
			want: "тариф",
		},
	} {
		t.Run("should reject "+name, func(t *testing.T) {
			_, err := botconfig_parser.ParseScreens([]byte(tc.body), t.TempDir())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestHolder_UpdateScreens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screens.yml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScreens), 0o600))

	s, err := botconfig_parser.LoadScreens(path)
	require.NoError(t, err)
	h := botconfig_parser.NewHolder(s)

	t.Run("should keep previous config on error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("screens: ["), 0o600))

		require.Error(t, h.UpdateScreens(path))
		assert.Same(t, s, h.Get())
	})

	t.Run("should swap config on success", func(t *testing.T) {
		updated := strings.Replace(minimalScreens, "start: {text: Старт}", "start: {text: Привет}", 1)
		require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

		require.NoError(t, h.UpdateScreens(path))
		assert.Equal(t, "Привет", h.Get().Screens[navigation.ScreenStart].Text)
	})
}

func TestScreens_DecodeAction(t *testing.T) {
	s := parse(t, minimalScreens)

	t.Run("should decode plain actions", func(t *testing.T) {
		a, err := s.DecodeAction("open_services")
		require.NoError(t, err)
		assert.Equal(t, navigation.ActOpenServices, a.Kind)
	})

	t.Run("should resolve service by key", func(t *testing.T) {
		a, err := s.DecodeAction("svc:avatar")
		require.NoError(t, err)
		assert.Equal(t, navigation.ActSelectService, a.Kind)
		assert.Equal(t, "brand", a.Category)
		assert.Equal(t, "Аватарки", a.Service)
	})

	t.Run("should resolve tariff by index", func(t *testing.T) {
		a, err := s.DecodeAction("tariff:1")
		require.NoError(t, err)
		assert.Equal(t, navigation.ActSelectTariff, a.Kind)
		assert.Equal(t, "Про", a.Value)
	})

	for _, data := range []string{"svc:unknown", "tariff:9", "tariff:x", "input", "select_service", "show_services", ""} {
		_, err := s.DecodeAction(data)
		assert.ErrorIs(t, err, errs.ErrUnknownAction, data)
	}
}

func TestScreens_Render(t *testing.T) {
	s := parse(t, minimalScreens)
	m := s.Machine()
	who := wizard.Identity{UserID: 1}

	t.Run("services screen lists catalog then back", func(t *testing.T) {
		st := &navigation.State{Screen: navigation.ScreenServices}

		v := s.Render(st)

		require.NotNil(t, v.Keyboard)
		rows := v.Keyboard.InlineKeyboard
		require.Len(t, rows, 3)
		assert.Equal(t, "svc:logo", rows[0][0].CallbackData)
		assert.Equal(t, "Аватар", rows[1][0].Text)
		assert.Equal(t, "back", rows[2][0].CallbackData)
	})

	t.Run("prices screen lists tariffs", func(t *testing.T) {
		v := s.Render(&navigation.State{Screen: navigation.ScreenPrices})

		assert.Contains(t, v.Text, "Базовый - 5 000 ₽")
		assert.Contains(t, v.Text, "Про - 12 000 ₽ ⭐")
	})

	t.Run("wizard screen shows progress and navigation", func(t *testing.T) {
		st := navigation.NewState()
		_, err := m.Apply(st, navigation.Action{Kind: navigation.ActOpenServices}, who)
		require.NoError(t, err)
		_, err = m.Apply(st, navigation.Action{Kind: navigation.ActSelectService, Service: "Логотип <new>"}, who)
		require.NoError(t, err)

		v := s.Render(st)

		assert.Contains(t, v.Text, "Шаг 1 из 6")
		assert.Contains(t, v.Text, "Логотип &lt;new&gt;")
		rows := v.Keyboard.InlineKeyboard
		require.Len(t, rows, 2)
		assert.Equal(t, "prev", rows[0][0].CallbackData)
		assert.Equal(t, "next", rows[0][1].CallbackData)
		assert.Equal(t, "cancel", rows[1][0].CallbackData)
	})

	t.Run("tariff step marks selection", func(t *testing.T) {
		st := &navigation.State{
			Screen: navigation.ScreenOrder,
			Wizard: &wizard.State{Step: 5, Draft: wizard.Draft{Service: "Логотип", Tariff: "Про"}},
		}

		v := s.Render(st)

		rows := v.Keyboard.InlineKeyboard
		require.Len(t, rows, 4)
		assert.Equal(t, "tariff:0", rows[0][0].CallbackData)
		assert.True(t, strings.HasPrefix(rows[1][0].Text, "✅ "))
		assert.Equal(t, s.Wizard.SubmitButton, rows[2][1].Text)
	})

	t.Run("order without draft falls back to services", func(t *testing.T) {
		v := s.Render(&navigation.State{Screen: navigation.ScreenOrder})

		assert.Equal(t, "Услуги", v.Text)
	})
}

func TestOrderCreated(t *testing.T) {
	s := parse(t, minimalScreens)

	text := s.OrderCreated(42, `Пакет "Под ключ"`, "Про")

	assert.Contains(t, text, "Заказ #42 создан!")
	assert.Contains(t, text, "Пакет &#34;Под ключ&#34;")
}

func TestFormatPriceAndQuotes(t *testing.T) {
	assert.Equal(t, "500 ₽", botconfig_parser.FormatPrice(500))
	assert.Equal(t, "5 000 ₽", botconfig_parser.FormatPrice(5000))
	assert.Equal(t, "1 250 000 ₽", botconfig_parser.FormatPrice(1250000))
	assert.Equal(t, "Пакет «Под ключ»", botconfig_parser.Quotes(`Пакет "Под ключ"`))
}
