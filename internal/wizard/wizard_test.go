package wizard_test

import (
	"math/rand"
	"testing"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/wizard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tariffs = []string{"Базовый", "Про", "Всё включено"}

func newWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	state, err := wizard.Start("Дизайн карточки товара", wizard.Identity{UserID: 100, Username: "buyer"})
	require.NoError(t, err)
	return wizard.Resume(wizard.DefaultSteps(tariffs), state)
}

func fillAll(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	for _, v := range []string{"https://example.com/item", "женщины 25-40", "1. A\n2. B\n3. C", "minimalist", "7 дней"} {
		require.NoError(t, w.Input(v))
		sub, err := w.Advance()
		require.NoError(t, err)
		require.Nil(t, sub)
	}
	require.NoError(t, w.SelectTariff("Про"))
}

func TestDefaultSteps(t *testing.T) {
	steps := wizard.DefaultSteps(tariffs)

	require.Len(t, steps, 6)
	require.NoError(t, wizard.CheckSteps(steps))
	for i, f := range wizard.Fields {
		assert.Equal(t, f, steps[i].Field)
	}
	assert.Equal(t, wizard.InputMultiline, steps[2].Kind)
	assert.Equal(t, wizard.InputSelect, steps[5].Kind)
	assert.Equal(t, tariffs, steps[5].Options)
}

func TestCheckSteps(t *testing.T) {
	assert.Error(t, wizard.CheckSteps(nil))
	assert.Error(t, wizard.CheckSteps(wizard.DefaultSteps(nil)), "select without options")

	steps := wizard.DefaultSteps(tariffs)
	steps[1].Field = steps[0].Field
	assert.ErrorContains(t, wizard.CheckSteps(steps), "duplicate field")
}

func TestStart(t *testing.T) {
	t.Run("rejects empty service", func(t *testing.T) {
		_, err := wizard.Start("   ", wizard.Identity{UserID: 1})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("starts at step 0 with fresh draft id", func(t *testing.T) {
		a, err := wizard.Start("Лендинг", wizard.Identity{UserID: 1})
		require.NoError(t, err)
		b, err := wizard.Start("Лендинг", wizard.Identity{UserID: 1})
		require.NoError(t, err)

		assert.Equal(t, 0, a.Step)
		assert.NotEqual(t, uuid.Nil, a.Draft.ID)
		assert.NotEqual(t, a.Draft.ID, b.Draft.ID)
		assert.Equal(t, "Лендинг", a.Draft.Service)
	})
}

func TestWizard_Advance(t *testing.T) {
	t.Run("blocks on empty text field", func(t *testing.T) {
		w := newWizard(t)

		sub, err := w.Advance()

		require.Error(t, err)
		assert.Nil(t, sub)
		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "link", vErr.Field)
		assert.Equal(t, 0, w.Index())
	})

	t.Run("whitespace input is rejected and not stored", func(t *testing.T) {
		w := newWizard(t)

		require.Error(t, w.Input("  \n\t "))
		assert.Equal(t, "", w.Value())
	})

	t.Run("blocks on tariff step without selection", func(t *testing.T) {
		w := newWizard(t)
		for _, v := range []string{"l", "a", "adv", "r", "d"} {
			require.NoError(t, w.Input(v))
			_, err := w.Advance()
			require.NoError(t, err)
		}
		require.True(t, w.IsLast())

		sub, err := w.Advance()

		require.Error(t, err)
		assert.Nil(t, sub)
		assert.Equal(t, 5, w.Index())
	})

	t.Run("final step yields submission without moving", func(t *testing.T) {
		w := newWizard(t)
		fillAll(t, w)

		sub, err := w.Advance()

		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, w.State().Draft.ID, sub.DraftID)
		assert.Equal(t, 5, w.Index())
		assert.Equal(t, int64(100), sub.Request.TelegramUserID)
		assert.Equal(t, "buyer", sub.Request.TelegramUsername)
	})

	t.Run("final step refuses submission when an earlier field was lost", func(t *testing.T) {
		w := newWizard(t)
		fillAll(t, w)
		w.State().Draft.Audience = ""

		sub, err := w.Advance()

		require.Error(t, err)
		assert.Nil(t, sub)
		assert.Equal(t, 5, w.Index())
	})
}

func TestWizard_SelectTariff(t *testing.T) {
	t.Run("only on the select step", func(t *testing.T) {
		w := newWizard(t)

		require.Error(t, w.SelectTariff("Про"))
		assert.Equal(t, "", w.State().Draft.Tariff)
	})

	t.Run("re-selectable until advance", func(t *testing.T) {
		w := newWizard(t)
		fillAll(t, w)

		require.NoError(t, w.SelectTariff("Базовый"))
		require.NoError(t, w.SelectTariff("Всё включено"))
		assert.Equal(t, "Всё включено", w.State().Draft.Tariff)
		assert.Equal(t, 5, w.Index())
	})

	t.Run("unknown option rejected", func(t *testing.T) {
		w := newWizard(t)
		fillAll(t, w)

		require.Error(t, w.SelectTariff("Премиум"))
		assert.Equal(t, "Про", w.State().Draft.Tariff)
	})
}

func TestWizard_Retreat(t *testing.T) {
	w := newWizard(t)
	assert.False(t, w.Retreat())
	assert.Equal(t, 0, w.Index())

	require.NoError(t, w.Input("https://example.com"))
	_, err := w.Advance()
	require.NoError(t, err)
	assert.True(t, w.Retreat())
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, "https://example.com", w.Value(), "retreat keeps entered values")
}

func TestWizard_Progress(t *testing.T) {
	w := newWizard(t)
	assert.InDelta(t, 1.0/6.0, w.Progress(), 1e-9)

	fillAll(t, w)
	assert.InDelta(t, 1.0, w.Progress(), 1e-9)
}

func TestWizard_IndexStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	w := newWizard(t)

	for i := 0; i < 2000; i++ {
		switch rnd.Intn(3) {
		case 0:
			_ = w.Input("value")
			_, _ = w.Advance()
		case 1:
			_, _ = w.Advance()
		case 2:
			w.Retreat()
		}
		require.GreaterOrEqual(t, w.Index(), 0)
		require.Less(t, w.Index(), w.Len())
	}
}

func TestResume_ClampsIndex(t *testing.T) {
	state := &wizard.State{Step: 42, Draft: wizard.Draft{Service: "Логотип"}}
	w := wizard.Resume(wizard.DefaultSteps(tariffs), state)
	assert.Equal(t, 5, w.Index())

	state.Step = -3
	w = wizard.Resume(wizard.DefaultSteps(tariffs), state)
	assert.Equal(t, 0, w.Index())
}
