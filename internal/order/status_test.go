package order_test

import (
	"fmt"
	"testing"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every lifecycle status", func(t *testing.T) {
		for _, s := range order.Statuses {
			t.Run(s.String(), func(t *testing.T) {
				require.NoError(t, s.Validate())
			})
		}
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		for _, s := range []order.Status{"", "done", "NEW", "in progress"} {
			t.Run(fmt.Sprintf("status %q", string(s)), func(t *testing.T) {
				err := s.Validate()

				require.Error(t, err)
				assert.IsType(t, &errs.ValidationError{}, err)
				assert.Contains(t, err.Error(), "is not a valid status")
			})
		}
	})
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("pending_contact")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPendingContact, s)

	_, err = order.ParseStatus("archived")
	require.Error(t, err)
}

func TestStatus_Label(t *testing.T) {
	testCases := []struct {
		status   order.Status
		expected string
	}{
		{order.StatusNew, "Новый"},
		{order.StatusPendingContact, "Ожидает связи"},
		{order.StatusInProgress, "В работе"},
		{order.StatusCompleted, "Завершен"},
		{order.StatusCancelled, "Отменен"},
		{order.Status("archived"), "archived"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.status.Label())
	}
}

func TestStatus_Transition(t *testing.T) {
	t.Run("should allow any valid target including backwards", func(t *testing.T) {
		for _, from := range order.Statuses {
			for _, to := range order.Statuses {
				next, err := from.Transition(to)

				require.NoError(t, err)
				assert.Equal(t, to, next)
			}
		}
	})

	t.Run("should keep current status on invalid target", func(t *testing.T) {
		next, err := order.StatusCompleted.Transition("archived")

		require.Error(t, err)
		assert.Equal(t, order.StatusCompleted, next)
	})

	t.Run("completed back to new is permitted", func(t *testing.T) {
		next, err := order.StatusCompleted.Transition(order.StatusNew)

		require.NoError(t, err)
		assert.Equal(t, order.StatusNew, next)
		assert.False(t, order.StatusCompleted.IsForward(order.StatusNew))
	})
}

func TestStatus_IsForward(t *testing.T) {
	assert.True(t, order.StatusNew.IsForward(order.StatusPendingContact))
	assert.True(t, order.StatusPendingContact.IsForward(order.StatusCompleted))
	assert.True(t, order.StatusInProgress.IsForward(order.StatusCancelled))
	assert.False(t, order.StatusInProgress.IsForward(order.StatusNew))
	assert.False(t, order.StatusCancelled.IsForward(order.StatusNew))
	assert.True(t, order.StatusCompleted.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusNew.IsTerminal())
}

func TestOrder_SetStatus(t *testing.T) {
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	o := order.New(order.CreateRequest{TelegramUserID: 1, Service: "Лендинг"}, created)

	t.Run("new order starts in status new", func(t *testing.T) {
		assert.Equal(t, order.StatusNew, o.Status)
		assert.Equal(t, o.CreatedAt, o.UpdatedAt)
	})

	t.Run("setting the same status twice is idempotent", func(t *testing.T) {
		first := created.Add(time.Minute)
		second := created.Add(2 * time.Minute)

		require.NoError(t, o.SetStatus(order.StatusInProgress, first))
		require.NoError(t, o.SetStatus(order.StatusInProgress, second))

		assert.Equal(t, order.StatusInProgress, o.Status)
		assert.Equal(t, second, o.UpdatedAt)
	})

	t.Run("updated_at never precedes created_at", func(t *testing.T) {
		require.NoError(t, o.SetStatus(order.StatusCompleted, created.Add(-time.Hour)))

		assert.False(t, o.UpdatedAt.Before(o.CreatedAt))
	})

	t.Run("invalid status leaves the order untouched", func(t *testing.T) {
		before := o

		require.Error(t, o.SetStatus("archived", created.Add(time.Hour)))
		assert.Equal(t, before, o)
	})
}

func TestCreateRequest_Validate(t *testing.T) {
	require.NoError(t, order.CreateRequest{TelegramUserID: 5, Service: "Логотип"}.Validate())

	err := order.CreateRequest{TelegramUserID: 5, Service: "  "}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service")

	err = order.CreateRequest{Service: "Логотип"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram_user_id")
}
