package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"design-order-bot/internal/api"
	"design-order-bot/internal/order"
	"design-order-bot/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := store.NewMemory()
	r := gin.New()
	api.SetupRoutes(r.Group("/api/orders"), mem)
	return r, mem
}

func do(r http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, mem *store.Memory, service string) order.Order {
	t.Helper()
	o, err := mem.Create(context.Background(), order.CreateRequest{TelegramUserID: 1, Service: service})
	require.NoError(t, err)
	return o
}

func TestHandler_List(t *testing.T) {
	r, mem := newRouter(t)

	t.Run("should return empty array, not null", func(t *testing.T) {
		w := do(r, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"orders":[]}`, w.Body.String())
	})

	t.Run("should return snake_case orders", func(t *testing.T) {
		seed(t, mem, "Логотип")

		w := do(r, http.MethodGet, "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string][]map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body["orders"], 1)
		o := body["orders"][0]
		assert.Equal(t, "Логотип", o["service"])
		assert.Equal(t, "new", o["status"])
		assert.Contains(t, o, "telegram_user_id")
		assert.Contains(t, o, "created_at")
		assert.Contains(t, o, "updated_at")
	})
}

func TestHandler_Create(t *testing.T) {
	r, mem := newRouter(t)

	t.Run("should return 201 with id and created_at", func(t *testing.T) {
		w := do(r, http.MethodPost, `{"telegram_user_id":5,"telegram_username":"ann","service":"Лендинг","link":"https://x","tariff":"Про"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var created order.Created
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, int64(1), created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		list, err := mem.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "ann", list[0].TelegramUsername)
	})

	t.Run("should reject empty service", func(t *testing.T) {
		w := do(r, http.MethodPost, `{"telegram_user_id":5,"service":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject broken json", func(t *testing.T) {
		w := do(r, http.MethodPost, `{`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_UpdateStatus(t *testing.T) {
	r, mem := newRouter(t)
	o := seed(t, mem, "Логотип")

	t.Run("should update status", func(t *testing.T) {
		w := do(r, http.MethodPut, `{"id":1,"status":"in_progress"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		list, _ := mem.List(context.Background())
		assert.Equal(t, order.StatusInProgress, list[0].Status)
		assert.Equal(t, o.ID, list[0].ID)
	})

	for name, body := range map[string]string{
		"missing id":     `{"status":"new"}`,
		"missing status": `{"id":1}`,
		"unknown status": `{"id":1,"status":"archived"}`,
	} {
		t.Run("should return 400 on "+name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, body).Code)
		})
	}

	t.Run("should return 404 on unknown id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, `{"id":99,"status":"new"}`).Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	r, mem := newRouter(t)
	seed(t, mem, "Логотип")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, `{}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, `{"id":1}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, `{"id":1}`).Code)
}
