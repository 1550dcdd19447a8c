package api

import (
	"design-order-bot/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupRoutes - API заказов: список, создание, смена статуса, удаление
func SetupRoutes(r *gin.RouterGroup, orders store.OrderStore) {
	h := NewHandler(orders)

	r.GET("", h.List)
	r.POST("", h.Create)
	r.PUT("", h.UpdateStatus)
	r.DELETE("", h.Delete)
}
