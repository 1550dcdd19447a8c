package api

import (
	"errors"
	"net/http"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/logger"
	"design-order-bot/internal/order"
	"design-order-bot/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Orders store.OrderStore
}

func NewHandler(orders store.OrderStore) *Handler {
	return &Handler{Orders: orders}
}

type (
	statusRequest struct {
		ID     int64  `json:"id" binding:"required"`
		Status string `json:"status" binding:"required"`
	}

	deleteRequest struct {
		ID int64 `json:"id" binding:"required"`
	}
)

func (h *Handler) List(c *gin.Context) {
	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		logger.Warning("Error while list orders", err)
		RespondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}

	c.JSON(http.StatusOK, order.ListResponse{Orders: orders})
}

func (h *Handler) Create(c *gin.Context) {
	var req order.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warning("Invalid create order request", err)
		RespondError(c, http.StatusBadRequest, "invalid request format")
		return
	}

	created, err := h.Orders.Create(c.Request.Context(), req)
	if err != nil {
		respondStoreError(c, "create", err)
		return
	}

	logger.Event("Order created", created.ID, created.Service)
	c.JSON(http.StatusCreated, order.Created{ID: created.ID, CreatedAt: created.CreatedAt})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "id and status are required")
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Orders.UpdateStatus(c.Request.Context(), req.ID, status)
	if err != nil {
		respondStoreError(c, "update status", err)
		return
	}

	logger.Event("Order status changed", updated.ID, updated.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.Orders.Delete(c.Request.Context(), req.ID); err != nil {
		respondStoreError(c, "delete", err)
		return
	}

	logger.Event("Order deleted", req.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondStoreError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Warning("Error while "+op+" order", err)
		RespondError(c, http.StatusInternalServerError, "failed to "+op+" order")
	}
}
