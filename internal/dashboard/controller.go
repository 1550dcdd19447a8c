package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/logger"
	"design-order-bot/internal/order"
)

// FilterAll - показывать заказы во всех статусах
const FilterAll = "all"

type (
	// OrderSource - API заказов; реализуется клиентом заказов
	OrderSource interface {
		List(ctx context.Context) ([]order.Order, error)
		UpdateStatus(ctx context.Context, id int64, status order.Status) error
		Delete(ctx context.Context, id int64) error
	}

	// Stats - счетчики по загруженным заказам
	Stats struct {
		Total    int
		ByStatus map[order.Status]int
	}

	// Controller - состояние панели оператора: последний список заказов и фильтр.
	// После каждого изменения список перечитывается целиком.
	Controller struct {
		src OrderSource

		mu       sync.Mutex
		orders   []order.Order
		filter   order.Status
		loadedAt time.Time
		// номер последнего примененного обновления
		applied uint64

		// номер последнего запрошенного обновления
		issued atomic.Uint64
	}
)

func New(src OrderSource) *Controller {
	return &Controller{src: src}
}

// Refresh перечитывает список. Если пока шел запрос был запрошен более
// свежий список, ответ отбрасывается. При ошибке кеш не меняется.
func (c *Controller) Refresh(ctx context.Context) error {
	seq := c.issued.Add(1)

	list, err := c.src.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied {
		logger.Debug("Drop stale orders list", seq, c.applied)
		return nil
	}
	c.orders = list
	c.applied = seq
	c.loadedAt = time.Now()

	return nil
}

// UpdateStatus меняет статус и перечитывает список. Если заказ уже удален,
// список тоже перечитывается, а ошибка возвращается для уведомления.
func (c *Controller) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if prev, ok := c.Get(id); ok && !prev.Status.IsForward(status) && prev.Status != status {
		logger.Info("Order", id, "moved back from", prev.Status, "to", status)
	}

	err := c.src.UpdateStatus(ctx, id, status)
	if err != nil && !errs.IsBenign(err) {
		return err
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return errors.Join(err, refreshErr)
	}
	return err
}

// Delete удаляет заказ. Удаление уже удаленного заказа не ошибка.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	err := c.src.Delete(ctx, id)
	if err != nil && !errs.IsBenign(err) {
		return err
	}
	if err != nil {
		logger.Info("Order", id, "is already deleted")
	}

	return c.Refresh(ctx)
}

// SetFilter - "all" или один из статусов
func (c *Controller) SetFilter(value string) error {
	var status order.Status
	if value != FilterAll {
		s, err := order.ParseStatus(value)
		if err != nil {
			return err
		}
		status = s
	}

	c.mu.Lock()
	c.filter = status
	c.mu.Unlock()
	return nil
}

func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter == "" {
		return FilterAll
	}
	return string(c.filter)
}

// Visible - заказы под текущим фильтром в исходном порядке
func (c *Controller) Visible() []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filter == "" {
		return slices.Clone(c.orders)
	}
	visible := make([]order.Order, 0, len(c.orders))
	for _, o := range c.orders {
		if o.Status == c.filter {
			visible = append(visible, o)
		}
	}
	return visible
}

func (c *Controller) Get(id int64) (order.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

// Stats считается по всему списку, без учета фильтра
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Total:    len(c.orders),
		ByStatus: make(map[order.Status]int, len(order.Statuses)),
	}
	for _, s := range order.Statuses {
		stats.ByStatus[s] = 0
	}
	for _, o := range c.orders {
		stats.ByStatus[o.Status]++
	}
	return stats
}

func (c *Controller) LoadedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt
}
