package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/order"
)

// Memory - хранилище в памяти, когда база не настроена
type Memory struct {
	mu     sync.Mutex
	orders []order.Order
	users  map[int64]User
	lastID int64

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[int64]User),
		now:   time.Now,
	}
}

// WithClock подменяет часы, нужен тестам
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) List(_ context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(make([]order.Order, 0, len(m.orders)), m.orders...)
	slices.SortStableFunc(list, func(a, b order.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return list, nil
}

func (m *Memory) Create(_ context.Context, r order.CreateRequest) (order.Order, error) {
	if err := r.Validate(); err != nil {
		return order.Order{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	o := order.New(r, m.now().UTC())
	o.ID = m.lastID
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id int64, status order.Status) (order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return order.Order{}, errs.NewNotFoundError("id", id)
	}
	if err := m.orders[i].SetStatus(status, m.now().UTC()); err != nil {
		return order.Order{}, err
	}
	return m.orders[i], nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return errs.NewNotFoundError("id", id)
	}
	m.orders = slices.Delete(m.orders, i, i+1)
	return nil
}

func (m *Memory) UpsertUser(_ context.Context, u User) error {
	if u.TelegramUserID == 0 {
		return errs.NewValidationError("telegram_user_id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if u.LastActivity.IsZero() {
		u.LastActivity = m.now().UTC()
	}
	m.users[u.TelegramUserID] = u
	return nil
}

// User - сохраненный пользователь
func (m *Memory) User(id int64) (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) index(id int64) int {
	return slices.IndexFunc(m.orders, func(o order.Order) bool { return o.ID == id })
}
