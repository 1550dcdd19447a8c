//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/order"
	"design-order-bot/internal/store"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	conn      *sql.DB
	db        *store.DB
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("orders"),
		postgres.WithUsername("bot"),
		postgres.WithPassword("bot"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := store.Open(dsn, "design_bot")
	s.Require().NoError(err)
	s.db = db
	s.conn = db.Conn

	s.Require().NoError(db.Migrate(ctx))
	// повторная миграция не ломает схему
	s.Require().NoError(db.Migrate(ctx))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.conn.Exec(`TRUNCATE TABLE design_bot.orders, design_bot.bot_users RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *PostgresStoreSuite) create(service string) order.Order {
	o, err := s.db.Create(context.Background(), order.CreateRequest{
		TelegramUserID:   100,
		TelegramUsername: "buyer",
		Service:          service,
		Link:             "https://example.com/item",
		Audience:         "женщины 25-40",
		Advantages:       "1. A\n2. B",
		References:       "minimalist",
		Deadline:         "7 дней",
		Tariff:           "Про",
	})
	s.Require().NoError(err)
	return o
}

func (s *PostgresStoreSuite) TestCreateAndList() {
	first := s.create("Логотип")
	second := s.create("Лендинг")

	list, err := s.db.List(context.Background())

	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
	s.Equal(order.StatusNew, list[1].Status)
	s.Equal("minimalist", list[1].References)
	s.Equal("1. A\n2. B", list[1].Advantages)
}

func (s *PostgresStoreSuite) TestUpdateStatus() {
	created := s.create("Логотип")
	ctx := context.Background()

	updated, err := s.db.UpdateStatus(ctx, created.ID, order.StatusPendingContact)
	s.Require().NoError(err)
	again, err := s.db.UpdateStatus(ctx, created.ID, order.StatusPendingContact)
	s.Require().NoError(err)

	s.Equal(order.StatusPendingContact, again.Status)
	s.False(again.UpdatedAt.Before(updated.UpdatedAt))
	s.False(again.UpdatedAt.Before(again.CreatedAt))

	_, err = s.db.UpdateStatus(ctx, 999, order.StatusCompleted)
	s.ErrorIs(err, errs.ErrNotFound)

	_, err = s.db.UpdateStatus(ctx, created.ID, order.Status("archived"))
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *PostgresStoreSuite) TestDelete() {
	created := s.create("Логотип")
	ctx := context.Background()

	s.Require().NoError(s.db.Delete(ctx, created.ID))
	s.ErrorIs(s.db.Delete(ctx, created.ID), errs.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertUser() {
	ctx := context.Background()

	s.Require().NoError(s.db.UpsertUser(ctx, store.User{TelegramUserID: 5, Username: "old"}))
	s.Require().NoError(s.db.UpsertUser(ctx, store.User{TelegramUserID: 5, Username: "new", FirstName: "Ann"}))

	var username, first string
	err := s.conn.QueryRow(`SELECT username, first_name FROM design_bot.bot_users WHERE telegram_user_id = $1`, 5).
		Scan(&username, &first)
	s.Require().NoError(err)
	s.Equal("new", username)
	s.Equal("Ann", first)
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}
