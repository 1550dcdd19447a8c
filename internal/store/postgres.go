package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/logger"
	"design-order-bot/internal/order"

	"github.com/lib/pq"
)

// коды ошибок PostgreSQL
const (
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

type DB struct {
	Conn *sql.DB

	// таблицы с указанием схемы
	orders string
	users  string
	schema string
}

// Open подключается к PostgreSQL. schema - схема для таблиц бота.
func Open(dsn, schema string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewDB(conn, schema), nil
}

func NewDB(conn *sql.DB, schema string) *DB {
	if schema == "" {
		schema = "public"
	}
	quoted := pq.QuoteIdentifier(schema)
	return &DB{
		Conn:   conn,
		schema: quoted,
		orders: quoted + ".orders",
		users:  quoted + ".bot_users",
	}
}

// Migrate создает схему и таблицы, если их нет
func (db *DB) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE SCHEMA IF NOT EXISTS ` + db.schema,
		`CREATE TABLE IF NOT EXISTS ` + db.orders + ` (
			id                BIGSERIAL PRIMARY KEY,
			telegram_user_id  BIGINT      NOT NULL,
			telegram_username TEXT        NOT NULL DEFAULT '',
			service           TEXT        NOT NULL CHECK (service <> ''),
			link              TEXT        NOT NULL DEFAULT '',
			audience          TEXT        NOT NULL DEFAULT '',
			advantages        TEXT        NOT NULL DEFAULT '',
			"references"      TEXT        NOT NULL DEFAULT '',
			deadline          TEXT        NOT NULL DEFAULT '',
			tariff            TEXT        NOT NULL DEFAULT '',
			status            TEXT        NOT NULL DEFAULT 'new'
				CHECK (status IN ('new', 'pending_contact', 'in_progress', 'completed', 'cancelled')),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (updated_at >= created_at)
		)`,
		`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON ` + db.orders + ` (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS ` + db.users + ` (
			telegram_user_id BIGINT PRIMARY KEY,
			username         TEXT        NOT NULL DEFAULT '',
			first_name       TEXT        NOT NULL DEFAULT '',
			last_name        TEXT        NOT NULL DEFAULT '',
			last_activity    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, q := range queries {
		if _, err := db.Conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Info("Database schema is up to date")
	return nil
}

const orderColumns = `id, telegram_user_id, telegram_username, service, link, audience, advantages,
	"references", deadline, tariff, status, created_at, updated_at`

func (db *DB) List(ctx context.Context) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM ` + db.orders + ` ORDER BY created_at DESC, id DESC`

	rows, err := db.Conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (db *DB) Create(ctx context.Context, r order.CreateRequest) (order.Order, error) {
	if err := r.Validate(); err != nil {
		return order.Order{}, err
	}

	query := `
		INSERT INTO ` + db.orders + ` (telegram_user_id, telegram_username, service, link, audience,
			advantages, "references", deadline, tariff, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + orderColumns

	row := db.Conn.QueryRowContext(ctx, query,
		r.TelegramUserID,
		r.TelegramUsername,
		r.Service,
		r.Link,
		r.Audience,
		r.Advantages,
		r.References,
		r.Deadline,
		r.Tariff,
		order.StatusNew,
	)
	o, err := scanOrder(row)
	if err != nil {
		return order.Order{}, mapPgError(err)
	}
	return o, nil
}

func (db *DB) UpdateStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	if err := status.Validate(); err != nil {
		return order.Order{}, err
	}

	query := `
		UPDATE ` + db.orders + `
		SET status = $1, updated_at = GREATEST(now(), created_at)
		WHERE id = $2
		RETURNING ` + orderColumns

	o, err := scanOrder(db.Conn.QueryRowContext(ctx, query, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, errs.NewNotFoundError("id", id)
	}
	if err != nil {
		return order.Order{}, mapPgError(err)
	}
	return o, nil
}

func (db *DB) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn.ExecContext(ctx, `DELETE FROM `+db.orders+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewNotFoundError("id", id)
	}
	return nil
}

func (db *DB) UpsertUser(ctx context.Context, u User) error {
	if u.TelegramUserID == 0 {
		return errs.NewValidationError("telegram_user_id")
	}
	if u.LastActivity.IsZero() {
		u.LastActivity = time.Now()
	}

	query := `
		INSERT INTO ` + db.users + ` (telegram_user_id, username, first_name, last_name, last_activity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_user_id) DO UPDATE
		SET username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			last_activity = EXCLUDED.last_activity`

	_, err := db.Conn.ExecContext(ctx, query, u.TelegramUserID, u.Username, u.FirstName, u.LastName, u.LastActivity)
	return err
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID,
		&o.TelegramUserID,
		&o.TelegramUsername,
		&o.Service,
		&o.Link,
		&o.Audience,
		&o.Advantages,
		&o.References,
		&o.Deadline,
		&o.Tariff,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// нарушения ограничений таблицы - ошибки валидации
func mapPgError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgCheckViolation, pgNotNullViolation:
			field := pqErr.Column
			if field == "" {
				field = pqErr.Constraint
			}
			return errs.NewValidationErrorWithCause(field, err)
		}
	}
	return err
}
