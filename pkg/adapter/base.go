package adapter

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// ErrNotConnected is returned when an adapter is used before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, QueryStrings and Run implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a SQL statement that doesn't return rows.
// Statements run on any pooled connection; use Run for actions.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	return execOn(ctx, b.DB, b.logger(), sqlStr)
}

// QueryStrings executes a query and returns the first column of every row.
func (b *BaseSQLAdapter) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	return queryStringsOn(ctx, b.DB, b.logger(), query, args...)
}

// Run executes an action on one pinned connection.
func (b *BaseSQLAdapter) Run(ctx context.Context, action core.Action) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	if action.IsNoop() {
		b.logger().Debug("skipping empty action")
		return nil
	}

	conn, err := b.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	b.logger().Debug("running action", slog.Int("steps", len(action.Steps)))
	if err := mutation.Run(ctx, &ConnExecutor{Conn: conn, Logger: b.logger()}, action); err != nil {
		discard(conn, b.logger())
		return err
	}
	return nil
}

// discard closes the driver connection behind conn instead of returning it
// to the pool. A failed action can leave session state behind, such as
// FOREIGN_KEY_CHECKS=0 from an interrupted truncate.
func discard(conn *sql.Conn, logger *slog.Logger) {
	logger.Debug("discarding connection after failed action")
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
}

// ConnExecutor is a mutation.Executor bound to a single connection.
type ConnExecutor struct {
	Conn   *sql.Conn
	Logger *slog.Logger
}

// Exec implements mutation.Executor.
func (c *ConnExecutor) Exec(ctx context.Context, sqlStr string) error {
	return execOn(ctx, c.Conn, c.Logger, sqlStr)
}

// QueryStrings implements mutation.Executor.
func (c *ConnExecutor) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	return queryStringsOn(ctx, c.Conn, c.Logger, query, args...)
}

// queryer is the part of *sql.DB and *sql.Conn used by the executors.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execOn(ctx context.Context, q queryer, logger *slog.Logger, sqlStr string) error {
	logger.Debug("executing statement", slog.String("sql", sqlStr))
	if _, err := q.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

func queryStringsOn(ctx context.Context, q queryer, logger *slog.Logger, query string, args ...any) ([]string, error) {
	logger.Debug("executing query", slog.String("sql", query), slog.Any("args", args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if v.Valid {
			values = append(values, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return values, nil
}
