// Package mysql provides a MySQL database adapter for LeapMigrate.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
)

// Defaults used when the target config leaves them empty.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 3306
)

// ErDBCreateExists is the server error for CREATE SCHEMA on an existing schema.
const ErDBCreateExists = 1007

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "mysql"
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	mcfg := buildConfig(cfg)
	mcfg.Logger = driverLogger{logger: a.Logger}

	a.Logger.Debug("connecting to mysql", slog.String("addr", mcfg.Addr), slog.String("database", mcfg.DBName))

	connector, err := gomysql.NewConnector(mcfg)
	if err != nil {
		return fmt.Errorf("failed to configure mysql connection: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildConfig maps an adapter config onto a driver config. Options are
// passed as session variables, except "tls" which selects a TLS config.
func buildConfig(cfg adapter.Config) *gomysql.Config {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	c := gomysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.MultiStatements = false
	if cfg.ConnectTimeout > 0 {
		c.Timeout = cfg.ConnectTimeout
	}

	for k, v := range cfg.Options {
		if k == "tls" {
			c.TLSConfig = v
			continue
		}
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[k] = v
	}
	return c
}

// buildDSN returns the driver DSN for a config.
func buildDSN(cfg adapter.Config) string {
	return buildConfig(cfg).FormatDSN()
}

// ServerErrorNumber returns the MySQL error number carried by err.
func ServerErrorNumber(err error) (uint16, bool) {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}

// IsSchemaExists reports whether err is the server refusing to create a
// schema that already exists.
func IsSchemaExists(err error) bool {
	n, ok := ServerErrorNumber(err)
	return ok && n == ErDBCreateExists
}

// driverLogger routes driver messages to slog.
type driverLogger struct {
	logger *slog.Logger
}

func (l driverLogger) Print(v ...any) {
	l.logger.Warn("mysql driver", slog.String("message", fmt.Sprint(v...)))
}
