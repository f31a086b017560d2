package mysql

import (
	"context"
	"fmt"
	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		addr     string
		user     string
		database string
		timeout  time.Duration
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     3307,
				Database: "p1",
				Username: "migrator",
				Password: "secret",
			},
			addr:     "db.example.com:3307",
			user:     "migrator",
			database: "p1",
		},
		{
			name:     "defaults",
			config:   adapter.Config{},
			addr:     "127.0.0.1:3306",
			database: "",
		},
		{
			name: "with timeout",
			config: adapter.Config{
				Host:           "localhost",
				ConnectTimeout: 5 * time.Second,
			},
			addr:    "localhost:3306",
			timeout: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildConfig(tt.config)
			assert.Equal(t, "tcp", c.Net)
			assert.Equal(t, tt.addr, c.Addr)
			assert.Equal(t, tt.user, c.User)
			assert.Equal(t, tt.database, c.DBName)
			assert.Equal(t, tt.timeout, c.Timeout)
			assert.True(t, c.ParseTime)
			assert.False(t, c.MultiStatements)
		})
	}
}

func TestBuildDSN_RoundTrip(t *testing.T) {
	dsn := buildDSN(adapter.Config{
		Host:           "db.example.com",
		Port:           3306,
		Database:       "p1",
		Username:       "migrator",
		Password:       "s3cr@t",
		ConnectTimeout: 2 * time.Second,
		Options:        map[string]string{"tls": "skip-verify", "sql_mode": "'STRICT_ALL_TABLES'"},
	})

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "migrator", parsed.User)
	assert.Equal(t, "s3cr@t", parsed.Passwd)
	assert.Equal(t, "db.example.com:3306", parsed.Addr)
	assert.Equal(t, "p1", parsed.DBName)
	assert.Equal(t, 2*time.Second, parsed.Timeout)
	assert.Equal(t, "skip-verify", parsed.TLSConfig)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, "'STRICT_ALL_TABLES'", parsed.Params["sql_mode"])
}

func TestServerErrors(t *testing.T) {
	exists := fmt.Errorf("step 1: failed to execute SQL: %w", &gomysql.MySQLError{Number: ErDBCreateExists, Message: "database exists"})
	assert.True(t, IsSchemaExists(exists))

	n, ok := ServerErrorNumber(exists)
	assert.True(t, ok)
	assert.Equal(t, uint16(ErDBCreateExists), n)

	other := &gomysql.MySQLError{Number: 1146}
	assert.False(t, IsSchemaExists(other))

	_, ok = ServerErrorNumber(assert.AnError)
	assert.False(t, ok)
}

func TestAdapter_DialectName(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "mysql", a.DialectName())
	assert.False(t, a.IsConnected())
}

func TestAdapter_ConnectFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	a := New(nil)
	err := a.Connect(ctx, adapter.Config{Host: "127.0.0.1", Port: 1, ConnectTimeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping mysql")
	assert.False(t, a.IsConnected())
}
