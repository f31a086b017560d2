package adapter_test

import (
	"testing"

	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapmigrate/pkg/adapters/mysql"
)

func TestMySQLSelfRegistration(t *testing.T) {
	assert.True(t, adapter.IsRegistered("mysql"), "mysql adapter should be auto-registered")
	assert.Contains(t, adapter.ListAdapters(), "mysql")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"mysql registered", "mysql", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.IsRegistered(tt.adapterName))
		})
	}
}

func TestNewAdapter_MySQL(t *testing.T) {
	a, err := adapter.NewAdapter(adapter.Config{Type: "mysql"}, nil)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "mysql", a.DialectName())
}
