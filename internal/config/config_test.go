package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GRPC_PORT", "APP_ENV", "NODE_ENV", "CLIENT_ORIGIN", "STRICT_STOCK", "STORAGE_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.False(t, cfg.Production)
	assert.False(t, cfg.StrictStock)
	assert.Equal(t, "http://localhost:5173", cfg.ClientOrigin)
	assert.Equal(t, DriverMySQL, cfg.StorageDriver)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("APP_ENV", "")
	t.Setenv("STRICT_STOCK", "true")
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Production)
	assert.True(t, cfg.StrictStock)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{DBUser: "chef", DBPass: "secret", DBHost: "db", DBPort: "3307", DBName: "nobabdine"}

	dsn := cfg.MySQLDSN()

	assert.Contains(t, dsn, "chef:secret@tcp(db:3307)/nobabdine")
	assert.Contains(t, dsn, "parseTime=true")
}
