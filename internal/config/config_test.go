package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENCRYPTION_KEY", testEncryptionKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Address())
	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, "memory", cfg.Auth.RevocationStore)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.Auth.SweepInterval)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPCleanupInterval)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddress())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ENCRYPTION_KEY")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Dialect: "sqlite"},
			Auth: AuthConfig{
				JWTSecret:       "secret",
				EncryptionKey:   " " + testEncryptionKey + " ",
				BcryptCost:      10,
				RevocationStore: "redis",
			},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"dialect", func(c *Config) { c.Database.Dialect = "oracle" }},
		{"store", func(c *Config) { c.Auth.RevocationStore = "disk" }},
		{"cost low", func(c *Config) { c.Auth.BcryptCost = 3 }},
		{"cost high", func(c *Config) { c.Auth.BcryptCost = 32 }},
		{"key length", func(c *Config) { c.Auth.EncryptionKey = testEncryptionKey + "x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 3306, Name: "star", User: "u", Password: "p", SSLMode: "disable", Path: "/tmp/x.db"}

	d.Dialect = "mysql"
	m, err := mysql.ParseDSN(d.DSN())
	require.NoError(t, err)
	assert.Equal(t, "u", m.User)
	assert.Equal(t, "db:3306", m.Addr)
	assert.Equal(t, "star", m.DBName)
	assert.True(t, m.ParseTime)
	assert.True(t, m.ClientFoundRows)

	d.Dialect = "postgres"
	d.Port = 5432
	assert.Equal(t, "postgres://u:p@db:5432/star?sslmode=disable", d.DSN())

	d.Dialect = "sqlite"
	assert.Equal(t, "/tmp/x.db", d.DSN())
}

func TestDatabaseConfig_DSNEscapesCredentials(t *testing.T) {
	d := DatabaseConfig{Host: "db", Name: "star", User: "ad@min", Password: "p@ss/w:rd?#", SSLMode: "require"}

	d.Dialect = "postgres"
	d.Port = 5432
	u, err := url.Parse(d.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/star", u.Path)
	assert.Equal(t, "ad@min", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss/w:rd?#", pass)
	assert.Equal(t, "require", u.Query().Get("sslmode"))

	d.Dialect = "mysql"
	d.Port = 3306
	m, err := mysql.ParseDSN(d.DSN())
	require.NoError(t, err)
	assert.Equal(t, "ad@min", m.User)
	assert.Equal(t, "p@ss/w:rd?#", m.Passwd)
	assert.Equal(t, "db:3306", m.Addr)
	assert.Equal(t, "star", m.DBName)
}
