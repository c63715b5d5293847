package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "./data", cfg.Store.Path)
	assert.Equal(t, "wms_stock_data", cfg.Store.StockKey)
	assert.Equal(t, "wms_history_data", cfg.Store.HistoryKey)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.False(t, cfg.AuthEnabled())
}

func TestFromViper_Sobrescritos(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "BOLT")
	v.Set("STORE_PATH", "/var/lib/estoque")
	v.Set("HTTP_PORT", "9090")
	v.Set("JWT_SECRET", "segredo")
	v.Set("DB_PORT", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, DriverBolt, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/estoque", cfg.Store.Path)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.AuthEnabled())
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")

	_, err := fromViper(v)
	assert.ErrorContains(t, err, "sqlite")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "wms", Password: "p@ss", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://wms:p%40ss@db:5432/estoque?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
