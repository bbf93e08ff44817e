package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "disable", cfg.PostgresSSLMode)

	assert.Len(t, cfg.Neighborhoods, 13)
	assert.Contains(t, cfg.Neighborhoods, "Ipanema")
	assert.Contains(t, cfg.Neighborhoods, "Ilha de Guaratiba")

	assert.Equal(t, 1000, cfg.SearchPriceMin)
	assert.Equal(t, 3, cfg.StayNights)
	assert.Equal(t, 14, cfg.CheckinLead)
	assert.Equal(t, 20, cfg.CardsPerSearch)

	assert.Equal(t, "browser", cfg.FetchMode)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 300*time.Second, cfg.BlockTTL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.True(t, cfg.SearchEnrichment)

	assert.Equal(t, "leads:ready", cfg.RedisStream)
	assert.Equal(t, 500, cfg.RedisStreamMax)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("NEIGHBORHOODS", "Ipanema, Leblon")
	t.Setenv("STAY_NIGHTS", "5")
	t.Setenv("FETCH_MODE", "http")
	t.Setenv("SEARCH_ENRICHMENT", "false")
	t.Setenv("POLL_INTERVAL_SECONDS", "30")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, []string{"Ipanema", "Leblon"}, cfg.Neighborhoods)
	assert.Equal(t, 5, cfg.StayNights)
	assert.Equal(t, "http", cfg.FetchMode)
	assert.False(t, cfg.SearchEnrichment)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("STAY_NIGHTS", "muitas")
	cfg := Load()
	assert.Equal(t, 3, cfg.StayNights)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "luxo",
		PostgresPassword: "secret",
		PostgresDB:       "leads_db",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=luxo password=secret dbname=leads_db sslmode=disable",
		cfg.DSN())
}
