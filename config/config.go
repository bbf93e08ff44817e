package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MemcacheAddr string

	RedisAddr      string
	RedisDB        int
	RedisStream    string
	RedisStreamMax int

	Neighborhoods  []string
	SearchPriceMin int
	StayNights     int
	CheckinLead    int // days from now until checkin
	CardsPerSearch int

	FetchMode    string // "browser" or "http"
	ChromeBin    string
	FetchTimeout time.Duration
	BlockTTL     time.Duration

	PollInterval   time.Duration
	RateLimitMs    int
	MaxRetries     int
	MaxConcurrency int

	SearchEnrichment bool

	Environment string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "luxo"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "luxo123"),
		PostgresDB:       getEnv("POSTGRES_DB", "leads_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisStream:    getEnv("REDIS_STREAM", "leads:ready"),
		RedisStreamMax: getEnvInt("REDIS_STREAM_MAXLEN", 500),

		Neighborhoods:  getEnvList("NEIGHBORHOODS", defaultNeighborhoods),
		SearchPriceMin: getEnvInt("SEARCH_PRICE_MIN", 1000),
		StayNights:     getEnvInt("STAY_NIGHTS", 3),
		CheckinLead:    getEnvInt("CHECKIN_LEAD_DAYS", 14),
		CardsPerSearch: getEnvInt("CARDS_PER_SEARCH", 20),

		FetchMode:    getEnv("FETCH_MODE", "browser"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
		FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 45)) * time.Second,
		BlockTTL:     time.Duration(getEnvInt("FETCH_BLOCK_SECONDS", 300)) * time.Second,

		PollInterval:   time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),

		SearchEnrichment: getEnv("SEARCH_ENRICHMENT", "true") == "true",

		Environment: getEnv("LUXO_ENVIRONMENT", "development"),
	}
}

// defaultNeighborhoods is the Rio de Janeiro coverage for the discovery pass.
var defaultNeighborhoods = []string{
	"Ipanema", "Leblon", "Barra da Tijuca", "Joá", "São Conrado",
	"Lagoa", "Copacabana", "Itanhangá", "Guaratiba", "Botafogo",
	"Vargem Grande", "Vargem Pequena", "Ilha de Guaratiba",
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
