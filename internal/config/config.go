package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Bulk create policies for POST /admin/books/bulk.
const (
	BulkAtomic  = "atomic"
	BulkPartial = "partial"
)

type Config struct {
	Port        string
	Env         string // development | production
	DBDSN       string
	TokenSecret string // 64 hex chars (32-byte PASETO v4 key); empty = ephemeral dev key
	TokenTTL    time.Duration
	BulkPolicy  string // atomic | partial
	AdminEmail  string
	AdminPass   string
	LogFile     string
}

func (c Config) Production() bool { return c.Env == "production" }

func Load() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		Env:         getenv("ENV", "development"),
		DBDSN:       getenv("DB_DSN", "bookshelf.db"),
		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenTTL:    ParseTTL(getenv("TOKEN_TTL", "1d")),
		BulkPolicy:  getenv("BULK_CREATE_POLICY", BulkAtomic),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
		AdminPass:   os.Getenv("ADMIN_PASSWORD"),
		LogFile:     os.Getenv("LOG_FILE"),
	}
	if cfg.BulkPolicy != BulkAtomic && cfg.BulkPolicy != BulkPartial {
		log.Printf("[config] unknown BULK_CREATE_POLICY %q, using %q", cfg.BulkPolicy, BulkAtomic)
		cfg.BulkPolicy = BulkAtomic
	}
	log.Printf("[config] PORT=%s ENV=%s DB_DSN=%s TOKEN_TTL=%s BULK_CREATE_POLICY=%s",
		cfg.Port, cfg.Env, cfg.DBDSN, cfg.TokenTTL, cfg.BulkPolicy)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseTTL parses a token lifetime like "30s", "15m", "12h" or "7d".
// Unknown or malformed values fall back to one day.
func ParseTTL(s string) time.Duration {
	const day = 24 * time.Hour
	s = strings.TrimSpace(s)
	if s == "" {
		return day
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return day
	}
	switch unit {
	case 's':
		return time.Duration(n) * time.Second
	case 'm':
		return time.Duration(n) * time.Minute
	case 'h':
		return time.Duration(n) * time.Hour
	case 'd':
		return time.Duration(n) * day
	}
	return day
}
