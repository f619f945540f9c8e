package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Metadata fetchers
	TitleEndpoint  string        // title-extraction API base (returns JSON with an optional "title" field)
	ReaderEndpoint string        // plain-text reader base, target URL appended to the path
	FetchTimeout   time.Duration // per-request timeout for metadata lookups
	UserAgent      string        // browser-like UA sent to the reader endpoint
	IconTemplate   string        // icon service URL template, %s = hostname
	DefaultIcon    string        // local icon path used when a host cannot be derived
	MetadataTTL    time.Duration // TTL for cached title/summary lookups (0 = cache disabled)

	// Seed import
	SeedFile     string        // path to a bookmarks seed yaml (optional, empty = import disabled)
	SeedOwner    string        // user the seed bookmarks are stored under
	SeedInterval time.Duration // interval for periodic reimport (0 = initial import only)

	// Auth
	AuthTokens map[string]string // bearer token -> user id

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Rate limiting for mutating bookmark routes
	RateBurst        int
	RateRefillPerMin int
}

func Load() *Config {
	// Optional .env for local development; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MARKS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARKS_PRETTY_LOG", true),

		// Metadata fetchers
		TitleEndpoint:  getenv("MARKS_TITLE_ENDPOINT", "https://jsonlink.io/api/extract"),
		ReaderEndpoint: getenv("MARKS_READER_ENDPOINT", "https://r.jina.ai"),
		FetchTimeout:   mustDuration("MARKS_FETCH_TIMEOUT", 15*time.Second),
		UserAgent:      getenv("MARKS_FETCH_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
		IconTemplate:   getenv("MARKS_ICON_TEMPLATE", "https://www.google.com/s2/favicons?domain=%s&sz=64"),
		DefaultIcon:    getenv("MARKS_DEFAULT_ICON", "/icons/default.svg"),
		MetadataTTL:    mustDuration("MARKS_METADATA_TTL", 24*time.Hour),

		// Seed import
		SeedFile:     getenv("MARKS_SEED_FILE", ""), // Optional, empty = seed import disabled
		SeedOwner:    getenv("MARKS_SEED_OWNER", ""),
		SeedInterval: mustDuration("MARKS_SEED_REIMPORT_INTERVAL", 0),

		// Auth
		AuthTokens: parseTokens(requireEnv("MARKS_AUTH_TOKENS")),

		// Redis settings
		RedisAddr:             requireEnv("MARKS_REDIS_ADDR"),
		RedisUser:             getenv("MARKS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("MARKS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("MARKS_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("MARKS_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("MARKS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MARKS_TRUST_PROXY", true),

		// Rate limiting
		RateBurst:        getenvInt("MARKS_RATE_BURST", 10),
		RateRefillPerMin: getenvInt("MARKS_RATE_REFILL_PER_MIN", 30),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MARKS_REDIS_PASSWORD is required when MARKS_REDIS_PASSWORD_REQUIRED=true")
	}

	// Seed import needs an owner to store rows under
	if cfg.SeedFile != "" && cfg.SeedOwner == "" {
		panic("❌ FATAL: MARKS_SEED_OWNER is required when MARKS_SEED_FILE is set")
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseTokens parses "token:user,token2:user2" into a token -> user map.
func parseTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range splitAndTrim(raw) {
		token, user, ok := strings.Cut(pair, ":")
		if !ok || token == "" || user == "" {
			panic(fmt.Sprintf("❌ FATAL: Invalid MARKS_AUTH_TOKENS entry %q (expected token:user)", pair))
		}
		tokens[token] = user
	}
	if len(tokens) == 0 {
		panic("❌ FATAL: MARKS_AUTH_TOKENS contains no usable entries")
	}
	return tokens
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
