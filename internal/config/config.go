package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://public-api.birdeye.so"

type Config struct {
	// Secrets (from .env / .env.local)
	BirdeyeAPIKey string
	WebhookURL    string
	BotName       string

	// Provider
	BaseURL string
	Chain   string

	// HTTP
	HTTPTimeoutSeconds int
	RetryMaxAttempts   int
	RetryBaseDelaySecs int
	RetryMaxDelaySecs  int

	// Defaults for the tokens command
	TokenSortBy   string
	TokenSortType string
	TokenLimit    int
	TokenOffset   int

	// Defaults for the history command
	HistoryInterval string
	HistoryDaysBack int
}

// Load reads .env then .env.local (the local file wins), then the process
// environment. Missing files are fine; env vars always take effect.
func Load() (*Config, error) {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	cfg := &Config{
		BirdeyeAPIKey: envStr("BIRDEYE_API_KEY", ""),
		WebhookURL:    envStr("WEBHOOK_URL", ""),
		BotName:       envStr("BOT_NAME", "Birdwatch"),

		BaseURL: envStr("BIRDEYE_BASE_URL", defaultBaseURL),
		Chain:   envStr("BIRDEYE_CHAIN", "solana"),

		HTTPTimeoutSeconds: envInt("HTTP_TIMEOUT_SECONDS", 15),
		RetryMaxAttempts:   envInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelaySecs: envInt("RETRY_BASE_DELAY_SECONDS", 1),
		RetryMaxDelaySecs:  envInt("RETRY_MAX_DELAY_SECONDS", 10),

		TokenSortBy:   envStr("TOKEN_SORT_BY", "v24hChangePercent"),
		TokenSortType: envStr("TOKEN_SORT_TYPE", "desc"),
		TokenLimit:    envInt("TOKEN_LIMIT", 100),
		TokenOffset:   envInt("TOKEN_OFFSET", 0),

		HistoryInterval: envStr("HISTORY_INTERVAL", "5m"),
		HistoryDaysBack: envInt("HISTORY_DAYS_BACK", 1),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.BirdeyeAPIKey == "" {
		errs = append(errs, "BIRDEYE_API_KEY is required (set it in .env or .env.local)")
	}
	if c.BaseURL == "" {
		errs = append(errs, "BIRDEYE_BASE_URL must not be empty")
	}
	if c.TokenSortType != "asc" && c.TokenSortType != "desc" {
		errs = append(errs, fmt.Sprintf("TOKEN_SORT_TYPE must be asc or desc, got %q", c.TokenSortType))
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — summaries print to console only")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Birdwatch Configuration ===")
	fmt.Printf("API Key: %s\n", MaskKey(c.BirdeyeAPIKey))
	fmt.Printf("Base URL: %s\n", c.BaseURL)
	fmt.Printf("Chain: %s\n", c.Chain)
	fmt.Printf("HTTP Timeout: %ds, Retries: %d (%ds-%ds backoff)\n",
		c.HTTPTimeoutSeconds, c.RetryMaxAttempts, c.RetryBaseDelaySecs, c.RetryMaxDelaySecs)
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("===============================")
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// MaskKey renders a credential as first5...last5 for display. Short keys
// are fully masked.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:5] + "..." + key[len(key)-5:]
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
