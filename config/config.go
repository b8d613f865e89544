package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // the day boundary must not depend on the host's zoneinfo

	"github.com/joho/godotenv"
)

type Config struct {
	Transport string // telegram, discord

	TelegramToken  string
	TelegramUserID int64
	DiscordToken   string
	DiscordUserID  string
	WebhookURL     string

	LedgerBackend         string // sqlite, sheets, memory
	DatabasePath          string
	GoogleSheetID         string
	GoogleCredentialsJSON string // JSON content or a path to the file

	LLMProvider     string // anthropic, openai, ollama, gemini, none
	AnthropicKey    string // API key (X-Api-Key header)
	AnthropicToken  string // OAuth token (Authorization: Bearer header)
	OpenAIKey       string
	GeminiKey       string
	LLMModel        string
	OllamaBaseURL   string
	LLMTimeout      time.Duration
	MaxPromptTokens int

	WeeklyCron string
	Timezone   string
	Location   *time.Location

	CatalogPath string // empty uses the built-in catalog
	ImagesDir   string
	Currency    string
	Seed        uint64 // 0 picks a random seed
	LogLevel    string
}

// Load reads the environment, after loading envFile (or ./.env when empty).
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load() // ignore error if no .env
	}

	var errs []error
	cfg := &Config{
		Transport:             strings.ToLower(envOr("TRANSPORT", "telegram")),
		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		DiscordToken:          os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordUserID:         os.Getenv("DISCORD_USER_ID"),
		WebhookURL:            os.Getenv("WEBHOOK_URL"),
		LedgerBackend:         strings.ToLower(envOr("LEDGER_BACKEND", "sqlite")),
		DatabasePath:          envOr("DATABASE_PATH", "./sambo.db"),
		GoogleSheetID:         os.Getenv("GOOGLE_SHEET_ID"),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		LLMProvider:           strings.ToLower(envOr("LLM_PROVIDER", "none")),
		AnthropicKey:          os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:        os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		GeminiKey:             os.Getenv("GEMINI_API_KEY"),
		LLMModel:              os.Getenv("LLM_MODEL"),
		OllamaBaseURL:         envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		WeeklyCron:            envOr("WEEKLY_CRON", "0 20 * * 0"),
		Timezone:              envOr("TIMEZONE", "Europe/Moscow"),
		CatalogPath:           os.Getenv("CATALOG_PATH"),
		ImagesDir:             envOr("IMAGES_DIR", "./images"),
		Currency:              envOr("CURRENCY", "rub"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TelegramUserID, err = envInt64("TELEGRAM_USER_ID", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.LLMTimeout, err = envDuration("LLM_TIMEOUT", 45*time.Second); err != nil {
		errs = append(errs, err)
	}
	var maxTokens int64
	if maxTokens, err = envInt64("MAX_PROMPT_TOKENS", 2000); err != nil {
		errs = append(errs, err)
	}
	cfg.MaxPromptTokens = int(maxTokens)
	var seed int64
	if seed, err = envInt64("SEED", 0); err != nil {
		errs = append(errs, err)
	}
	cfg.Seed = uint64(seed)

	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error
	switch c.LedgerBackend {
	case "sqlite", "memory":
	case "sheets":
		if c.GoogleSheetID == "" {
			errs = append(errs, errors.New("GOOGLE_SHEET_ID is required for the sheets ledger"))
		}
		if c.GoogleCredentialsJSON == "" {
			errs = append(errs, errors.New("GOOGLE_CREDENTIALS_JSON is required for the sheets ledger"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend))
	}
	switch c.LLMProvider {
	case "anthropic", "openai", "ollama", "gemini", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.MaxPromptTokens <= 0 {
		errs = append(errs, errors.New("MAX_PROMPT_TOKENS must be positive"))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT must be positive"))
	}
	return errs
}

// ValidateTransport checks what `sambo run` needs to reach the chat.
func (c *Config) ValidateTransport() error {
	switch c.Transport {
	case "telegram":
		if c.TelegramToken == "" {
			return errors.New("TELEGRAM_BOT_TOKEN is required")
		}
		if c.TelegramUserID == 0 {
			return errors.New("TELEGRAM_USER_ID is required")
		}
	case "discord":
		if c.DiscordToken == "" {
			return errors.New("DISCORD_BOT_TOKEN is required")
		}
		if c.DiscordUserID == "" {
			return errors.New("DISCORD_USER_ID is required")
		}
	default:
		return fmt.Errorf("unknown TRANSPORT %q", c.Transport)
	}
	return nil
}

// LLMKey returns the API key for the configured provider.
func (c *Config) LLMKey() string {
	switch c.LLMProvider {
	case "anthropic":
		return c.AnthropicKey
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	}
	return ""
}

// GoogleCredentials returns the service account JSON, reading it from disk
// when the variable holds a path.
func (c *Config) GoogleCredentials() ([]byte, error) {
	v := strings.TrimSpace(c.GoogleCredentialsJSON)
	if strings.HasPrefix(v, "{") {
		return []byte(v), nil
	}
	data, err := os.ReadFile(v)
	if err != nil {
		return nil, fmt.Errorf("reading Google credentials: %w", err)
	}
	return data, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
