package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

type Config struct {
	DataDir string `json:"data_dir"`
	DBPath  string `json:"db_path"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	BackendURL  string `json:"backend_url"`
	MaxTokens   int    `json:"max_tokens"`

	// AI Model API Keys. LLMAPIKey wins over the provider specific ones.
	LLMAPIKey      string `json:"-"`
	OpenAIAPIKey   string `json:"-"`
	DeepSeekAPIKey string `json:"-"`

	RequestTimeout   time.Duration `json:"request_timeout"`
	HistoryWindow    int           `json:"history_window"`
	ListenAddr       string        `json:"listen_addr"`
	SystemPromptFile string        `json:"system_prompt_file"`
	Debug            bool          `json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir: filepath.Join(currentDir, "data"),

		LLMProvider: ProviderOpenAI,
		LLMModel:    "gpt-4o-mini",
		MaxTokens:   2048,

		RequestTimeout: 30 * time.Second,
		HistoryWindow:  0,
		ListenAddr:     ":8080",

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "conversation_log.db")
	}
	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		c.DBPath = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}

	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("HISTORY_WINDOW"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.HistoryWindow = v
		}
	}
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("SYSTEM_PROMPT_FILE"); val != "" {
		c.SystemPromptFile = val
	}

	if val := os.Getenv("DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMAPIKey != "" {
		return c.LLMAPIKey
	}
	switch c.LLMProvider {
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Validate checks the settings that can be checked without touching the network.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderDeepSeek:
	default:
		errs = append(errs, fmt.Errorf("unsupported llm_provider %q", c.LLMProvider))
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		errs = append(errs, errors.New("llm_model is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.HistoryWindow < 0 {
		errs = append(errs, errors.New("history_window must not be negative"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, filepath.Dir(c.DBPath)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
