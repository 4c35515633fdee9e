package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Analysis service providers
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// Config holds all application configuration
type Config struct {
	// Analysis service selection and limits
	Analysis AnalysisConfig

	// LLM provider configurations
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	// Chart widget display options
	Chart ChartConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Logging configuration
	Log LogConfig
}

// AnalysisConfig holds settings for fetching stock records
type AnalysisConfig struct {
	Provider              string
	TimeoutSeconds        int
	ConcurrencyLimit      int
	DefaultTicker         string
	HealthCacheTTLSeconds int
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey          string
	Model           string
	SearchGrounding bool
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region           string
	ModelID          string
	MaxTokens        int
	AnthropicVersion string
}

// ChartConfig holds the embedded chart widget options
type ChartConfig struct {
	Exchange string
	Interval string
	Timezone string
	Theme    string
	Locale   string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr                   string
	CORSAllowedOrigins     string
	RequestTimeoutSeconds  int
	LoadingRefreshSeconds  int
	ShutdownTimeoutSeconds int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Production bool
	Level      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			Provider:              strings.ToLower(getEnvString("ANALYSIS_PROVIDER", ProviderGemini)),
			TimeoutSeconds:        getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 90),
			ConcurrencyLimit:      getEnvInt("ANALYSIS_CONCURRENCY_LIMIT", 3),
			DefaultTicker:         getEnvString("DEFAULT_TICKER", "2330"),
			HealthCacheTTLSeconds: getEnvInt("ANALYSIS_HEALTH_CACHE_TTL_SECONDS", 60),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnvString("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			SearchGrounding: getEnvBool("GEMINI_SEARCH_GROUNDING", true),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 4096),
			BaseURL:   os.Getenv("OPENAI_BASE_URL"),
		},
		Bedrock: BedrockConfig{
			Region:           os.Getenv("AWS_REGION"),
			ModelID:          os.Getenv("BEDROCK_MODEL_ID"),
			MaxTokens:        getEnvInt("BEDROCK_MAX_TOKENS", 4096),
			AnthropicVersion: getEnvString("BEDROCK_ANTHROPIC_VERSION", "bedrock-2023-05-31"),
		},
		Chart: ChartConfig{
			Exchange: getEnvString("CHART_EXCHANGE", "TWSE"),
			Interval: getEnvString("CHART_INTERVAL", "D"),
			Timezone: getEnvString("CHART_TIMEZONE", "Asia/Taipei"),
			Theme:    getEnvString("CHART_THEME", "light"),
			Locale:   getEnvString("CHART_LOCALE", "zh_TW"),
		},
		HTTP: HTTPConfig{
			Addr:                   getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins:     getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			RequestTimeoutSeconds:  getEnvInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
			LoadingRefreshSeconds:  getEnvInt("LOADING_REFRESH_SECONDS", 2),
			ShutdownTimeoutSeconds: getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Log: LogConfig{
			Production: getEnvString("APP_ENV", "development") == "production",
			Level:      strings.ToLower(getEnvString("LOG_LEVEL", "info")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Analysis.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderBedrock:
	default:
		return fmt.Errorf("ANALYSIS_PROVIDER must be one of gemini, openai, bedrock, got %q", c.Analysis.Provider)
	}

	if c.Analysis.TimeoutSeconds <= 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT_SECONDS must be positive, got %d", c.Analysis.TimeoutSeconds)
	}
	if c.Analysis.ConcurrencyLimit <= 0 {
		return fmt.Errorf("ANALYSIS_CONCURRENCY_LIMIT must be positive, got %d", c.Analysis.ConcurrencyLimit)
	}
	if strings.TrimSpace(c.Analysis.DefaultTicker) == "" {
		return fmt.Errorf("DEFAULT_TICKER must not be empty")
	}

	// The page timeout must leave room for the analysis itself
	if c.HTTP.RequestTimeoutSeconds < c.Analysis.TimeoutSeconds {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT_SECONDS (%d) must be at least ANALYSIS_TIMEOUT_SECONDS (%d)",
			c.HTTP.RequestTimeoutSeconds, c.Analysis.TimeoutSeconds)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// HasGemini returns true if Gemini configuration is available
func (c *Config) HasGemini() bool {
	return c.Gemini.APIKey != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock configuration is available
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Region != "" && c.Bedrock.ModelID != ""
}

// HasProvider returns true if the selected analysis provider is configured
func (c *Config) HasProvider() bool {
	switch c.Analysis.Provider {
	case ProviderGemini:
		return c.HasGemini()
	case ProviderOpenAI:
		return c.HasOpenAI()
	case ProviderBedrock:
		return c.HasBedrock()
	}
	return false
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Provider:              ProviderGemini,
			TimeoutSeconds:        90,
			ConcurrencyLimit:      3,
			DefaultTicker:         "2330",
			HealthCacheTTLSeconds: 60,
		},
		Gemini: GeminiConfig{
			Model:           "gemini-2.5-flash",
			SearchGrounding: true,
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Bedrock: BedrockConfig{
			MaxTokens:        4096,
			AnthropicVersion: "bedrock-2023-05-31",
		},
		Chart: ChartConfig{
			Exchange: "TWSE",
			Interval: "D",
			Timezone: "Asia/Taipei",
			Theme:    "light",
			Locale:   "zh_TW",
		},
		HTTP: HTTPConfig{
			Addr:                   ":8080",
			CORSAllowedOrigins:     "*",
			RequestTimeoutSeconds:  120,
			LoadingRefreshSeconds:  2,
			ShutdownTimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
