package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Portal    PortalConfig    `yaml:"portal" mapstructure:"portal"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Port       int    `yaml:"port" mapstructure:"port"`
	CORSOrigin string `yaml:"cors_origin" mapstructure:"cors_origin"`
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// TTL returns the cache expiry window as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// PortalConfig configures the library portal scrape and downloads.
type PortalConfig struct {
	SearchURL            string `yaml:"search_url" mapstructure:"search_url"`
	UserAgent            string `yaml:"user_agent" mapstructure:"user_agent"`
	ScratchDir           string `yaml:"scratch_dir" mapstructure:"scratch_dir"`
	SearchTimeoutSecs    int    `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	DownloadTimeoutSecs  int    `yaml:"download_timeout_secs" mapstructure:"download_timeout_secs"`
	MaxConcurrentFetches int    `yaml:"max_concurrent_fetches" mapstructure:"max_concurrent_fetches"`
}

// ExtractConfig configures PDF text extraction.
type ExtractConfig struct {
	PdfToTextPath string    `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MinTextChars  int       `yaml:"min_text_chars" mapstructure:"min_text_chars"`
	OCR           OCRConfig `yaml:"ocr" mapstructure:"ocr"`
}

// OCRConfig configures the OCR fallback for scanned papers.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// AnalysisConfig configures the hosted model call.
type AnalysisConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	GeminiKey      string `yaml:"gemini_api_key" mapstructure:"gemini_api_key"`
	GeminiModel    string `yaml:"gemini_model" mapstructure:"gemini_model"`
	GeminiBaseURL  string `yaml:"gemini_base_url" mapstructure:"gemini_base_url"`
	AnthropicKey   string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPromptChars int    `yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`
	MinTextChars   int    `yaml:"min_text_chars" mapstructure:"min_text_chars"`
}

// RateLimitConfig configures per-client hourly admission control.
type RateLimitConfig struct {
	AnalyzePerHour int `yaml:"analyze_per_hour" mapstructure:"analyze_per_hour"`
	ScrapePerHour  int `yaml:"scrape_per_hour" mapstructure:"scrape_per_hour"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from examhack.yaml (cwd or ~/.examhack) and
// EXAMHACK_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("examhack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.examhack")

	// Environment
	v.SetEnvPrefix("EXAMHACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origin", "http://localhost:5173")
	v.SetDefault("cache.dir", "cache")
	v.SetDefault("cache.ttl_days", 7)
	v.SetDefault("portal.search_url", "https://cl.thapar.edu/ques.php")
	v.SetDefault("portal.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("portal.scratch_dir", "temp/downloads")
	v.SetDefault("portal.search_timeout_secs", 15)
	v.SetDefault("portal.download_timeout_secs", 60)
	v.SetDefault("portal.max_concurrent_fetches", 4)
	v.SetDefault("extract.pdftotext_path", "pdftotext")
	v.SetDefault("extract.min_text_chars", 100)
	v.SetDefault("extract.ocr.provider", "tesseract")
	v.SetDefault("extract.ocr.tesseract_path", "tesseract")
	v.SetDefault("extract.ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("analysis.provider", "gemini")
	v.SetDefault("analysis.gemini_model", "gemini-2.5-flash")
	v.SetDefault("analysis.gemini_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("analysis.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("analysis.timeout_secs", 60)
	v.SetDefault("analysis.max_prompt_chars", 30000)
	v.SetDefault("analysis.min_text_chars", 100)
	v.SetDefault("rate_limit.analyze_per_hour", 3)
	v.SetDefault("rate_limit.scrape_per_hour", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
