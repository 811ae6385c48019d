package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Compiler  CompilerConfig
	Runtime   RuntimeConfig
	Cache     CacheConfig
	Preview   PreviewConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// CompilerConfig holds compile service configuration. With an empty URL the
// compile service runs in process.
type CompilerConfig struct {
	URL           string        `envconfig:"COMPILER_URL"`
	Timeout       time.Duration `envconfig:"COMPILER_TIMEOUT" default:"10s"`
	Retries       int           `envconfig:"COMPILER_RETRIES" default:"2"`
	RateLimit     float64       `envconfig:"COMPILER_RPS" default:"0"`
	Local         bool          `envconfig:"COMPILER_LOCAL" default:"true"`
	ToolchainFile string        `envconfig:"TOOLCHAIN_FILE"`
	MaxFiles      int           `envconfig:"COMPILER_MAX_FILES" default:"64"`
	MaxFileBytes  int           `envconfig:"COMPILER_MAX_FILE_BYTES" default:"524288"`
	MaxBytes      int           `envconfig:"COMPILER_MAX_BYTES" default:"2097152"`
}

// RuntimeConfig holds the browser runtime URLs injected into previews.
type RuntimeConfig struct {
	React    string `envconfig:"RUNTIME_REACT" default:"https://unpkg.com/react@18/umd/react.development.js"`
	ReactDOM string `envconfig:"RUNTIME_REACT_DOM" default:"https://unpkg.com/react-dom@18/umd/react-dom.development.js"`
	Babel    string `envconfig:"RUNTIME_BABEL" default:"https://unpkg.com/@babel/standalone/babel.min.js"`
	Vue      string `envconfig:"RUNTIME_VUE" default:"https://unpkg.com/vue@3/dist/vue.global.js"`
}

// CacheConfig holds compile cache configuration.
type CacheConfig struct {
	Size int `envconfig:"CACHE_SIZE" default:"256"`
}

// PreviewConfig holds live preview stream configuration.
type PreviewConfig struct {
	Debounce        time.Duration `envconfig:"PREVIEW_DEBOUNCE" default:"500ms"`
	MaxMessageBytes int64         `envconfig:"PREVIEW_MAX_MESSAGE_BYTES" default:"2097152"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadWithDotEnv preloads .env files, without overriding variables that are
// already set, then loads configuration.
func LoadWithDotEnv(files ...string) (*Config, error) {
	for _, file := range files {
		// A missing file is fine; only the environment matters.
		_ = godotenv.Load(file)
	}
	return Load()
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Compiler: CompilerConfig{
			Timeout:      10 * time.Second,
			Retries:      2,
			Local:        true,
			MaxFiles:     64,
			MaxFileBytes: 512 * 1024,
			MaxBytes:     2 * 1024 * 1024,
		},
		Runtime: RuntimeConfig{
			React:    "https://unpkg.com/react@18/umd/react.development.js",
			ReactDOM: "https://unpkg.com/react-dom@18/umd/react-dom.development.js",
			Babel:    "https://unpkg.com/@babel/standalone/babel.min.js",
			Vue:      "https://unpkg.com/vue@3/dist/vue.global.js",
		},
		Cache: CacheConfig{
			Size: 256,
		},
		Preview: PreviewConfig{
			Debounce:        500 * time.Millisecond,
			MaxMessageBytes: 2 * 1024 * 1024,
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("CACHE_SIZE must not be negative")
	}
	if c.Compiler.Timeout <= 0 {
		return fmt.Errorf("COMPILER_TIMEOUT must be positive")
	}
	if c.Preview.Debounce < 0 {
		return fmt.Errorf("PREVIEW_DEBOUNCE must not be negative")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}
	return nil
}
