package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "ShowSearch/1.0 (+https://github.com/Belphemur/ShowSearch)"

// DefaultDirectoryBaseURL is the TVMaze API root used when none is configured.
const DefaultDirectoryBaseURL = "https://api.tvmaze.com"

// DefaultPlaceholderImage is shown on cards whose show has no image upstream.
const DefaultPlaceholderImage = "https://static.tvmaze.com/images/no-img/no-img-portrait-text.png"

type Config struct {
	DirectoryBaseURL      string `mapstructure:"directory_base_url"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	ClientRetries         int    `mapstructure:"client_retries"`
	UserAgent             string `mapstructure:"user_agent"`
	PlaceholderImage      string `mapstructure:"placeholder_image"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Session struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of live session pages
		TTL      string `mapstructure:"ttl"`      // Go duration string like "1h", "24h", etc.
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"session"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)

	if config.LogFile != "" {
		logger = zerolog.New(newLogWriter(config.LogFile)).With().Timestamp().Logger()
	}
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

// newLogWriter duplicates console output into a size-rotated log file.
func newLogWriter(path string) io.Writer {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout}, file)
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetDefault("directory_base_url", DefaultDirectoryBaseURL)
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("client_retries", 0)
	v.SetDefault("placeholder_image", DefaultPlaceholderImage)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.address", "localhost")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("session.provider", "memory")
	v.SetDefault("session.size", 1000)
	v.SetDefault("session.ttl", "1h")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

// GetPlaceholderImage returns the image URL used for shows without artwork.
func GetPlaceholderImage() string {
	if globalConfig != nil && globalConfig.PlaceholderImage != "" {
		return globalConfig.PlaceholderImage
	}

	return DefaultPlaceholderImage
}

// SessionTTL returns session.ttl, falling back to one hour when it is unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	const fallback = time.Hour
	if c.Session.TTL == "" {
		return fallback
	}
	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil || ttl <= 0 {
		logger.Warn().Str("ttl", c.Session.TTL).Msg("Invalid session ttl, using default 1h")
		return fallback
	}
	return ttl
}

// SessionSize returns session.size, falling back to 1000 when it is not positive.
func (c *Config) SessionSize() int {
	if c.Session.Size <= 0 {
		return 1000
	}
	return c.Session.Size
}

func GetLogger() zerolog.Logger {
	return logger
}
