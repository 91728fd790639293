package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Assets    AssetsConfig    `yaml:"assets"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// ProvidersConfig holds settings for the outbound dictionary, translation and
// image-generation sources. Base URLs are overridable for testing.
type ProvidersConfig struct {
	DictionaryBaseURL string        `yaml:"dictionary_base_url" env:"PROVIDER_DICTIONARY_BASE_URL" env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	SuggestBaseURL    string        `yaml:"suggest_base_url"    env:"PROVIDER_SUGGEST_BASE_URL"    env-default:"https://api.datamuse.com"`
	TranslateBaseURL  string        `yaml:"translate_base_url"  env:"PROVIDER_TRANSLATE_BASE_URL"  env-default:"https://dict.youdao.com"`
	ImageGenBaseURL   string        `yaml:"imagegen_base_url"   env:"PROVIDER_IMAGEGEN_BASE_URL"   env-default:"https://image.pollinations.ai"`
	RequestTimeout    time.Duration `yaml:"request_timeout"     env:"PROVIDER_REQUEST_TIMEOUT"     env-default:"5s"`
}

// AssetsConfig holds the local image store settings.
type AssetsConfig struct {
	// Root is the directory downloaded word images are written to,
	// bucketed by first letter.
	Root string `yaml:"root" env:"ASSETS_ROOT" env-default:"./uploads"`

	// PublicPrefix is the URL prefix under which Root is served back to
	// clients.
	PublicPrefix string `yaml:"public_prefix" env:"ASSETS_PUBLIC_PREFIX" env-default:"/uploads"`

	DownloadTimeout time.Duration `yaml:"download_timeout" env:"ASSETS_DOWNLOAD_TIMEOUT" env-default:"15s"`
}

// SuggestConfig holds word-suggestion settings.
type SuggestConfig struct {
	MinPrefixLen int `yaml:"min_prefix_len" env:"SUGGEST_MIN_PREFIX_LEN" env-default:"3"`
	MaxResults   int `yaml:"max_results"    env:"SUGGEST_MAX_RESULTS"    env-default:"5"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
