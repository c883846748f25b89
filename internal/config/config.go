package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultTokenSecret = "change-me-token-secret"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

type Config struct {
	AppEnv   string         `mapstructure:"app_env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	PDF      PDFConfig      `mapstructure:"pdf"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type AuthConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
	// TokenTTL of zero issues tokens that never expire.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	LocalDir  string `mapstructure:"local_dir"`
	URLBase   string `mapstructure:"url_base"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PDFConfig struct {
	// FontPath points to a UTF-8 TrueType font; empty uses the built-in core font.
	FontPath string `mapstructure:"font_path"`
	Title    string `mapstructure:"title"`
}

// Load reads .env, then config.yaml from ./configs or . (or the given file),
// then environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.url", "inspection.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")

	v.SetDefault("auth.token_secret", DefaultTokenSecret)
	v.SetDefault("auth.token_ttl", "0s")
	v.SetDefault("auth.cache_ttl", "10m")

	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.local_dir", "./media")
	v.SetDefault("storage.url_base", "/media")
	v.SetDefault("storage.bucket", "inspection")

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})

	v.SetDefault("pdf.title", "Equipment Inspection Report")
}

func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("app_env", "APP_ENV", "ENV")

	// Server
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("server.mode", "SERVER_MODE", "GIN_MODE")

	// Database
	_ = v.BindEnv("database.url", "DATABASE_URL")

	// Auth
	_ = v.BindEnv("auth.token_secret", "AUTH_TOKEN_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.token_ttl", "AUTH_TOKEN_TTL")

	// Storage
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.local_dir", "MEDIA_ROOT")
	_ = v.BindEnv("storage.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("storage.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("storage.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("storage.bucket", "MINIO_BUCKET")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")

	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("pdf.font_path", "PDF_FONT_PATH")
}

func normalize(cfg *Config) {
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Auth.TokenSecret = strings.TrimSpace(cfg.Auth.TokenSecret)
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	// CORS_ALLOWED_ORIGINS=https://app.com,https://admin.app.com
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}
	origins := cfg.CORS.AllowedOrigins[:0]
	for _, o := range cfg.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORS.AllowedOrigins = origins
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return fmt.Errorf("database.url must not be empty")
	}
	if cfg.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be >= 0")
	}
	if cfg.Auth.CacheTTL <= 0 {
		return fmt.Errorf("auth.cache_ttl must be > 0")
	}

	switch cfg.Storage.Driver {
	case StorageLocal:
		if cfg.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir must not be empty")
		}
	case StorageMinIO:
		if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
			return fmt.Errorf("storage.endpoint and storage.bucket are required for the minio driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of: local, minio")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.TokenSecret, DefaultTokenSecret) {
			return fmt.Errorf("in prod/release AUTH_TOKEN_SECRET must be set and not default")
		}
	} else if cfg.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.token_secret must not be empty")
	}

	return nil
}

// IsProd reports a production-like environment.
func (c *Config) IsProd() bool { return isProdLike(c.AppEnv) }

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
