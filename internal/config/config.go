package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источники набора фич
const (
	FeaturesSourceURL      = "url"
	FeaturesSourcePostgres = "postgres"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Features      FeaturesConfig
	Mapbox        MapboxConfig
	ActionNetwork ActionNetworkConfig
	Sheets        SheetsConfig
	Sync          SyncConfig
	Log           LogConfig
	Worker        WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	FeaturesTTL time.Duration
}

type FeaturesConfig struct {
	Source         string
	BaseURL        string
	Datasets       []string
	DefaultDataset string
	LayersFile     string
	GraceDays      int
	DisplayCutoff  time.Time
	RequestTimeout time.Duration
	LoadTimeout    time.Duration
}

type MapboxConfig struct {
	BaseURL        string
	AccessToken    string
	RateLimit      float64
	MinRelevance   float64
	Countries      []string
	RequestTimeout time.Duration
}

type ActionNetworkConfig struct {
	BaseURL          string
	APIKey           string
	EventsCampaignID string
	RequestTimeout   time.Duration
}

// SheetsConfig - лист Google Sheets с событиями. Пустой SheetID отключает источник.
type SheetsConfig struct {
	BaseURL        string
	APIKey         string
	SheetID        string
	Layout         string
	Range          string
	RequestTimeout time.Duration
}

type SyncConfig struct {
	Dataset  string
	Interval time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	ConsumerName      string
	StreamReadTimeout time.Duration
	BatchSize         int64
	MaxRetries        int
}

// Load читает .env из рабочей директории
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфиг из файла и окружения. Переменные окружения
// приоритетнее файла, отсутствующий файл не ошибка.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			FeaturesTTL: time.Duration(v.GetInt("CACHE_FEATURES_TTL")) * time.Second,
		},
		Features: FeaturesConfig{
			Source:         strings.ToLower(v.GetString("FEATURES_SOURCE")),
			BaseURL:        strings.TrimRight(v.GetString("FEATURES_BASE_URL"), "/"),
			Datasets:       parseList(v.GetString("DATASETS")),
			DefaultDataset: v.GetString("FEATURES_DEFAULT_DATASET"),
			LayersFile:     v.GetString("FEATURES_LAYERS_FILE"),
			GraceDays:      v.GetInt("FEATURES_GRACE_DAYS"),
			RequestTimeout: time.Duration(v.GetInt("FEATURES_REQUEST_TIMEOUT")) * time.Second,
			LoadTimeout:    time.Duration(v.GetInt("FEATURES_LOAD_TIMEOUT")) * time.Second,
		},
		Mapbox: MapboxConfig{
			BaseURL:        strings.TrimRight(v.GetString("MAPBOX_BASE_URL"), "/"),
			AccessToken:    v.GetString("MAPBOX_ACCESS_TOKEN"),
			RateLimit:      v.GetFloat64("MAPBOX_RATE_LIMIT"),
			MinRelevance:   v.GetFloat64("MAPBOX_MIN_RELEVANCE"),
			Countries:      parseList(v.GetString("MAPBOX_COUNTRIES")),
			RequestTimeout: time.Duration(v.GetInt("MAPBOX_REQUEST_TIMEOUT")) * time.Second,
		},
		ActionNetwork: ActionNetworkConfig{
			BaseURL:          strings.TrimRight(v.GetString("ACTION_NETWORK_BASE_URL"), "/"),
			APIKey:           v.GetString("ACTION_NETWORK_API_KEY"),
			EventsCampaignID: v.GetString("ACTION_NETWORK_EVENTS_CAMPAIGN_ID"),
			RequestTimeout:   time.Duration(v.GetInt("ACTION_NETWORK_REQUEST_TIMEOUT")) * time.Second,
		},
		Sheets: SheetsConfig{
			BaseURL:        strings.TrimRight(v.GetString("SHEETS_BASE_URL"), "/"),
			APIKey:         v.GetString("GOOGLE_API_KEY"),
			SheetID:        v.GetString("SHEET_ID"),
			Layout:         v.GetString("SHEETS_LAYOUT"),
			Range:          v.GetString("SHEETS_RANGE"),
			RequestTimeout: time.Duration(v.GetInt("SHEETS_REQUEST_TIMEOUT")) * time.Second,
		},
		Sync: SyncConfig{
			Dataset:  v.GetString("SYNC_DATASET"),
			Interval: time.Duration(v.GetInt("SYNC_INTERVAL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:      v.GetString("WORKER_CONSUMER_NAME"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         v.GetInt64("WORKER_BATCH_SIZE"),
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	cutoff, err := time.Parse("2006-01-02", v.GetString("FEATURES_DISPLAY_CUTOFF"))
	if err != nil {
		return nil, fmt.Errorf("FEATURES_DISPLAY_CUTOFF must be YYYY-MM-DD: %w", err)
	}
	cfg.Features.DisplayCutoff = cutoff

	if cfg.Features.DefaultDataset == "" && len(cfg.Features.Datasets) > 0 {
		cfg.Features.DefaultDataset = cfg.Features.Datasets[0]
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "marchon")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_FEATURES_TTL", 300)

	v.SetDefault("FEATURES_SOURCE", FeaturesSourceURL)
	v.SetDefault("FEATURES_BASE_URL", "https://s3.amazonaws.com/ragtag-marchon")
	v.SetDefault("DATASETS", "events")
	v.SetDefault("FEATURES_GRACE_DAYS", 1)
	// старые события до этой даты не показываются на карте событий
	v.SetDefault("FEATURES_DISPLAY_CUTOFF", "2019-01-01")
	v.SetDefault("FEATURES_REQUEST_TIMEOUT", 15)
	v.SetDefault("FEATURES_LOAD_TIMEOUT", 30)

	v.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	v.SetDefault("MAPBOX_RATE_LIMIT", 10)
	v.SetDefault("MAPBOX_MIN_RELEVANCE", 0.75)
	v.SetDefault("MAPBOX_COUNTRIES", "us,ca")
	v.SetDefault("MAPBOX_REQUEST_TIMEOUT", 10)

	v.SetDefault("ACTION_NETWORK_BASE_URL", "https://actionnetwork.org/api/v2")
	v.SetDefault("ACTION_NETWORK_REQUEST_TIMEOUT", 30)

	v.SetDefault("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4")
	v.SetDefault("SHEETS_LAYOUT", "events")
	v.SetDefault("SHEETS_REQUEST_TIMEOUT", 30)

	v.SetDefault("SYNC_DATASET", "events")
	v.SetDefault("SYNC_INTERVAL", 3600)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "feature-refresh")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_BATCH_SIZE", 10)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
}

func (c *Config) validate() error {
	switch c.Features.Source {
	case FeaturesSourceURL:
		if c.Features.BaseURL == "" {
			return fmt.Errorf("FEATURES_BASE_URL is required for source %q", FeaturesSourceURL)
		}
	case FeaturesSourcePostgres:
	default:
		return fmt.Errorf("unknown FEATURES_SOURCE %q", c.Features.Source)
	}

	if len(c.Features.Datasets) == 0 {
		return fmt.Errorf("DATASETS must list at least one dataset")
	}
	if c.Features.GraceDays < 0 {
		return fmt.Errorf("FEATURES_GRACE_DAYS must not be negative")
	}
	if c.Mapbox.RateLimit <= 0 {
		return fmt.Errorf("MAPBOX_RATE_LIMIT must be positive")
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// HasDataset - набор данных есть в DATASETS
func (c *Config) HasDataset(name string) bool {
	for _, d := range c.Features.Datasets {
		if d == name {
			return true
		}
	}
	return false
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
