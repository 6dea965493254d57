package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Mapbox   MapboxConfig
	Midpoint MidpointConfig
	Tracking TrackingConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string // comma separated
}

type DatabaseConfig struct {
	Driver          string // postgres | memory
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

type NATSConfig struct {
	URL     string
	Enabled bool
}

type MapboxConfig struct {
	AccessToken     string
	BaseURL         string
	MaxMatrixPoints int
	RequestTimeout  int // seconds
	MaxRetries      int
	RetryBackoff    time.Duration
}

// MidpointConfig caps the group solver. Every iteration costs exactly one
// matrix request against the routing provider.
type MidpointConfig struct {
	MaxIterations int
	Tolerance     float64
	InitialStep   float64
	StepDecay     float64
}

type TrackingConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type CacheConfig struct {
	RouteCacheTTL  time.Duration
	PlacesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return fromViper(), nil
}

func fromViper() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("API_HOST"),
			Port:        viper.GetInt("API_PORT"),
			Env:         viper.GetString("API_ENV"),
			CORSOrigins: viper.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:          viper.GetString("DB_DRIVER"),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:     viper.GetString("NATS_URL"),
			Enabled: viper.GetBool("NATS_ENABLED"),
		},
		Mapbox: MapboxConfig{
			AccessToken:     viper.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:         viper.GetString("MAPBOX_BASE_URL"),
			MaxMatrixPoints: viper.GetInt("MAPBOX_MAX_MATRIX_POINTS"),
			RequestTimeout:  viper.GetInt("MAPBOX_REQUEST_TIMEOUT"),
			MaxRetries:      viper.GetInt("MAPBOX_MAX_RETRIES"),
			RetryBackoff:    time.Duration(viper.GetInt("MAPBOX_RETRY_BACKOFF_MS")) * time.Millisecond,
		},
		Midpoint: MidpointConfig{
			MaxIterations: viper.GetInt("MIDPOINT_MAX_ITERATIONS"),
			Tolerance:     viper.GetFloat64("MIDPOINT_TOLERANCE"),
			InitialStep:   viper.GetFloat64("MIDPOINT_INITIAL_STEP"),
			StepDecay:     viper.GetFloat64("MIDPOINT_STEP_DECAY"),
		},
		Tracking: TrackingConfig{
			Interval:   time.Duration(viper.GetInt("TRACKING_INTERVAL")) * time.Second,
			StaleAfter: time.Duration(viper.GetInt("TRACKING_STALE_AFTER")) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
			Issuer:    viper.GetString("AUTH_JWT_ISSUER"),
		},
		Cache: CacheConfig{
			RouteCacheTTL:  time.Duration(viper.GetInt("ROUTE_CACHE_TTL")) * time.Second,
			PlacesCacheTTL: time.Duration(viper.GetInt("PLACES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}

	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = "http://localhost:3000,http://localhost:5173,http://localhost:8081"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.NATS.URL == "" {
		c.NATS.URL = "nats://localhost:4222"
	}

	if c.Mapbox.BaseURL == "" {
		c.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if c.Mapbox.MaxMatrixPoints == 0 {
		c.Mapbox.MaxMatrixPoints = 25
	}
	if c.Mapbox.RequestTimeout == 0 {
		c.Mapbox.RequestTimeout = 10
	}
	if c.Mapbox.MaxRetries == 0 {
		c.Mapbox.MaxRetries = 2
	}
	if c.Mapbox.RetryBackoff == 0 {
		c.Mapbox.RetryBackoff = 250 * time.Millisecond
	}

	c.Midpoint = c.Midpoint.WithDefaults()

	if c.Tracking.Interval == 0 {
		c.Tracking.Interval = 15 * time.Second
	}
	if c.Tracking.StaleAfter == 0 {
		c.Tracking.StaleAfter = 2 * time.Minute
	}

	if c.Cache.RouteCacheTTL == 0 {
		c.Cache.RouteCacheTTL = 6 * time.Hour
	}
	if c.Cache.PlacesCacheTTL == 0 {
		c.Cache.PlacesCacheTTL = 30 * time.Minute
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "trip-distance-workers"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
}

// WithDefaults fills zero fields of the solver settings.
func (m MidpointConfig) WithDefaults() MidpointConfig {
	if m.MaxIterations == 0 {
		m.MaxIterations = 8
	}
	if m.Tolerance == 0 {
		m.Tolerance = 0.05
	}
	if m.InitialStep == 0 {
		m.InitialStep = 0.5
	}
	if m.StepDecay == 0 {
		m.StepDecay = 0.6
	}
	return m
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}
