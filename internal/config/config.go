package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"vuelas/api/internal/docstore"
	"vuelas/api/internal/security"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggingConfig struct {
	Level string
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

type SecurityConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
}

type JobsConfig struct {
	Enabled    bool
	DigestCron string
}

type WorkerConfig struct {
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type AppConfig struct {
	Environment  string
	HTTP         HTTPConfig
	Logging      LoggingConfig
	Store        StoreConfig
	Mongo        MongoConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Security     SecurityConfig
	Jobs         JobsConfig
	Worker       WorkerConfig
	AllowOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("VUELAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server must not start with. There is
// no fallback signing secret.
func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case docstore.DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("config: mongo.uri is required for the mongo store")
		}
	case docstore.DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: postgres.dsn is required for the postgres store")
		}
	case docstore.DriverMemory:
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	if c.Security.JWTSecret == "" {
		return errors.New("config: security.jwtsecret is required")
	}
	if len(c.Security.JWTSecret) < security.MinSecretLength {
		return fmt.Errorf("config: %w", security.ErrWeakSecret)
	}
	if c.Security.TokenTTL <= 0 {
		return errors.New("config: security.tokenttl must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("logging.level", "")

	v.SetDefault("store.driver", docstore.DriverMongo)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "JASeguroVuelas")
	v.SetDefault("mongo.timeout", "10s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "vuelas:events")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "vuelas-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.publicurl", "")

	v.SetDefault("security.jwtsecret", "")
	v.SetDefault("security.issuer", "JA_SeguroVuelas")
	v.SetDefault("security.audience", "JA_SeguroVuelas_Users")
	v.SetDefault("security.tokenttl", "1440m")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.digestcron", "0 0 7 * * *")

	v.SetDefault("worker.group", "vuelas-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "30s")

	v.SetDefault("alloworigins", []string{})
}
