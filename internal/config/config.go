package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOMECARE_JWT_SECRET.
const EnvPrefix = "HOMECARE"

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" envconfig:"server"`
	Database  DatabaseConfig  `mapstructure:"database" envconfig:"database"`
	JWT       JWTConfig       `mapstructure:"jwt" envconfig:"jwt"`
	Security  SecurityConfig  `mapstructure:"security" envconfig:"security"`
	Redis     RedisConfig     `mapstructure:"redis" envconfig:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" envconfig:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors" envconfig:"cors"`
	Log       LogConfig       `mapstructure:"log" envconfig:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" envconfig:"port"`
	Mode         string        `mapstructure:"mode" envconfig:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" envconfig:"write_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver" envconfig:"driver"`
	Mongo    MongoConfig    `mapstructure:"mongo" envconfig:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres" envconfig:"postgres"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri" envconfig:"uri"`
	Name           string        `mapstructure:"name" envconfig:"name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" envconfig:"connect_timeout"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host" envconfig:"host"`
	Port         int    `mapstructure:"port" envconfig:"port"`
	User         string `mapstructure:"user" envconfig:"user"`
	Password     string `mapstructure:"password" envconfig:"password"`
	Name         string `mapstructure:"name" envconfig:"name"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"max_open_conns"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" envconfig:"secret"`
	Expiry time.Duration `mapstructure:"expiry" envconfig:"expiry"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" envconfig:"bcrypt_cost"`
}

// RedisConfig enables lifecycle event publishing when URL is set.
type RedisConfig struct {
	URL           string `mapstructure:"url" envconfig:"url"`
	ChannelPrefix string `mapstructure:"channel_prefix" envconfig:"channel_prefix"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" envconfig:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"requests_per_second"`
	Burst             int     `mapstructure:"burst" envconfig:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"level"`
	Pretty bool   `mapstructure:"pretty" envconfig:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.name", "homecare")
	v.SetDefault("database.mongo.connect_timeout", 10*time.Second)
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.name", "homecare")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", time.Hour)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel_prefix", "homecare")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file (configFile, or config.yaml on the search path), and
// HOMECARE_* environment variables. A .env file in the working directory is
// loaded into the environment first.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (set %s_JWT_SECRET)", EnvPrefix)
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt expiry must be positive, got %s", c.JWT.Expiry)
	}

	c.Database.Driver = strings.ToLower(c.Database.Driver)
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
