package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted in storage.driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverS3     = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

// StorageConfig selects the key-value backend holding the collections.
type StorageConfig struct {
	Driver  string `mapstructure:"driver"`
	FileDir string `mapstructure:"file_dir"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"` // duration string in YAML/env, e.g. "24h"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	JSON   bool   `mapstructure:"json"`
	Stdout bool   `mapstructure:"stdout"`
}

// NATSConfig enables domain event publishing when URL is set.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads configuration from file or environment variables.
// path is the directory searched for config.yaml; configFile, when not
// empty, names the file explicitly.
func LoadConfig(path, configFile string) (config Config, err error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Nested keys map to env vars, e.g. storage.driver -> STORAGE_DRIVER
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// Running on defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.file_dir", "data")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "group_fitness")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fitness")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "collections")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)
	v.SetDefault("nats.subject_prefix", "fitness")
	v.SetDefault("metrics.enabled", true)
	// AutomaticEnv only resolves keys viper knows about, so these need
	// an explicit (empty) default to be settable from the environment.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("redis.password", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverMongo, DriverRedis, DriverS3:
	default:
		return errors.New("config: unknown storage.driver " + c.Storage.Driver)
	}
	if c.Storage.Driver == DriverS3 && c.S3.BucketName == "" {
		return errors.New("config: s3.bucket_name is required for the s3 driver")
	}
	return nil
}
