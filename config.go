package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported catalog storage backends.
const (
	StorageMemory = "memory"
	StorageBolt   = "bolt"
	StorageRedis  = "redis"
)

const (
	DefaultPrompt     = "> "
	DefaultLogFolder  = "./logs"
	DefaultLogMaxSize = 10
	DefaultBucketName = "books"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"LIBSH_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"LIBSH_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"LIBSH_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"LIBSH_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"LIBSH_LOG_LEVEL"`
	LogFolder    string        `yaml:"log_folder" envconfig:"LIBSH_LOG_FOLDER"`
	LogMaxSize   int           `yaml:"log_max_size" envconfig:"LIBSH_LOG_MAX_SIZE"` // in megabytes
	Shell        ShellConfig   `yaml:"shell"`
	Storage      string        `yaml:"storage" envconfig:"LIBSH_STORAGE"`
	Redis        RedisConfig   `yaml:"redis"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
}

type ShellConfig struct {
	Prompt   string `yaml:"prompt" envconfig:"LIBSH_SHELL_PROMPT"`
	NoBanner bool   `yaml:"no_banner" envconfig:"LIBSH_SHELL_NO_BANNER"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"LIBSH_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"LIBSH_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"LIBSH_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"LIBSH_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"LIBSH_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"LIBSH_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"LIBSH_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"LIBSH_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"LIBSH_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"LIBSH_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"LIBSH_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"LIBSH_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"LIBSH_BOLTDB_BUCKET_NAME"`

	// scratch marks a file created for the session only.
	scratch bool
}

// LoadConfigFile provides an instance of config structure for the all application.
// A missing file is not an error, the defaults apply.
func LoadConfigFile(configFile string) (*Config, error) {
	cfg := &Config{LogLevel: zapcore.InfoLevel}
	file, err := os.Open(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables into the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Shell.Prompt) == 0 {
		config.Shell.Prompt = DefaultPrompt
	}

	if len(config.LogFolder) == 0 {
		config.LogFolder = DefaultLogFolder
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = DefaultLogMaxSize
	}

	if len(config.Storage) == 0 {
		config.Storage = StorageMemory
	}

	switch config.Storage {
	case StorageMemory:
	case StorageBolt:
		if len(config.BoltDB.BucketName) == 0 {
			config.BoltDB.BucketName = DefaultBucketName
		}
		if config.BoltDB.Timeout == 0 {
			config.BoltDB.Timeout = time.Second
		}
	case StorageRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage %q: must be one of %s, %s or %s", config.Storage, StorageMemory, StorageBolt, StorageRedis)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. Both files are optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `LIBSH`.
	err = LoadConfigEnvs("LIBSH", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
