package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresDatabase = "autograb"
	DefaultPostgresUser     = "autograb_user"
	DefaultPostgresPassword = "autograb_password"
	DefaultPostgresSSLMode  = "disable"
)

// Load reads configs/config.yaml (plus config.<env>.yaml) and the process
// environment. A missing config file is not an error.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills unset Postgres fields from the libpq-style
// environment variables. This is the only place the environment is consulted.
func overrideEmptyConfig(cfg *Config) {
	pg := &cfg.Database.Postgres

	if pg.Host == "" {
		pg.Host = os.Getenv("PGHOST")
	}
	if pg.Database == "" {
		pg.Database = os.Getenv("PGDATABASE")
	}
	if pg.User == "" {
		pg.User = os.Getenv("PGUSER")
	}
	if pg.Password == "" {
		pg.Password = os.Getenv("PGPASSWORD")
	}
	if pg.Port == 0 {
		if val := os.Getenv("PGPORT"); val != "" {
			if port, err := strconv.Atoi(val); err == nil {
				pg.Port = port
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "vehicle-matcher"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	pg := &cfg.Database.Postgres
	if pg.Host == "" {
		pg.Host = DefaultPostgresHost
	}
	if pg.Port == 0 {
		pg.Port = DefaultPostgresPort
	}
	if pg.Database == "" {
		pg.Database = DefaultPostgresDatabase
	}
	if pg.User == "" {
		pg.User = DefaultPostgresUser
	}
	if pg.Password == "" {
		pg.Password = DefaultPostgresPassword
	}
	if pg.SSLMode == "" {
		pg.SSLMode = DefaultPostgresSSLMode
	}
	if pg.MaxConnections == 0 {
		pg.MaxConnections = 5
	}
	if pg.MaxIdle == 0 {
		pg.MaxIdle = 2
	}

	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Database.Redis.CacheTTL == 0 {
		cfg.Database.Redis.CacheTTL = 3600
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}

func validateConfig(cfg *Config) error {
	pg := cfg.Database.Postgres
	if pg.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("database.postgres.port out of range: %d", pg.Port)
	}
	if pg.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if pg.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Matcher.QueryTimeout < 0 {
		return fmt.Errorf("matcher.query_timeout must not be negative")
	}
	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when the cache is enabled")
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
