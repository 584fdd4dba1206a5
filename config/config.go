package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "CATALOG"

type Config struct {
	DB   DBConfig   `mapstructure:"db"`
	List ListConfig `mapstructure:"list"`
	Log  LogConfig  `mapstructure:"log"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
	// BusyTimeout 毫秒
	BusyTimeout int `mapstructure:"busy_timeout"`
}

type ListConfig struct {
	PageSize    int `mapstructure:"page_size"`
	MaxPageSize int `mapstructure:"max_page_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"db.path":            "catalog.db",
	"db.busy_timeout":    5000,
	"list.page_size":     25,
	"list.max_page_size": 100,
	"log.level":          "info",
	"log.format":         "text",
}

func Default() *Config {
	return &Config{
		DB:   DBConfig{Path: "catalog.db", BusyTimeout: 5000},
		List: ListConfig{PageSize: 25, MaxPageSize: 100},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads defaults, then the config file at path (if not empty), then
// CATALOG_* environment variables: CATALOG_LIST_PAGE_SIZE -> list.page_size.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("db.path is empty")
	}
	if c.List.PageSize <= 0 {
		return errors.Errorf("list.page_size must be positive, got %d", c.List.PageSize)
	}
	if c.List.MaxPageSize < c.List.PageSize {
		return errors.Errorf("list.max_page_size %d is below list.page_size %d", c.List.MaxPageSize, c.List.PageSize)
	}
	return nil
}
