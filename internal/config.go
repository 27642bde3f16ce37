package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type SquirrelConfig struct {
	AppName string `mapstructure:"app_name"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Query struct {
		// MaxBytes bounds the size of one submitted query text.
		MaxBytes int `mapstructure:"max_bytes"`
	} `mapstructure:"query"`

	REPL struct {
		Prompt         string `mapstructure:"prompt"`
		ContinuePrompt string `mapstructure:"continue_prompt"`
		HistoryFile    string `mapstructure:"history_file"`
		HistoryMax     int    `mapstructure:"history_max"`
	} `mapstructure:"repl"`

	Server struct {
		Addr      string `mapstructure:"addr"`
		CacheSize int    `mapstructure:"cache_size"`
		Debug     bool   `mapstructure:"debug"`
	} `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "squirrel")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("query.max_bytes", 1<<20)
	v.SetDefault("repl.prompt", "squirrel> ")
	v.SetDefault("repl.continue_prompt", "     ...> ")
	v.SetDefault("repl.history_file", "")
	v.SetDefault("repl.history_max", 2000)
	v.SetDefault("server.addr", "127.0.0.1:8866")
	v.SetDefault("server.cache_size", 1024)
	v.SetDefault("server.debug", false)
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path yields the defaults. SQUIRREL_* environment variables override both,
// e.g. SQUIRREL_SERVER_ADDR.
func LoadConfig(path string) (*SquirrelConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("squirrel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg SquirrelConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SquirrelConfig) validate() error {
	if c.Query.MaxBytes <= 0 {
		return fmt.Errorf("config: query.max_bytes must be positive, got %d", c.Query.MaxBytes)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("config: server.cache_size must not be negative, got %d", c.Server.CacheSize)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}
