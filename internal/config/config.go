package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Config carries everything the binaries need to wire up a database, its
// snapshot file, and the surfaces around it.
type Config struct {
	Database struct {
		Name         string `mapstructure:"name"`
		File         string `mapstructure:"file"`
		SaveOnMutate bool   `mapstructure:"save_on_mutate"`
	} `mapstructure:"database"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Repl struct {
		HistoryFile string `mapstructure:"history_file"`
	} `mapstructure:"repl"`

	Logging struct {
		SeqURL string `mapstructure:"seq_url"`
	} `mapstructure:"logging"`

	Fraud struct {
		AmountThreshold float64 `mapstructure:"amount_threshold"`
	} `mapstructure:"fraud"`
}

// Load reads a YAML config file and fills in defaults for anything missing.
// A missing file is not an error: defaults cover every key, so the binaries
// run without any config at all.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.name", "jumanji")
	v.SetDefault("database.file", "jumanji.json")
	v.SetDefault("database.save_on_mutate", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("repl.history_file", ".jumanji_history")
	v.SetDefault("logging.seq_url", "")
	v.SetDefault("fraud.amount_threshold", 1000.0)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
