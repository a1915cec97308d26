package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	perfErrors "ggsperf/internal/errors"
)

type Config struct {
	ServerUrl      string        `mapstructure:"SERVER_URL"`
	BoardSize      int           `mapstructure:"BOARD_SIZE"`
	Games          int           `mapstructure:"GAMES"`
	Output         string        `mapstructure:"OUTPUT"`
	Workers        int           `mapstructure:"WORKERS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	Verbose        bool          `mapstructure:"VERBOSE"`
	NpcListenAddr  string        `mapstructure:"NPC_LISTEN_ADDR"`
	NpcDelay       time.Duration `mapstructure:"NPC_DELAY"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"size":    "BOARD_SIZE",
	"games":   "GAMES",
	"output":  "OUTPUT",
	"workers": "WORKERS",
	"timeout": "REQUEST_TIMEOUT",
	"verbose": "VERBOSE",
	"listen":  "NPC_LISTEN_ADDR",
	"delay":   "NPC_DELAY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_URL", "")
	v.SetDefault("BOARD_SIZE", 19)
	v.SetDefault("GAMES", 100)
	v.SetDefault("OUTPUT", "report.json")
	v.SetDefault("WORKERS", 1)
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("VERBOSE", false)
	v.SetDefault("NPC_LISTEN_ADDR", ":3000")
	v.SetDefault("NPC_DELAY", time.Duration(0))
}

// Setup reads defaults, then cfgPath (if it exists), then GGSPERF_* env
// variables, then any flags in the set that were explicitly given.
func Setup(cfgPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix("GGSPERF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
		if url := flags.Arg(0); url != "" {
			v.Set("SERVER_URL", url)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ServerUrl = strings.TrimRight(cfg.ServerUrl, "/")

	return &cfg, nil
}

// Validate checks the parameters a performance run needs.
func (c *Config) Validate() error {
	switch {
	case c.ServerUrl == "":
		return fmt.Errorf("%w: server url is required", perfErrors.ErrInvalidConfig)
	case c.BoardSize < 1:
		return fmt.Errorf("%w: board size must be positive, got %d", perfErrors.ErrInvalidConfig, c.BoardSize)
	case c.Games < 1:
		return fmt.Errorf("%w: number of games must be positive, got %d", perfErrors.ErrInvalidConfig, c.Games)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", perfErrors.ErrInvalidConfig, c.Workers)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive, got %s", perfErrors.ErrInvalidConfig, c.RequestTimeout)
	}
	return nil
}
