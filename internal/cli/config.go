package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
)

// Config is the resolved command configuration.
type Config struct {
	Method         string  `mapstructure:"method"`
	MaxStep        float64 `mapstructure:"max_step"`
	RelTol         float64 `mapstructure:"rtol"`
	AbsTol         float64 `mapstructure:"atol"`
	MaxSteps       int     `mapstructure:"max_steps"`
	CouplingFactor float64 `mapstructure:"coupling_factor"`
	WithCoupling   bool    `mapstructure:"with_coupling"`
	UniformTaper   bool    `mapstructure:"uniform_taper"`
	Sort           string  `mapstructure:"sort"`
	KeepOnly       int     `mapstructure:"keep_only"`
	Store          string  `mapstructure:"store"`
	LogLevel       string  `mapstructure:"log_level"`
}

const envPrefix = "SUPERMODE"

// flag name -> config key
var flagKeys = map[string]string{
	"method":          "method",
	"max-step":        "max_step",
	"rtol":            "rtol",
	"atol":            "atol",
	"max-steps":       "max_steps",
	"coupling-factor": "coupling_factor",
	"with-coupling":   "with_coupling",
	"uniform-taper":   "uniform_taper",
	"sort":            "sort",
	"keep-only":       "keep_only",
	"store":           "store",
	"log-level":       "log_level",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("method", "RK45")
	v.SetDefault("max_step", 0.0)
	v.SetDefault("rtol", 1e-3)
	v.SetDefault("atol", 1e-6)
	v.SetDefault("max_steps", 0)
	v.SetDefault("coupling_factor", 1.0)
	v.SetDefault("with_coupling", true)
	v.SetDefault("uniform_taper", false)
	v.SetDefault("sort", "")
	v.SetDefault("keep_only", 0)
	v.SetDefault("store", "")
	v.SetDefault("log_level", "info")
	return v
}

// loadConfig reads the optional config file and binds every known flag
// present in flags.
func loadConfig(v *viper.Viper, file string, flags *pflag.FlagSet) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// newLogger builds a zap logger at the given level and wraps it for logr.
// "debug" selects the development encoder.
func newLogger(level string) (logr.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := zcfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("building logger: %w", err)
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
