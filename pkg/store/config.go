package store

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/logging"
)

// Backends.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
)

// Config is what the persistence layer and the process need from settings.
type Config interface {
	BasePath() string
	Backend() string
	Capacities() horizon.Capacities
	Logging() logging.Config
}

// LoadConfig reads .focus.yaml from $FOCUS_CONFIG_PATH or the working
// directory, then lets FOCUS_* environment variables override it
// (FOCUS_PATH, FOCUS_BACKEND, FOCUS_CAPACITY_DAILY, FOCUS_LOG_LEVEL, ...).
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.focus")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("log.level", logging.DefaultConfig().Level)
	v.SetDefault("log.format", logging.DefaultConfig().Format)
	for id, limit := range horizon.DefaultCapacities() {
		if id == horizon.Intake {
			continue
		}
		v.SetDefault("capacity."+string(id), limit)
	}

	v.SetConfigName(".focus") // .yaml is implicit
	v.SetEnvPrefix("FOCUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("FOCUS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	cfg := &fileConfig{
		Path:        path,
		BackendName: strings.ToLower(v.GetString("backend")),
		Caps:        horizon.Capacities{},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	for _, id := range horizon.All() {
		if id == horizon.Intake {
			continue
		}
		cfg.Caps[id] = v.GetInt("capacity." + string(id))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileConfig struct {
	Path        string             `json:"path"`
	BackendName string             `json:"backend"`
	Caps        horizon.Capacities `json:"capacity"`
	Log         logging.Config     `json:"log"`
}

func (f *fileConfig) validate() error {
	switch f.BackendName {
	case BackendDiskv, BackendSQLite:
	default:
		return fmt.Errorf("store: unknown backend %q (want %s or %s)", f.BackendName, BackendDiskv, BackendSQLite)
	}
	for id, limit := range f.Caps {
		if limit < 1 {
			return fmt.Errorf("store: capacity.%s must be at least 1, got %d", id, limit)
		}
	}
	return f.Log.Validate()
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.BackendName
}

func (f *fileConfig) Capacities() horizon.Capacities {
	caps := make(horizon.Capacities, len(f.Caps)+1)
	caps[horizon.Intake] = horizon.Unbounded
	for id, limit := range f.Caps {
		caps[id] = limit
	}
	return caps
}

func (f *fileConfig) Logging() logging.Config {
	return f.Log
}
