package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the user preferences the background reads. They are loaded
// once and never written by tabshuttle.
type Settings struct {
	MinimumTabTravelDistance int      `mapstructure:"minimum_tab_travel_distance" yaml:"minimum_tab_travel_distance" json:"minimum_tab_travel_distance"`
	RecentTabTimeout         int      `mapstructure:"recent_tab_timeout"          yaml:"recent_tab_timeout"          json:"recent_tab_timeout"`
	SwitchToTabAfterMoving   bool     `mapstructure:"switch_to_tab_after_moving"  yaml:"switch_to_tab_after_moving"  json:"switch_to_tab_after_moving"`
	MoveableContainers       []string `mapstructure:"moveable_containers"         yaml:"moveable_containers"         json:"moveable_containers"`
	ShowRecencyBadge         bool     `mapstructure:"show_recency_badge"          yaml:"show_recency_badge"          json:"show_recency_badge"`
	DebugLogging             bool     `mapstructure:"debug_logging"               yaml:"debug_logging"               json:"debug_logging"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		MinimumTabTravelDistance: 2,
		RecentTabTimeout:         0,
		SwitchToTabAfterMoving:   false,
		MoveableContainers:       []string{},
		ShowRecencyBadge:         true,
		DebugLogging:             false,
	}
}

// DefaultPath returns ~/.config/tabshuttle/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tabshuttle", "config.yaml"), nil
}

// Load reads settings from path, falling back to DefaultPath when path is
// empty. A missing file yields the defaults. Env vars with prefix
// TABSHUTTLE_ override file values.
func Load(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Settings{}, err
		}
		path = p
	}

	def := Default()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("minimum_tab_travel_distance", def.MinimumTabTravelDistance)
	v.SetDefault("recent_tab_timeout", def.RecentTabTimeout)
	v.SetDefault("switch_to_tab_after_moving", def.SwitchToTabAfterMoving)
	v.SetDefault("moveable_containers", def.MoveableContainers)
	v.SetDefault("show_recency_badge", def.ShowRecencyBadge)
	v.SetDefault("debug_logging", def.DebugLogging)

	v.SetEnvPrefix("TABSHUTTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values outside their documented ranges.
func (s Settings) Validate() error {
	if s.MinimumTabTravelDistance < 0 {
		return fmt.Errorf("minimum_tab_travel_distance must be >= 0, got %d", s.MinimumTabTravelDistance)
	}
	if s.RecentTabTimeout < 0 {
		return fmt.Errorf("recent_tab_timeout must be >= 0, got %d", s.RecentTabTimeout)
	}
	for _, c := range s.MoveableContainers {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("moveable_containers must not contain empty ids")
		}
	}
	return nil
}

// IsMoveableContainer reports whether tabs of the given cookie store are sent
// to a new window of their own when moved.
func (s Settings) IsMoveableContainer(cookieStore string) bool {
	for _, c := range s.MoveableContainers {
		if c == cookieStore {
			return true
		}
	}
	return false
}

// JumpEnabled reports whether the tab-index jump is active. A travel
// distance of 0 or 1 disables it.
func (s Settings) JumpEnabled() bool {
	return s.MinimumTabTravelDistance > 1
}
