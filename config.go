package remotegl

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/events"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
	"github.com/gekko3d/remotegl/webrt/rt/placeholder"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// Duration reads "250ms" style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ChannelConfig struct {
	URL             string   `toml:"url"`
	ResponseTimeout Duration `toml:"response_timeout"`
	InitTimeout     Duration `toml:"init_timeout"`
	DialTimeout     Duration `toml:"dial_timeout"`
}

type ResourcesConfig struct {
	ReservedIDs uint32 `toml:"reserved_ids"`
}

type EventsConfig struct {
	QueueSize int `toml:"queue_size"`
	// DrainMax caps the tasks run per tick; 0 drains what is queued.
	DrainMax int `toml:"drain_max"`
}

type XRConfig struct {
	TargetFPS         int    `toml:"target_fps"`
	DefaultHandedness string `toml:"default_handedness"`
}

type PlaceholderName struct {
	Name      string `toml:"name"`
	ID        string `toml:"id"`
	Multiview bool   `toml:"multiview"`
}

type PlaceholderConfig struct {
	Names []PlaceholderName `toml:"names"`
}

type LogConfig struct {
	Debug  bool   `toml:"debug"`
	Zap    bool   `toml:"zap"`
	Prefix string `toml:"prefix"`
}

type MetricsConfig struct {
	Namespace string `toml:"namespace"`
	Listen    string `toml:"listen"`
}

// Config is the runtime configuration file.
type Config struct {
	Channel     ChannelConfig     `toml:"channel"`
	Resources   ResourcesConfig   `toml:"resources"`
	Events      EventsConfig      `toml:"events"`
	XR          XRConfig          `toml:"xr"`
	Placeholder PlaceholderConfig `toml:"placeholder"`
	Log         LogConfig         `toml:"log"`
	Metrics     MetricsConfig     `toml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		Channel: ChannelConfig{
			URL:             "ws://127.0.0.1:7480/rt",
			ResponseTimeout: Duration{channel.DefaultResponseTimeout},
			InitTimeout:     Duration{channel.DefaultInitTimeout},
			DialTimeout:     Duration{10 * time.Second},
		},
		Resources: ResourcesConfig{ReservedIDs: handle.DefaultReservedIDs},
		Events:    EventsConfig{QueueSize: events.DefaultQueueSize},
		XR:        XRConfig{TargetFPS: 45, DefaultHandedness: "right"},
		Log:       LogConfig{Prefix: "remotegl"},
		Metrics:   MetricsConfig{Namespace: "remotegl", Listen: ":9464"},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg, creating the directory if needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// DefaultConfigPath is remotegl/config.toml under the user config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "remotegl", configFile)
}

func (c Config) Validate() error {
	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("events.queue_size must be positive, got %d", c.Events.QueueSize)
	}
	if c.XR.TargetFPS <= 0 {
		return fmt.Errorf("xr.target_fps must be positive, got %d", c.XR.TargetFPS)
	}
	if _, err := placeholder.ParseHandedness(c.XR.DefaultHandedness); err != nil {
		return fmt.Errorf("xr.default_handedness: %w", err)
	}
	for _, n := range c.Placeholder.Names {
		if _, err := placeholder.ParseID(n.ID); err != nil {
			return fmt.Errorf("placeholder %q: %w", n.Name, err)
		}
	}
	return nil
}

// NameTable returns the default uniform names extended with the configured
// ones.
func (c Config) NameTable() (*placeholder.NameTable, error) {
	t := placeholder.NewDefaultNameTable()
	for _, n := range c.Placeholder.Names {
		id, err := placeholder.ParseID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("placeholder %q: %w", n.Name, err)
		}
		t.Add(placeholder.Entry{Name: n.Name, ID: id, Multiview: n.Multiview})
	}
	return t, nil
}
