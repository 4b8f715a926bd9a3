// Package config persists application settings and named LED layouts as a
// JSON document in the user's config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/asutherland/sysex-mapatron/internal/fire"
)

// CellColor is one pad's staged color. Values above 0x7F are clamped when
// the layout is applied to a frame.
type CellColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Layout is a named full-grid color set that can be painted instead of the
// default color cube.
type Layout struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Cells [fire.NumPads]CellColor `json:"cells"`
}

// NewLayout creates an all-off layout with a generated ID.
func NewLayout(name string) Layout {
	return Layout{
		ID:   uuid.New().String(),
		Name: name,
	}
}

// LEDSetter is the part of a frame or controller that Apply needs.
type LEDSetter interface {
	SetLED(index int, r, g, b uint8) error
}

// Apply stages the layout's colors into a frame or controller.
func (l *Layout) Apply(dst LEDSetter) {
	for i, c := range l.Cells {
		dst.SetLED(i, c.R, c.G, c.B)
	}
}

// Config holds application configuration.
type Config struct {
	// PortPrefix selects which input ports count as controllers. Case
	// sensitive, matched against the advertised port name.
	PortPrefix string `json:"port_prefix"`
	// EventBuffer is the per-device event channel capacity.
	EventBuffer int      `json:"event_buffer"`
	Layouts     []Layout `json:"layouts"`
	// MapFiles lists sysex descriptor documents to validate at startup.
	MapFiles []string `json:"map_files,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		PortPrefix:  fire.DefaultPortPrefix,
		EventBuffer: fire.DefaultEventBuffer,
		Layouts:     []Layout{},
	}
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sysex-mapatron"), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, returning defaults if no file exists.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.PortPrefix == "" {
		cfg.PortPrefix = fire.DefaultPortPrefix
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = fire.DefaultEventBuffer
	}
	if cfg.Layouts == nil {
		cfg.Layouts = []Layout{}
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetLayout returns a layout by name, or nil if not found.
func (c *Config) GetLayout(name string) *Layout {
	for i := range c.Layouts {
		if c.Layouts[i].Name == name {
			return &c.Layouts[i]
		}
	}
	return nil
}

// AddLayout adds a layout, replacing any existing layout with the same name.
func (c *Config) AddLayout(layout Layout) {
	for i := range c.Layouts {
		if c.Layouts[i].Name == layout.Name {
			c.Layouts[i] = layout
			return
		}
	}
	c.Layouts = append(c.Layouts, layout)
}
