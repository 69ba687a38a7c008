package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const configFile = ".sheet/config.json"

// Config is the declarative sheet setup stored on disk. A key present in
// Attributes means the attribute is present; its value is kept verbatim.
type Config struct {
	Title      string            `json:"title,omitempty"`
	Content    string            `json:"content,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Path returns the config path under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Load reads the config from baseDir
func Load(baseDir string) (*Config, error) {
	return LoadFile(Path(baseDir))
}

// LoadFile reads the config at path. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Attributes: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Attributes == nil {
		cfg.Attributes = map[string]string{}
	}
	return &cfg, nil
}

// Save writes the config to baseDir
func Save(baseDir string, cfg *Config) error {
	return SaveFile(Path(baseDir), cfg)
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ContentPath resolves Content relative to the directory holding the
// config file. It returns "" when no content is configured.
func (c *Config) ContentPath(configPath string) string {
	if c.Content == "" {
		return ""
	}
	if filepath.IsAbs(c.Content) {
		return c.Content
	}
	dir := filepath.Dir(configPath)
	// .sheet/config.json resolves against the project dir
	if filepath.Base(dir) == filepath.Dir(configFile) {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, c.Content)
}

// ReadContent returns the markdown the config points at, or "" when none
// is configured.
func (c *Config) ReadContent(configPath string) (string, error) {
	p := c.ContentPath(configPath)
	if p == "" {
		return "", nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

// AttributeChange is one attribute added, changed (Value non-nil) or
// removed (Value nil).
type AttributeChange struct {
	Name  string
	Value *string
}

// Removed reports whether the change removes the attribute.
func (c AttributeChange) Removed() bool { return c.Value == nil }

// Diff returns the changes that turn before into after. Changes are sorted
// by name, except that "open" always comes last so option attributes are
// in place before the sheet moves.
func Diff(before, after map[string]string) []AttributeChange {
	var changes []AttributeChange
	for name, v := range after {
		if old, ok := before[name]; ok && old == v {
			continue
		}
		v := v
		changes = append(changes, AttributeChange{Name: name, Value: &v})
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changes = append(changes, AttributeChange{Name: name})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i].Name, changes[j].Name
		if (a == "open") != (b == "open") {
			return b == "open"
		}
		return a < b
	})
	return changes
}
