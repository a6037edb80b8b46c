// Package config loads the domedit YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level domedit configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Browser BrowserConfig `yaml:"browser"`
	Editor  EditorConfig  `yaml:"editor"`
	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
}

// HTTPConfig controls the command API server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is a DevTools websocket URL; empty launches a local Chrome.
	Remote string `yaml:"remote"`
	// Stealth is "headless" or "headful".
	Stealth string `yaml:"stealth"`
	// ResourceBlocking lists resource classes to block: images, fonts,
	// media, stylesheets.
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// EditorConfig controls editor behaviour and broadcast sinks.
type EditorConfig struct {
	// Theme is "dark" or "light".
	Theme string       `yaml:"theme"`
	Sinks []SinkConfig `yaml:"sinks"`
}

// SinkConfig defines one broadcast backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// StorageConfig holds database paths.
type StorageConfig struct {
	LayoutDB string `yaml:"layout_db"`
	AuditDB  string `yaml:"audit_db"`
}

// LLMConfig controls the strategy planner. The API key comes from the
// environment, never from the file.
type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// LoadFile reads a YAML configuration file and applies defaults. An
// empty path returns the defaults.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8086"
	}
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "headless"
	}
	if c.Editor.Theme == "" {
		c.Editor.Theme = "dark"
	}
	if len(c.Editor.Sinks) == 0 {
		c.Editor.Sinks = []SinkConfig{{Type: "stdout"}}
	}
	if c.Storage.LayoutDB == "" {
		c.Storage.LayoutDB = "db/layouts.db"
	}
	if c.Storage.AuditDB == "" {
		c.Storage.AuditDB = "db/audit.db"
	}
}

func (c *Config) validate() error {
	switch c.Browser.Stealth {
	case "headless", "headful":
	default:
		return fmt.Errorf("config: browser.stealth %q is not headless or headful", c.Browser.Stealth)
	}
	switch c.Editor.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("config: editor.theme %q is not dark or light", c.Editor.Theme)
	}
	for i, s := range c.Editor.Sinks {
		switch s.Type {
		case "stdout":
		case "webhook":
			if s.URL == "" {
				return fmt.Errorf("config: editor.sinks[%d]: webhook requires a url", i)
			}
		default:
			return fmt.Errorf("config: editor.sinks[%d]: unknown type %q", i, s.Type)
		}
	}
	return nil
}
