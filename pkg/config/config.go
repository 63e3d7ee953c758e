// Package config provides configuration management for the nbconv CLI tool
package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/Davincible/nbconv/pkg/curves"
)

// Config represents the main configuration structure
type Config struct {
	Version   string          `json:"version"`
	Defaults  DefaultSettings `json:"defaults"`
	Generator GeneratorConfig `json:"generator"`
	Fields    []FieldConfig   `json:"fields"`
	UI        UIConfig        `json:"ui"`
}

// DefaultSettings contains default values for conversions
type DefaultSettings struct {
	Field       string `json:"field"`        // Default: sect409
	ReverseBits bool   `json:"reverse_bits"` // MSB-first normal basis layout
	Format      string `json:"format"`       // hex or dec
	Workers     int    `json:"workers"`      // Batch point conversion parallelism
}

// GeneratorConfig controls the normal-basis generator search
type GeneratorConfig struct {
	MaxAttempts int `json:"max_attempts"`
}

// FieldConfig is a user-defined binary field. Polynomial and Root are hex.
type FieldConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Polynomial  string `json:"polynomial"`
	Root        string `json:"root,omitempty"`
	Seed        string `json:"seed,omitempty"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor  bool   `json:"use_color"`
	Verbosity string `json:"verbosity"` // quiet, normal, verbose
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a configuration manager at the default path,
// writing a default config if none exists yet
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt creates a configuration manager for an explicit path
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{configPath: configPath}

	if err := cm.LoadConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cm.config = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return cm, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Field:       "sect409",
			ReverseBits: false,
			Format:      "hex",
			Workers:     4,
		},
		Generator: GeneratorConfig{
			MaxAttempts: basis.DefaultAttempts,
		},
		Fields: []FieldConfig{},
		UI: UIConfig{
			UseColor:  true,
			Verbosity: "normal",
		},
	}
}

// Path returns the config file location
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// LoadConfig loads the configuration from disk
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig updates the configuration
func (cm *ConfigManager) SetConfig(config *Config) {
	cm.config = config
}

// AddField adds or replaces a user-defined field and saves the config
func (cm *ConfigManager) AddField(fc FieldConfig) error {
	if _, err := fc.Field(); err != nil {
		return err
	}

	for i, existing := range cm.config.Fields {
		if strings.EqualFold(existing.Name, fc.Name) {
			cm.config.Fields[i] = fc
			return cm.SaveConfig()
		}
	}
	cm.config.Fields = append(cm.config.Fields, fc)
	return cm.SaveConfig()
}

// RemoveField removes a user-defined field and saves the config
func (cm *ConfigManager) RemoveField(name string) error {
	for i, existing := range cm.config.Fields {
		if strings.EqualFold(existing.Name, name) {
			cm.config.Fields = append(cm.config.Fields[:i], cm.config.Fields[i+1:]...)
			return cm.SaveConfig()
		}
	}
	return fmt.Errorf("field '%s' not found", name)
}

// Validate checks settings that would otherwise fail later at use
func (c *Config) Validate() error {
	switch c.Defaults.Format {
	case "hex", "dec":
	default:
		return fmt.Errorf("format must be hex or dec, got %q", c.Defaults.Format)
	}

	if c.Defaults.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.Generator.MaxAttempts < 0 {
		return fmt.Errorf("generator max_attempts cannot be negative")
	}

	for i, fc := range c.Fields {
		if _, err := fc.Field(); err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	return nil
}

// Field parses the hex parameters into a curves.Field
func (fc FieldConfig) Field() (curves.Field, error) {
	poly, err := parseHex(fc.Polynomial)
	if err != nil {
		return curves.Field{}, fmt.Errorf("field %s: polynomial: %w", fc.Name, err)
	}

	f := curves.Field{
		Name:        fc.Name,
		Description: fc.Description,
		Polynomial:  poly,
		Seed:        fc.Seed,
	}

	if fc.Root != "" {
		root, err := parseHex(fc.Root)
		if err != nil {
			return curves.Field{}, fmt.Errorf("field %s: root: %w", fc.Name, err)
		}
		f.Root = root
	}

	if err := f.Validate(); err != nil {
		return curves.Field{}, err
	}
	return f, nil
}

// NewRegistry builds a field registry from the configuration: builtin
// fields plus every configured field, with the default conversion options
func (c *Config) NewRegistry(reverseBits bool) (*curves.Registry, error) {
	reg := curves.NewRegistry(basis.Options{ReverseBits: reverseBits})
	if c.Generator.MaxAttempts > 0 {
		reg.SetAttempts(c.Generator.MaxAttempts)
	}

	for _, fc := range c.Fields {
		f, err := fc.Field()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(f); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func parseHex(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("value cannot be empty")
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex value %q", s)
	}
	return n, nil
}

// DefaultPath returns the configuration file path: $NBCONV_CONFIG, then the
// XDG config dir, then ~/.config
func DefaultPath() (string, error) {
	if customPath := os.Getenv("NBCONV_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nbconv", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "nbconv", "config.json"), nil
}
