// Package yaml provides YAML-based configuration parsing.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// yamlConfig represents the raw YAML structure
type yamlConfig struct {
	DebugDirectories []string `yaml:"debug_directories"`
	SymbolPath       []string `yaml:"symbol_path"`
	Architecture     string   `yaml:"architecture"`
	Keyring          string   `yaml:"keyring"`
}

// ConfigParser parses YAML configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML config parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML configuration file into a Config entity
func (p *ConfigParser) ParseFile(filePath string) (entities.Config, error) {
	//nolint:gosec // G304: filePath is the user's configuration file path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return entities.Config{}, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Config entity. Omitted fields keep the
// conventional defaults.
func (p *ConfigParser) Parse(data []byte) (entities.Config, error) {
	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return entities.Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := entities.DefaultConfig()
	if len(yamlCfg.DebugDirectories) > 0 {
		cfg.DebugDirectories = yamlCfg.DebugDirectories
	}
	cfg.SymbolPath = yamlCfg.SymbolPath
	cfg.Architecture = yamlCfg.Architecture
	cfg.KeyringPath = yamlCfg.Keyring
	return cfg, nil
}
