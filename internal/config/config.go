package config

import (
	"encoding/json"
	"os"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"gopkg.in/yaml.v3"
)

type ConfigImpl struct{}

// LoadConfig reads a run config (weights, updates, modulus) from JSON.
func (c *ConfigImpl) LoadConfig(path string) (types.ConfigRun, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.ConfigRun{}, err
	}
	defer file.Close()
	var cfg types.ConfigRun
	err = json.NewDecoder(file).Decode(&cfg)
	return cfg, err
}

// LoadYAML reads the full application config from YAML.
func (c *ConfigImpl) LoadYAML(path string) (YAMLConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return YAMLConfig{}, err
	}
	defer file.Close()
	var cfg YAMLConfig
	err = yaml.NewDecoder(file).Decode(&cfg)
	return cfg, err
}
