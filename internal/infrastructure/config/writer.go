package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# loregraph configuration

input: data/lore.yaml

output:
  path: docs/index.html
  format: html # json, gml or html

server:
  host: 127.0.0.1 # or set LOREGRAPH_HOST
  port: 8080 # or set LOREGRAPH_PORT
  watch: false

graph:
  directed: true
  humanize_labels: true
  image_shape: circularImage
  # categories:
  #   character: {color: "#FF0000", shape: dot, size: 25, image_size: 60}
  #   faction: {color: "#FFD700", shape: diamond, size: 25}
  # relationships:
  #   Family: {color: "#00BFFF", width: 3}
  # layout:
  #   gravity: -15000
  #   background: "#1a1a1a"
`

// SampleDataYAML is the starter record file written by init.
const SampleDataYAML = `title: Fang Family
entities:
  - id: Halandil_Fang
    label: Halandil Fang
    category: character
    group: Fang Family
    attributes:
      Race: Orc
      Class: Bard
  - id: Shadia_Fang
    label: Shadia Fang
    category: character
    group: Fang Family
  - id: Thimble
    label: Thimble
    category: character
    group: Crow Keepers
    description: A pixie and old friend of the family.
  - id: Sundered_Houses
    label: Sundered Houses
    category: faction
relationships:
  - source: Halandil_Fang
    target: Shadia_Fang
    type: Family
  - source: Thimble
    target: Halandil_Fang
    type: Ally
    directed: false
  - source: Halandil_Fang
    target: Sundered_Houses
    type: member_of
`

// WriteDefault creates the .loregraph directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteSampleData writes the starter record file to path, relative to
// basePath. An existing file is left untouched and reported as false.
func WriteSampleData(basePath, path string) (bool, error) {
	target := filepath.Join(basePath, path)
	if _, err := os.Stat(target); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(SampleDataYAML), 0644); err != nil {
		return false, fmt.Errorf("writing sample data: %w", err)
	}
	return true, nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
