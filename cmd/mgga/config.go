package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// settings holds everything the table loader and the strategies share.
// Values come from an optional YAML config file, with explicitly set flags
// taking precedence field by field.
type settings struct {
	Input         string   `yaml:"input"`
	Domains       string   `yaml:"domains"`
	Delim         string   `yaml:"delim"`
	Types         []string `yaml:"types"`
	Weights       []string `yaml:"weights"`
	Sensitivities []string `yaml:"sensitivities"`
	Metric        string   `yaml:"metric"`
	K             int      `yaml:"k"`
	Seed          int64    `yaml:"seed"`
	NoCache       bool     `yaml:"no-cache"`
}

// defaultSettings mirrors the flag defaults.
func defaultSettings() settings {
	return settings{Metric: "md", K: 2}
}

// loadSettings reads a YAML config file. An empty path yields the defaults.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
