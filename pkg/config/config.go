// Package config provides configuration loading and management for camsweep.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Correlation parameters
	Correlation struct {
		// Margin is the number of samples trimmed from each edge of the
		// current frame to form the correlation template
		Margin int `yaml:"margin"`

		// UseFFT selects the FFT-backed correlation path instead of the
		// direct sliding-window sum
		UseFFT bool `yaml:"useFFT"`
	} `yaml:"correlation"`

	// Classifier heuristic parameters
	Classifier struct {
		// ScanRegion bounds the square region of each correlation frame
		// scanned for the peak
		ScanRegion int `yaml:"scanRegion"`

		// PeakStride is the step between candidate block corners in the
		// coarse peak scan
		PeakStride int `yaml:"peakStride"`

		// PeakWindow is the side length of the summed block at each
		// candidate corner
		PeakWindow int `yaml:"peakWindow"`

		// TurnThreshold is the Euclidean peak-jump distance above which
		// a jump counts as a turn
		TurnThreshold float64 `yaml:"turnThreshold"`
	} `yaml:"classifier"`

	// Processing parameters
	Processing struct {
		// NumWorkers bounds how many frame pairs are correlated at once
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default correlation parameters
	cfg.Correlation.Margin = 25
	cfg.Correlation.UseFFT = false

	// Set default classifier parameters
	cfg.Classifier.ScanRegion = 50
	cfg.Classifier.PeakStride = 4
	cfg.Classifier.PeakWindow = 2
	cfg.Classifier.TurnThreshold = 20.0

	// Set default processing parameters
	cfg.Processing.NumWorkers = runtime.NumCPU() // Use all available cores by default

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
