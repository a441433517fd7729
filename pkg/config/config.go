// Package config provides configuration loading and management for
// geobiotool. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/therekim/GeoBioTool/pkg/canopy"
	"github.com/therekim/GeoBioTool/pkg/grid"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Grid parameters
	Grid struct {
		// Size is the cell edge length in the units of the input
		// coordinates (meters for projected data).
		Size float64 `yaml:"size"`

		// MinCellPoints is the occupancy threshold below which a cell is
		// dropped from every output.
		MinCellPoints int `yaml:"minCellPoints"`

		// WholeExtent treats the whole cloud as a single cell.
		WholeExtent bool `yaml:"wholeExtent"`
	} `yaml:"grid"`

	// Canopy layering parameters for LAI/VCI
	Canopy struct {
		// GroundThreshold is z0, the lowest height considered canopy.
		GroundThreshold float64 `yaml:"groundThreshold"`

		// LayerThickness is dz, the height of each canopy layer.
		LayerThickness float64 `yaml:"layerThickness"`
	} `yaml:"canopy"`

	// Diversity parameters for the raster tools
	Diversity struct {
		// Classes optionally restricts the analysis to a class selection
		// such as "1,3-5,9"; empty means the default validity window.
		Classes string `yaml:"classes"`
	} `yaml:"diversity"`

	// Output parameters
	Output struct {
		// Verbose controls progress logging on stdout.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Grid.Size = 20
	cfg.Grid.MinCellPoints = grid.DefaultMinCellPoints
	cfg.Grid.WholeExtent = false

	cfg.Canopy.GroundThreshold = canopy.DefaultGroundThreshold
	cfg.Canopy.LayerThickness = canopy.DefaultLayerThickness

	cfg.Diversity.Classes = ""

	cfg.Output.Verbose = true

	return cfg
}

// Load loads configuration from a YAML file. If the file doesn't exist, it
// returns the default configuration.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultFile creates a default configuration file at the specified
// path.
func CreateDefaultFile(configPath string) error {
	return Save(Default(), configPath)
}
