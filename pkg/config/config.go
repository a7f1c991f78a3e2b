// Package config provides configuration loading and management for mriview.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"mriview/pkg/gabor"
	"mriview/pkg/interpolation"
	"mriview/pkg/resample"
	"mriview/pkg/visualization"
	"mriview/pkg/volumeio"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Resampling parameters
	Resample struct {
		// Spacing is the target voxel spacing along x, y and z in mm
		Spacing []float64 `yaml:"spacing"`

		// Interpolator is one of Neighbor, BSpline or Linear. Unknown names
		// resample with Linear.
		Interpolator string `yaml:"interpolator"`

		// DefaultValue fills voxels that fall outside the input grid
		DefaultValue float64 `yaml:"defaultValue"`

		// PixelIDDefault fills outside voxels with the pixel type identifier instead
		PixelIDDefault bool `yaml:"pixelIDDefault"`
	} `yaml:"resample"`

	// Display parameters for slice figures
	Display struct {
		Margin float64 `yaml:"margin"`
		DPI    int     `yaml:"dpi"`

		// MinSide is the smallest figure side in inches, 0 for exact sizing
		MinSide float64 `yaml:"minSide"`
	} `yaml:"display"`

	// Gabor kernel and plot parameters
	Gabor struct {
		Size      int     `yaml:"size"`
		Sigma     float64 `yaml:"sigma"`
		Frequency float64 `yaml:"frequency"`
		Theta     float64 `yaml:"theta"`
		Phi       float64 `yaml:"phi"`
		Threshold float64 `yaml:"threshold"`
		Elevation float64 `yaml:"elevation"`
		Azimuth   float64 `yaml:"azimuth"`
	} `yaml:"gabor"`

	// Input parameters for slice directories
	Input struct {
		// SliceGap represents the physical distance between consecutive slices in mm
		SliceGap float64 `yaml:"sliceGap"`

		// PixelSpacing is the in-plane spacing of slice images in mm
		PixelSpacing float64 `yaml:"pixelSpacing"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Dir is where figures and slice sequences are written
		Dir string `yaml:"dir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Resample.Spacing = []float64{1, 1, 1}
	cfg.Resample.Interpolator = interpolation.NearestNeighbor.String()
	cfg.Resample.DefaultValue = 0
	cfg.Resample.PixelIDDefault = false

	show := visualization.DefaultShowOptions()
	cfg.Display.Margin = show.Margin
	cfg.Display.DPI = show.DPI
	cfg.Display.MinSide = float64(show.MinSide / vg.Inch)

	kernel := gabor.DefaultParams()
	plot := gabor.DefaultPlotOptions()
	cfg.Gabor.Size = kernel.Size
	cfg.Gabor.Sigma = kernel.Sigma
	cfg.Gabor.Frequency = kernel.Frequency
	cfg.Gabor.Theta = kernel.Theta
	cfg.Gabor.Phi = kernel.Phi
	cfg.Gabor.Threshold = plot.Threshold
	cfg.Gabor.Elevation = plot.Elevation
	cfg.Gabor.Azimuth = plot.Azimuth

	cfg.Input.SliceGap = 1.0
	cfg.Input.PixelSpacing = 1.0

	cfg.Output.Dir = "output"
	cfg.Output.Verbose = false

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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
// The interpolator name is not checked: unknown names fall back to the default.
func (c *Config) Validate() error {
	if len(c.Resample.Spacing) != 3 {
		return fmt.Errorf("resample.spacing must have 3 values, got %d", len(c.Resample.Spacing))
	}
	if c.Display.DPI <= 0 {
		return fmt.Errorf("display.dpi must be positive, got %d", c.Display.DPI)
	}
	if c.Display.Margin < 0 || c.Display.Margin >= 0.5 {
		return fmt.Errorf("display.margin must be in [0, 0.5), got %v", c.Display.Margin)
	}
	if c.Display.MinSide < 0 {
		return fmt.Errorf("display.minSide must not be negative, got %v", c.Display.MinSide)
	}
	if c.Gabor.Size <= 0 {
		return fmt.Errorf("gabor.size must be positive, got %d", c.Gabor.Size)
	}
	return nil
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

// ResampleParams builds resampler parameters. An unknown interpolator name
// leaves the default in place, and ok reports whether the name was recognised.
func (c *Config) ResampleParams() (params *resample.Params, ok bool) {
	params = resample.DefaultParams()
	copy(params.Spacing[:], c.Resample.Spacing)
	params.DefaultValue = c.Resample.DefaultValue
	params.Interpolator, ok = interpolation.ParseInterpolator(c.Resample.Interpolator)
	return params, ok
}

// ShowOptions builds slice renderer options with the given title.
func (c *Config) ShowOptions(title string) *visualization.ShowOptions {
	return &visualization.ShowOptions{
		Title:   title,
		Margin:  c.Display.Margin,
		DPI:     c.Display.DPI,
		MinSide: vg.Length(c.Display.MinSide) * vg.Inch,
	}
}

// KernelParams builds the Gabor kernel generator parameters.
func (c *Config) KernelParams() *gabor.Params {
	return &gabor.Params{
		Size:      c.Gabor.Size,
		Sigma:     c.Gabor.Sigma,
		Frequency: c.Gabor.Frequency,
		Theta:     c.Gabor.Theta,
		Phi:       c.Gabor.Phi,
	}
}

// PlotOptions builds the Gabor plot options.
func (c *Config) PlotOptions() *gabor.PlotOptions {
	opts := gabor.DefaultPlotOptions()
	opts.Threshold = c.Gabor.Threshold
	opts.Elevation = c.Gabor.Elevation
	opts.Azimuth = c.Gabor.Azimuth
	return opts
}

// SliceOptions builds the slice directory loader options.
func (c *Config) SliceOptions() *volumeio.SliceOptions {
	return &volumeio.SliceOptions{SliceGap: c.Input.SliceGap, PixelSpacing: c.Input.PixelSpacing}
}
