package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Library  LibraryConfig  `json:"library"`
	Viewport ViewportConfig `json:"viewport"`
	Redact   RedactConfig   `json:"redact"`
	Catalog  CatalogConfig  `json:"catalog"`
}

// LibraryConfig describes the on-disk layout of the trail map library
type LibraryConfig struct {
	Root       string `json:"root"`
	VocabCache string `json:"vocab_cache"`
}

// ViewportConfig holds the editing view limits
type ViewportConfig struct {
	MinZoom    float64 `json:"min_zoom"`
	MaxZoom    float64 `json:"max_zoom"`
	MinBoxSize int     `json:"min_box_size"`
}

// RedactConfig holds output options for redacted images
type RedactConfig struct {
	FillColor string `json:"fill_color"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
}

// CatalogConfig holds configuration for the consolidated index
type CatalogConfig struct {
	IndexFile string `json:"index_file"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Root:       "./library",
			VocabCache: "vocab.yaml",
		},
		Viewport: ViewportConfig{
			MinZoom:    0.1,
			MaxZoom:    8.0,
			MinBoxSize: 5,
		},
		Redact: RedactConfig{
			FillColor: "#000000",
			Quality:   90,
			Lossless:  false,
		},
		Catalog: CatalogConfig{
			IndexFile: "catalog.json",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Library.Root == "" {
		return fmt.Errorf("library.root cannot be empty")
	}

	if c.Viewport.MinZoom <= 0 {
		return fmt.Errorf("viewport.min_zoom must be positive")
	}

	if c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return fmt.Errorf("viewport.max_zoom must be >= viewport.min_zoom")
	}

	if c.Viewport.MinBoxSize < 1 {
		return fmt.Errorf("viewport.min_box_size must be positive")
	}

	if c.Redact.Quality < 1 || c.Redact.Quality > 100 {
		return fmt.Errorf("redact.quality must be between 1 and 100")
	}

	if len(c.Redact.FillColor) != 7 || c.Redact.FillColor[0] != '#' {
		return fmt.Errorf("redact.fill_color must be a #rrggbb value")
	}

	if c.Catalog.IndexFile == "" {
		return fmt.Errorf("catalog.index_file cannot be empty")
	}

	return nil
}

// ParseFillColor parses the configured #rrggbb fill color.
func (c *Config) ParseFillColor() (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(c.Redact.FillColor, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid redact.fill_color %q: %w", c.Redact.FillColor, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "trailmask", "config.json")
}
